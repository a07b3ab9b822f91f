package db

// Schema is the full lead store DDL. Every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS lead_campaigns (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL,
	instance_id  TEXT,
	name         TEXT NOT NULL,
	keywords     TEXT[] NOT NULL DEFAULT '{}',
	sources      TEXT[] NOT NULL DEFAULT '{}',
	location     TEXT,
	radius_km    INTEGER,
	status       TEXT NOT NULL DEFAULT 'pending'
	             CHECK (status IN ('pending', 'running', 'paused', 'completed')),
	total_leads  INTEGER NOT NULL DEFAULT 0,
	unique_leads INTEGER NOT NULL DEFAULT 0,
	metadata     JSONB NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at   TIMESTAMPTZ,
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS leads (
	id               UUID PRIMARY KEY,
	user_id          UUID NOT NULL,
	campaign_id      UUID NOT NULL REFERENCES lead_campaigns(id) ON DELETE CASCADE,
	phone            TEXT NOT NULL,
	name             TEXT NOT NULL DEFAULT '',
	business_name    TEXT NOT NULL DEFAULT '',
	bio              TEXT NOT NULL DEFAULT '',
	source           TEXT NOT NULL DEFAULT '',
	source_url       TEXT NOT NULL DEFAULT '',
	source_metadata  JSONB NOT NULL DEFAULT '{}',
	relevance_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	matched_keywords TEXT[] NOT NULL DEFAULT '{}',
	status           TEXT NOT NULL DEFAULT 'new'
	                 CHECK (status IN ('new', 'contacted', 'replied', 'converted', 'discarded')),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (campaign_id, phone)
);

-- Tables created before the status check existed get it here.
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'leads_status_check') THEN
		ALTER TABLE leads ADD CONSTRAINT leads_status_check
			CHECK (status IN ('new', 'contacted', 'replied', 'converted', 'discarded'));
	END IF;
END $$;

CREATE TABLE IF NOT EXISTS scheduled_messages (
	id             UUID PRIMARY KEY,
	user_id        UUID NOT NULL,
	campaign_id    UUID REFERENCES lead_campaigns(id) ON DELETE SET NULL,
	instance_id    TEXT NOT NULL,
	name           TEXT NOT NULL,
	scheduled_at   TIMESTAMPTZ NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending'
	               CHECK (status IN ('pending', 'cancelled', 'sent')),
	selected_types TEXT[] NOT NULL,
	messages       JSONB NOT NULL,
	media_url      TEXT,
	delay_min      INTEGER NOT NULL,
	delay_max      INTEGER NOT NULL,
	total_leads    INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS send_campaigns (
	id             UUID PRIMARY KEY,
	user_id        UUID NOT NULL,
	instance_id    TEXT NOT NULL,
	name           TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'queued',
	total_contacts INTEGER NOT NULL,
	delay_min      INTEGER NOT NULL,
	delay_max      INTEGER NOT NULL,
	media_url      TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS send_campaign_contacts (
	id               UUID PRIMARY KEY,
	send_campaign_id UUID NOT NULL REFERENCES send_campaigns(id) ON DELETE CASCADE,
	lead_id          UUID,
	phone            TEXT NOT NULL,
	name             TEXT NOT NULL DEFAULT '',
	message          TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_lead_campaigns_user_created ON lead_campaigns(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_leads_campaign_score ON leads(campaign_id, relevance_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_user ON leads(user_id);
CREATE INDEX IF NOT EXISTS idx_scheduled_messages_user_at ON scheduled_messages(user_id, scheduled_at);
CREATE INDEX IF NOT EXISTS idx_scheduled_messages_due ON scheduled_messages(scheduled_at) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_send_contacts_campaign ON send_campaign_contacts(send_campaign_id);
`
