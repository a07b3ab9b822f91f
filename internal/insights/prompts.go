package insights

import "fmt"

// Action selects one of the fixed prompt pairs.
type Action string

const (
	ActionTrends       Action = "trends"
	ActionProducts     Action = "products"
	ActionAudience     Action = "audience"
	ActionContentIdeas Action = "content_ideas"
	ActionCompetitors  Action = "competitors"
)

// DefaultCategory is used when the request does not name one.
const DefaultCategory = "geral"

const systemBase = "Você é um analista de mercado especializado em pequenos negócios e vendas pelo WhatsApp no Brasil. " +
	"Responda SOMENTE com um objeto JSON válido, sem texto antes ou depois."

type prompt struct {
	system string
	user   string // %s is the category
}

var prompts = map[Action]prompt{
	ActionTrends: {
		system: systemBase,
		user: `Liste as 5 principais tendências atuais para a categoria "%s". ` +
			`Formato: {"trends":[{"title":"","description":"","growth":"alta|media|baixa"}]}`,
	},
	ActionProducts: {
		system: systemBase,
		user: `Sugira 5 produtos com alta demanda na categoria "%s". ` +
			`Formato: {"products":[{"name":"","reason":"","price_range":""}]}`,
	},
	ActionAudience: {
		system: systemBase,
		user: `Descreva o público-alvo ideal para a categoria "%s". ` +
			`Formato: {"audience":{"age_range":"","interests":[],"pain_points":[],"channels":[]}}`,
	},
	ActionContentIdeas: {
		system: systemBase,
		user: `Crie 5 ideias de conteúdo para redes sociais na categoria "%s". ` +
			`Formato: {"ideas":[{"title":"","format":"","hook":""}]}`,
	},
	ActionCompetitors: {
		system: systemBase,
		user: `Analise o cenário competitivo da categoria "%s" e aponte oportunidades. ` +
			`Formato: {"competitors":[{"type":"","strengths":[],"weaknesses":[]}],"opportunities":[]}`,
	},
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := prompts[a]
	return ok
}

func (a Action) render(category string) (system, user string) {
	p := prompts[a]
	return p.system, fmt.Sprintf(p.user, category)
}
