package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeChannel struct {
	declared   []string
	durable    []bool
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	f.durable = append(f.durable, durable)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPQueue_Publish(t *testing.T) {
	ch := &fakeChannel{}
	q := newAMQPQueue(ch)

	require.NoError(t, q.Publish(context.Background(), "whatsapp_sends", map[string]string{"action": "bulk"}))
	require.NoError(t, q.Publish(context.Background(), "whatsapp_sends", map[string]string{"action": "bulk"}))

	assert.Equal(t, []string{"whatsapp_sends"}, ch.declared, "queue declared once")
	assert.Equal(t, []bool{true}, ch.durable)
	require.Len(t, ch.published, 2)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.JSONEq(t, `{"action":"bulk"}`, string(ch.published[0].Body))

	require.NoError(t, q.Close())
	assert.True(t, ch.closed)
}

func TestAMQPQueue_PublishError(t *testing.T) {
	q := newAMQPQueue(&fakeChannel{publishErr: errors.New("channel closed")})

	err := q.Publish(context.Background(), "whatsapp_sends", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestAMQPQueue_CancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	q := newAMQPQueue(ch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, q.Publish(ctx, "whatsapp_sends", "x"))
	assert.Empty(t, ch.published)
}

func TestInMemoryQueue(t *testing.T) {
	q := NewInMemoryQueue()
	require.Error(t, q.Publish(context.Background(), "nobody", 1))

	var got []any
	q.Subscribe("sends", func(payload any) error {
		got = append(got, payload)
		return nil
	})
	require.NoError(t, q.Publish(context.Background(), "sends", 42))
	assert.Equal(t, []any{42}, got)

	q.Subscribe("sends", func(payload any) error { return errors.New("handler failed") })
	assert.Error(t, q.Publish(context.Background(), "sends", 43))
}

func TestSender_SendBulk(t *testing.T) {
	ch := &fakeChannel{}
	s := &Sender{Queue: newAMQPQueue(ch), Topic: "whatsapp_sends"}

	req := model.BulkSendRequest{
		Action:            "bulk",
		CampaignID:        "sc-1",
		InstanceID:        "inst-1",
		UseCustomMessages: true,
		CustomMessages:    map[string]string{"5511": "Oi Ana"},
	}
	require.NoError(t, s.SendBulk(context.Background(), req))

	require.Len(t, ch.published, 1)
	var decoded model.BulkSendRequest
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, req.CampaignID, decoded.CampaignID)
	assert.Equal(t, "Oi Ana", decoded.CustomMessages["5511"])
}

func TestLogSender(t *testing.T) {
	s := NewLogSender("whatsapp_sends")

	err := s.SendBulk(context.Background(), model.BulkSendRequest{CampaignID: "send-1", Contacts: []model.BulkContact{{Phone: "5511"}}})
	require.NoError(t, err)

	err = s.Queue.Publish(context.Background(), "whatsapp_sends", "not a request")
	assert.Error(t, err)
}
