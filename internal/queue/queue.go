// Package queue carries bulk send requests to the messaging worker over a broker.
package queue

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/model"
)

// Queue interface
type Queue interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPQueue publishes JSON messages to durable RabbitMQ queues.
type AMQPQueue struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       amqpChannel
	declared map[string]bool
}

// DialAMQP connects to the broker and opens a channel.
func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, eris.Wrap(err, "queue: dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, eris.Wrap(err, "queue: open channel")
	}
	q := newAMQPQueue(ch)
	q.conn = conn
	return q, nil
}

func newAMQPQueue(ch amqpChannel) *AMQPQueue {
	return &AMQPQueue{ch: ch, declared: make(map[string]bool)}
}

// Publish declares the queue on first use and sends payload as a persistent JSON message.
func (q *AMQPQueue) Publish(ctx context.Context, topic string, payload any) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "queue: publish")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "queue: marshal payload")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.declared[topic] {
		if _, err := q.ch.QueueDeclare(
			topic,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return eris.Wrapf(err, "queue: declare %s", topic)
		}
		q.declared[topic] = true
	}

	err = q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return eris.Wrapf(err, "queue: publish to %s", topic)
	}

	zap.L().Debug("queue: published", zap.String("topic", topic), zap.Int("bytes", len(body)))
	return nil
}

// Close releases the channel and connection.
func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	err := q.ch.Close()
	if q.conn != nil {
		if cerr := q.conn.Close(); err == nil {
			err = cerr
		}
	}
	return eris.Wrap(err, "queue: close")
}

// InMemoryQueue hands payloads straight to subscribers. Used in tests and local runs.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// Publish delivers payload to every subscriber of topic synchronously. No retries.
func (q *InMemoryQueue) Publish(ctx context.Context, topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return eris.Errorf("queue: no subscribers for topic %s", topic)
	}
	for _, handler := range handlers {
		if err := handler(payload); err != nil {
			return eris.Wrapf(err, "queue: handle %s", topic)
		}
	}
	return nil
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
}

// Sender publishes bulk send requests to one queue. It satisfies client.Sender.
type Sender struct {
	Queue Queue
	Topic string
}

func (s *Sender) SendBulk(ctx context.Context, req model.BulkSendRequest) error {
	if err := s.Queue.Publish(ctx, s.Topic, req); err != nil {
		return eris.Wrap(err, "sender: enqueue bulk send")
	}
	return nil
}

// NewLogSender returns a Sender backed by an InMemoryQueue whose only
// subscriber logs each bulk send. Nothing is delivered.
func NewLogSender(topic string) *Sender {
	q := NewInMemoryQueue()
	q.Subscribe(topic, func(payload any) error {
		req, ok := payload.(model.BulkSendRequest)
		if !ok {
			return eris.Errorf("queue: unexpected payload %T", payload)
		}
		zap.L().Info("sender: bulk send (memory transport)",
			zap.String("campaign_id", req.CampaignID),
			zap.String("instance_id", req.InstanceID),
			zap.Int("contacts", len(req.Contacts)),
		)
		return nil
	})
	return &Sender{Queue: q, Topic: topic}
}

var (
	_ Queue = (*AMQPQueue)(nil)
	_ Queue = (*InMemoryQueue)(nil)
)
