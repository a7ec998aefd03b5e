package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// AMQPQueue publishes JSON messages to durable RabbitMQ queues named after
// the topic. Subscribers receive the raw message body ([]byte).
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *zap.Logger

	mu       sync.Mutex
	declared map[string]bool

	closed chan error
}

// DialAMQP connects to the broker at url.
func DialAMQP(url string, log *zap.Logger) (*AMQPQueue, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	q := &AMQPQueue{conn: conn, ch: ch, log: log, declared: make(map[string]bool), closed: make(chan error, 1)}
	go q.watch(conn.NotifyClose(make(chan *amqp.Error, 1)), ch.NotifyClose(make(chan *amqp.Error, 1)))
	return q, nil
}

// watch reports the first connection or channel shutdown on Closed. A clean
// Close reports nothing.
func (q *AMQPQueue) watch(connClosed, chClosed <-chan *amqp.Error) {
	var amqpErr *amqp.Error
	select {
	case amqpErr = <-connClosed:
	case amqpErr = <-chClosed:
	}
	if amqpErr == nil {
		return
	}
	q.log.Error("rabbitmq connection lost", zap.Int("code", amqpErr.Code), zap.String("reason", amqpErr.Reason))
	q.closed <- fmt.Errorf("rabbitmq connection lost: %w", amqpErr)
}

// Closed delivers an error once the broker connection or channel is lost.
// Consumers registered with Subscribe stop receiving at that point.
func (q *AMQPQueue) Closed() <-chan error {
	return q.closed
}

// declare must be called with mu held.
func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

// Publish encodes payload as JSON and sends it to the topic queue.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish(
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
}

// Subscribe consumes the topic queue in a goroutine. A failed delivery is
// requeued once, then dropped.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	err := q.declare(topic)
	var msgs <-chan amqp.Delivery
	if err == nil {
		msgs, err = q.ch.Consume(
			topic,
			"",
			false, // auto-ack
			false,
			false,
			false,
			nil,
		)
	}
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("consume %s: %w", topic, err)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				requeue := !d.Redelivered
				q.log.Warn("delivery failed",
					zap.String("topic", topic),
					zap.Bool("requeue", requeue),
					zap.Error(err))
				_ = d.Nack(false, requeue)
				continue
			}
			_ = d.Ack(false)
		}
		q.log.Info("consumer stopped", zap.String("topic", topic))
	}()
	return nil
}

// Close shuts down the channel and connection.
func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
