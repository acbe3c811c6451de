// Package events 把测验事件发布到 topic 交换机
package events

import (
	"encoding/json"
	"sync"
	"time"

	"tutorpress_backend/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	QuizSaved   = "quiz.saved"
	QuizDeleted = "quiz.deleted"
)

type Publisher interface {
	Publish(eventType string, payload interface{}) error
}

// Nop 未配置消息队列时丢弃所有事件
type Nop struct{}

func (Nop) Publish(string, interface{}) error { return nil }

type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish 使用事件类型作为 routing key
func (p *AMQPPublisher) Publish(eventType string, payload interface{}) error {
	body, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return err
	}

	logger.Log.Debug("publishing event", zap.String("type", eventType))

	// amqp.Channel 不支持并发发布
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
