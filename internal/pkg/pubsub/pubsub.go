package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelBatchProgress = "batch_progress"
)

// ProgressMessage resumo de progresso de lote distribuído via Redis para os
// painéis conectados por WebSocket (em qualquer instância do servidor)
type ProgressMessage struct {
	Type         string `json:"type"`
	BatchID      string `json:"batch_id"`
	ProductID    int64  `json:"product_id,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	Step         string `json:"step,omitempty"`
	Status       string `json:"status"` // running, product_done, completed, failed, cancelled
	SuccessCount int    `json:"success_count"`
	ErrorCount   int    `json:"error_count"`
	Total        int    `json:"total"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Publisher publica progresso de lote
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishProgress publica uma mensagem de progresso
func (p *Publisher) PublishProgress(ctx context.Context, msg *ProgressMessage) error {
	msg.Type = "batch_progress"

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal progress message: %w", err)
	}

	return p.client.Publish(ctx, ChannelBatchProgress, data).Err()
}

// Subscriber consome o canal de progresso
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe entrega cada mensagem ao handler até o contexto encerrar
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*ProgressMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelBatchProgress)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var progressMsg ProgressMessage
			if err := json.Unmarshal([]byte(msg.Payload), &progressMsg); err != nil {
				continue // ignora payload inválido
			}

			handler(&progressMsg)
		}
	}
}
