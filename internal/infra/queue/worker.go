package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Handler func(ctx context.Context, e Event) error

// Dispatcher roteia eventos por tipo. Usado pelo Worker e pelo LocalPublisher.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

func (d *Dispatcher) On(eventType string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], h)
}

func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	d.mu.RLock()
	hs := d.handlers[e.Type]
	d.mu.RUnlock()

	if len(hs) == 0 {
		log.Printf("⚠️ [EVENTS] Nenhum handler para %s. Apenas logando.", e.Type)
		return nil
	}

	var errs []error
	for _, h := range hs {
		if err := h(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel    consumer
	Dispatcher *Dispatcher
}

func NewWorker(ch consumer, d *Dispatcher) *Worker {
	return &Worker{
		Channel:    ch,
		Dispatcher: d,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Println("⚠️ [WORKER] Canal de entrega fechado")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var e Event
	if err := json.Unmarshal(d.Body, &e); err != nil {
		log.Printf("❌ [WORKER] JSON Inválido: %s", err)
		// Mensagem malformada vai direto pra DLQ.
		d.Nack(false, false)
		return
	}

	log.Printf("📥 [WORKER] %s recebido (lead %s)", e.Type, e.LeadID)

	if err := w.Dispatcher.Dispatch(ctx, e); err != nil {
		log.Printf("❌ [WORKER] Erro ao processar %s: %s", e.Type, err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}
