package queue

import (
	"context"
	"log"
	"sync"
)

// LocalPublisher entrega os eventos no próprio processo quando não há RabbitMQ.
type LocalPublisher struct {
	Dispatcher *Dispatcher
	wg         sync.WaitGroup
}

func NewLocalPublisher(d *Dispatcher) *LocalPublisher {
	return &LocalPublisher{Dispatcher: d}
}

func (p *LocalPublisher) Publish(ctx context.Context, e Event) error {
	// O request pode terminar antes do handler; não herda o cancelamento.
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.Dispatcher.Dispatch(ctx, e); err != nil {
			log.Printf("❌ [EVENTS] Falha ao processar %s do lead %s: %v", e.Type, e.LeadID, err)
		}
	}()
	return nil
}

// Wait bloqueia até todos os eventos publicados terem sido processados.
func (p *LocalPublisher) Wait() {
	p.wg.Wait()
}
