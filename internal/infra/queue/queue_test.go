package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu        sync.Mutex
	published []amqp.Publishing
	keys      []string
	bindings  map[string][]string
	queueArgs map[string]amqp.Table
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, exchange+"/"+key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) ExchangeDeclare(string, string, bool, bool, bool, bool, amqp.Table) error {
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	if f.queueArgs == nil {
		f.queueArgs = map[string]amqp.Table{}
	}
	f.queueArgs[name] = args
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	if f.bindings == nil {
		f.bindings = map[string][]string{}
	}
	f.bindings[name] = append(f.bindings[name], exchange+"/"+key)
	return nil
}

type fakeAck struct {
	acked, nacked int
}

func (a *fakeAck) Ack(uint64, bool) error { a.acked++; return nil }
func (a *fakeAck) Nack(uint64, bool, bool) error { a.nacked++; return nil }
func (a *fakeAck) Reject(uint64, bool) error { a.nacked++; return nil }

func TestSetupTopologyBindsEveryEventType(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, setupTopology(ch))

	assert.ElementsMatch(t, []string{
		"ex.crm/lead.stage_changed", "ex.crm/lead.synced", "ex.crm/message.inbound",
	}, ch.bindings[QueueName])
	assert.Equal(t, []string{"ex.dlx/k.crm.dead"}, ch.bindings[DLQName])
	assert.Equal(t, DLXName, ch.queueArgs[QueueName]["x-dead-letter-exchange"])
}

func TestProducerUsesEventTypeAsRoutingKey(t *testing.T) {
	ch := &fakeChannel{}
	p := NewProducer(ch)

	e := NewEvent(EventLeadSynced, "lead-1")
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "ex.crm/lead.synced", ch.keys[0])
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var decoded Event
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, "lead-1", decoded.LeadID)
}

func TestProducerWrapsPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewProducer(&fakeChannel{err: boom})

	err := p.Publish(context.Background(), NewEvent(EventLeadSynced, "x"))
	assert.ErrorIs(t, err, boom)
}

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.On(EventMessageInbound, func(_ context.Context, e Event) error {
		got = append(got, e.LeadID)
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), NewEvent(EventMessageInbound, "a")))
	require.NoError(t, d.Dispatch(context.Background(), NewEvent(EventLeadSynced, "b")))

	assert.Equal(t, []string{"a"}, got)
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("smtp down")
	d.On(EventMessageInbound, func(context.Context, Event) error { return boom })
	d.On(EventMessageInbound, func(context.Context, Event) error { return nil })

	assert.ErrorIs(t, d.Dispatch(context.Background(), NewEvent(EventMessageInbound, "a")), boom)
}

func TestLocalPublisherDispatchesAfterRequestEnds(t *testing.T) {
	d := NewDispatcher()
	done := make(chan string, 1)
	d.On(EventLeadStageChanged, func(ctx context.Context, e Event) error {
		assert.NoError(t, ctx.Err())
		done <- e.Stage
		return nil
	})
	p := NewLocalPublisher(d)

	ctx, cancel := context.WithCancel(context.Background())
	e := NewEvent(EventLeadStageChanged, "lead-1")
	e.Stage = "qualified"
	require.NoError(t, p.Publish(ctx, e))
	cancel()
	p.Wait()

	select {
	case stage := <-done:
		assert.Equal(t, "qualified", stage)
	case <-time.After(time.Second):
		t.Fatal("event not dispatched")
	}
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
}

func (f *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func TestWorkerAcksHandledAndNacksMalformed(t *testing.T) {
	d := NewDispatcher()
	var handled int
	d.On(EventMessageInbound, func(context.Context, Event) error { handled++; return nil })

	body, _ := json.Marshal(NewEvent(EventMessageInbound, "lead-1"))
	ack := &fakeAck{}
	c := &fakeConsumer{deliveries: make(chan amqp.Delivery, 2)}
	c.deliveries <- amqp.Delivery{Acknowledger: ack, Body: body}
	c.deliveries <- amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")}
	close(c.deliveries)

	w := NewWorker(c, d)
	require.NoError(t, w.Start(context.Background(), QueueName))

	assert.Equal(t, 1, handled)
	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 1, ack.nacked)
}

func TestWorkerNacksFailedHandler(t *testing.T) {
	d := NewDispatcher()
	d.On(EventLeadSynced, func(context.Context, Event) error { return errors.New("fail") })

	body, _ := json.Marshal(NewEvent(EventLeadSynced, "lead-1"))
	ack := &fakeAck{}
	c := &fakeConsumer{deliveries: make(chan amqp.Delivery, 1)}
	c.deliveries <- amqp.Delivery{Acknowledger: ack, Body: body}
	close(c.deliveries)

	require.NoError(t, NewWorker(c, d).Start(context.Background(), QueueName))
	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
}
