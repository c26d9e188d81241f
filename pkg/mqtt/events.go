package mqtt

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/logger"
)

const eventBuffer = 256

// EventTopic returns the topic an event type is published on
func EventTopic(typ bus.EventType) string {
	return fmt.Sprintf("%s/events/%s", topicRoot, typ)
}

// publisher is the part of Broker used to send events
type publisher interface {
	IsConnected() bool
	Publish(topic string, payload interface{}) error
}

// EventPublisher forwards bus events to the broker from a background
// goroutine. Events are dropped when the buffer is full or the broker is
// offline.
type EventPublisher struct {
	out      publisher
	queue    chan bus.Event
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	dropped  int
}

// NewEventPublisher starts forwarding events through out
func NewEventPublisher(out publisher) *EventPublisher {
	ep := &EventPublisher{
		out:   out,
		queue: make(chan bus.Event, eventBuffer),
		done:  make(chan struct{}),
	}
	go ep.run()
	return ep
}

// Publish implements bus.Publisher
func (ep *EventPublisher) Publish(e bus.Event) {
	select {
	case <-ep.done:
		return
	default:
	}

	select {
	case ep.queue <- e:
	default:
		ep.drop()
	}
}

func (ep *EventPublisher) drop() {
	ep.mu.Lock()
	ep.dropped++
	ep.mu.Unlock()
}

// Dropped returns how many events never reached the broker
func (ep *EventPublisher) Dropped() int {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	return ep.dropped
}

// Stop ends the forwarding goroutine; queued events are discarded
func (ep *EventPublisher) Stop() {
	ep.stopOnce.Do(func() { close(ep.done) })
}

func (ep *EventPublisher) run() {
	for {
		select {
		case <-ep.done:
			return
		case e := <-ep.queue:
			if !ep.out.IsConnected() {
				ep.drop()
				continue
			}
			if err := ep.out.Publish(EventTopic(e.Type), e); err != nil {
				ep.drop()
				logger.Debug(fmt.Sprintf("No se pudo publicar el evento %s: %v", e.Type, err), "MQTT")
			}
		}
	}
}
