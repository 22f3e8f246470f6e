package rabbitmq

import (
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errSessionClosed = errors.New("broker channel closed before confirm")

type waiter struct {
	msgID string
	done  chan error
}

// confirmTracker matches publisher confirms and mandatory returns to the
// publish calls waiting on them. A single goroutine (run) consumes both
// notification channels. The broker sends a message's basic.return before its
// basic.ack and the returns channel is unbuffered, so by the time run sees an
// ack every return for that message has already been recorded.
type confirmTracker struct {
	mu       sync.Mutex
	waiting  map[uint64]waiter
	early    map[uint64]bool        // confirms that arrived before register
	gone     map[uint64]string      // tags whose caller stopped waiting
	returned map[string]amqp.Return // by message id, until the ack
	closed   error
}

func newConfirmTracker() *confirmTracker {
	return &confirmTracker{
		waiting:  make(map[uint64]waiter),
		early:    make(map[uint64]bool),
		gone:     make(map[uint64]string),
		returned: make(map[string]amqp.Return),
	}
}

// run returns when confirms is closed, failing anyone still waiting.
func (t *confirmTracker) run(returns <-chan amqp.Return, confirms <-chan amqp.Confirmation) {
	for {
		select {
		case ret, ok := <-returns:
			if !ok {
				returns = nil
				continue
			}
			t.onReturn(ret)
		case c, ok := <-confirms:
			if !ok {
				t.fail(errSessionClosed)
				return
			}
			t.onConfirm(c)
		}
	}
}

func (t *confirmTracker) onReturn(ret amqp.Return) {
	if ret.MessageId == "" {
		return
	}
	t.mu.Lock()
	t.returned[ret.MessageId] = ret
	t.mu.Unlock()
}

func (t *confirmTracker) onConfirm(c amqp.Confirmation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if w, ok := t.waiting[c.DeliveryTag]; ok {
		delete(t.waiting, c.DeliveryTag)
		w.done <- t.outcome(w.msgID, c.DeliveryTag, c.Ack)
		return
	}
	if msgID, ok := t.gone[c.DeliveryTag]; ok {
		delete(t.gone, c.DeliveryTag)
		delete(t.returned, msgID)
		return
	}
	t.early[c.DeliveryTag] = c.Ack
}

// register starts waiting for the confirm of tag. The channel receives
// exactly one value: nil once the broker acked a routed message.
func (t *confirmTracker) register(tag uint64, msgID string) <-chan error {
	done := make(chan error, 1)

	t.mu.Lock()
	defer t.mu.Unlock()

	switch ack, ok := t.early[tag]; {
	case ok:
		delete(t.early, tag)
		done <- t.outcome(msgID, tag, ack)
	case t.closed != nil:
		done <- t.closed
	default:
		t.waiting[tag] = waiter{msgID: msgID, done: done}
	}
	return done
}

// forget drops a waiter whose caller gave up. A confirm that still arrives
// for tag is discarded.
func (t *confirmTracker) forget(tag uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if w, ok := t.waiting[tag]; ok {
		delete(t.waiting, tag)
		t.gone[tag] = w.msgID
	}
}

func (t *confirmTracker) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = err
	for tag, w := range t.waiting {
		w.done <- err
		delete(t.waiting, tag)
	}
	clear(t.early)
	clear(t.gone)
	clear(t.returned)
}

// outcome must be called with mu held.
func (t *confirmTracker) outcome(msgID string, tag uint64, ack bool) error {
	if ret, ok := t.returned[msgID]; ok {
		delete(t.returned, msgID)
		return returned(ret)
	}
	if !ack {
		return fmt.Errorf("nack for delivery tag %d", tag)
	}
	return nil
}

var errUnroutable = errors.New("message unroutable")

func returned(ret amqp.Return) error {
	return fmt.Errorf("%w: %s %d %s", errUnroutable, ret.RoutingKey, ret.ReplyCode, ret.ReplyText)
}
