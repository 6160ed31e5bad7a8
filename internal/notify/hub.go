// Package notify delivers account event messages to registered listeners.
package notify

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Listener receives event messages from an account.
//
// Listeners are matched with == when attached and detached. Listeners whose
// dynamic type is not comparable, such as structs holding slices, are
// matched with reflect.DeepEqual instead. Pointer receivers are the usual
// choice.
type Listener interface {
	Receive(message string) error
}

// Delivery is the outcome of delivering one message to one listener.
type Delivery struct {
	Listener Listener
	Err      error
}

// Hub keeps an ordered set of listeners and fans messages out to them.
// A Hub is not safe for concurrent use.
type Hub struct {
	listeners []Listener
	logger    *zap.Logger
	metrics   *Metrics
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger used to report swallowed listener failures.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics records every notification and delivery in m.
func WithMetrics(m *Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Attach adds l unless it is already attached.
func (h *Hub) Attach(l Listener) {
	if l == nil || h.indexOf(l) >= 0 {
		return
	}
	h.listeners = append(h.listeners, l)
}

// Detach removes l if it is attached.
func (h *Hub) Detach(l Listener) {
	i := h.indexOf(l)
	if i < 0 {
		return
	}
	h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
}

// Listeners returns the attached listeners in attachment order.
func (h *Hub) Listeners() []Listener {
	out := make([]Listener, len(h.listeners))
	copy(out, h.listeners)
	return out
}

// Notify delivers message to every attached listener in attachment order.
// A listener that returns an error or panics does not stop delivery to the
// others; its failure is recorded in the returned deliveries and logged,
// never returned to the caller.
func (h *Hub) Notify(message string) []Delivery {
	targets := h.Listeners()
	deliveries := make([]Delivery, 0, len(targets))
	h.metrics.sent()
	for _, l := range targets {
		err := deliver(l, message)
		if err != nil {
			h.logger.Warn("listener delivery failed",
				zap.String("listener", fmt.Sprintf("%T", l)),
				zap.String("message", message),
				zap.Error(err))
		}
		h.metrics.delivered(err)
		deliveries = append(deliveries, Delivery{Listener: l, Err: err})
	}
	return deliveries
}

func (h *Hub) indexOf(l Listener) int {
	for i, existing := range h.listeners {
		if sameListener(existing, l) {
			return i
		}
	}
	return -1
}

func sameListener(a, b Listener) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func deliver(l Listener, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return l.Receive(message)
}
