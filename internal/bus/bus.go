// Package bus implements the typed message channel connecting the three
// capture contexts: content, background and popup. It provides
// request/response calls with at-most-one response per request, and
// best-effort fire-and-forget notifications delivered in send order to a
// given endpoint. Nothing is persisted; a stopped endpoint simply stops
// receiving.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/akarpov87/pagevault/internal/common"
)

// Endpoint names one of the three logical contexts attached to the channel.
type Endpoint string

const (
	EndpointContent    Endpoint = "content"
	EndpointBackground Endpoint = "background"
	EndpointPopup      Endpoint = "popup"
)

// HandlerFunc processes one request payload and returns the response payload.
// For fire-and-forget messages the return values are discarded.
type HandlerFunc func(ctx context.Context, payload any) (any, error)

// Channel is the transport surface capture components program against.
// Bus is the in-process implementation; an inter-process transport must
// satisfy the same request/response and fire-and-forget contracts.
type Channel interface {
	// Request sends a message and waits for its single response. It fails
	// with common.ErrTransport when the target endpoint is not listening or
	// the context expires before a response arrives.
	Request(ctx context.Context, target Endpoint, name string, payload any) (any, error)

	// Notify sends a fire-and-forget message. Sending to a stopped endpoint
	// is not an error; the message is silently dropped.
	Notify(target Endpoint, name string, payload any) error
}

type notification struct {
	name    string
	payload any
}

type endpointState struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	queue    chan notification
	done     chan struct{}
}

func (e *endpointState) handler(name string) HandlerFunc {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.handlers[name]
}

// Bus is the in-process message channel.
type Bus struct {
	mu        sync.RWMutex
	endpoints map[Endpoint]*endpointState
}

// New creates an empty bus with no endpoints listening.
func New() *Bus {
	return &Bus{endpoints: make(map[Endpoint]*endpointState)}
}

// Handle registers the handler for the named message on the endpoint. The
// first registration starts the endpoint's notification dispatch loop.
// Registering the same name again replaces the previous handler.
func (b *Bus) Handle(ep Endpoint, name string, h HandlerFunc) {
	b.mu.Lock()
	state, ok := b.endpoints[ep]
	if !ok {
		state = &endpointState{
			handlers: make(map[string]HandlerFunc),
			queue:    make(chan notification, 64),
			done:     make(chan struct{}),
		}
		b.endpoints[ep] = state
		go state.dispatch()
	}
	b.mu.Unlock()

	state.mu.Lock()
	state.handlers[name] = h
	state.mu.Unlock()
}

// StopListening detaches the endpoint. In-flight requests finish; queued
// notifications are discarded.
func (b *Bus) StopListening(ep Endpoint) {
	b.mu.Lock()
	state, ok := b.endpoints[ep]
	if ok {
		delete(b.endpoints, ep)
	}
	b.mu.Unlock()

	if ok {
		close(state.done)
	}
}

func (b *Bus) endpoint(ep Endpoint) *endpointState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.endpoints[ep]
}

// Request implements Channel. The handler runs on its own goroutine so a
// slow handler cannot outlive the caller's deadline.
func (b *Bus) Request(ctx context.Context, target Endpoint, name string, payload any) (any, error) {
	state := b.endpoint(target)
	if state == nil {
		return nil, fmt.Errorf("%w: endpoint %q is not listening", common.ErrTransport, target)
	}
	h := state.handler(name)
	if h == nil {
		return nil, fmt.Errorf("%w: no handler for %q on %q", common.ErrTransport, name, target)
	}

	type result struct {
		resp any
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := h(ctx, payload)
		ch <- result{resp: resp, err: err}
	}()

	select {
	case r := <-ch:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", common.ErrTransport, ctx.Err())
	}
}

// Notify implements Channel. Delivery is best-effort and ordered per target:
// a single dispatch goroutine per endpoint drains the queue in send order.
func (b *Bus) Notify(target Endpoint, name string, payload any) error {
	state := b.endpoint(target)
	if state == nil {
		return nil
	}
	select {
	case state.queue <- notification{name: name, payload: payload}:
	case <-state.done:
	default:
		// Queue full. Progress events are disposable; drop rather than block.
	}
	return nil
}

func (e *endpointState) dispatch() {
	for {
		select {
		case n := <-e.queue:
			if h := e.handler(n.name); h != nil {
				_, _ = h(context.Background(), n.payload)
			}
		case <-e.done:
			return
		}
	}
}
