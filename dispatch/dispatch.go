// Package dispatch provides the external-call collaborators an
// interpreter can be wired with: an in-process handler registry and
// a remote gRPC dispatcher.
package dispatch

import (
	"context"

	"github.com/chazu/planvm/vm"
)

// Handler performs one endpoint's operation.
type Handler func(ctx context.Context, args []vm.Value) ([]vm.Value, error)

// Registry is an in-process Dispatcher mapping endpoint names to
// handlers. The zero value is empty and rejects every endpoint.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to an endpoint name, replacing any
// previous binding.
func (r *Registry) Register(name string, h Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
	r.handlers[name] = h
}

// Dispatch implements vm.Dispatcher.
func (r *Registry) Dispatch(ctx context.Context, endpoint vm.Endpoint, args []vm.Value) ([]vm.Value, error) {
	h, ok := r.handlers[endpoint.Name]
	if !ok {
		return nil, &vm.UnrecognizedEndpointError{Name: endpoint.Name}
	}
	return h(ctx, args)
}
