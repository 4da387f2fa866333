package engine

import (
	"context"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/metrics"
)

// Gateway ties registry, limiter, and dispatcher together behind the single
// invoke entrypoint every caller protocol uses. Limiter state lives here for
// the process lifetime; it is constructed explicitly and shared by reference
// so tests control lifetime and isolation.
type Gateway struct {
	Registry   *Registry
	Dispatcher *Dispatcher
}

// NewGateway wires the static catalog to a dispatcher.
func NewGateway(dispatcher *Dispatcher) *Gateway {
	return &Gateway{
		Registry:   NewRegistry(),
		Dispatcher: dispatcher,
	}
}

// Invoke resolves, admits, dispatches, and wraps a single invocation. It is
// safe for concurrent use. Validation rejections return immediately without
// touching the limiter or the network.
func (g *Gateway) Invoke(ctx context.Context, operation string, args map[string]string) Payload {
	resolved, failure := g.Registry.Resolve(operation, args)
	if failure != nil {
		metrics.RecordInvocation(operation, string(failure.Kind))
		return WrapFailure(failure)
	}

	result := g.Dispatcher.Execute(ctx, resolved)

	outcome := "success"
	if result.Failure != nil {
		outcome = string(result.Failure.Kind)
	}
	metrics.RecordInvocation(operation, outcome)
	metrics.RecordUpstreamCall(resolved.Class, result.StatusCode)

	return Wrap(result)
}

// Usage exposes live limiter snapshots for every class referenced by the
// catalog, used by the operations listing.
func (g *Gateway) Usage() []core.ClassUsage {
	limiter := g.Dispatcher.Limiter
	if limiter == nil {
		return nil
	}

	usages := make([]core.ClassUsage, 0)
	for _, class := range limiter.Classes() {
		if usage, ok := limiter.Usage(class); ok {
			usages = append(usages, usage)
		}
	}
	return usages
}
