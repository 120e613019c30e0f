package ports

import "context"

// Router picks the next node among a fixed candidate set declared on an edge.
// The returned name must belong to that candidate set; the engine treats any
// other name as a routing error and never corrects it silently. The engine is
// agnostic to whether a router is a pure function of memory or issues a model
// call of its own.
type Router interface {
	Route(ctx context.Context, mem MemoryReader) (string, error)
}

// RouterFunc adapts an ordinary function to the Router interface.
type RouterFunc func(ctx context.Context, mem MemoryReader) (string, error)

// Route calls f.
func (f RouterFunc) Route(ctx context.Context, mem MemoryReader) (string, error) {
	return f(ctx, mem)
}
