package node

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/memory"
	"github.com/ariumhq/arium/pkg/ports"
)

func messagesOf(contents ...string) []domain.Message {
	msgs := make([]domain.Message, len(contents))
	for i, c := range contents {
		msgs[i] = domain.NewUserMessage(c)
	}
	return msgs
}

func TestForEach_SequentialInOrder(t *testing.T) {
	var starts, ends []time.Time
	upper := NewFunction("upper", func(ctx context.Context, call CallContext) (any, error) {
		starts = append(starts, time.Now())
		defer func() { ends = append(ends, time.Now()) }()
		return strings.ToUpper(call.Inputs[0].Content), nil
	})

	fe := NewForEach("upper_all", upper)
	out, err := fe.Run(context.Background(), ports.NodeCall{Inputs: messagesOf("a", "b", "c")})
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Content)
	assert.Equal(t, "B", out[1].Content)
	assert.Equal(t, "C", out[2].Content)

	// Calls are strictly serialized: each starts only after the previous ended.
	require.Len(t, starts, 3)
	for i := 1; i < 3; i++ {
		assert.False(t, starts[i].Before(ends[i-1]), "iteration %d overlapped its predecessor", i)
	}
}

func TestForEach_ErrorAbortsRun(t *testing.T) {
	n := 0
	flaky := NewFunction("flaky", func(ctx context.Context, call CallContext) (any, error) {
		n++
		if call.Inputs[0].Content == "b" {
			return nil, assert.AnError
		}
		return "ok", nil
	})

	_, err := NewForEach("fe", flaky).Run(context.Background(), ports.NodeCall{Inputs: messagesOf("a", "b", "c")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
	assert.Equal(t, 2, n, "iteration stops at the first failure")
}

// resettableNode owns nested memory and advertises the reset capability.
type resettableNode struct {
	mem    *memory.Log
	resets int
}

func (r *resettableNode) Name() string { return "resettable" }

func (r *resettableNode) Run(ctx context.Context, call ports.NodeCall) ([]domain.Message, error) {
	r.mem.Append(call.Inputs...)
	return []domain.Message{domain.NewAssistantMessage(call.Inputs[0].Content)}, nil
}

func (r *resettableNode) ResetMemory(nested *ports.NestedMemories) {
	r.mem = memory.NewLog()
	r.resets++
}

var _ ports.MemoryResetter = (*resettableNode)(nil)

func TestForEach_FreshMemoryPerIteration(t *testing.T) {
	target := &resettableNode{mem: memory.NewLog()}
	fe := NewForEach("fe", target, WithFreshMemory())

	_, err := fe.Run(context.Background(), ports.NodeCall{Inputs: messagesOf("a", "b", "c")})
	require.NoError(t, err)

	assert.Equal(t, 3, target.resets)
	// Only the final iteration's message survives in the target's memory.
	assert.Equal(t, 1, target.mem.Len())
}

func TestForEach_FreshMemoryRequiresCapability(t *testing.T) {
	plain := NewFunction("plain", func(ctx context.Context, call CallContext) (any, error) {
		return "x", nil
	})
	fe := NewForEach("fe", plain, WithFreshMemory())

	_, err := fe.Run(context.Background(), ports.NodeCall{Inputs: messagesOf("a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support memory reset")
}

func TestForEach_SharedMemoryObservesPriorIterations(t *testing.T) {
	target := &resettableNode{mem: memory.NewLog()}
	fe := NewForEach("fe", target) // no fresh-memory policy

	_, err := fe.Run(context.Background(), ports.NodeCall{Inputs: messagesOf("a", "b", "c")})
	require.NoError(t, err)

	assert.Zero(t, target.resets)
	assert.Equal(t, 3, target.mem.Len())
}
