package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariumhq/arium/pkg/domain"
)

func TestLog_AppendOrder(t *testing.T) {
	log := NewLog()
	log.Append(domain.NewUserMessage("first"))
	log.Append(domain.NewAssistantMessage("second"), domain.NewAssistantMessage("third"))

	msgs := log.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestLog_SnapshotIsolation(t *testing.T) {
	log := NewLog()
	log.Append(domain.NewUserMessage("original"))

	snap := log.Messages()
	snap[0].Content = "mutated"
	snap = append(snap, domain.NewUserMessage("extra"))
	_ = snap

	// The log must not observe mutations of a returned snapshot.
	msgs := log.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "original", msgs[0].Content)
}

func TestPlanLog_PlanLifecycle(t *testing.T) {
	log := NewPlanLog()

	// No plan yet is signalled by nil, not by an empty plan.
	assert.Nil(t, log.CurrentPlan())

	first := &domain.ExecutionPlan{Steps: []*domain.Step{
		{ID: "s1", Node: "research", Status: domain.StepPending},
	}}
	log.AddPlan(first)
	require.Same(t, first, log.CurrentPlan())

	// Updates replace the whole object.
	second := &domain.ExecutionPlan{Steps: []*domain.Step{
		{ID: "s1", Node: "research", Status: domain.StepCompleted},
		{ID: "s2", Node: "summarize", Status: domain.StepPending, DependsOn: []string{"s1"}},
	}}
	log.UpdatePlan(second)
	require.Same(t, second, log.CurrentPlan())

	// The message log works independently of the plan.
	log.Append(domain.NewUserMessage("hi"))
	assert.Equal(t, 1, log.Len())
}
