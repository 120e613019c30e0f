package ports

import "github.com/ariumhq/arium/pkg/domain"

// MemoryReader is the read side of a run's Memory, and the only view routers
// receive.
type MemoryReader interface {
	// Messages returns an ordered snapshot of the log, never a live view.
	Messages() []domain.Message
}

// Memory is the shared state of one graph execution: an append-only message
// log. A Memory is exclusively owned by the execution that created or
// received it; the single-threaded traversal model means implementations do
// not need internal locking.
type Memory interface {
	MemoryReader

	// Append adds messages to the end of the log. There is no deletion.
	Append(msgs ...domain.Message)
}

// PlanMemory is a Memory that additionally owns at most one current
// ExecutionPlan. A nil plan is the canonical "no plan yet" signal consumed
// by the plan-execute router.
type PlanMemory interface {
	Memory

	// AddPlan installs the first plan of the run.
	AddPlan(*domain.ExecutionPlan)

	// CurrentPlan returns the current plan, or nil.
	CurrentPlan() *domain.ExecutionPlan

	// UpdatePlan replaces the current plan wholesale. No diffing.
	UpdatePlan(*domain.ExecutionPlan)
}
