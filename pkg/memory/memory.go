// Package memory provides the in-process Memory implementations used by
// graph executions: an append-only message log, and a plan-aware variant
// that additionally owns the run's current ExecutionPlan.
//
// A Memory is exclusively owned by one execution (or explicitly injected
// into it); the engine's single-threaded traversal means no locking here.
package memory

import (
	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

// Log is an append-only, ordered message log.
type Log struct {
	msgs []domain.Message
}

var _ ports.Memory = (*Log)(nil)

// NewLog creates an empty message log.
func NewLog() *Log {
	return &Log{}
}

// Append adds messages to the end of the log.
func (l *Log) Append(msgs ...domain.Message) {
	l.msgs = append(l.msgs, msgs...)
}

// Messages returns an ordered snapshot. Mutating the returned slice does not
// affect the log.
func (l *Log) Messages() []domain.Message {
	out := make([]domain.Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of logged messages.
func (l *Log) Len() int {
	return len(l.msgs)
}

// PlanLog is a Log that also carries at most one current ExecutionPlan.
// Plan updates are whole-object replacements; there is no diffing.
type PlanLog struct {
	Log
	plan *domain.ExecutionPlan
}

var _ ports.PlanMemory = (*PlanLog)(nil)

// NewPlanLog creates an empty plan-aware log. The plan starts out nil, the
// canonical "no plan yet" signal consumed by routers.
func NewPlanLog() *PlanLog {
	return &PlanLog{}
}

// AddPlan installs the first plan of the run.
func (l *PlanLog) AddPlan(p *domain.ExecutionPlan) {
	l.plan = p
}

// CurrentPlan returns the current plan, or nil.
func (l *PlanLog) CurrentPlan() *domain.ExecutionPlan {
	return l.plan
}

// UpdatePlan replaces the current plan.
func (l *PlanLog) UpdatePlan(p *domain.ExecutionPlan) {
	l.plan = p
}
