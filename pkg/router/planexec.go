package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariumhq/arium/pkg/ports"
)

// PlanExecute drives a planner/worker/reviewer loop off the ExecutionPlan
// stored in plan-aware Memory.
//
// No plan yet means the planner has not run; a fully completed plan goes to
// the reviewer; otherwise the next dependency-ready step names the node.
// Unfinished steps with no runnable candidate is a dependency deadlock and
// fails the run rather than spinning.
type PlanExecute struct {
	planner  string
	reviewer string
}

var _ ports.Router = (*PlanExecute)(nil)

// NewPlanExecute creates a plan-driven router. planner receives the run when
// no plan exists yet; reviewer receives it when every step has completed.
func NewPlanExecute(planner, reviewer string) *PlanExecute {
	return &PlanExecute{planner: planner, reviewer: reviewer}
}

// Route inspects the current plan and returns the node that should run next.
func (r *PlanExecute) Route(ctx context.Context, mem ports.MemoryReader) (string, error) {
	pm, ok := mem.(ports.PlanMemory)
	if !ok {
		return "", fmt.Errorf("plan-execute router requires plan-aware memory, got %T", mem)
	}

	plan := pm.CurrentPlan()
	if plan == nil {
		return r.planner, nil
	}
	if plan.Completed() {
		return r.reviewer, nil
	}
	if step := plan.NextReady(); step != nil {
		return step.Node, nil
	}
	return "", fmt.Errorf("plan has unfinished steps with no runnable candidate: %s",
		strings.Join(plan.Remaining(), ", "))
}
