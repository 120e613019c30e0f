package domain

// StepStatus defines the lifecycle of a plan step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// Step is one unit of a decomposed task.
type Step struct {
	ID          string     `json:"id" yaml:"id"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Node        string     `json:"node" yaml:"node"`
	DependsOn   []string   `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Status      StepStatus `json:"status" yaml:"status"`
}

// ExecutionPlan is an ordered, dependency-annotated task decomposition.
// It lives in plan-aware Memory and is mutated in place by nodes during a run;
// replacing the whole plan is done through the Memory's UpdatePlan.
type ExecutionPlan struct {
	Steps []*Step `json:"steps" yaml:"steps"`
}

// Step returns the step with the given id, or nil.
func (p *ExecutionPlan) Step(id string) *Step {
	for _, s := range p.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Completed reports whether every step has finished successfully.
func (p *ExecutionPlan) Completed() bool {
	if len(p.Steps) == 0 {
		return false
	}
	for _, s := range p.Steps {
		if s.Status != StepCompleted {
			return false
		}
	}
	return true
}

// NextReady returns the first step, in declared order, that has not finished
// and whose dependencies have all completed. Declared order breaks ties.
// It returns nil when no step is runnable.
func (p *ExecutionPlan) NextReady() *Step {
	done := make(map[string]bool, len(p.Steps))
	for _, s := range p.Steps {
		if s.Status == StepCompleted {
			done[s.ID] = true
		}
	}

	for _, s := range p.Steps {
		if s.Status == StepCompleted || s.Status == StepFailed {
			continue
		}
		ready := true
		for _, dep := range s.DependsOn {
			if !done[dep] {
				ready = false
				break
			}
		}
		if ready {
			return s
		}
	}
	return nil
}

// Remaining returns the ids of steps that have not completed.
func (p *ExecutionPlan) Remaining() []string {
	var ids []string
	for _, s := range p.Steps {
		if s.Status != StepCompleted {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
