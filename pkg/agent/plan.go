package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ariumhq/arium/pkg/domain"
	"github.com/ariumhq/arium/pkg/ports"
)

func (s Strategy) preamble() string {
	switch s {
	case StrategyChainOfThought:
		return "Think through the problem step by step before giving your final answer."
	case StrategyReAct:
		return "Work in a loop of Thought, Action and Observation: reason about what " +
			"to do next, use a tool when you need information, observe its result, " +
			"and only answer once you have enough evidence."
	default:
		return ""
	}
}

// installPlan parses the agent's final answer as an ExecutionPlan and stores
// it in the run's plan-aware Memory. Model output is rarely clean JSON, so a
// repair pass runs before giving up.
func (a *Agent) installPlan(mem ports.Memory, content string) error {
	pm, ok := mem.(ports.PlanMemory)
	if !ok {
		return fmt.Errorf("plan output requires plan-aware memory")
	}

	plan, err := parsePlan(content)
	if err != nil {
		return err
	}

	if pm.CurrentPlan() == nil {
		pm.AddPlan(plan)
	} else {
		pm.UpdatePlan(plan)
	}
	return nil
}

func parsePlan(content string) (*domain.ExecutionPlan, error) {
	raw := stripFences(content)

	var plan domain.ExecutionPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return nil, fmt.Errorf("parse plan: %w (repair also failed: %v)", err, repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &plan); err != nil {
			return nil, fmt.Errorf("parse repaired plan: %w", err)
		}
	}

	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("parse plan: no steps found")
	}
	for _, step := range plan.Steps {
		if step.Status == "" {
			step.Status = domain.StepPending
		}
	}
	return &plan, nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
