// Package dsl loads workflow definitions from YAML and compiles them into
// executable graphs. The YAML names things; a Resolver supplies the live
// implementations (model clients, function callables, tools) those names
// refer to. Every unresolvable reference is reported as a configuration
// error listing the valid alternatives.
package dsl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of a workflow definition file.
type Config struct {
	Name          string           `yaml:"name"`
	Agents        []AgentConfig    `yaml:"agents"`
	FunctionNodes []FunctionConfig `yaml:"function_nodes"`
	Routers       []RouterConfig   `yaml:"routers"`
	Ariums        []AriumConfig    `yaml:"ariums"`
	Iterators     []IteratorConfig `yaml:"iterators"`
	Workflow      WorkflowConfig   `yaml:"workflow"`
}

// AgentConfig declares an LLM-backed node.
type AgentConfig struct {
	Name       string   `yaml:"name"`
	Model      string   `yaml:"model"`
	Job        string   `yaml:"job"`
	Strategy   string   `yaml:"strategy"`
	Tools      []string `yaml:"tools"`
	MaxTurns   int      `yaml:"max_turns"`
	PlanOutput bool     `yaml:"plan_output"`
}

// FunctionConfig declares a node backed by a registered callable.
type FunctionConfig struct {
	Name        string `yaml:"name"`
	Function    string `yaml:"function_name"`
	Description string `yaml:"description"`
	InputFilter string `yaml:"input_filter"`
}

// RouterConfig declares a router by type tag; the type-specific settings
// live under params and are decoded per type.
type RouterConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// AriumConfig declares a nested workflow wrapped as a single node, either
// inline or as a reference to another definition file. Nested definitions
// compile strictly before the parent.
type AriumConfig struct {
	Name             string  `yaml:"name"`
	File             string  `yaml:"file"`
	Definition       *Config `yaml:"definition"`
	InheritVariables bool    `yaml:"inherit_variables"`
}

// IteratorConfig declares a for-each wrapper around another declared node.
type IteratorConfig struct {
	Name        string `yaml:"name"`
	Node        string `yaml:"node"`
	FreshMemory bool   `yaml:"fresh_memory"`
}

// WorkflowConfig wires the declared nodes into a graph.
type WorkflowConfig struct {
	Start string       `yaml:"start"`
	Edges []EdgeConfig `yaml:"edges"`
	End   StringList   `yaml:"end"`
}

// EdgeConfig declares one transition group. The literal "end" inside To
// marks the from-node terminal instead of adding an edge.
type EdgeConfig struct {
	From   string     `yaml:"from"`
	To     StringList `yaml:"to"`
	Router string     `yaml:"router"`
}

// StringList unmarshals from either a YAML scalar or a sequence, so authors
// can write `to: end` as well as `to: [a, b]`.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	default:
		return fmt.Errorf("expected string or list of strings, got yaml kind %d", value.Kind)
	}
}

// Parse decodes a workflow definition from YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse workflow definition: %w", err)
	}
	return &cfg, nil
}
