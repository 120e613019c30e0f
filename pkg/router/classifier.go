package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ariumhq/arium/internal/logging"
	"github.com/ariumhq/arium/pkg/ports"
)

// Category describes one classification bucket and the node that handles it.
type Category struct {
	Name        string   `yaml:"name" mapstructure:"name"`
	Description string   `yaml:"description" mapstructure:"description"`
	Keywords    []string `yaml:"keywords,omitempty" mapstructure:"keywords"`
	Examples    []string `yaml:"examples,omitempty" mapstructure:"examples"`
	Node        string   `yaml:"node" mapstructure:"node"`
}

// Classifier routes by classifying the latest user request into one of a set
// of named categories, each mapped to a handler node. Unlike Smart it has no
// fallback: a misclassified ticket sent to the wrong queue is worse than a
// failed run, so an unparsable answer is an error.
type Classifier struct {
	model      ports.ModelClient
	categories []Category
	logger     *slog.Logger
}

var _ ports.Router = (*Classifier)(nil)

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithClassifierLogger configures a logger.
func WithClassifierLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) { c.logger = logger }
}

// NewClassifier creates a category-based router.
func NewClassifier(model ports.ModelClient, categories []Category, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		model:      model,
		categories: categories,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Route classifies the conversation and returns the matched category's node.
func (c *Classifier) Route(ctx context.Context, mem ports.MemoryReader) (string, error) {
	if len(c.categories) == 0 {
		return "", fmt.Errorf("classifier router has no categories")
	}

	resp, err := c.model.Complete(ctx, ports.ModelRequest{
		System:   c.prompt(),
		Messages: tail(mem.Messages(), contextWindow),
	})
	if err != nil {
		return "", fmt.Errorf("classifier router: model call failed: %w", err)
	}

	cat, ok := c.match(resp.Content)
	if !ok {
		return "", fmt.Errorf("classifier router: answer %q matches no category", resp.Content)
	}
	c.logger.Debug("classified request", "category", cat.Name, "node", cat.Node)
	return cat.Node, nil
}

func (c *Classifier) prompt() string {
	var sb strings.Builder
	sb.WriteString("Classify the user's request into exactly one category.\n")
	for _, cat := range c.categories {
		fmt.Fprintf(&sb, "- %s: %s", cat.Name, cat.Description)
		if len(cat.Keywords) > 0 {
			fmt.Fprintf(&sb, " (keywords: %s)", strings.Join(cat.Keywords, ", "))
		}
		sb.WriteString("\n")
		for _, ex := range cat.Examples {
			fmt.Fprintf(&sb, "  e.g. %q\n", ex)
		}
	}
	sb.WriteString("Answer with the category name and nothing else.")
	return sb.String()
}

func (c *Classifier) match(answer string) (Category, bool) {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(answer), `"'.`))
	for _, cat := range c.categories {
		if cleaned == strings.ToLower(cat.Name) {
			return cat, true
		}
	}

	var mentioned []Category
	for _, cat := range c.categories {
		if strings.Contains(cleaned, strings.ToLower(cat.Name)) {
			mentioned = append(mentioned, cat)
		}
	}
	if len(mentioned) == 1 {
		return mentioned[0], true
	}
	return Category{}, false
}
