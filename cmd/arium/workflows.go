package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariumhq/arium"
	"github.com/ariumhq/arium/pkg/adapters/openai"
	"github.com/ariumhq/arium/pkg/dsl"
	"github.com/ariumhq/arium/pkg/ports"
)

// newResolver builds a resolver whose model names map straight onto
// OpenAI-compatible model identifiers: every model the definition references
// gets a client configured for that model name.
func newResolver(cfg *dsl.Config, baseDir string, logger *slog.Logger) *dsl.Resolver {
	models := make(map[string]ports.ModelClient)
	collectModels(cfg, baseDir, models)

	return &dsl.Resolver{
		Models: models,
		Logger: logger,
	}
}

func collectModels(cfg *dsl.Config, baseDir string, models map[string]ports.ModelClient) {
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := models[name]; !ok {
			models[name] = openai.New(openai.WithModel(name))
		}
	}

	for _, ac := range cfg.Agents {
		add(ac.Model)
	}
	for _, rc := range cfg.Routers {
		if m, ok := rc.Params["model"].(string); ok {
			add(m)
		}
	}
	for _, nc := range cfg.Ariums {
		if nc.Definition != nil {
			collectModels(nc.Definition, baseDir, models)
		}
		// File-referenced nested definitions are parsed again during compile;
		// pre-parse here just to pick up their model names.
		if nc.File != "" {
			path := nc.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			if data, err := os.ReadFile(path); err == nil {
				if nested, err := dsl.Parse(data); err == nil {
					collectModels(nested, filepath.Dir(path), models)
				}
			}
		}
	}
}

// loadWorkflow compiles a single definition file.
func loadWorkflow(path string, logger *slog.Logger) (string, *arium.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := dsl.Parse(data)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}

	g, err := dsl.Load(path, newResolver(cfg, filepath.Dir(path), logger))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}

	name := cfg.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return name, g, nil
}

// loadWorkflowDir compiles every YAML definition in a directory.
func loadWorkflowDir(dir string, logger *slog.Logger) (map[string]*arium.Graph, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.y*ml"))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no workflow definitions (*.yaml) found in %s", dir)
	}

	workflows := make(map[string]*arium.Graph, len(entries))
	for _, path := range entries {
		name, g, err := loadWorkflow(path, logger)
		if err != nil {
			return nil, err
		}
		if _, dup := workflows[name]; dup {
			return nil, fmt.Errorf("duplicate workflow name %q (from %s)", name, path)
		}
		workflows[name] = g
	}
	return workflows, nil
}
