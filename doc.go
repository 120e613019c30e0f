/*
Package arium is a graph execution engine for LLM-assisted workflows.

Autonomous units (model-backed agents, plain functions, whole sub-graphs
and sequential iterators) compose into directed graphs with dynamic,
state-dependent routing. A workflow is declared (fluently or in YAML),
compiled once into an immutable Graph, and executed repeatedly; each
execution traverses the graph on a single logical thread, with every node
reading and appending to a shared, append-only message Memory until a
terminal node completes.

	g, err := arium.New().
		AddNode(researcher).
		AddNode(writer).
		AddEdge("researcher", "writer").
		Start("researcher").
		End("writer").
		Build()
	if err != nil {
		// all well-formedness problems surface here, never mid-run
	}
	msgs, err := g.Run(ctx, inputs, map[string]string{"topic": "storks"})

Routing beyond unconditional edges is delegated to routers (pkg/router):
model-backed candidate selection, task classification, fixed reflection
patterns, and plan execution over plan-aware Memory.
*/
package arium
