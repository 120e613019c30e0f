/*
Package ports defines the interfaces that decouple the Arium engine from its
collaborators: nodes, routers, memory, model backends, and persistence.

# Key Interfaces

  - Node: the uniform run contract shared by agents, function nodes,
    sub-graph nodes and iterators.
  - Router: picks the next node among an edge's declared candidates.
  - Memory / PlanMemory: the run's append-only message log, optionally
    plan-aware.
  - ModelClient: a language-model backend (implementations live in adapters).
  - ConversationStore: session persistence for stateless surfaces.

Capability interfaces (VariableRequirer, MemoryResetter) are opt-in
contracts the engine probes for explicitly instead of relying on structural
inspection. All run-scoped state flows through NodeCall; nodes stay free of
per-run fields so one compiled graph can serve concurrent executions.
*/
package ports
