/*
Package domain contains the core domain models for the Arium engine.

It defines the fundamental entities of a graph execution: Messages, the
ExecutionPlan carried by plan-aware Memory, the error taxonomy, and the
lifecycle events surfaced to observers. The package is kept pure and free of
I/O or persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Message: an immutable, order-significant conversation entry.
  - ExecutionPlan / Step: a dependency-ordered task decomposition with per-step status.
  - ConfigError / RoutingError / VariableError: the three failure classes the
    engine distinguishes (build time, transition time, pre-run validation).
  - LifecycleHooks: injected observability callbacks (no global registries).
*/
package domain
