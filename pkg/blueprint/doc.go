// Package blueprint expands declarative dataset blueprints into small graphs
// of interdependent steps for a task-graph execution engine.
//
// A Blueprint declares one target dataset: a deferred build expression, a
// metadata location, optional validation checks, and cleanup behaviour.
// Expand derives five steps from it with stable, collision-free identifiers:
// the initial computation, a blueprint reference, the metadata resolution,
// the checks run, and the final cleaned dataset, which keeps the bare
// blueprint name so downstream steps reference it naturally.
//
// The metadata table drives an ordered cleanup pipeline over the computed
// dataset: columns are reordered to the metadata's order, dropped when
// flagged, annotated with their documentation, and encoded through their
// categorical codings. When no metadata exists yet, a table is synthesized
// from the dataset's columns and persisted once, so later runs load the
// user-edited file instead of regenerating it.
//
// A Plan collects the steps of many blueprints into one dependency graph.
// The plan is declarative; scheduling belongs to the external engine. For
// single-process use, Plan.Run executes the graph in dependency order with
// bounded concurrency. Check failures are recorded results, never errors:
// the final dataset computes regardless, and callers inspect the checks
// result before trusting it.
package blueprint
