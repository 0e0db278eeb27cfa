// Package lensz provides small, composable, type-safe building blocks for
// querying in-memory collections in Go.
//
// # Overview
//
// lensz is built around plain functions. A Predicate[T] is a func(T) bool
// that can be combined with And, Or, Negate, All and Any. A Source[T] is a
// re-invocable factory of finite sequences, so an aggregation that needs to
// look at its input twice simply asks for a fresh sequence. An Option[T]
// makes absence explicit and lets lookups short-circuit to a fallback
// instead of failing.
//
// # Collection Helpers
//
// Slice helpers never mutate their input:
//
//   - Keep, Map, FlatMap, AnyMatch: filtering and projection
//   - SortStable, By: stable ordering by a key
//   - GroupBy, CountBy, AverageBy: partitioning and per-group reductions
//   - Average: arithmetic mean, failing with ErrInvalidArgument on empty input
//   - Join: prefix + items + suffix rendering
//
// # Connectors
//
// Connectors are named, observable stages that read a Source:
//
//   - Filter: keep items satisfying a predicate, in source order
//   - Index: file items under zero or more keys each
//
// Each connector owns a metricz registry, a tracez tracer and hookz hooks,
// and takes its timestamps from an injectable clockz clock:
//
//	f := lensz.NewFilter("with-digits", hasDigit)
//	defer f.Close()
//	_ = f.OnSkipped(func(_ context.Context, e lensz.FilterEvent[string]) error {
//	    log.Printf("dropped %q", e.Item)
//	    return nil
//	})
//	kept, err := f.Apply(ctx, lensz.FromValues("abc", "a1c"))
//
// # Error Handling
//
// Pure helpers either cannot fail or return errors wrapping
// ErrInvalidArgument. Connectors return *Error[T] carrying the connector
// path, the offending item and its position:
//
//	var lerr *lensz.Error[string]
//	if errors.As(err, &lerr) {
//	    log.Printf("failed at %v on item %d", lerr.Path, lerr.Index)
//	}
package lensz
