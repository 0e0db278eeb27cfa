package lensz

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Filter connector observability.
const (
	FilterProcessedTotal = metricz.Key("filter.processed.total")
	FilterPassedTotal    = metricz.Key("filter.passed.total")
	FilterSkippedTotal   = metricz.Key("filter.skipped.total")
	FilterFailuresTotal  = metricz.Key("filter.failures.total")
	FilterDurationMs     = metricz.Key("filter.duration.ms")
)

// Span names for Filter connector.
const (
	FilterApplySpan = tracez.Key("filter.apply")
)

// Span tags for Filter connector.
const (
	FilterTagConnector = tracez.Tag("filter.connector")
	FilterTagProcessed = tracez.Tag("filter.processed")
	FilterTagPassed    = tracez.Tag("filter.passed")
	FilterTagSuccess   = tracez.Tag("filter.success")
	FilterTagError     = tracez.Tag("filter.error")

	// Hook event keys.
	FilterEventPassed  = hookz.Key("filter.passed")
	FilterEventSkipped = hookz.Key("filter.skipped")
)

// FilterEvent represents a filter decision for a single item.
// It is emitted via hookz for every evaluated item, allowing external
// systems to track which values were kept and which were dropped.
type FilterEvent[T any] struct {
	Timestamp time.Time // When the decision was made
	Item      T         // The evaluated item
	Name      Name      // Connector name
	Index     int       // Position of the item in the source
	Passed    bool      // Whether the item was kept
}

// Filter is a named, observable filtering stage over a Source.
//
// Filter evaluates its predicate against every item of a fresh sequence
// from the source and returns the items that pass, in source order. It
// never deduplicates.
//
// Example - keep passwords that contain a digit:
//
//	withDigits := lensz.NewFilter("with-digits", hasDigit)
//	kept, err := withDigits.Apply(ctx, lensz.FromValues("abc", "a1c"))
//	// kept: ["a1c"]
//
// A panicking predicate does not crash the caller: Apply stops and returns
// an *Error[T] wrapping ErrPredicatePanic. Cancellation of ctx is checked
// between items.
//
// The Filter connector is thread-safe. The predicate can be replaced at
// runtime with SetPredicate.
//
// # Observability
//
// Metrics:
//   - filter.processed.total: Counter of evaluated items
//   - filter.passed.total: Counter of kept items
//   - filter.skipped.total: Counter of dropped items
//   - filter.failures.total: Counter of failed Apply calls
//   - filter.duration.ms: Gauge of the last Apply duration
//
// Traces:
//   - filter.apply: Span for one Apply call
//
// Events (via hooks):
//   - filter.passed: Fired for every kept item
//   - filter.skipped: Fired for every dropped item
type Filter[T any] struct {
	predicate Predicate[T]
	clock     clockz.Clock
	name      Name
	mu        sync.RWMutex

	// Observability
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[FilterEvent[T]]
}

// NewFilter creates a new Filter connector with the given predicate.
func NewFilter[T any](name Name, predicate Predicate[T]) *Filter[T] {
	registry := metricz.New()
	registry.Counter(FilterProcessedTotal)
	registry.Counter(FilterPassedTotal)
	registry.Counter(FilterSkippedTotal)
	registry.Counter(FilterFailuresTotal)
	registry.Gauge(FilterDurationMs)

	return &Filter[T]{
		name:      name,
		predicate: predicate,
		metrics:   registry,
		tracer:    tracez.New(),
		hooks:     hookz.New[FilterEvent[T]](),
	}
}

// NewRuleFilter creates a Filter named after the rule it applies.
func NewRuleFilter[T any](rule Rule[T]) *Filter[T] {
	return NewFilter(rule.Name, rule.Predicate)
}

// Apply draws a fresh sequence from src and returns the items that satisfy
// the predicate, in source order. The result is never nil on success.
func (f *Filter[T]) Apply(ctx context.Context, src Source[T]) (kept []T, err error) {
	f.mu.RLock()
	predicate := f.predicate
	clock := f.getClock()
	f.mu.RUnlock()

	ctx, span := f.tracer.StartSpan(ctx, FilterApplySpan)
	span.SetTag(FilterTagConnector, f.name)
	start := clock.Now()

	processed := 0
	kept = []T{}
	defer func() {
		f.metrics.Gauge(FilterDurationMs).Set(float64(clock.Since(start).Milliseconds()))
		span.SetTag(FilterTagProcessed, strconv.Itoa(processed))
		if err != nil {
			f.metrics.Counter(FilterFailuresTotal).Inc()
			span.SetTag(FilterTagSuccess, "false")
			span.SetTag(FilterTagError, err.Error())
		} else {
			span.SetTag(FilterTagPassed, strconv.Itoa(len(kept)))
			span.SetTag(FilterTagSuccess, "true")
		}
		span.Finish()
	}()

	if src == nil {
		return kept, nil
	}

	index := 0
	for item := range src() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr, f.name, index, item, clock.Now())
		}

		ok, testErr := safeTest(predicate, item)
		if testErr != nil {
			return nil, &Error[T]{
				Timestamp: clock.Now(),
				InputData: item,
				Err:       testErr,
				Path:      []Name{f.name},
				Index:     index,
			}
		}

		processed++
		f.metrics.Counter(FilterProcessedTotal).Inc()

		event := FilterEvent[T]{
			Name:      f.name,
			Item:      item,
			Index:     index,
			Passed:    ok,
			Timestamp: clock.Now(),
		}
		if ok {
			kept = append(kept, item)
			f.metrics.Counter(FilterPassedTotal).Inc()
			_ = f.hooks.Emit(ctx, FilterEventPassed, event) //nolint:errcheck
		} else {
			f.metrics.Counter(FilterSkippedTotal).Inc()
			_ = f.hooks.Emit(ctx, FilterEventSkipped, event) //nolint:errcheck
		}
		index++
	}

	return kept, nil
}

// Test evaluates the predicate against a single value without touching
// metrics or hooks.
func (f *Filter[T]) Test(v T) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.predicate(v)
}

// SetPredicate updates the predicate.
// This allows for dynamic behavior changes at runtime.
func (f *Filter[T]) SetPredicate(predicate Predicate[T]) *Filter[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predicate = predicate
	return f
}

// Predicate returns the current predicate.
func (f *Filter[T]) Predicate() Predicate[T] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.predicate
}

// WithClock sets a custom clock for testing.
func (f *Filter[T]) WithClock(clock clockz.Clock) *Filter[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = clock
	return f
}

func (f *Filter[T]) getClock() clockz.Clock {
	if f.clock == nil {
		return clockz.RealClock
	}
	return f.clock
}

// Name returns the name of this connector.
func (f *Filter[T]) Name() Name {
	return f.name
}

// Metrics returns the metrics registry for this connector.
func (f *Filter[T]) Metrics() *metricz.Registry {
	return f.metrics
}

// Tracer returns the tracer for this connector.
func (f *Filter[T]) Tracer() *tracez.Tracer {
	return f.tracer
}

// Close gracefully shuts down observability components.
func (f *Filter[T]) Close() error {
	if f.tracer != nil {
		f.tracer.Close()
	}
	f.hooks.Close()
	return nil
}

// OnPassed registers a handler for items that satisfy the predicate.
// The handler is called asynchronously.
func (f *Filter[T]) OnPassed(handler func(context.Context, FilterEvent[T]) error) error {
	_, err := f.hooks.Hook(FilterEventPassed, handler)
	return err
}

// OnSkipped registers a handler for items that fail the predicate.
// The handler is called asynchronously.
func (f *Filter[T]) OnSkipped(handler func(context.Context, FilterEvent[T]) error) error {
	_, err := f.hooks.Hook(FilterEventSkipped, handler)
	return err
}
