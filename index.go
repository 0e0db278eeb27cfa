package lensz

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Index connector.
const (
	// Metrics.
	IndexProcessedTotal = metricz.Key("index.processed.total")
	IndexIndexedTotal   = metricz.Key("index.indexed.total")
	IndexUnindexedTotal = metricz.Key("index.unindexed.total")
	IndexEntriesTotal   = metricz.Key("index.entries.total")
	IndexKeys           = metricz.Key("index.keys")
	IndexDurationMs     = metricz.Key("index.duration.ms")

	// Spans.
	IndexGroupSpan = tracez.Key("index.group")

	// Tags.
	IndexTagConnector = tracez.Tag("index.connector")
	IndexTagKeys      = tracez.Tag("index.keys")
	IndexTagSuccess   = tracez.Tag("index.success")
	IndexTagError     = tracez.Tag("index.error")

	// Hook event keys.
	IndexEventIndexed   = hookz.Key("index.indexed")
	IndexEventUnindexed = hookz.Key("index.unindexed")
)

// IndexEvent represents the keys extracted from a single item.
type IndexEvent[T any, K comparable] struct {
	Timestamp time.Time // When the item was indexed
	Item      T         // The indexed item
	Name      Name      // Connector name
	Keys      []K       // Keys the item was filed under (empty when unindexed)
	Index     int       // Position of the item in the source
}

// KeyFunc extracts the keys an item should be filed under.
// Returning no keys leaves the item out of the index.
type KeyFunc[T any, K comparable] func(T) []K

// Index groups the items of a Source under zero or more keys each.
//
// Unlike GroupBy, which files every item under exactly one key, an Index
// files an item once per key its KeyFunc yields. This makes it the natural
// shape for positional queries such as "which passwords have a special
// character at position i":
//
//	positions := lensz.NewIndex("special-positions", specialCharPositions)
//	byPos, err := positions.Group(ctx, lensz.FromValues("b1op!", "#bli!"))
//	// byPos: {0: ["#bli!"], 4: ["b1op!", "#bli!"]}
//
// Items inside each key keep source order. Only observed keys appear.
//
// # Observability
//
// Metrics:
//   - index.processed.total: Counter of items seen
//   - index.indexed.total: Counter of items filed under at least one key
//   - index.unindexed.total: Counter of items that yielded no key
//   - index.entries.total: Counter of (key, item) entries produced
//   - index.keys: Gauge of distinct keys in the last result
//   - index.duration.ms: Gauge of the last call duration
//
// Traces:
//   - index.group: Span for one Group or Count call
//
// Events (via hooks):
//   - index.indexed: Fired for every item that yields keys
//   - index.unindexed: Fired for every item that yields none
type Index[T any, K comparable] struct {
	keys    KeyFunc[T, K]
	clock   clockz.Clock
	name    Name
	mu      sync.RWMutex
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[IndexEvent[T, K]]
}

// NewIndex creates a new Index connector with the given key function.
func NewIndex[T any, K comparable](name Name, keys KeyFunc[T, K]) *Index[T, K] {
	metrics := metricz.New()
	metrics.Counter(IndexProcessedTotal)
	metrics.Counter(IndexIndexedTotal)
	metrics.Counter(IndexUnindexedTotal)
	metrics.Counter(IndexEntriesTotal)
	metrics.Gauge(IndexKeys)
	metrics.Gauge(IndexDurationMs)

	return &Index[T, K]{
		name:    name,
		keys:    keys,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[IndexEvent[T, K]](),
	}
}

// Group draws a fresh sequence from src and files every item under each of
// its keys.
func (x *Index[T, K]) Group(ctx context.Context, src Source[T]) (map[K][]T, error) {
	groups := make(map[K][]T)
	err := x.walk(ctx, src, func(k K, item T) {
		groups[k] = append(groups[k], item)
	})
	if err != nil {
		return nil, err
	}
	x.metrics.Gauge(IndexKeys).Set(float64(len(groups)))
	return groups, nil
}

// Count draws a fresh sequence from src and tallies how many items were
// filed under each key.
func (x *Index[T, K]) Count(ctx context.Context, src Source[T]) (map[K]int, error) {
	counts := make(map[K]int)
	err := x.walk(ctx, src, func(k K, _ T) {
		counts[k]++
	})
	if err != nil {
		return nil, err
	}
	x.metrics.Gauge(IndexKeys).Set(float64(len(counts)))
	return counts, nil
}

func (x *Index[T, K]) walk(ctx context.Context, src Source[T], emit func(K, T)) (err error) {
	x.mu.RLock()
	keyFn := x.keys
	clock := x.getClock()
	x.mu.RUnlock()

	ctx, span := x.tracer.StartSpan(ctx, IndexGroupSpan)
	span.SetTag(IndexTagConnector, x.name)
	start := clock.Now()

	distinct := make(map[K]struct{})
	defer func() {
		x.metrics.Gauge(IndexDurationMs).Set(float64(clock.Since(start).Milliseconds()))
		if err != nil {
			span.SetTag(IndexTagSuccess, "false")
			span.SetTag(IndexTagError, err.Error())
		} else {
			span.SetTag(IndexTagKeys, strconv.Itoa(len(distinct)))
			span.SetTag(IndexTagSuccess, "true")
		}
		span.Finish()
	}()

	if src == nil {
		return nil
	}

	index := 0
	for item := range src() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return contextError(ctxErr, x.name, index, item, clock.Now())
		}

		keys, keyErr := safeKeys(keyFn, item)
		if keyErr != nil {
			return &Error[T]{
				Timestamp: clock.Now(),
				InputData: item,
				Err:       keyErr,
				Path:      []Name{x.name},
				Index:     index,
			}
		}

		x.metrics.Counter(IndexProcessedTotal).Inc()
		event := IndexEvent[T, K]{
			Name:      x.name,
			Item:      item,
			Keys:      keys,
			Index:     index,
			Timestamp: clock.Now(),
		}

		if len(keys) == 0 {
			x.metrics.Counter(IndexUnindexedTotal).Inc()
			_ = x.hooks.Emit(ctx, IndexEventUnindexed, event) //nolint:errcheck
			index++
			continue
		}

		for _, k := range keys {
			emit(k, item)
			distinct[k] = struct{}{}
			x.metrics.Counter(IndexEntriesTotal).Inc()
		}
		x.metrics.Counter(IndexIndexedTotal).Inc()
		_ = x.hooks.Emit(ctx, IndexEventIndexed, event) //nolint:errcheck
		index++
	}
	return nil
}

func safeKeys[T any, K comparable](fn KeyFunc[T, K], item T) (keys []K, err error) {
	defer func() {
		if r := recover(); r != nil {
			keys = nil
			err = fmt.Errorf("%w: %v", ErrPredicatePanic, r)
		}
	}()
	return fn(item), nil
}

// SetKeys updates the key function.
func (x *Index[T, K]) SetKeys(keys KeyFunc[T, K]) *Index[T, K] {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.keys = keys
	return x
}

// WithClock sets a custom clock for testing.
func (x *Index[T, K]) WithClock(clock clockz.Clock) *Index[T, K] {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.clock = clock
	return x
}

func (x *Index[T, K]) getClock() clockz.Clock {
	if x.clock == nil {
		return clockz.RealClock
	}
	return x.clock
}

// Name returns the name of this connector.
func (x *Index[T, K]) Name() Name {
	return x.name
}

// Metrics returns the metrics registry for this connector.
func (x *Index[T, K]) Metrics() *metricz.Registry {
	return x.metrics
}

// Tracer returns the tracer for this connector.
func (x *Index[T, K]) Tracer() *tracez.Tracer {
	return x.tracer
}

// Close gracefully shuts down observability components.
func (x *Index[T, K]) Close() error {
	if x.tracer != nil {
		x.tracer.Close()
	}
	x.hooks.Close()
	return nil
}

// OnIndexed registers a handler for items that yield at least one key.
func (x *Index[T, K]) OnIndexed(handler func(context.Context, IndexEvent[T, K]) error) error {
	_, err := x.hooks.Hook(IndexEventIndexed, handler)
	return err
}

// OnUnindexed registers a handler for items that yield no key.
func (x *Index[T, K]) OnUnindexed(handler func(context.Context, IndexEvent[T, K]) error) error {
	_, err := x.hooks.Hook(IndexEventUnindexed, handler)
	return err
}
