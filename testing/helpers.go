// Package testing provides test utilities for lensz-based code.
//
// It includes a recording mock predicate, assertion helpers for call counts
// and metric values, and a span recorder for connectors that trace.
//
// Example usage:
//
//	func TestMyFilter(t *testing.T) {
//		mock := lensztesting.NewMockPredicate[string](t, "mock-predicate")
//		mock.WithResult(true)
//
//		filter := lensz.NewRuleFilter(mock.Rule())
//		kept, err := filter.Apply(context.Background(), lensz.FromValues("a", "b"))
//
//		require.NoError(t, err)
//		assert.Len(t, kept, 2)
//		lensztesting.AssertCalled(t, mock, 2)
//	}
package testing

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/lensz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// MockPredicate is a configurable predicate that records every call.
type MockPredicate[T any] struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	t           *testing.T
	name        string
	callCount   int64
	lastInput   T
	result      bool
	decide      lensz.Predicate[T]
	panicMsg    string
	mu          sync.RWMutex
	callHistory []MockCall[T]
	maxHistory  int
}

// MockCall represents a single call to the mock predicate.
type MockCall[T any] struct {
	Input     T
	Result    bool
	Timestamp time.Time
}

// NewMockPredicate creates a mock that rejects everything until configured.
func NewMockPredicate[T any](t *testing.T, name string) *MockPredicate[T] {
	return &MockPredicate[T]{
		t:          t,
		name:       name,
		maxHistory: 100,
	}
}

// WithResult makes every call return result.
func (m *MockPredicate[T]) WithResult(result bool) *MockPredicate[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = result
	m.decide = nil
	return m
}

// WithPredicate delegates the verdict to pred while still recording calls.
func (m *MockPredicate[T]) WithPredicate(pred lensz.Predicate[T]) *MockPredicate[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decide = pred
	return m
}

// WithPanic makes every call panic with msg.
func (m *MockPredicate[T]) WithPanic(msg string) *MockPredicate[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize bounds the recorded call history. Zero disables it.
func (m *MockPredicate[T]) WithHistorySize(size int) *MockPredicate[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxHistory = size
	return m
}

// Name returns the mock's name.
func (m *MockPredicate[T]) Name() lensz.Name {
	return m.name
}

// Test records the call and returns the configured verdict.
func (m *MockPredicate[T]) Test(v T) bool {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.RLock()
	decide := m.decide
	result := m.result
	panicMsg := m.panicMsg
	m.mu.RUnlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if decide != nil {
		result = decide(v)
	}

	m.mu.Lock()
	m.lastInput = v
	if m.maxHistory > 0 {
		m.callHistory = append(m.callHistory, MockCall[T]{
			Input:     v,
			Result:    result,
			Timestamp: time.Now(),
		})
		if len(m.callHistory) > m.maxHistory {
			m.callHistory = m.callHistory[1:] // Remove oldest
		}
	}
	m.mu.Unlock()

	return result
}

// Predicate returns the mock as a lensz.Predicate.
func (m *MockPredicate[T]) Predicate() lensz.Predicate[T] {
	return m.Test
}

// Rule returns the mock as a named rule.
func (m *MockPredicate[T]) Rule() lensz.Rule[T] {
	return lensz.NewRule(m.name, m.Test)
}

// CallCount returns the number of times Test has been called.
func (m *MockPredicate[T]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastInput returns the input from the most recent completed call.
func (m *MockPredicate[T]) LastInput() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInput
}

// CallHistory returns a copy of the recorded calls.
// Returns nil if history tracking is disabled.
func (m *MockPredicate[T]) CallHistory() []MockCall[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.maxHistory == 0 {
		return nil
	}
	history := make([]MockCall[T], len(m.callHistory))
	copy(history, m.callHistory)
	return history
}

// Reset clears all call tracking.
func (m *MockPredicate[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.callCount, 0)
	m.lastInput = *new(T)
	m.callHistory = nil
}

// Assertion Helpers

// AssertCalled verifies that a mock predicate was called exactly n times.
func AssertCalled[T any](t *testing.T, mock *MockPredicate[T], expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock predicate %s to be called %d times, but was called %d times",
			mock.name, expectedCalls, actualCalls)
	}
}

// AssertNotCalled verifies that a mock predicate was never called.
func AssertNotCalled[T any](t *testing.T, mock *MockPredicate[T]) {
	t.Helper()
	AssertCalled(t, mock, 0)
}

// AssertCalledWith verifies the input of the most recent call.
func AssertCalledWith[T comparable](t *testing.T, mock *MockPredicate[T], expectedInput T) {
	t.Helper()
	if mock.CallCount() == 0 {
		t.Errorf("expected mock predicate %s to be called with input %v, but it was never called",
			mock.name, expectedInput)
		return
	}

	actualInput := mock.LastInput()
	if actualInput != expectedInput {
		t.Errorf("expected mock predicate %s to be called with input %v, but was called with %v",
			mock.name, expectedInput, actualInput)
	}
}

// AssertCalledBetween verifies that a mock predicate was called between min and max times.
func AssertCalledBetween[T any](t *testing.T, mock *MockPredicate[T], minCalls, maxCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls < minCalls || actualCalls > maxCalls {
		t.Errorf("expected mock predicate %s to be called between %d and %d times, but was called %d times",
			mock.name, minCalls, maxCalls, actualCalls)
	}
}

// AssertCounter verifies the value of a counter in a registry.
func AssertCounter(t *testing.T, registry *metricz.Registry, key metricz.Key, expected float64) {
	t.Helper()
	if actual := registry.Counter(key).Value(); actual != expected {
		t.Errorf("expected counter %s to be %v, got %v", key, expected, actual)
	}
}

// AssertGauge verifies the value of a gauge in a registry.
func AssertGauge(t *testing.T, registry *metricz.Registry, key metricz.Key, expected float64) {
	t.Helper()
	if actual := registry.Gauge(key).Value(); actual != expected {
		t.Errorf("expected gauge %s to be %v, got %v", key, expected, actual)
	}
}

// SpanRecorder collects spans completed by a tracer.
type SpanRecorder struct {
	mu    sync.Mutex
	spans []tracez.Span
}

// RecordSpans subscribes a new recorder to tracer.
func RecordSpans(tracer *tracez.Tracer) *SpanRecorder {
	r := &SpanRecorder{}
	tracer.OnSpanComplete(func(span tracez.Span) {
		r.mu.Lock()
		r.spans = append(r.spans, span)
		r.mu.Unlock()
	})
	return r
}

// Spans returns a copy of the spans recorded so far.
func (r *SpanRecorder) Spans() []tracez.Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tracez.Span, len(r.spans))
	copy(out, r.spans)
	return out
}

// WaitForSpans waits until at least n spans were recorded.
func (r *SpanRecorder) WaitForSpans(n int, timeout time.Duration) bool {
	start := time.Now()
	for time.Since(start) < timeout {
		r.mu.Lock()
		got := len(r.spans)
		r.mu.Unlock()
		if got >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForCalls waits for a mock predicate to be called at least n times,
// with a timeout. Returns true if the expected calls were reached.
func WaitForCalls[T any](mock *MockPredicate[T], expectedCalls int, timeout time.Duration) bool {
	start := time.Now()
	for time.Since(start) < timeout {
		if mock.CallCount() >= expectedCalls {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// ParallelTest runs testFunc concurrently on the given number of goroutines.
func ParallelTest(t *testing.T, goroutines int, testFunc func(int)) {
	t.Helper()

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			testFunc(id)
		}(i)
	}

	wg.Wait()
}
