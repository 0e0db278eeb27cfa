package lensz

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/tracez"
)

func TestFilter_NewFilter(t *testing.T) {
	filter := NewFilter("test-filter", func(n int) bool { return n > 5 })
	defer filter.Close()

	if filter.Name() != "test-filter" {
		t.Errorf("Expected name 'test-filter', got %s", filter.Name())
	}
	if filter.Predicate() == nil {
		t.Error("Expected predicate to be set")
	}
	if filter.Metrics() == nil || filter.Tracer() == nil {
		t.Error("Expected observability to be initialized")
	}
}

func TestFilter_Apply(t *testing.T) {
	filter := NewFilter("gt5", func(n int) bool { return n > 5 })
	defer filter.Close()

	kept, err := filter.Apply(context.Background(), FromValues(7, 1, 9, 5, 6, 9))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(kept, []int{7, 9, 6, 9}) {
		t.Errorf("Expected [7 9 6 9], got %v", kept)
	}

	t.Run("nil source", func(t *testing.T) {
		kept, err := filter.Apply(context.Background(), nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if kept == nil || len(kept) != 0 {
			t.Errorf("Expected empty non-nil result, got %#v", kept)
		}
	})
}

func TestFilter_Metrics(t *testing.T) {
	filter := NewFilter("even", func(n int) bool { return n%2 == 0 })
	defer filter.Close()

	if _, err := filter.Apply(context.Background(), FromValues(1, 2, 3, 4, 6)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	processed := filter.Metrics().Counter(FilterProcessedTotal).Value()
	passed := filter.Metrics().Counter(FilterPassedTotal).Value()
	skipped := filter.Metrics().Counter(FilterSkippedTotal).Value()

	if processed != 5 {
		t.Errorf("Expected 5 processed, got %f", processed)
	}
	if passed != 3 {
		t.Errorf("Expected 3 passed, got %f", passed)
	}
	if skipped != 2 {
		t.Errorf("Expected 2 skipped, got %f", skipped)
	}
	if processed != passed+skipped {
		t.Error("Expected processed = passed + skipped")
	}
}

func TestFilter_Hooks(t *testing.T) {
	clock := clockz.NewFakeClock()
	filter := NewFilter("even", func(n int) bool { return n%2 == 0 }).WithClock(clock)
	defer filter.Close()

	passed := make(chan FilterEvent[int], 4)
	skipped := make(chan FilterEvent[int], 4)
	if err := filter.OnPassed(func(_ context.Context, e FilterEvent[int]) error {
		passed <- e
		return nil
	}); err != nil {
		t.Fatalf("OnPassed: %v", err)
	}
	if err := filter.OnSkipped(func(_ context.Context, e FilterEvent[int]) error {
		skipped <- e
		return nil
	}); err != nil {
		t.Fatalf("OnSkipped: %v", err)
	}

	if _, err := filter.Apply(context.Background(), FromValues(3, 4)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	select {
	case e := <-skipped:
		if e.Item != 3 || e.Index != 0 || e.Passed {
			t.Errorf("Unexpected skipped event %+v", e)
		}
		if !e.Timestamp.Equal(clock.Now()) {
			t.Errorf("Expected timestamp from fake clock, got %v", e.Timestamp)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected skipped event")
	}

	select {
	case e := <-passed:
		if e.Item != 4 || e.Index != 1 || !e.Passed || e.Name != "even" {
			t.Errorf("Unexpected passed event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected passed event")
	}
}

func TestFilter_Spans(t *testing.T) {
	filter := NewFilter("even", func(n int) bool { return n%2 == 0 })
	defer filter.Close()

	var spans []tracez.Span
	var spanMu sync.Mutex
	filter.Tracer().OnSpanComplete(func(span tracez.Span) {
		spanMu.Lock()
		spans = append(spans, span)
		spanMu.Unlock()
	})

	if _, err := filter.Apply(context.Background(), FromValues(1, 2)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		spanMu.Lock()
		n := len(spans)
		spanMu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	spanMu.Lock()
	defer spanMu.Unlock()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != FilterApplySpan {
		t.Errorf("Expected span %s, got %s", FilterApplySpan, spans[0].Name)
	}
	if spans[0].Tags[FilterTagPassed] != "1" || spans[0].Tags[FilterTagSuccess] != "true" {
		t.Errorf("Unexpected span tags %v", spans[0].Tags)
	}
}

func TestFilter_PredicatePanic(t *testing.T) {
	filter := NewFilter("boom", func(n int) bool {
		if n == 2 {
			panic("two")
		}
		return true
	})
	defer filter.Close()

	kept, err := filter.Apply(context.Background(), FromValues(1, 2, 3))
	if kept != nil {
		t.Errorf("Expected nil result on failure, got %v", kept)
	}

	var lerr *Error[int]
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected *Error[int], got %T", err)
	}
	if !errors.Is(err, ErrPredicatePanic) {
		t.Errorf("Expected ErrPredicatePanic, got %v", err)
	}
	if lerr.Index != 1 || lerr.InputData != 2 || lerr.Path[0] != "boom" {
		t.Errorf("Unexpected error context %+v", lerr)
	}
	if filter.Metrics().Counter(FilterFailuresTotal).Value() != 1 {
		t.Error("Expected failure to be counted")
	}
}

func TestFilter_Canceled(t *testing.T) {
	filter := NewFilter("any", func(int) bool { return true })
	defer filter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := filter.Apply(ctx, FromValues(1))

	var lerr *Error[int]
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected *Error[int], got %v", err)
	}
	if !lerr.IsCanceled() || lerr.IsTimeout() {
		t.Errorf("Expected canceled error, got %+v", lerr)
	}
}

func TestFilter_SetPredicate(t *testing.T) {
	filter := NewFilter("swap", func(int) bool { return false })
	defer filter.Close()

	if filter.Test(1) {
		t.Error("Expected initial predicate to reject")
	}
	filter.SetPredicate(func(int) bool { return true })
	if !filter.Test(1) {
		t.Error("Expected new predicate to accept")
	}
}

func TestNewRuleFilter(t *testing.T) {
	rule := NewRule("short", func(s string) bool { return len(s) < 3 })
	filter := NewRuleFilter(rule)
	defer filter.Close()

	if filter.Name() != "short" {
		t.Errorf("Expected name 'short', got %s", filter.Name())
	}
	kept, err := filter.Apply(context.Background(), FromValues("a", "abcd", "ab"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(kept, []string{"a", "ab"}) {
		t.Errorf("Expected [a ab], got %v", kept)
	}
}
