package lensz

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestParallelKeep(t *testing.T) {
	items := make([]int, 200)
	for i := range items {
		items[i] = i
	}
	divisible := Predicate[int](func(n int) bool { return n%3 == 0 })
	want := Keep(items, divisible)

	for _, workers := range []int{0, 1, 2, 8, 500} {
		got, err := ParallelKeep(context.Background(), items, divisible, workers)
		if err != nil {
			t.Fatalf("workers=%d: expected no error, got %v", workers, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers=%d: output differs from Keep", workers)
		}
	}
}

func TestParallelKeep_Empty(t *testing.T) {
	got, err := ParallelKeep(context.Background(), nil, Predicate[int](func(int) bool { return true }), 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil result, got %#v", got)
	}
}

func TestParallelKeep_Panic(t *testing.T) {
	boom := Predicate[int](func(n int) bool {
		if n == 3 {
			panic("three")
		}
		return true
	})

	_, err := ParallelKeep(context.Background(), []int{1, 2, 3, 4}, boom, 2)
	if !errors.Is(err, ErrPredicatePanic) {
		t.Errorf("Expected ErrPredicatePanic, got %v", err)
	}
}

func TestParallelKeep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParallelKeep(ctx, []int{1, 2}, Predicate[int](func(int) bool { return true }), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
