package lensz

import "testing"

type node struct {
	next *node
	name string
}

func TestOption_Chain(t *testing.T) {
	nextOf := func(n node) Option[node] { return FromPtr(n.next) }
	nameOf := func(n node) string { return n.name }

	tests := []struct {
		start *node
		name  string
		want  string
	}{
		{name: "nil start", start: nil, want: "fallback"},
		{name: "no next", start: &node{name: "a"}, want: "fallback"},
		{name: "next present", start: &node{name: "a", next: &node{name: "b"}}, want: "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapOption(FlatMapOption(FromPtr(tt.start), nextOf), nameOf).OrElse("fallback")
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOption_Filter(t *testing.T) {
	long := Predicate[string](func(s string) bool { return len(s) > 3 })

	if Some("abcd").Filter(long).OrElse("") != "abcd" {
		t.Error("Expected value to survive filter")
	}
	if Some("ab").Filter(long).IsPresent() {
		t.Error("Expected value to be filtered out")
	}
	if None[string]().Filter(long).IsPresent() {
		t.Error("Expected None to stay None")
	}
}

func TestOption_Get(t *testing.T) {
	v, ok := Some(3).Get()
	if !ok || v != 3 {
		t.Errorf("Expected (3, true), got (%d, %t)", v, ok)
	}

	v, ok = None[int]().Get()
	if ok || v != 0 {
		t.Errorf("Expected (0, false), got (%d, %t)", v, ok)
	}
}
