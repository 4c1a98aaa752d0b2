package review

import (
	"reflect"
	"testing"
)

func TestCounterTop(t *testing.T) {
	c := newCounter[string]()
	for _, key := range []string{"b", "a", "c", "a", "c", "d"} {
		c.add(key)
	}

	tests := []struct {
		name string
		n    int
		want []rankedKey[string]
	}{
		{"All", 10, []rankedKey[string]{{"a", 2}, {"c", 2}, {"b", 1}, {"d", 1}}},
		{"Truncated", 3, []rankedKey[string]{{"a", 2}, {"c", 2}, {"b", 1}}},
		{"Zero", 0, []rankedKey[string]{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.top(tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("top(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}

	if c.len() != 4 {
		t.Errorf("len() = %d, want 4", c.len())
	}
}
