package typegen

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single line", "Goo", []string{"Goo"}},
		{"two lines", "Goo\nType", []string{"Goo", "Type"}},
		{"trailing newline", "Goo\n", []string{"Goo"}},
		{"blank middle line", "a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLineOffsetsCentered(t *testing.T) {
	if got := lineOffsets(1, 40); got[0] != 0 {
		t.Errorf("single line offset = %v, want 0", got[0])
	}

	got := lineOffsets(3, 10)
	want := []float64{-10, 0, 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lineOffsets(3, 10) = %v, want %v", got, want)
	}

	// Even line counts straddle the center; the block stays balanced.
	got = lineOffsets(4, 20)
	want = []float64{-30, -10, 10, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lineOffsets(4, 20) = %v, want %v", got, want)
	}
}

func TestLineOffsetsSpacing(t *testing.T) {
	got := lineOffsets(5, 12.5)
	for i := 1; i < len(got); i++ {
		assertNear(t, "leading between lines", got[i]-got[i-1], 12.5)
	}
	var sum float64
	for _, v := range got {
		sum += v
	}
	assertNear(t, "offsets sum (vertical centering)", sum, 0)
}
