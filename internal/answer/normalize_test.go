package answer

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize_Strings(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "A", want: []string{"A"}},
		{in: "a", want: []string{"A"}},
		{in: "A,B", want: []string{"A", "B"}},
		{in: "A;B", want: []string{"A", "B"}},
		{in: "A B", want: []string{"A", "B"}},
		{in: "AB", want: []string{"A", "B"}},
		{in: " b , a ", want: []string{"B", "A"}},
		{in: `"C"`, want: []string{"C"}},
		{in: "A,A,B", want: []string{"A", "B"}},
		{in: "", want: nil},
		{in: "   ", want: nil},
	}

	for _, tc := range tests {
		got, err := Normalize(tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", tc.in, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Normalize(%q): got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_DelimiterChoiceIsIrrelevant(t *testing.T) {
	variants := []string{"A,B", "A B", "A;B", "A\tB", "b,a"}
	for _, v := range variants {
		got, err := Normalize(v)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", v, err)
		}
		if !Equal(got, []string{"A", "B"}) {
			t.Fatalf("Normalize(%q): got %v, want set {A,B}", v, got)
		}
	}
}

func TestNormalize_Sequences(t *testing.T) {
	got, err := Normalize([]string{"b", "a"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("got %v want [B A]", got)
	}

	got, err = Normalize([]any{"A", "B", "A"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("got %v want [A B]", got)
	}

	got, err = Normalize([]string{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty sequence: got %v", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize("C,A,B")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	second, err := Normalize(first)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %v != %v", first, second)
	}
}

func TestNormalize_InvalidShapes(t *testing.T) {
	invalid := []any{
		42,
		3.14,
		true,
		map[string]any{"Q1": "A"},
		[]any{1, 2},
		[]any{map[string]any{"answer": "A"}},
	}

	for _, raw := range invalid {
		if _, err := Normalize(raw); !errors.Is(err, ErrInvalidAnswer) {
			t.Fatalf("Normalize(%#v): got err %v, want ErrInvalidAnswer", raw, err)
		}
	}
}

func TestNormalize_Nil(t *testing.T) {
	got, err := Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize(nil): %v", err)
	}
	if got != nil {
		t.Fatalf("Normalize(nil): got %v", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b []string
		want bool
	}{
		{a: []string{"A", "B"}, b: []string{"B", "A"}, want: true},
		{a: []string{"A"}, b: []string{"A"}, want: true},
		{a: nil, b: nil, want: true},
		{a: []string{"A"}, b: []string{"B"}, want: false},
		{a: []string{"A", "B"}, b: []string{"A"}, want: false},
		{a: []string{"B"}, b: []string{"A", "B"}, want: false},
	}

	for _, tc := range tests {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%v, %v): got %v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
