package textutil

import "testing"

func TestTernary(t *testing.T) {
	if got := Ternary(true, "a", "b"); got != "a" {
		t.Fatalf("Ternary(true) = %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Fatalf("Ternary(false) = %d", got)
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "file"); got != "1 file" {
		t.Fatalf("Plural(1) = %q", got)
	}
	if got := Plural(0, "run"); got != "0 runs" {
		t.Fatalf("Plural(0) = %q", got)
	}
}
