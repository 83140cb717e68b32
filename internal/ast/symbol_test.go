package ast

import "testing"

func TestInternReturnsTheSameSymbolForEqualStrings(t *testing.T) {
	a := Intern("frobnicate")
	b := Intern("frobnicate")
	if a != b {
		t.Fatalf("Intern(%q) = %d, Intern(%q) = %d, want equal", "frobnicate", a, "frobnicate", b)
	}
}

func TestInternReturnsDistinctSymbolsForDifferentStrings(t *testing.T) {
	a := Intern("alpha_unique_9f3")
	b := Intern("beta_unique_9f3")
	if a == b {
		t.Fatalf("expected distinct symbols, both got %d", a)
	}
}

func TestSymbolStringRoundTrips(t *testing.T) {
	sym := Intern("round_trip_check_4c1")
	if got := sym.String(); got != "round_trip_check_4c1" {
		t.Fatalf("got %q, want %q", got, "round_trip_check_4c1")
	}
}

func TestSymbolStringOnAnInvalidSymbol(t *testing.T) {
	if got := Symbol(-1).String(); got != "<invalid symbol>" {
		t.Fatalf("got %q, want %q", got, "<invalid symbol>")
	}
}

func TestNewNumAndNewBool(t *testing.T) {
	n := NewNum(7)
	if n.IsBool() {
		t.Fatalf("expected NewNum to produce a non-bool value")
	}
	if n.String() != "7" {
		t.Fatalf("got %q, want %q", n.String(), "7")
	}

	b := NewBool(true)
	if !b.IsBool() {
		t.Fatalf("expected NewBool to produce a bool value")
	}
	if b.String() != "true" {
		t.Fatalf("got %q, want %q", b.String(), "true")
	}
}
