package model

import (
	"testing"
	"time"
)

func TestLabelString(t *testing.T) {
	if LabelNoFailure.String() != "no failure" {
		t.Fatalf("unexpected %q", LabelNoFailure.String())
	}
	if LabelFailure.String() != "will fail" {
		t.Fatalf("unexpected %q", LabelFailure.String())
	}
	if Label(7).String() != "invalid(7)" {
		t.Fatalf("unexpected %q", Label(7).String())
	}
	if Label(2).Valid() {
		t.Fatalf("label 2 should be invalid")
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2025, 5, 26, 23, 30, 0, 0, loc)
	got := Day(in)
	want := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}
