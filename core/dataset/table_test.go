package dataset

import "testing"

func TestTable_Lookup(t *testing.T) {
	tb := &Table{
		Columns: []string{" machinecode", "linecode"},
		Rows:    [][]string{{"STX01 ", "LINE1"}, {"", "LINE2"}, {"NaN", "LINE3"}},
		Null:    [][]bool{{false, false}, {false, false}, {true, false}},
	}
	if tb.Index("machinecode") != 0 || tb.Index("linecode") != 1 || tb.Index("x") != -1 {
		t.Fatalf("unexpected index lookup")
	}
	if v := tb.Value(0, 0); v != "STX01" {
		t.Fatalf("expected trimmed value got %q", v)
	}
	if tb.IsNull(0, 0) {
		t.Fatalf("row 0 should not be null")
	}
	if !tb.IsNull(1, 0) {
		t.Fatalf("blank cell should be null")
	}
	if !tb.IsNull(2, 0) {
		t.Fatalf("masked cell should be null")
	}
	if !tb.IsNull(5, 0) {
		t.Fatalf("out of range cell should be null")
	}
	if tb.Len() != 3 {
		t.Fatalf("expected 3 rows")
	}
}
