package lexer

import (
	"slices"
	"testing"
)

func TestTypeNames(t *testing.T) {
	types := NewTypeNames(StddefTypes...)

	if types.Len() != 3 {
		t.Errorf("Len() = %d, want 3", types.Len())
	}
	if !types.Contains("size_t") {
		t.Error("size_t should be predeclared")
	}
	if types.Contains("myint") {
		t.Error("myint should not be known yet")
	}
	if !types.Add("myint") {
		t.Error("Add(myint) should report a new name")
	}
	if types.Add("myint") {
		t.Error("second Add(myint) should report an existing name")
	}

	want := []string{"myint", "ptrdiff_t", "size_t", "wchar_t"}
	if got := types.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
