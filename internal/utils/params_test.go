package utils

import (
	"reflect"
	"testing"
)

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{"x", 5, 5},
		{" 42", 7, 7},
		{"999999999999999999999999", 3, 3},
	}
	for _, c := range cases {
		if got := AtoiDefault(c.s, c.def); got != c.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", c.s, c.def, got, c.want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	if SplitCSV("") != nil || SplitCSV(" , ,") != nil {
		t.Fatalf("blank input should yield nil")
	}
	got := SplitCSV(" a, ,b ,  c  ,")
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitCSV = %#v; want %#v", got, want)
	}
}

func TestSplitIDs(t *testing.T) {
	got := SplitIDs("r1,r2", " r3 ", "", "r1")
	if want := []string{"r1", "r2", "r3", "r1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitIDs = %#v; want %#v", got, want)
	}
	if SplitIDs() != nil {
		t.Fatalf("no args should yield nil")
	}
}
