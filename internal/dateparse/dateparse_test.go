package dateparse

import (
	"testing"
	"time"
)

func TestParseDayFirst(t *testing.T) {
	want := time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"03/04/2024",
		"3/4/2024",
		"03-04-2024",
		"03.04.2024",
		"03/04/24",
		"2024-04-03",
		"2024/04/03",
		"20240403",
		"3 Apr 2024",
		"03-Apr-2024",
		"3 April 2024",
		"April 3, 2024",
		"Apr 3, 2024",
		"2024-04-03 00:00:00",
		"2024-04-03T10:15:00Z",
		"03/04/2024 17:30",
		" 03/04/2024 ",
		"45385",
	}
	for _, in := range inputs {
		got, ok := Parse(in)
		if !ok {
			t.Fatalf("Parse(%q) failed", in)
		}
		if !got.Equal(want) {
			t.Fatalf("Parse(%q) got=%s want=%s", in, got.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	}
}

func TestParseFailures(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "31/02/2024", "13/13/2024"} {
		if _, ok := Parse(in); ok {
			t.Fatalf("Parse(%q) unexpectedly succeeded", in)
		}
	}
}

func TestParseOrFallsBack(t *testing.T) {
	def := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseOr("garbage", &def); got != &def {
		t.Fatalf("ParseOr did not return the default")
	}
	if got := ParseOr("garbage", nil); got != nil {
		t.Fatalf("ParseOr(nil default) got=%v want=nil", got)
	}
	got := ParseOr("01/02/2023", &def)
	if got == nil || got.Month() != time.February || got.Day() != 1 {
		t.Fatalf("ParseOr(01/02/2023) got=%v", got)
	}
}
