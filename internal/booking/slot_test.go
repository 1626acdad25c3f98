package booking

import (
	"errors"
	"testing"
)

func TestParseWindow(t *testing.T) {
	t.Run("normalizes short time forms", func(t *testing.T) {
		w, err := ParseWindow("2024-05-01", "9:00", "10:30")
		if err != nil {
			t.Fatalf("ParseWindow: %v", err)
		}
		if w.Date != "2024-05-01" || w.Start != "09:00:00" || w.End != "10:30:00" {
			t.Fatalf("unexpected window: %+v", w)
		}
	})

	t.Run("accepts full HH:MM:SS", func(t *testing.T) {
		w, err := ParseWindow("2024-05-01", "10:00:00", "11:00:00")
		if err != nil {
			t.Fatalf("ParseWindow: %v", err)
		}
		if w.Start != "10:00:00" || w.End != "11:00:00" {
			t.Fatalf("unexpected window: %+v", w)
		}
	})

	t.Run("rejects start >= end", func(t *testing.T) {
		for _, pair := range [][2]string{{"11:00", "10:00"}, {"10:00", "10:00"}} {
			if _, err := ParseWindow("2024-05-01", pair[0], pair[1]); !errors.Is(err, ErrInvalidSlot) {
				t.Fatalf("ParseWindow(%s, %s): want ErrInvalidSlot, got %v", pair[0], pair[1], err)
			}
		}
	})

	t.Run("rejects malformed inputs", func(t *testing.T) {
		cases := [][3]string{
			{"05/01/2024", "10:00", "11:00"},
			{"2024-05-01", "25:00", "26:00"},
			{"2024-05-01", "ten", "11:00"},
			{"", "10:00", "11:00"},
		}
		for _, c := range cases {
			if _, err := ParseWindow(c[0], c[1], c[2]); !errors.Is(err, ErrInvalidSlot) {
				t.Fatalf("ParseWindow(%v): want ErrInvalidSlot, got %v", c, err)
			}
		}
	})
}

func TestOverlaps(t *testing.T) {
	// Existing reservation 10:00-11:00; cases from the half-open
	// [start, end) convention.
	const exS, exE = "10:00:00", "11:00:00"

	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"disjoint before", "08:00:00", "09:00:00", false},
		{"touching at start boundary", "09:00:00", "10:00:00", false},
		{"partial overlap at start", "09:30:00", "10:30:00", true},
		{"contained", "10:15:00", "10:45:00", true},
		{"identical", "10:00:00", "11:00:00", true},
		{"containing", "09:00:00", "12:00:00", true},
		{"partial overlap at end", "10:30:00", "11:30:00", true},
		{"touching at end boundary", "11:00:00", "12:00:00", false},
		{"disjoint after", "12:00:00", "13:00:00", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Overlaps(c.start, c.end, exS, exE); got != c.want {
				t.Fatalf("Overlaps(%s-%s vs %s-%s) = %v, want %v", c.start, c.end, exS, exE, got, c.want)
			}
			// Overlap is symmetric under the canonical rule.
			if got := Overlaps(exS, exE, c.start, c.end); got != c.want {
				t.Fatalf("Overlaps symmetric(%s-%s) = %v, want %v", c.start, c.end, got, c.want)
			}
		})
	}
}
