package utils

import (
	"testing"
	"time"
)

func TestShortenString(t *testing.T) {
	tests := []struct {
		in       string
		l        int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is a longer string", 7, "this is..."},
		{"untouched when zero", 0, "untouched when zero"},
	}
	for _, tt := range tests {
		if got := ShortenString(tt.in, tt.l); got != tt.expected {
			t.Errorf("ShortenString(%q, %d) = %q, expected %q", tt.in, tt.l, got, tt.expected)
		}
	}
}

func TestRandomDurationStaysInBounds(t *testing.T) {
	min, max := time.Second, 1800*time.Millisecond
	for i := 0; i < 100; i++ {
		d := RandomDuration(min, max)
		if d < min || d > max {
			t.Fatalf("duration %v out of [%v, %v]", d, min, max)
		}
	}
}

func TestRandomDurationDegenerateRange(t *testing.T) {
	if d := RandomDuration(time.Second, time.Second); d != time.Second {
		t.Fatalf("expected the lower bound back, got %v", d)
	}
	if d := RandomDuration(2*time.Second, time.Second); d != 2*time.Second {
		t.Fatalf("inverted bounds must yield the lower bound, got %v", d)
	}
}
