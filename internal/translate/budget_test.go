// ABOUTME: Tests for token-budget and timeout scaling
// ABOUTME: Verifies floors, ceilings, and monotonic growth

package translate

import (
	"testing"
	"time"
)

func TestTokenBudget(t *testing.T) {
	tests := []struct {
		inputLen int
		want     int
	}{
		{0, 256},     // floor
		{10, 261},    // grows with input
		{1000, 756},  //
		{5000, 1536}, // ceiling
		{100000, 1536},
	}
	for _, tt := range tests {
		if got := TokenBudget(tt.inputLen); got != tt.want {
			t.Errorf("TokenBudget(%d) = %d, want %d", tt.inputLen, got, tt.want)
		}
	}
}

func TestTokenBudget_Monotonic(t *testing.T) {
	prev := 0
	for _, n := range []int{0, 50, 500, 2000, 10000} {
		got := TokenBudget(n)
		if got < prev {
			t.Errorf("TokenBudget(%d) = %d shrank below %d", n, got, prev)
		}
		prev = got
	}
}

func TestCallTimeout(t *testing.T) {
	tests := []struct {
		inputLen int
		want     time.Duration
	}{
		{0, 12 * time.Second},
		{199, 12 * time.Second},
		{400, 14 * time.Second},
		{100000, 45 * time.Second}, // ceiling
	}
	for _, tt := range tests {
		if got := CallTimeout(tt.inputLen); got != tt.want {
			t.Errorf("CallTimeout(%d) = %s, want %s", tt.inputLen, got, tt.want)
		}
	}
}
