package annotate

import "testing"

func TestBudgetAccumulateThenCheck(t *testing.T) {
	b := NewBudget(10)

	b.Charge(6)
	if b.OverLimit() {
		t.Error("6/10 should not be over limit")
	}

	// The second charge lands before its own over-limit check, so 12 >= 10.
	b.Charge(6)
	if !b.OverLimit() {
		t.Error("12/10 should be over limit")
	}
	if got := b.Touched(); got != 12 {
		t.Errorf("Touched() = %d, want 12", got)
	}
}

func TestBudgetExactLimitIsOver(t *testing.T) {
	b := NewBudget(10)
	b.Charge(10)
	if !b.OverLimit() {
		t.Error("touched == limit should count as over")
	}
}

func TestBudgetReset(t *testing.T) {
	b := NewBudget(5)
	b.Charge(20)
	b.Reset()
	if b.Touched() != 0 {
		t.Errorf("Touched() after Reset = %d, want 0", b.Touched())
	}
	if b.OverLimit() {
		t.Error("reset budget should not be over limit")
	}
}

func TestBudgetIgnoresNonPositiveCharges(t *testing.T) {
	b := NewBudget(10)
	b.Charge(0)
	b.Charge(-3)
	if b.Touched() != 0 {
		t.Errorf("Touched() = %d, want 0", b.Touched())
	}
}

func TestBudgetDefaultLimit(t *testing.T) {
	if got := NewBudget(0).Limit(); got != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", got, DefaultLimit)
	}
	if got := NewBudget(-1).Limit(); got != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", got, DefaultLimit)
	}
}

func TestCharCountGraphemes(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5},
		{"a\nb", 3},
		{"👍", 1},
	}
	for _, tt := range tests {
		if got := charCount([]byte(tt.text)); got != tt.want {
			t.Errorf("charCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
