package utils

import "testing"

func TestFormatNaira(t *testing.T) {
	p := NewPrinter("en-NG")

	tests := []struct {
		amount int64
		want   string
	}{
		{0, "₦0"},
		{950, "₦950"},
		{50000, "₦50,000"},
		{1250000, "₦1,250,000"},
	}
	for _, tt := range tests {
		if got := FormatNaira(p, tt.amount); got != tt.want {
			t.Errorf("FormatNaira(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatBudget(t *testing.T) {
	p := NewPrinter("not a locale!!")
	if got := FormatBudget(p, 50000, 100000); got != "₦50,000 - ₦100,000" {
		t.Errorf("FormatBudget() = %q", got)
	}
}
