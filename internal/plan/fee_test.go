package plan

import "testing"

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name      string
		totalDebt float64
		wantFee   int
		minCapped bool
		maxCapped bool
	}{
		{name: "standard percentage", totalDebt: 10000, wantFee: 2000},
		{name: "clamped to floor", totalDebt: 2000, wantFee: 500, minCapped: true},
		{name: "clamped to ceiling", totalDebt: 30000, wantFee: 5000, maxCapped: true},
		{name: "exactly at floor", totalDebt: 2500, wantFee: 500},
		{name: "exactly at ceiling", totalDebt: 25000, wantFee: 5000},
		{name: "just under floor", totalDebt: 2499, wantFee: 500, minCapped: true},
		{name: "just over ceiling", totalDebt: 25001, wantFee: 5000, maxCapped: true},
		{name: "zero debt", totalDebt: 0, wantFee: 500, minCapped: true},
		{name: "rounds to nearest pound", totalDebt: 14202, wantFee: 2840},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateFee(tt.totalDebt)

			if got.FinalFee != tt.wantFee {
				t.Errorf("FinalFee = %d, want %d", got.FinalFee, tt.wantFee)
			}
			if got.MinCapped != tt.minCapped {
				t.Errorf("MinCapped = %t, want %t", got.MinCapped, tt.minCapped)
			}
			if got.MaxCapped != tt.maxCapped {
				t.Errorf("MaxCapped = %t, want %t", got.MaxCapped, tt.maxCapped)
			}
			if got.TotalDebt != tt.totalDebt {
				t.Errorf("TotalDebt = %v, want %v", got.TotalDebt, tt.totalDebt)
			}
			if got.FeePercentage != FeePercentage {
				t.Errorf("FeePercentage = %v, want %v", got.FeePercentage, FeePercentage)
			}
		})
	}
}

func TestCalculateFee_CalculatedFeeUnclamped(t *testing.T) {
	got := CalculateFee(2000)
	if got.CalculatedFee != 400 {
		t.Errorf("CalculatedFee = %v, want raw 400 before clamping", got.CalculatedFee)
	}
	if got.FinalFee != 500 {
		t.Errorf("FinalFee = %d, want clamped 500", got.FinalFee)
	}
}

func TestPaymentOptions(t *testing.T) {
	options := PaymentOptions(2000)

	if len(options) != len(PlanDurations) {
		t.Fatalf("got %d options, want %d", len(options), len(PlanDurations))
	}

	wantMonthly := map[int]int{12: 167, 24: 84, 36: 56, 48: 42, 60: 34}
	for i, opt := range options {
		if opt.DurationMonths != PlanDurations[i] {
			t.Errorf("option %d duration = %d, want %d", i, opt.DurationMonths, PlanDurations[i])
		}
		if opt.MonthlyAmount != wantMonthly[opt.DurationMonths] {
			t.Errorf("%d months monthly = %d, want %d", opt.DurationMonths, opt.MonthlyAmount, wantMonthly[opt.DurationMonths])
		}
		if opt.TotalAmount != 2000 {
			t.Errorf("%d months total = %d, want 2000", opt.DurationMonths, opt.TotalAmount)
		}
	}

	// Monthly amounts strictly decrease as the term lengthens.
	for i := 1; i < len(options); i++ {
		if options[i].MonthlyAmount >= options[i-1].MonthlyAmount {
			t.Errorf("monthly amount did not decrease: %d months (%d) vs %d months (%d)",
				options[i-1].DurationMonths, options[i-1].MonthlyAmount,
				options[i].DurationMonths, options[i].MonthlyAmount)
		}
	}
}

func TestPaymentOptions_Labels(t *testing.T) {
	options := PaymentOptions(500)

	wantLabels := map[int]string{
		12: "Standard",
		24: "24 months",
		36: "36 months",
		48: "48 months",
		60: "Extended",
	}
	for _, opt := range options {
		if opt.Label != wantLabels[opt.DurationMonths] {
			t.Errorf("%d months label = %q, want %q", opt.DurationMonths, opt.Label, wantLabels[opt.DurationMonths])
		}
	}
}

func TestPaymentOptions_RoundsUp(t *testing.T) {
	// 1000 / 24 = 41.67 so the monthly payment must round up to 42.
	options := PaymentOptions(1000)
	for _, opt := range options {
		if opt.DurationMonths == 24 && opt.MonthlyAmount != 42 {
			t.Errorf("24 months monthly = %d, want 42", opt.MonthlyAmount)
		}
	}
}
