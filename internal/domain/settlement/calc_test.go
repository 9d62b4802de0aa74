package settlement

import (
	"math/rand"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateOneYearService(t *testing.T) {
	leaveDays := 21.0
	result := Calculate(Input{
		JoinDate:           date(2023, time.January, 1),
		LeaveStartDate:     date(2024, time.January, 1),
		LeaveDays:          &leaveDays,
		TicketsEntitlement: EntitlementEmployee,
	})

	if result.ServiceDays != 365 {
		t.Fatalf("expected 365 service days, got %d", result.ServiceDays)
	}
	if result.ServiceYears != 1 || result.ServiceMonths != 0 || result.ServiceExtraDays != 0 {
		t.Fatalf("unexpected decomposition: %d/%d/%d", result.ServiceYears, result.ServiceMonths, result.ServiceExtraDays)
	}
	if result.AccruedDays != 33.2 {
		t.Fatalf("expected 33.2 accrued days, got %v", result.AccruedDays)
	}
	if result.BalanceBeforeDeduction != 33.2 {
		t.Fatalf("expected 33.2 before deduction, got %v", result.BalanceBeforeDeduction)
	}
	if result.BalanceAfterDeduction != 12.2 {
		t.Fatalf("expected 12.2 after deduction, got %v", result.BalanceAfterDeduction)
	}
	if !result.IsBalanceSufficient {
		t.Fatal("expected sufficient balance")
	}
	if result.TicketsCount != 1 {
		t.Fatalf("expected 1 ticket, got %d", result.TicketsCount)
	}
}

func TestCalculateDecomposition(t *testing.T) {
	// 400 days = 1 year + 1 month (30 days) + 5 days under the fixed
	// 365/30 convention.
	result := Calculate(Input{
		JoinDate:       date(2023, time.January, 1),
		LeaveStartDate: date(2023, time.January, 1).AddDate(0, 0, 400),
	})
	if result.ServiceDays != 400 {
		t.Fatalf("expected 400 service days, got %d", result.ServiceDays)
	}
	if result.ServiceYears != 1 || result.ServiceMonths != 1 || result.ServiceExtraDays != 5 {
		t.Fatalf("unexpected decomposition: %d/%d/%d", result.ServiceYears, result.ServiceMonths, result.ServiceExtraDays)
	}
}

func TestCalculateFamilyTicketsIgnoreVisaCount(t *testing.T) {
	for _, visas := range []int{0, 1, 7} {
		result := Calculate(Input{
			JoinDate:           date(2020, time.March, 15),
			LeaveStartDate:     date(2024, time.March, 15),
			TicketsEntitlement: EntitlementFamily4,
			VisasCount:         visas,
		})
		if result.TicketsCount != 4 {
			t.Fatalf("visas=%d: expected 4 tickets, got %d", visas, result.TicketsCount)
		}
	}
}

func TestCalculateLeaveDaysFromEndDate(t *testing.T) {
	end := date(2024, time.February, 1)
	result := Calculate(Input{
		JoinDate:       date(2023, time.January, 1),
		LeaveStartDate: date(2024, time.January, 1),
		LeaveEndDate:   &end,
	})
	if result.CurrentLeaveDays != 31 {
		t.Fatalf("expected 31 current leave days, got %v", result.CurrentLeaveDays)
	}
}

func TestCalculateExplicitLeaveDaysWinOverEndDate(t *testing.T) {
	end := date(2024, time.February, 1)
	leaveDays := 10.0
	result := Calculate(Input{
		JoinDate:       date(2023, time.January, 1),
		LeaveStartDate: date(2024, time.January, 1),
		LeaveEndDate:   &end,
		LeaveDays:      &leaveDays,
	})
	if result.CurrentLeaveDays != 10 {
		t.Fatalf("expected explicit 10 days, got %v", result.CurrentLeaveDays)
	}
}

func TestCalculateNegativePayableFromDeductions(t *testing.T) {
	result := Calculate(Input{
		JoinDate:         date(2023, time.January, 1),
		LeaveStartDate:   date(2024, time.January, 1),
		DeductionsAmount: 1250.50,
	})
	if result.NetPayable != -1250.50 {
		t.Fatalf("expected -1250.50 payable, got %v", result.NetPayable)
	}
}

func TestCalculateInsufficientBalance(t *testing.T) {
	leaveDays := 60.0
	result := Calculate(Input{
		JoinDate:       date(2023, time.June, 1),
		LeaveStartDate: date(2024, time.January, 1),
		LeaveDays:      &leaveDays,
	})
	if result.IsBalanceSufficient {
		t.Fatalf("expected insufficient balance, after=%v", result.BalanceAfterDeduction)
	}
	if result.BalanceAfterDeduction >= 0 {
		t.Fatalf("expected negative balance, got %v", result.BalanceAfterDeduction)
	}
}

func TestCalculateDeterministicOverRandomInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := date(2015, time.January, 1)

	for i := 0; i < 200; i++ {
		join := base.AddDate(0, 0, rng.Intn(2000))
		start := join.AddDate(0, 0, rng.Intn(3000))
		prev := float64(rng.Intn(400)) / 10
		input := Input{
			JoinDate:            join,
			LeaveStartDate:      start,
			PreviousBalanceDays: prev,
		}

		first := Calculate(input)
		second := Calculate(input)
		if first != second {
			t.Fatalf("calculation is not deterministic for %+v", input)
		}

		if first.AccruedDays < 0 {
			t.Fatalf("accrued days must be non-negative, got %v", first.AccruedDays)
		}
		if first.ServiceDays < 0 {
			t.Fatalf("service days must be non-negative, got %d", first.ServiceDays)
		}

		// after = before - current, with everything at one decimal place.
		diff := first.BalanceBeforeDeduction - first.CurrentLeaveDays - first.BalanceAfterDeduction
		if diff > 0.001 || diff < -0.001 {
			t.Fatalf("balance identity broken: before=%v current=%v after=%v",
				first.BalanceBeforeDeduction, first.CurrentLeaveDays, first.BalanceAfterDeduction)
		}
	}
}

func TestDaysBetweenSymmetry(t *testing.T) {
	a := date(2024, time.January, 1)
	b := date(2024, time.March, 1)
	if DaysBetween(a, b) != DaysBetween(b, a) {
		t.Fatal("day count must not depend on argument order")
	}
	if DaysBetween(a, a) != 0 {
		t.Fatalf("same-day count must be 0, got %d", DaysBetween(a, a))
	}
}
