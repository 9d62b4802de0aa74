package settlement

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Accrual policy: 30 leave days earned per 330 worked days.
	accrualEarnedDays = 30
	accrualWorkedDays = 330

	// Service duration is decomposed with fixed-length years and months,
	// the regional labor-law convention, not a Gregorian calendar walk.
	daysPerYear  = 365
	daysPerMonth = 30
)

const (
	EntitlementEmployee = "employee"
	EntitlementFamily4  = "family4"
)

type Input struct {
	JoinDate            time.Time
	LeaveStartDate      time.Time
	LeaveEndDate        *time.Time
	LeaveDays           *float64
	PreviousBalanceDays float64
	TicketsEntitlement  string
	VisasCount          int
	DeductionsAmount    float64
}

type Result struct {
	ServiceDays            int     `json:"serviceDays"`
	ServiceYears           int     `json:"serviceYears"`
	ServiceMonths          int     `json:"serviceMonths"`
	ServiceExtraDays       int     `json:"serviceExtraDays"`
	AccruedDays            float64 `json:"accruedDays"`
	BalanceBeforeDeduction float64 `json:"balanceBeforeDeduction"`
	CurrentLeaveDays       float64 `json:"currentLeaveDays"`
	BalanceAfterDeduction  float64 `json:"balanceAfterDeduction"`
	TicketsCount           int     `json:"ticketsCount"`
	NetPayable             float64 `json:"netPayable"`
	IsBalanceSufficient    bool    `json:"isBalanceSufficient"`
}

// DaysBetween returns the day count between two instants, rounding any
// partial day up.
func DaysBetween(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// Calculate is pure: same inputs always produce the same settlement.
// All day and balance outputs carry one decimal place.
func Calculate(input Input) Result {
	serviceDays := DaysBetween(input.JoinDate, input.LeaveStartDate)
	years := serviceDays / daysPerYear
	remainder := serviceDays % daysPerYear
	months := remainder / daysPerMonth
	extraDays := remainder % daysPerMonth

	accrued := decimal.NewFromInt(int64(serviceDays)).
		Mul(decimal.NewFromInt(accrualEarnedDays)).
		Div(decimal.NewFromInt(accrualWorkedDays)).
		Round(1)

	before := accrued.Add(decimal.NewFromFloat(input.PreviousBalanceDays)).Round(1)

	var current decimal.Decimal
	switch {
	case input.LeaveDays != nil:
		current = decimal.NewFromFloat(*input.LeaveDays).Round(1)
	case input.LeaveEndDate != nil:
		current = decimal.NewFromInt(int64(DaysBetween(input.LeaveStartDate, *input.LeaveEndDate)))
	}

	after := before.Sub(current).Round(1)

	tickets := 1
	if input.TicketsEntitlement == EntitlementFamily4 {
		// Employee, spouse and two children regardless of visa count.
		tickets = 4
	}

	netPayable := decimal.NewFromFloat(input.DeductionsAmount).Neg().Round(2)

	return Result{
		ServiceDays:            serviceDays,
		ServiceYears:           years,
		ServiceMonths:          months,
		ServiceExtraDays:       extraDays,
		AccruedDays:            accrued.InexactFloat64(),
		BalanceBeforeDeduction: before.InexactFloat64(),
		CurrentLeaveDays:       current.InexactFloat64(),
		BalanceAfterDeduction:  after.InexactFloat64(),
		TicketsCount:           tickets,
		NetPayable:             netPayable.InexactFloat64(),
		IsBalanceSufficient:    after.GreaterThanOrEqual(decimal.Zero),
	}
}
