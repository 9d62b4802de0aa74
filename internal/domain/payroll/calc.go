package payroll

import "github.com/shopspring/decimal"

type Components struct {
	BaseSalary      float64
	Allowances      float64
	Deductions      float64
	SocialInsurance float64
}

// ComputeNet returns base + allowances - deductions - socialInsurance,
// rounded to cents. Social insurance is zero for contractors.
func ComputeNet(c Components) float64 {
	net := decimal.NewFromFloat(c.BaseSalary).
		Add(decimal.NewFromFloat(c.Allowances)).
		Sub(decimal.NewFromFloat(c.Deductions)).
		Sub(decimal.NewFromFloat(c.SocialInsurance))
	return net.Round(2).InexactFloat64()
}
