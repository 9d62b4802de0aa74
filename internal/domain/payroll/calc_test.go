package payroll

import "testing"

func TestComputeNet(t *testing.T) {
	net := ComputeNet(Components{BaseSalary: 1000, Allowances: 250, Deductions: 100, SocialInsurance: 75})
	if net != 1075 {
		t.Fatalf("expected net 1075, got %v", net)
	}
}

func TestComputeNetNoSocialInsurance(t *testing.T) {
	net := ComputeNet(Components{BaseSalary: 500, Allowances: 0, Deductions: 25})
	if net != 475 {
		t.Fatalf("expected net 475, got %v", net)
	}
}

func TestComputeNetRoundsToCents(t *testing.T) {
	net := ComputeNet(Components{BaseSalary: 0.1, Allowances: 0.2})
	if net != 0.3 {
		t.Fatalf("expected exact 0.3, got %v", net)
	}
}

func TestComputeNetCanGoNegative(t *testing.T) {
	net := ComputeNet(Components{BaseSalary: 100, Deductions: 150})
	if net != -50 {
		t.Fatalf("expected -50, got %v", net)
	}
}
