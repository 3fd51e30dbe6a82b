package app

import (
	"errors"
	"math"
	"testing"

	"realty/internal/domain"
)

func TestComputeMortgage_ThirtyYearFixed(t *testing.T) {
	res, err := ComputeMortgage(MortgageInput{HomePrice: 300000, DownPayment: 60000, InterestRatePct: 4.5, TermYears: 30})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.LoanAmount != 240000 || res.NumPayments != 360 {
		t.Fatalf("loan=%v n=%d", res.LoanAmount, res.NumPayments)
	}
	if got := math.Round(res.MonthlyPayment*100) / 100; got != 1216.04 {
		t.Fatalf("monthly payment = %v, want 1216.04", got)
	}
	wantInterest := res.MonthlyPayment*360 - 240000
	if math.Abs(res.TotalInterest-wantInterest) > 1e-9*wantInterest {
		t.Fatalf("total interest = %v, want %v", res.TotalInterest, wantInterest)
	}
}

func TestAmortize_ZeroRate(t *testing.T) {
	res := Amortize(120000, 0, 10)
	if res.MonthlyPayment != 1000 || res.TotalInterest != 0 || res.NumPayments != 120 {
		t.Fatalf("zero rate: %+v", res)
	}
}

func TestAmortize_MatchesClosedForm(t *testing.T) {
	tests := []struct {
		name    string
		loan    float64
		ratePct float64
		years   float64
	}{
		{"thirty year", 240000, 4.5, 30},
		{"fractional rate", 100000, 3.875, 15},
		{"one year", 50000, 6, 1},
		{"fifty year", 400000, 5.25, 50},
		{"twenty percent", 200000, 20, 30},
		{"tiny rate", 1000000, 0.125, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.ratePct / 1200
			n := tc.years * 12
			want := tc.loan * r / (1 - math.Pow(1+r, -n))

			res := Amortize(tc.loan, tc.ratePct, tc.years)
			if res.NumPayments != int(n) {
				t.Fatalf("payments = %d, want %v", res.NumPayments, n)
			}
			if math.Abs(res.MonthlyPayment-want) > 1e-9*want {
				t.Fatalf("monthly payment = %.10f, want %.10f", res.MonthlyPayment, want)
			}
			interest := res.MonthlyPayment*n - tc.loan
			if math.Abs(res.TotalInterest-interest) > 1e-9*interest {
				t.Fatalf("total interest = %.10f, want %.10f", res.TotalInterest, interest)
			}
		})
	}
}

func TestValidateMortgage(t *testing.T) {
	tests := []struct {
		name  string
		in    MortgageInput
		field string
		msg   string
	}{
		{"no price", MortgageInput{DownPayment: 0, InterestRatePct: 4, TermYears: 30}, "homePrice", "Home price must be greater than 0"},
		{"down too big", MortgageInput{HomePrice: 100, DownPayment: 100, InterestRatePct: 4, TermYears: 30}, "downPayment", "Down payment must be less than home price"},
		{"down negative", MortgageInput{HomePrice: 100, DownPayment: -1, InterestRatePct: 4, TermYears: 30}, "downPayment", "Down payment cannot be negative"},
		{"zero rate", MortgageInput{HomePrice: 100, InterestRatePct: 0, TermYears: 30}, "interestRate", "Interest rate must be greater than 0"},
		{"rate too high", MortgageInput{HomePrice: 100, InterestRatePct: 25, TermYears: 30}, "interestRate", "Interest rate seems too high"},
		{"term too long", MortgageInput{HomePrice: 100, InterestRatePct: 4, TermYears: 60}, "loanTerm", "Loan term seems too long"},
		{"nan price", MortgageInput{HomePrice: math.NaN(), InterestRatePct: 4, TermYears: 30}, "homePrice", "Home price must be greater than 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeMortgage(tc.in)
			var verr domain.ValidationErrors
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationErrors, got %v", err)
			}
			if verr[tc.field] != tc.msg {
				t.Fatalf("%s = %q, want %q (all: %v)", tc.field, verr[tc.field], tc.msg, verr)
			}
		})
	}

	if verr := ValidateMortgage(MortgageInput{HomePrice: 1, InterestRatePct: 20, TermYears: 50}); len(verr) != 0 {
		t.Fatalf("boundary values are valid, got %v", verr)
	}
}

func TestFormatUSD(t *testing.T) {
	tests := map[float64]string{
		1216.0434: "$1,216.04",
		0:         "$0.00",
		1250000.5: "$1,250,000.50",
		-42.1:     "-$42.10",
	}
	for in, want := range tests {
		if got := FormatUSD(in); got != want {
			t.Fatalf("FormatUSD(%v) = %q, want %q", in, got, want)
		}
	}
}
