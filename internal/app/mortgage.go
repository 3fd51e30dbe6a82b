package app

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"realty/internal/adapters/observability"
	"realty/internal/domain"
)

// Upper bounds on plausible input. Rates above 20% are rejected as
// suspicious rather than as impossible.
const (
	maxInterestRatePercent = 20
	maxTermYears           = 50
)

type MortgageInput struct {
	HomePrice       float64 `json:"homePrice"`
	DownPayment     float64 `json:"downPayment"`
	InterestRatePct float64 `json:"interestRate"`
	TermYears       float64 `json:"loanTerm"`
}

type MortgageResult struct {
	LoanAmount     float64 `json:"loanAmount"`
	NumPayments    int     `json:"numPayments"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}

// ComputeMortgage validates the input and returns the fixed-rate, fully
// amortizing monthly payment. Invalid input yields domain.ValidationErrors.
func ComputeMortgage(in MortgageInput) (MortgageResult, error) {
	if err := ValidateMortgage(in).OrNil(); err != nil {
		observability.ObserveMortgage("invalid")
		return MortgageResult{}, err
	}
	observability.ObserveMortgage("ok")
	return Amortize(in.HomePrice-in.DownPayment, in.InterestRatePct, in.TermYears), nil
}

func ValidateMortgage(in MortgageInput) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	if !finite(in.HomePrice) || in.HomePrice <= 0 {
		errs["homePrice"] = "Home price must be greater than 0"
	}

	switch {
	case !finite(in.DownPayment):
		errs["downPayment"] = "Down payment is required"
	case in.DownPayment < 0:
		errs["downPayment"] = "Down payment cannot be negative"
	case in.DownPayment >= in.HomePrice:
		errs["downPayment"] = "Down payment must be less than home price"
	}

	switch {
	case !finite(in.InterestRatePct) || in.InterestRatePct <= 0:
		errs["interestRate"] = "Interest rate must be greater than 0"
	case in.InterestRatePct > maxInterestRatePercent:
		errs["interestRate"] = "Interest rate seems too high"
	}

	switch {
	case !finite(in.TermYears) || in.TermYears <= 0:
		errs["loanTerm"] = "Loan term must be greater than 0"
	case in.TermYears > maxTermYears:
		errs["loanTerm"] = "Loan term seems too long"
	}
	return errs
}

// Amortize applies M = P·r(1+r)^n / ((1+r)^n − 1) with r the monthly rate.
// A zero rate degrades to straight division with no interest.
func Amortize(loanAmount, annualRatePct, termYears float64) MortgageResult {
	r := annualRatePct / 100 / 12
	n := termYears * 12
	res := MortgageResult{LoanAmount: loanAmount, NumPayments: int(math.Round(n))}
	if r == 0 {
		res.MonthlyPayment = loanAmount / n
		return res
	}
	g := math.Pow(1+r, n)
	res.MonthlyPayment = loanAmount * (r * g) / (g - 1)
	res.TotalInterest = res.MonthlyPayment*n - loanAmount
	return res
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders v with two decimals and thousands separators ($1,216.04).
func FormatUSD(v float64) string {
	if v < 0 {
		return "-" + usd.Sprintf("$%.2f", -v)
	}
	return usd.Sprintf("$%.2f", v)
}
