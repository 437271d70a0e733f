package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
)

// Score bounds and component caps.
const (
	MinCreditScore = 0
	MaxCreditScore = 100

	maxOnTimeCredit    = 50
	perRecentLoan      = 5
	maxRecentCredit    = 15
	maxVolumeCredit    = 20
	perLoanPenalty     = 2
	maxLoanCountDebits = 15
)

var (
	volumeUnit = decimal.NewFromInt(100_000)

	// maxEMIShareOfSalary caps the monthly burden of current loans.
	maxEMIShareOfSalary = decimal.NewFromFloat(0.5)
)

// Decision reasons.
const (
	ReasonApproved          = "Loan approved."
	ReasonScoreTooLow       = "Credit score too low for loan approval."
	ReasonEMIsExceedSalary  = "Sum of current EMIs exceeds 50% of monthly salary."
	reasonRateBelowFloorFmt = "Interest rate too low for credit score. Minimum required: %s%%."
	ReasonNotApproved       = "Loan not approved."
)

// ---------------------------------------------------------------------------
// Tiers
// ---------------------------------------------------------------------------

// Tier is one row of the score-to-rate table.
//
// A request in the tier is approved when the tier is eligible and, if
// RequireAboveFloor is set, the requested rate is strictly above RateFloor.
// The corrected rate is never below RateFloor, and an ineligible tier always
// quotes exactly RateFloor.
type Tier struct {
	Name              string
	ScoreAbove        int // exclusive lower bound on the score
	RateFloor         decimal.Decimal
	Eligible          bool
	RequireAboveFloor bool
}

// DefaultTiers is the production tier table, ordered from best to worst.
//
//	score > 50        -> always approved, no floor
//	30 < score <= 50  -> approved above 12%, corrected to 12%
//	10 < score <= 30  -> approved above 16%, corrected to 16%
//	score <= 10       -> never approved, corrected to 16%
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "prime", ScoreAbove: 50, RateFloor: decimal.Zero, Eligible: true},
		{Name: "near-prime", ScoreAbove: 30, RateFloor: decimal.NewFromInt(12), Eligible: true, RequireAboveFloor: true},
		{Name: "subprime", ScoreAbove: 10, RateFloor: decimal.NewFromInt(16), Eligible: true, RequireAboveFloor: true},
		{Name: "ineligible", ScoreAbove: MinCreditScore - 1, RateFloor: decimal.NewFromInt(16), Eligible: false},
	}
}

// ---------------------------------------------------------------------------
// UnderwritingEngine – credit scoring and loan eligibility
// ---------------------------------------------------------------------------

// UnderwritingEngine scores customers from their loan history and decides
// eligibility for new loans. It holds no mutable state and is safe for
// concurrent use.
type UnderwritingEngine struct {
	tiers []Tier
}

// NewUnderwritingEngine returns an engine using DefaultTiers.
func NewUnderwritingEngine() *UnderwritingEngine {
	return &UnderwritingEngine{tiers: DefaultTiers()}
}

// CreditScore computes a score in [0, 100] from the loan aggregates.
//
// If the sum of current loans exceeds the approved limit the score is 0.
// Otherwise:
//
//	+ min(EMIs paid on time, 50)
//	+ min(loans started this year * 5, 15)
//	+ min(floor(approved volume / 1 lakh), 20)
//	- min(loans taken * 2, 15)
func (e *UnderwritingEngine) CreditScore(in model.ScoreInput, approvedLimit decimal.Decimal) int {
	if in.CurrentLoansSum.GreaterThan(approvedLimit) {
		return MinCreditScore
	}

	volumeUnits := in.LoanApprovedVolume.Div(volumeUnit).Floor().IntPart()

	score := 0
	score += min(in.TotalEMIsPaidOnTime, maxOnTimeCredit)
	score += min(in.LoansInCurrentYear*perRecentLoan, maxRecentCredit)
	score += int(min(volumeUnits, int64(maxVolumeCredit)))
	score -= min(in.NumLoansTaken*perLoanPenalty, maxLoanCountDebits)

	return max(MinCreditScore, min(MaxCreditScore, score))
}

// TierFor returns the first tier whose lower bound the score exceeds.
func (e *UnderwritingEngine) TierFor(score int) Tier {
	for _, t := range e.tiers {
		if score > t.ScoreAbove {
			return t
		}
	}
	return e.tiers[len(e.tiers)-1]
}

// Decide produces the approval flag, the corrected rate and the installment at
// that rate. A customer whose current EMIs exceed half the monthly salary is
// never approved, whatever the tier says.
func (e *UnderwritingEngine) Decide(
	score int,
	req model.EligibilityRequest,
	sumOfCurrentEMIs decimal.Decimal,
	monthlySalary decimal.Decimal,
) (model.EligibilityResult, error) {
	if err := req.Validate(); err != nil {
		return model.EligibilityResult{}, err
	}
	if score < MinCreditScore || score > MaxCreditScore {
		return model.EligibilityResult{}, fmt.Errorf("%w: credit score %d out of range", model.ErrInvalidArgument, score)
	}

	tier := e.TierFor(score)

	approved := tier.Eligible
	if tier.RequireAboveFloor && !req.InterestRate.GreaterThan(tier.RateFloor) {
		approved = false
	}

	corrected := req.InterestRate
	rateBelowFloor := req.InterestRate.LessThan(tier.RateFloor)
	if rateBelowFloor || !tier.Eligible {
		corrected = tier.RateFloor
	}

	overBurdened := sumOfCurrentEMIs.GreaterThan(monthlySalary.Mul(maxEMIShareOfSalary))
	if overBurdened {
		approved = false
	}

	installment, err := model.CalculateEMI(req.LoanAmount, corrected, req.TenureMonths)
	if err != nil {
		return model.EligibilityResult{}, fmt.Errorf("calculate installment: %w", err)
	}

	var reason string
	switch {
	case approved:
		reason = ReasonApproved
	case !tier.Eligible:
		reason = ReasonScoreTooLow
	case rateBelowFloor:
		reason = fmt.Sprintf(reasonRateBelowFloorFmt, tier.RateFloor.String())
	case overBurdened:
		reason = ReasonEMIsExceedSalary
	default:
		reason = ReasonNotApproved
	}

	return model.EligibilityResult{
		Approved:              approved,
		RequestedInterestRate: req.InterestRate,
		CorrectedInterestRate: corrected,
		TenureMonths:          req.TenureMonths,
		MonthlyInstallment:    installment,
		Reason:                reason,
	}, nil
}

// Evaluate scores the aggregates and decides in one step.
func (e *UnderwritingEngine) Evaluate(
	agg model.LoanAggregates,
	customer model.Customer,
	req model.EligibilityRequest,
) (int, model.EligibilityResult, error) {
	score := e.CreditScore(agg.ScoreInput, customer.ApprovedLimit())
	result, err := e.Decide(score, req, agg.SumOfCurrentEMIs, customer.MonthlySalary())
	return score, result, err
}
