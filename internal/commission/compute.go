package commission

import (
	"go-salon/internal/expert"

	"github.com/shopspring/decimal"
)

// percentOf applies a basis-point rate to a minor-unit amount, rounded
// half away from zero to the nearest minor unit.
func percentOf(amount, rateBP int64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(rateBP)).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}

// ComputeService derives the net and commission amounts for a service
// line under the expert's policy. The commission base is the gross price
// (BEFORE_INPUTS) or the price net of input costs (AFTER_INPUTS), and
// the result is clamped into [min, max]. Net never goes below zero even
// when input costs exceed the line price.
func ComputeService(policy expert.CommissionPolicy, baseAmount, inputCosts int64) (netAmount, commissionAmount int64) {
	netAmount = baseAmount - inputCosts
	if netAmount < 0 {
		netAmount = 0
	}

	commissionBase := baseAmount
	if policy.CalculationMethod == expert.MethodAfterInputs {
		commissionBase = netAmount
	}

	commissionAmount = percentOf(commissionBase, policy.ServiceRateBP)

	if commissionAmount < policy.MinServiceCommission {
		commissionAmount = policy.MinServiceCommission
	}
	if policy.MaxServiceCommission != nil && commissionAmount > *policy.MaxServiceCommission {
		commissionAmount = *policy.MaxServiceCommission
	}

	return netAmount, commissionAmount
}

// ComputeRetail derives the commission for a retail line: a plain
// percentage of the gross amount, never clamped.
func ComputeRetail(policy expert.CommissionPolicy, baseAmount int64) (netAmount, commissionAmount int64) {
	return baseAmount, percentOf(baseAmount, policy.RetailRateBP)
}

// applyAdjustment applies an exceptional adjustment to a commission
// amount. Decreases floor at zero; money owed is never negative.
func applyAdjustment(commissionAmount int64, adjustmentType string, adjustmentAmount int64) int64 {
	switch adjustmentType {
	case AdjustmentIncrease:
		return commissionAmount + adjustmentAmount
	case AdjustmentDecrease:
		adjusted := commissionAmount - adjustmentAmount
		if adjusted < 0 {
			return 0
		}
		return adjusted
	default:
		return commissionAmount
	}
}
