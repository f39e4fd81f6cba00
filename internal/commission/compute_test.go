package commission

import (
	"testing"

	"go-salon/internal/expert"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestComputeService_BeforeInputs_ClampsToMin(t *testing.T) {
	// 15% of 200.00 with 30.00 of inputs, min 50.00, max 500.00.
	policy := expert.CommissionPolicy{
		ServiceRateBP:        1500,
		CalculationMethod:    expert.MethodBeforeInputs,
		MinServiceCommission: 5000,
		MaxServiceCommission: int64Ptr(50000),
	}

	net, amount := ComputeService(policy, 20000, 3000)

	assert.Equal(t, int64(17000), net)
	// 20000 * 15% = 3000, clamped up to the 5000 minimum.
	assert.Equal(t, int64(5000), amount)
}

func TestComputeService_AfterInputs_ClampsToMin(t *testing.T) {
	policy := expert.CommissionPolicy{
		ServiceRateBP:        1500,
		CalculationMethod:    expert.MethodAfterInputs,
		MinServiceCommission: 5000,
		MaxServiceCommission: int64Ptr(50000),
	}

	net, amount := ComputeService(policy, 20000, 3000)

	assert.Equal(t, int64(17000), net)
	// 17000 * 15% = 2550, clamped up to the 5000 minimum.
	assert.Equal(t, int64(5000), amount)
}

func TestComputeService_WithinClampBounds(t *testing.T) {
	policy := expert.CommissionPolicy{
		ServiceRateBP:        1500,
		CalculationMethod:    expert.MethodBeforeInputs,
		MinServiceCommission: 5000,
		MaxServiceCommission: int64Ptr(50000),
	}

	net, amount := ComputeService(policy, 100000, 10000)

	assert.Equal(t, int64(90000), net)
	assert.Equal(t, int64(15000), amount)
}

func TestComputeService_ClampsToMax(t *testing.T) {
	policy := expert.CommissionPolicy{
		ServiceRateBP:        1500,
		CalculationMethod:    expert.MethodBeforeInputs,
		MaxServiceCommission: int64Ptr(10000),
	}

	_, amount := ComputeService(policy, 1000000, 0)

	assert.Equal(t, int64(10000), amount)
}

func TestComputeService_NoCapWhenMaxUnset(t *testing.T) {
	policy := expert.CommissionPolicy{
		ServiceRateBP:     1500,
		CalculationMethod: expert.MethodBeforeInputs,
	}

	_, amount := ComputeService(policy, 1000000, 0)

	assert.Equal(t, int64(150000), amount)
}

func TestComputeService_NetFloorsAtZero(t *testing.T) {
	policy := expert.CommissionPolicy{
		ServiceRateBP:     1500,
		CalculationMethod: expert.MethodAfterInputs,
	}

	net, amount := ComputeService(policy, 1000, 2500)

	assert.Equal(t, int64(0), net)
	assert.Equal(t, int64(0), amount)
}

func TestComputeService_RoundsHalfAwayFromZero(t *testing.T) {
	policy := expert.CommissionPolicy{
		ServiceRateBP:     1500,
		CalculationMethod: expert.MethodBeforeInputs,
	}

	// 15% of 170 is 25.5, rounds to 26.
	_, amount := ComputeService(policy, 170, 0)

	assert.Equal(t, int64(26), amount)
}

func TestComputeRetail_NeverClamped(t *testing.T) {
	// A service minimum far above the retail result must not apply.
	policy := expert.CommissionPolicy{
		RetailRateBP:         1000,
		MinServiceCommission: 5000,
	}

	net, amount := ComputeRetail(policy, 10000)

	assert.Equal(t, int64(10000), net)
	assert.Equal(t, int64(1000), amount)
}

func TestApplyAdjustment(t *testing.T) {
	t.Run("increase adds", func(t *testing.T) {
		assert.Equal(t, int64(1500), applyAdjustment(1000, AdjustmentIncrease, 500))
	})

	t.Run("decrease subtracts", func(t *testing.T) {
		assert.Equal(t, int64(500), applyAdjustment(1000, AdjustmentDecrease, 500))
	})

	t.Run("decrease floors at zero", func(t *testing.T) {
		assert.Equal(t, int64(0), applyAdjustment(1000, AdjustmentDecrease, 2500))
	})
}

func TestIsAllowedStatusTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusPending, StatusApproved},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusPaid},
		{StatusApproved, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, isAllowedStatusTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}

	denied := [][2]string{
		{StatusPending, StatusPaid},
		{StatusPaid, StatusApproved},
		{StatusPaid, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusApproved},
	}
	for _, tc := range denied {
		assert.False(t, isAllowedStatusTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}
}
