package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
)

func testCart() *Cart {
	c := &Cart{
		Items: []CartItem{
			{VariantID: "v-1", Name: "ProBook 14", UnitPrice: 600000, Quantity: 1},
			{VariantID: "v-2", Name: "USB-C Dock", UnitPrice: 200000, Quantity: 2},
		},
	}
	c.Normalize()
	return c
}

func completeShipping() ShippingInfo {
	return ShippingInfo{
		FullName: "Linh Tran",
		Email:    "linh@example.com",
		Phone:    "0901234567",
		Address:  "12 Nguyen Hue, District 1",
	}
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession("", "user-1")
	require.Error(t, err)

	_, err = NewSession("sess-1", "")
	require.Error(t, err)

	s, err := NewSession("sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, s.Step)
	assert.False(t, s.Processing)
	assert.Nil(t, s.Order)
}

func TestAdvance_EmptyCartBlocksReview(t *testing.T) {
	s, _ := NewSession("sess-1", "user-1")

	err := s.Advance(&Cart{})
	require.ErrorIs(t, err, domainErrors.ErrEmptyCart)
	assert.Equal(t, StepReview, s.Step)
}

func TestAdvance_ShippingGuard(t *testing.T) {
	s, _ := NewSession("sess-1", "user-1")
	require.NoError(t, s.Advance(testCart()))
	require.Equal(t, StepShipping, s.Step)

	err := s.Advance(testCart())
	require.ErrorIs(t, err, domainErrors.ErrShippingIncomplete)
	assert.Equal(t, StepShipping, s.Step)

	partial := completeShipping()
	partial.Phone = ""
	require.NoError(t, s.MergeShipping(partial))
	require.ErrorIs(t, s.Advance(testCart()), domainErrors.ErrShippingIncomplete)

	require.NoError(t, s.MergeShipping(ShippingInfo{Phone: "0901234567"}))
	require.NoError(t, s.Advance(testCart()))
	assert.Equal(t, StepPayment, s.Step)
}

func TestAdvance_NeverReachesConfirmation(t *testing.T) {
	s := sessionAtPayment(t)

	err := s.Advance(testCart())
	require.ErrorIs(t, err, domainErrors.ErrStepNotAdvanceable)
	assert.Equal(t, StepPayment, s.Step)
}

func TestBack_PreservesEnteredData(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.SelectPayment(MethodWallet))

	require.NoError(t, s.Back())
	assert.Equal(t, StepShipping, s.Step)
	assert.Equal(t, completeShipping(), s.Shipping)
	assert.Equal(t, MethodWallet, s.Payment)

	require.NoError(t, s.Back())
	assert.Equal(t, StepReview, s.Step)

	// Back at step 1 stays at step 1.
	require.NoError(t, s.Back())
	assert.Equal(t, StepReview, s.Step)
}

func TestMergeShipping_NeverClearsFields(t *testing.T) {
	s, _ := NewSession("sess-1", "user-1")
	require.NoError(t, s.MergeShipping(completeShipping()))

	require.NoError(t, s.MergeShipping(ShippingInfo{FullName: "Minh Le"}))
	assert.Equal(t, "Minh Le", s.Shipping.FullName)
	assert.Equal(t, "linh@example.com", s.Shipping.Email)
	assert.Equal(t, "0901234567", s.Shipping.Phone)
}

func TestSelectPayment_UnknownMethod(t *testing.T) {
	s, _ := NewSession("sess-1", "user-1")

	err := s.SelectPayment(Method("bitcoin"))
	require.ErrorIs(t, err, domainErrors.ErrUnknownPaymentMethod)
	assert.Empty(t, s.Payment)
}

func TestAttachOrder_SetsConfirmationStep(t *testing.T) {
	s := sessionAtPayment(t)

	order := &Order{ID: "ord-1", TotalAmount: 1000000, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.AttachOrder(order))

	assert.Equal(t, StepConfirmation, s.Step)
	require.NotNil(t, s.Order)
	assert.Equal(t, "ord-1", s.Order.ID)
	assert.True(t, s.Completed())

	err := s.AttachOrder(&Order{ID: "ord-2"})
	require.ErrorIs(t, err, domainErrors.ErrOrderAlreadyPlaced)
	assert.Equal(t, "ord-1", s.Order.ID)
}

func TestAttachOrder_RejectsOrderWithoutID(t *testing.T) {
	s := sessionAtPayment(t)

	err := s.AttachOrder(&Order{TotalAmount: 500})
	require.ErrorIs(t, err, domainErrors.ErrOrderMissingID)
	assert.Nil(t, s.Order)
	assert.NotEqual(t, StepConfirmation, s.Step)

	require.ErrorIs(t, s.AttachOrder(nil), domainErrors.ErrOrderMissingID)
}

func TestForceReview_Idempotent(t *testing.T) {
	s := sessionAtPayment(t)

	s.ForceReview()
	assert.Equal(t, StepReview, s.Step)

	s.ForceReview()
	assert.Equal(t, StepReview, s.Step)

	// Data survives the forced return to review.
	assert.Equal(t, completeShipping(), s.Shipping)
}

func TestForceReview_NoOpAfterOrderPlaced(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.AttachOrder(&Order{ID: "ord-1"}))

	s.ForceReview()
	assert.Equal(t, StepConfirmation, s.Step)
}

func TestProcessingGuard(t *testing.T) {
	s := sessionAtPayment(t)

	require.NoError(t, s.BeginProcessing())
	require.ErrorIs(t, s.BeginProcessing(), domainErrors.ErrSubmissionInProgress)

	s.EndProcessing()
	require.NoError(t, s.BeginProcessing())
	s.EndProcessing()

	require.NoError(t, s.AttachOrder(&Order{ID: "ord-1"}))
	require.ErrorIs(t, s.BeginProcessing(), domainErrors.ErrOrderAlreadyPlaced)
}

func TestReset_ReturnsToInitialState(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.SelectPayment(MethodCash))
	require.NoError(t, s.AttachOrder(&Order{ID: "ord-1"}))

	s.Reset()

	assert.Equal(t, StepReview, s.Step)
	assert.Equal(t, ShippingInfo{}, s.Shipping)
	assert.Empty(t, s.Payment)
	assert.Nil(t, s.Order)
	assert.False(t, s.Processing)
	assert.Empty(t, s.LastError)
	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, "user-1", s.UserID)
}

func TestStepAlwaysInRange(t *testing.T) {
	s, _ := NewSession("sess-1", "user-1")

	check := func() {
		assert.True(t, s.Step.Valid(), "step %d out of range", s.Step)
	}

	check()
	_ = s.Advance(&Cart{})
	check()
	_ = s.Advance(testCart())
	check()
	_ = s.Back()
	check()
	_ = s.Back()
	check()
	_ = s.MergeShipping(completeShipping())
	_ = s.Advance(testCart())
	_ = s.Advance(testCart())
	check()
	_ = s.AttachOrder(&Order{ID: "ord-1"})
	check()
	s.Reset()
	check()
}

func TestTransitionClearsLastError(t *testing.T) {
	s, _ := NewSession("sess-1", "user-1")
	s.SetError("something went wrong")

	_ = s.Advance(testCart())
	assert.Empty(t, s.LastError)

	s.SetError("again")
	_ = s.Back()
	assert.Empty(t, s.LastError)
}

func TestCartTotals(t *testing.T) {
	c := testCart()
	assert.Equal(t, int64(1000000), c.Total)
	assert.Equal(t, c.ComputedTotal(), c.Total)

	c.Total = 42
	c.Normalize()
	assert.Equal(t, int64(1000000), c.Total)

	var nilCart *Cart
	assert.True(t, nilCart.Empty())
	assert.Zero(t, nilCart.ComputedTotal())
}

func sessionAtPayment(t *testing.T) *Session {
	t.Helper()

	s, err := NewSession("sess-1", "user-1")
	require.NoError(t, err)
	require.NoError(t, s.MergeShipping(completeShipping()))
	require.NoError(t, s.Advance(testCart()))
	require.NoError(t, s.Advance(testCart()))
	require.Equal(t, StepPayment, s.Step)
	return s
}
