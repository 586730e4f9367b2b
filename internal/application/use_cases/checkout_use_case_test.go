package use_cases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laptora/checkout-service/internal/application/commands"
	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/domain/checkout"
	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

type fakeSessionRepo struct {
	sessions map[string]*checkout.Session
	saveErr  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*checkout.Session)}
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*checkout.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) GetByUser(ctx context.Context, userID string) (*checkout.Session, error) {
	for _, s := range f.sessions {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, domainErrors.ErrSessionNotFound
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *checkout.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	return 0, nil
}

type fakeCartProvider struct {
	getFunc func(ctx context.Context, userID string) (*checkout.Cart, error)
}

func (f *fakeCartProvider) GetCart(ctx context.Context, userID string) (*checkout.Cart, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, userID)
	}
	return twoItemCart(), nil
}

type fakeOrderGateway struct {
	submitFunc func(ctx context.Context, submission ports.OrderSubmission) (*checkout.Order, error)
	calls      int
	lastSubmit ports.OrderSubmission
}

func (f *fakeOrderGateway) SubmitOrder(ctx context.Context, submission ports.OrderSubmission) (*checkout.Order, error) {
	f.calls++
	f.lastSubmit = submission
	if f.submitFunc != nil {
		return f.submitFunc(ctx, submission)
	}
	return &checkout.Order{ID: "ord-1", PaymentMethod: submission.PaymentMethod, TotalAmount: 1000000}, nil
}

type fakePaymentGateway struct {
	createFunc func(ctx context.Context, req ports.PaymentSessionRequest) (string, error)
	calls      int
}

func (f *fakePaymentGateway) CreatePaymentSession(ctx context.Context, req ports.PaymentSessionRequest) (string, error) {
	f.calls++
	if f.createFunc != nil {
		return f.createFunc(ctx, req)
	}
	return "https://pay.example.com/session/abc", nil
}

type fakeMarkerStore struct {
	markers map[string]*checkout.PendingPayment
}

func newFakeMarkerStore() *fakeMarkerStore {
	return &fakeMarkerStore{markers: make(map[string]*checkout.PendingPayment)}
}

func (f *fakeMarkerStore) Put(ctx context.Context, marker *checkout.PendingPayment) error {
	copied := *marker
	f.markers[marker.SessionID] = &copied
	return nil
}

func (f *fakeMarkerStore) Get(ctx context.Context, sessionID string) (*checkout.PendingPayment, error) {
	return f.markers[sessionID], nil
}

func (f *fakeMarkerStore) Consume(ctx context.Context, sessionID string) (*checkout.PendingPayment, error) {
	marker := f.markers[sessionID]
	delete(f.markers, sessionID)
	return marker, nil
}

func (f *fakeMarkerStore) Delete(ctx context.Context, sessionID string) error {
	delete(f.markers, sessionID)
	return nil
}

type fakeJournal struct{}

func (f *fakeJournal) LogAttempt(ctx context.Context, record *ports.SubmissionRecord) error {
	return nil
}

func (f *fakeJournal) ListRecent(ctx context.Context, limit int) ([]ports.SubmissionRecord, error) {
	return nil, nil
}

type checkoutFixture struct {
	uc       *CheckoutUseCase
	redirect *PaymentRedirectUseCase
	sessions *fakeSessionRepo
	carts    *fakeCartProvider
	orders   *fakeOrderGateway
	payments *fakePaymentGateway
	markers  *fakeMarkerStore
}

func newFixture() *checkoutFixture {
	log := logger.NewLogger()
	sessions := newFakeSessionRepo()
	carts := &fakeCartProvider{}
	orders := &fakeOrderGateway{}
	payments := &fakePaymentGateway{}
	markers := newFakeMarkerStore()

	submit := commands.NewSubmitOrderHandler(orders, &fakeJournal{}, log, 5*time.Second)
	redirect := NewPaymentRedirectUseCase(sessions, carts, markers, payments, submit, log, 5*time.Second)
	uc := NewCheckoutUseCase(sessions, carts, submit, redirect, log)

	return &checkoutFixture{
		uc:       uc,
		redirect: redirect,
		sessions: sessions,
		carts:    carts,
		orders:   orders,
		payments: payments,
		markers:  markers,
	}
}

func twoItemCart() *checkout.Cart {
	c := &checkout.Cart{
		Items: []checkout.CartItem{
			{VariantID: "v-1", Name: "ProBook 14", UnitPrice: 600000, Quantity: 1},
			{VariantID: "v-2", Name: "USB-C Dock", UnitPrice: 200000, Quantity: 2},
		},
	}
	c.Normalize()
	return c
}

func fullShipping() checkout.ShippingInfo {
	return checkout.ShippingInfo{
		FullName: "Linh Tran",
		Email:    "linh@example.com",
		Phone:    "0901234567",
		Address:  "12 Nguyen Hue, District 1",
	}
}

func (f *checkoutFixture) sessionAtPayment(t *testing.T) *checkout.Session {
	t.Helper()
	ctx := context.Background()

	session, err := f.uc.Begin(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.uc.SetShipping(ctx, session.ID, fullShipping())
	require.NoError(t, err)

	_, err = f.uc.Advance(ctx, session.ID)
	require.NoError(t, err)
	_, err = f.uc.Advance(ctx, session.ID)
	require.NoError(t, err)

	session, cart, err := f.uc.Get(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Equal(t, checkout.StepPayment, session.Step)
	return session
}

func TestBegin_ReusesActiveSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.uc.Begin(ctx, "user-1")
	require.NoError(t, err)

	second, err := f.uc.Begin(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAdvance_EmptyCartForcesReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	f.carts.getFunc = func(ctx context.Context, userID string) (*checkout.Cart, error) {
		return &checkout.Cart{}, nil
	}

	got, _, err := f.uc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepReview, got.Step)

	// Repeated empty-cart observations keep it at review.
	got, _, err = f.uc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepReview, got.Step)
}

func TestConfirm_CashOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodCash)
	require.NoError(t, err)

	got, result, err := f.uc.Confirm(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Order)

	assert.Equal(t, 1, f.orders.calls)
	assert.Equal(t, checkout.MethodCash, f.orders.lastSubmit.PaymentMethod)
	assert.Equal(t, checkout.StepConfirmation, got.Step)
	assert.Equal(t, int64(1000000), got.Order.TotalAmount)
	assert.Zero(t, f.payments.calls)
}

func TestConfirm_WithoutPaymentMethod(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	got, result, err := f.uc.Confirm(ctx, session.ID)
	require.ErrorIs(t, err, domainErrors.ErrNoPaymentMethod)
	assert.Nil(t, result)
	assert.Zero(t, f.orders.calls)
	assert.Equal(t, checkout.StepPayment, got.Step)
	assert.Contains(t, got.LastError, "select a payment method")
}

func TestConfirm_RedirectMethodReturnsURLAndCompletesMarker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodGateway)
	require.NoError(t, err)

	got, result, err := f.uc.Confirm(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "https://pay.example.com/session/abc", result.RedirectURL)
	assert.Nil(t, result.Order)

	// No order yet; submission happens on resume.
	assert.Zero(t, f.orders.calls)
	assert.Equal(t, checkout.StepPayment, got.Step)

	marker, err := f.markers.Get(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, marker)
	assert.True(t, marker.Completed())
}

func TestConfirm_RedirectInitiationFailureCleansUpMarker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodGateway)
	require.NoError(t, err)

	f.payments.createFunc = func(ctx context.Context, req ports.PaymentSessionRequest) (string, error) {
		return "", nil
	}

	got, result, err := f.uc.Confirm(ctx, session.ID)
	require.ErrorIs(t, err, domainErrors.ErrPaymentSessionFailed)
	assert.Nil(t, result)
	assert.NotEmpty(t, got.LastError)

	marker, err := f.markers.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, marker)
}

func TestResume_SubmitsOnceAndDeletesMarker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodGateway)
	require.NoError(t, err)
	_, _, err = f.uc.Confirm(ctx, session.ID)
	require.NoError(t, err)

	order, err := f.redirect.Resume(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 1, f.orders.calls)
	assert.Equal(t, checkout.MethodGateway, f.orders.lastSubmit.PaymentMethod)

	got, _ := f.sessions.GetByID(ctx, session.ID)
	assert.Equal(t, checkout.StepConfirmation, got.Step)

	// Second focus event finds no marker and takes no action.
	order, err = f.redirect.Resume(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Equal(t, 1, f.orders.calls)
}

func TestResume_DeletesMarkerEvenWhenSubmissionFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodGateway)
	require.NoError(t, err)
	_, _, err = f.uc.Confirm(ctx, session.ID)
	require.NoError(t, err)

	f.orders.submitFunc = func(ctx context.Context, submission ports.OrderSubmission) (*checkout.Order, error) {
		return nil, &ports.GatewayError{StatusCode: 500, Message: "order service down"}
	}

	order, err := f.redirect.Resume(ctx, session.ID)
	require.Error(t, err)
	assert.Nil(t, order)
	assert.Equal(t, 1, f.orders.calls)

	marker, _ := f.markers.Get(ctx, session.ID)
	assert.Nil(t, marker)

	got, _ := f.sessions.GetByID(ctx, session.ID)
	assert.Equal(t, "order service down", got.LastError)

	// No automatic retry on subsequent focus events.
	order, err = f.redirect.Resume(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Equal(t, 1, f.orders.calls)
}

func TestResume_EmptyCartTakesNoAction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodGateway)
	require.NoError(t, err)
	_, _, err = f.uc.Confirm(ctx, session.ID)
	require.NoError(t, err)

	f.carts.getFunc = func(ctx context.Context, userID string) (*checkout.Cart, error) {
		return &checkout.Cart{}, nil
	}

	order, err := f.redirect.Resume(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Zero(t, f.orders.calls)

	got, _ := f.sessions.GetByID(ctx, session.ID)
	assert.Equal(t, checkout.StepReview, got.Step)
}

func TestResume_ConcurrentFocusEventsSubmitOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodGateway)
	require.NoError(t, err)
	_, _, err = f.uc.Confirm(ctx, session.ID)
	require.NoError(t, err)

	// A burst of focus events races for the same marker; only one
	// submission may go out.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.uc.Resume(ctx, session.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.orders.calls)

	marker, _ := f.markers.Get(ctx, session.ID)
	assert.Nil(t, marker)
}

func TestConfirm_SurfacesSaveFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	saveErr := errors.New("store unavailable")
	f.sessions.saveErr = saveErr

	_, result, err := f.uc.Confirm(ctx, session.ID)
	require.ErrorIs(t, err, saveErr)
	assert.Nil(t, result)
	assert.Zero(t, f.orders.calls)
}

func TestConfirm_EmptyCartSurfacesSaveFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodCash)
	require.NoError(t, err)

	f.carts.getFunc = func(ctx context.Context, userID string) (*checkout.Cart, error) {
		return &checkout.Cart{}, nil
	}
	saveErr := errors.New("store unavailable")
	f.sessions.saveErr = saveErr

	_, result, err := f.uc.Confirm(ctx, session.ID)
	require.ErrorIs(t, err, saveErr)
	assert.Nil(t, result)
	assert.Zero(t, f.orders.calls)
}

func TestAbandon_RemovesSessionAndMarker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.sessionAtPayment(t)

	_, err := f.uc.SelectPayment(ctx, session.ID, checkout.MethodGateway)
	require.NoError(t, err)
	_, _, err = f.uc.Confirm(ctx, session.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.Abandon(ctx, session.ID))

	_, err = f.sessions.GetByID(ctx, session.ID)
	require.ErrorIs(t, err, domainErrors.ErrSessionNotFound)

	marker, _ := f.markers.Get(ctx, session.ID)
	assert.Nil(t, marker)
}
