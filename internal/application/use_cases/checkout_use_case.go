package use_cases

import (
	"context"

	"github.com/google/uuid"

	"github.com/laptora/checkout-service/internal/application/commands"
	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/domain/checkout"
	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

// ConfirmResult is what a confirm action produced: a placed order for
// direct methods, or a payment page URL for redirect methods.
type ConfirmResult struct {
	Order       *checkout.Order `json:"order,omitempty"`
	RedirectURL string          `json:"redirect_url,omitempty"`
}

// CheckoutUseCase orchestrates the session lifecycle. Every operation
// holds a per-session lock for its duration: the repository hands out
// copies, so the lock is what keeps read-modify-save sequences (and
// the submission re-entrancy check) from interleaving.
type CheckoutUseCase struct {
	sessions ports.SessionRepository
	carts    ports.CartProvider
	submit   *commands.SubmitOrderHandler
	redirect *PaymentRedirectUseCase
	locks    *sessionLocks
	log      *logger.Logger
}

func NewCheckoutUseCase(
	sessions ports.SessionRepository,
	carts ports.CartProvider,
	submit *commands.SubmitOrderHandler,
	redirect *PaymentRedirectUseCase,
	log *logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		sessions: sessions,
		carts:    carts,
		submit:   submit,
		redirect: redirect,
		locks:    newSessionLocks(),
		log:      log,
	}
}

// Begin returns the user's active session, creating one when none
// exists. A completed session is not reused; the user starts fresh.
func (uc *CheckoutUseCase) Begin(ctx context.Context, userID string) (*checkout.Session, error) {
	unlock := uc.locks.lock(userID)
	defer unlock()

	existing, err := uc.sessions.GetByUser(ctx, userID)
	if err == nil && existing != nil && !existing.Completed() {
		return existing, nil
	}

	session, err := checkout.NewSession(uuid.NewString(), userID)
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	uc.log.Info("Checkout session started", "session_id", session.ID, "user_id", userID)
	return session, nil
}

// Get loads the session and applies the empty-cart forcing function
// before returning it.
func (uc *CheckoutUseCase) Get(ctx context.Context, sessionID string) (*checkout.Session, *checkout.Cart, error) {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	cart := uc.observeCart(ctx, session)

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	return session, cart, nil
}

func (uc *CheckoutUseCase) Advance(ctx context.Context, sessionID string) (*checkout.Session, error) {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart := uc.observeCart(ctx, session)

	transitionErr := session.Advance(cart)
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, transitionErr
}

func (uc *CheckoutUseCase) Back(ctx context.Context, sessionID string) (*checkout.Session, error) {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	transitionErr := session.Back()
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, transitionErr
}

func (uc *CheckoutUseCase) SetShipping(ctx context.Context, sessionID string, info checkout.ShippingInfo) (*checkout.Session, error) {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mergeErr := session.MergeShipping(info)
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, mergeErr
}

func (uc *CheckoutUseCase) SelectPayment(ctx context.Context, sessionID string, method checkout.Method) (*checkout.Session, error) {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	selectErr := session.SelectPayment(method)
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, selectErr
}

// Confirm finalizes the payment step: direct methods submit the order
// immediately, redirect methods open a payment session instead. The
// outcome (or failure) lands on the session either way.
func (uc *CheckoutUseCase) Confirm(ctx context.Context, sessionID string) (*checkout.Session, *ConfirmResult, error) {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if session.Completed() {
		return session, nil, domainErrors.ErrSessionCompleted
	}

	cart := uc.observeCart(ctx, session)
	if cart.Empty() {
		session.SetError("Your cart is empty.")
		if saveErr := uc.sessions.Save(ctx, session); saveErr != nil {
			return nil, nil, saveErr
		}
		return session, nil, domainErrors.ErrEmptyCart
	}

	if session.Payment == "" {
		session.SetError("Please select a payment method.")
		if saveErr := uc.sessions.Save(ctx, session); saveErr != nil {
			return nil, nil, saveErr
		}
		return session, nil, domainErrors.ErrNoPaymentMethod
	}

	if session.Payment.Redirect() {
		url, redirectErr := uc.redirect.Initiate(ctx, session, cart)
		if saveErr := uc.sessions.Save(ctx, session); saveErr != nil {
			return nil, nil, saveErr
		}
		if redirectErr != nil {
			return session, nil, redirectErr
		}
		return session, &ConfirmResult{RedirectURL: url}, nil
	}

	order, submitErr := uc.submit.Handle(ctx, commands.SubmitOrderCommand{
		Session: session,
		Cart:    cart,
	})
	if saveErr := uc.sessions.Save(ctx, session); saveErr != nil {
		return nil, nil, saveErr
	}
	if submitErr != nil {
		return session, nil, submitErr
	}
	return session, &ConfirmResult{Order: order}, nil
}

// Resume forwards the focus-regain event to the redirect coordinator
// under the session lock, so a burst of focus events is serialized and
// only the first can claim the marker.
func (uc *CheckoutUseCase) Resume(ctx context.Context, sessionID string) (*checkout.Order, error) {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	return uc.redirect.Resume(ctx, sessionID)
}

// Abandon drops the session and any pending-payment marker.
func (uc *CheckoutUseCase) Abandon(ctx context.Context, sessionID string) error {
	unlock := uc.locks.lock(sessionID)
	defer unlock()

	if err := uc.redirect.markers.Delete(ctx, sessionID); err != nil {
		uc.log.Warn("Failed to delete pending payment marker", "session_id", sessionID, "error", err.Error())
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// observeCart reads the cart snapshot and applies the forcing
// function: an empty (or unreadable) cart sends the session back to
// the review step.
func (uc *CheckoutUseCase) observeCart(ctx context.Context, session *checkout.Session) *checkout.Cart {
	cart, err := uc.carts.GetCart(ctx, session.UserID)
	if err != nil {
		uc.log.Warn("Failed to read cart snapshot", "user_id", session.UserID, "error", err.Error())
		cart = &checkout.Cart{}
	}
	cart.Normalize()

	if cart.Empty() {
		session.ForceReview()
	}
	return cart
}
