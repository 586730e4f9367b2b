package use_cases

import (
	"context"
	"fmt"
	"time"

	"github.com/laptora/checkout-service/internal/application/commands"
	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/domain/checkout"
	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

// PaymentRedirectUseCase handles payment methods that leave the
// storefront for an external payment page, and resumes order
// submission when the user comes back.
type PaymentRedirectUseCase struct {
	sessions ports.SessionRepository
	carts    ports.CartProvider
	markers  ports.MarkerStore
	payments ports.PaymentGateway
	submit   *commands.SubmitOrderHandler
	log      *logger.Logger
	timeout  time.Duration
}

func NewPaymentRedirectUseCase(
	sessions ports.SessionRepository,
	carts ports.CartProvider,
	markers ports.MarkerStore,
	payments ports.PaymentGateway,
	submit *commands.SubmitOrderHandler,
	log *logger.Logger,
	timeout time.Duration,
) *PaymentRedirectUseCase {
	return &PaymentRedirectUseCase{
		sessions: sessions,
		carts:    carts,
		markers:  markers,
		payments: payments,
		submit:   submit,
		log:      log,
		timeout:  timeout,
	}
}

// Initiate writes the pending marker before asking the gateway for a
// payment page URL, so a closed tab mid-flow still leaves the marker
// behind for the next focus event. Once the URL is handed out the
// marker flips to completed; the resume path does the actual
// submission. A failed initiation removes the marker again.
func (uc *PaymentRedirectUseCase) Initiate(ctx context.Context, session *checkout.Session, cart *checkout.Cart) (string, error) {
	marker := checkout.NewPendingPayment(session.ID)
	if err := uc.markers.Put(ctx, marker); err != nil {
		session.SetError("Could not start the payment session. Please try again.")
		return "", fmt.Errorf("failed to persist pending payment marker: %w", err)
	}

	items := make([]checkout.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, checkout.OrderItem{
			ID:       item.VariantID,
			Name:     item.Name,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
		})
	}

	initiateCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	url, err := uc.payments.CreatePaymentSession(initiateCtx, ports.PaymentSessionRequest{
		UserID: session.UserID,
		Items:  items,
		Amount: cart.Total,
	})
	if err != nil || url == "" {
		uc.cleanupMarker(ctx, session.ID)
		session.SetError("Could not start the payment session. Please try again.")
		if err != nil {
			uc.log.Error("Payment session initiation failed",
				"session_id", session.ID,
				"user_id", session.UserID,
				"error", err.Error(),
			)
			return "", fmt.Errorf("%w: %v", domainErrors.ErrPaymentSessionFailed, err)
		}
		uc.log.Error("Payment gateway returned no URL",
			"session_id", session.ID,
			"user_id", session.UserID,
		)
		return "", domainErrors.ErrPaymentSessionFailed
	}

	marker.MarkCompleted()
	if err := uc.markers.Put(ctx, marker); err != nil {
		uc.log.Error("Failed to mark pending payment as completed",
			"session_id", session.ID,
			"error", err.Error(),
		)
	}

	uc.log.Info("Payment redirect initiated",
		"session_id", session.ID,
		"user_id", session.UserID,
		"amount", cart.Total,
	)
	return url, nil
}

// Resume runs on every focus-regain event. A completed marker with a
// non-empty cart triggers exactly one submission: the marker is
// consumed before the gateway call, regardless of that submission's
// outcome, so later focus events find nothing to do. (nil, nil) means
// no action was taken. Callers serialize per session via
// CheckoutUseCase.Resume.
func (uc *PaymentRedirectUseCase) Resume(ctx context.Context, sessionID string) (*checkout.Order, error) {
	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	marker, err := uc.markers.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !marker.Completed() {
		return nil, nil
	}

	cart, err := uc.carts.GetCart(ctx, session.UserID)
	if err != nil {
		uc.log.Warn("Failed to read cart snapshot on resume", "user_id", session.UserID, "error", err.Error())
		cart = &checkout.Cart{}
	}
	cart.Normalize()

	if cart.Empty() {
		session.ForceReview()
		if err := uc.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return nil, nil
	}

	claimed, err := uc.markers.Consume(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !claimed.Completed() {
		return nil, nil
	}

	order, submitErr := uc.submit.Handle(ctx, commands.SubmitOrderCommand{
		Session: session,
		Cart:    cart,
	})

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	if submitErr != nil {
		return nil, submitErr
	}

	uc.log.Info("Post-payment submission resumed",
		"session_id", sessionID,
		"order_id", order.ID,
	)
	return order, nil
}

func (uc *PaymentRedirectUseCase) cleanupMarker(ctx context.Context, sessionID string) {
	if err := uc.markers.Delete(ctx, sessionID); err != nil {
		uc.log.Warn("Failed to delete pending payment marker",
			"session_id", sessionID,
			"error", err.Error(),
		)
	}
}
