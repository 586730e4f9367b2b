package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/domain/checkout"
	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

const genericSubmissionError = "Failed to place order. Please try again."

type SubmitOrderCommand struct {
	Session *checkout.Session
	Cart    *checkout.Cart
}

type SubmitOrderHandler struct {
	orders  ports.OrderGateway
	journal ports.JournalRepository
	log     *logger.Logger
	timeout time.Duration
}

func NewSubmitOrderHandler(
	orders ports.OrderGateway,
	journal ports.JournalRepository,
	log *logger.Logger,
	timeout time.Duration,
) *SubmitOrderHandler {
	return &SubmitOrderHandler{
		orders:  orders,
		journal: journal,
		log:     log,
		timeout: timeout,
	}
}

// Handle runs one submission attempt against the order gateway.
// Validation failures never reach the gateway; the session's
// processing flag is released on every exit path.
func (h *SubmitOrderHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (*checkout.Order, error) {
	session := cmd.Session

	if cmd.Cart.Empty() {
		session.SetError("Your cart is empty.")
		return nil, domainErrors.ErrEmptyCart
	}

	if !session.Shipping.Complete() {
		session.SetError("Please fill in your shipping information.")
		return nil, domainErrors.ErrShippingIncomplete
	}

	if err := session.BeginProcessing(); err != nil {
		return nil, err
	}
	defer session.EndProcessing()

	submission := buildSubmission(session, cmd.Cart)

	submitCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	order, err := h.orders.SubmitOrder(submitCtx, submission)
	if err != nil {
		message := userMessage(err)
		session.SetError(message)
		h.logAttempt(ctx, session, cmd.Cart, nil, message)
		h.log.Error("Order submission failed",
			"session_id", session.ID,
			"user_id", session.UserID,
			"error", err.Error(),
		)
		return nil, err
	}

	if err := session.AttachOrder(order); err != nil {
		message := genericSubmissionError
		if errors.Is(err, domainErrors.ErrOrderMissingID) {
			message = "Order could not be confirmed: the response was missing an order id."
		}
		session.SetError(message)
		h.logAttempt(ctx, session, cmd.Cart, nil, err.Error())
		h.log.Error("Gateway returned an unusable order record",
			"session_id", session.ID,
			"user_id", session.UserID,
			"error", err.Error(),
		)
		return nil, err
	}

	h.logAttempt(ctx, session, cmd.Cart, order, "")
	h.log.Info("Order placed",
		"session_id", session.ID,
		"user_id", session.UserID,
		"order_id", order.ID,
		"payment_method", string(order.PaymentMethod),
		"total_amount", order.TotalAmount,
	)

	return order, nil
}

func buildSubmission(session *checkout.Session, cart *checkout.Cart) ports.OrderSubmission {
	items := make([]checkout.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, checkout.OrderItem{
			ID:       item.VariantID,
			Name:     item.Name,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
		})
	}

	return ports.OrderSubmission{
		UserID: session.UserID,
		Items:  items,
		ShippingAddress: checkout.ShippingAddress{
			FullName: session.Shipping.FullName,
			Address:  session.Shipping.Address,
			Phone:    session.Shipping.Phone,
		},
		PaymentMethod: session.Payment.OrDefault(),
	}
}

// logAttempt records the attempt for the admin journal. Journal
// failures are logged and swallowed; they never fail a submission.
func (h *SubmitOrderHandler) logAttempt(ctx context.Context, session *checkout.Session, cart *checkout.Cart, order *checkout.Order, errorMessage string) {
	record := &ports.SubmissionRecord{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		UserID:        session.UserID,
		PaymentMethod: session.Payment.OrDefault(),
		TotalAmount:   cart.Total,
		Outcome:       ports.OutcomeRejected,
		ErrorMessage:  errorMessage,
		CreatedAt:     time.Now().UTC(),
	}

	if order != nil {
		record.Outcome = ports.OutcomeAccepted
		record.OrderID = order.ID
		record.TotalAmount = order.TotalAmount
	}

	if err := h.journal.LogAttempt(ctx, record); err != nil {
		h.log.Warn("Failed to journal submission attempt",
			"session_id", session.ID,
			"error", err.Error(),
		)
	}
}

func userMessage(err error) string {
	var gatewayErr *ports.GatewayError
	if errors.As(err, &gatewayErr) && gatewayErr.Message != "" {
		return gatewayErr.Message
	}
	return genericSubmissionError
}
