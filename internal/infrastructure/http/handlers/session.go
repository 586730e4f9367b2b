package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/laptora/checkout-service/internal/application/use_cases"
	"github.com/laptora/checkout-service/internal/domain/checkout"
	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
	"github.com/laptora/checkout-service/internal/infrastructure/http/response"
	"github.com/laptora/checkout-service/internal/infrastructure/monitoring"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

type SessionHandler struct {
	checkoutUC *use_cases.CheckoutUseCase
	log        *logger.Logger
}

func NewSessionHandler(checkoutUC *use_cases.CheckoutUseCase, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		checkoutUC: checkoutUC,
		log:        log,
	}
}

type BeginSessionRequest struct {
	UserID string `json:"user_id"`
}

type ShippingRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type PaymentRequest struct {
	Method string `json:"method"`
}

type CartItemView struct {
	VariantID  string   `json:"variant_id"`
	Name       string   `json:"name"`
	ImageURL   string   `json:"image_url,omitempty"`
	UnitPrice  int64    `json:"unit_price"`
	Quantity   int      `json:"quantity"`
	Attributes []string `json:"attributes,omitempty"`
}

type CartView struct {
	Items []CartItemView `json:"items"`
	Total int64          `json:"total"`
}

func cartView(cart *checkout.Cart) *CartView {
	if cart == nil {
		return nil
	}
	items := make([]CartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemView{
			VariantID:  item.VariantID,
			Name:       item.Name,
			ImageURL:   item.ImageURL,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			Attributes: item.Attributes,
		})
	}
	return &CartView{Items: items, Total: cart.Total}
}

type OrderView struct {
	ID            string `json:"id"`
	OrderCode     string `json:"order_code,omitempty"`
	PaymentMethod string `json:"payment_method"`
	TotalAmount   int64  `json:"total_amount"`
	IsPaid        bool   `json:"is_paid"`
	Status        string `json:"status,omitempty"`
}

type SessionView struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Step      int             `json:"step"`
	StepName  string          `json:"step_name"`
	Shipping  ShippingRequest `json:"shipping"`
	Payment   string          `json:"payment,omitempty"`
	Order     *OrderView      `json:"order,omitempty"`
	Cart      *CartView       `json:"cart,omitempty"`
	LastError string          `json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ConfirmView struct {
	Session     *SessionView `json:"session"`
	Order       *OrderView   `json:"order,omitempty"`
	RedirectURL string       `json:"redirect_url,omitempty"`
}

func sessionView(session *checkout.Session, cart *checkout.Cart) *SessionView {
	return &SessionView{
		ID:       session.ID,
		UserID:   session.UserID,
		Step:     int(session.Step),
		StepName: session.Step.String(),
		Shipping: ShippingRequest{
			FullName: session.Shipping.FullName,
			Email:    session.Shipping.Email,
			Phone:    session.Shipping.Phone,
			Address:  session.Shipping.Address,
		},
		Payment:   string(session.Payment),
		Order:     orderView(session.Order),
		Cart:      cartView(cart),
		LastError: session.LastError,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func orderView(order *checkout.Order) *OrderView {
	if order == nil {
		return nil
	}
	return &OrderView{
		ID:            order.ID,
		OrderCode:     order.OrderCode,
		PaymentMethod: string(order.PaymentMethod),
		TotalAmount:   order.TotalAmount,
		IsPaid:        order.IsPaid,
		Status:        order.Status,
	}
}

func (h *SessionHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	var req BeginSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusError, "Invalid request body", err.Error())
		return
	}
	if req.UserID == "" {
		response.WriteError(w, http.StatusBadRequest, response.StatusError, "user_id is required")
		return
	}

	session, err := h.checkoutUC.Begin(r.Context(), req.UserID)
	if err != nil {
		h.log.Error("Failed to begin checkout session", "user_id", req.UserID, "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	monitoring.RecordSessionStarted()
	response.WriteCreated(w, sessionView(session, nil))
}

func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, cart, err := h.checkoutUC.Get(r.Context(), sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteSuccess(w, sessionView(session, cart))
}

func (h *SessionHandler) HandleAdvance(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.checkoutUC.Advance(r.Context(), sessionID)
	if err != nil {
		if session != nil {
			h.log.Warn("Step advance rejected", "session_id", sessionID, "step", int(session.Step), "error", err.Error())
		}
		response.WriteDomainError(w, err)
		return
	}

	monitoring.RecordStepTransition("forward", session.Step.String())
	response.WriteSuccess(w, sessionView(session, nil))
}

func (h *SessionHandler) HandleBack(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.checkoutUC.Back(r.Context(), sessionID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	monitoring.RecordStepTransition("back", session.Step.String())
	response.WriteSuccess(w, sessionView(session, nil))
}

func (h *SessionHandler) HandleShipping(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req ShippingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusError, "Invalid request body", err.Error())
		return
	}

	session, err := h.checkoutUC.SetShipping(r.Context(), sessionID, checkout.ShippingInfo{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteSuccess(w, sessionView(session, nil))
}

func (h *SessionHandler) HandlePayment(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusError, "Invalid request body", err.Error())
		return
	}

	session, err := h.checkoutUC.SelectPayment(r.Context(), sessionID, checkout.Method(req.Method))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteSuccess(w, sessionView(session, nil))
}

func (h *SessionHandler) HandleConfirm(w http.ResponseWriter, r *http.Request, sessionID string) {
	monitoring.RecordSubmissionAttempt()

	session, result, err := h.checkoutUC.Confirm(r.Context(), sessionID)
	if err != nil {
		monitoring.RecordSubmissionFailure(reasonLabel(err))
		h.log.Warn("Confirm failed", "session_id", sessionID, "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	view := &ConfirmView{
		Session:     sessionView(session, nil),
		RedirectURL: result.RedirectURL,
	}
	if result.Order != nil {
		view.Order = orderView(result.Order)
		monitoring.RecordSubmissionSuccess()
	}
	if result.RedirectURL != "" {
		monitoring.RecordRedirectInitiated()
	}

	response.WriteSuccess(w, view)
}

func (h *SessionHandler) HandleResume(w http.ResponseWriter, r *http.Request, sessionID string) {
	order, err := h.checkoutUC.Resume(r.Context(), sessionID)
	if err != nil {
		monitoring.RecordRedirectFailure(reasonLabel(err))
		h.log.Warn("Payment resume failed", "session_id", sessionID, "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	session, cart, getErr := h.checkoutUC.Get(r.Context(), sessionID)
	if getErr != nil {
		response.WriteDomainError(w, getErr)
		return
	}

	if order != nil {
		monitoring.RecordRedirectResumed()
	}

	response.WriteSuccess(w, &ConfirmView{
		Session: sessionView(session, cart),
		Order:   orderView(order),
	})
}

func (h *SessionHandler) HandleAbandon(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.checkoutUC.Abandon(r.Context(), sessionID); err != nil {
		response.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reasonLabel keeps metric cardinality bounded: only the known domain
// sentinels become label values, everything else collapses to
// "internal".
func reasonLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domainErrors.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, domainErrors.ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, domainErrors.ErrSessionCompleted):
		return "session_completed"
	case errors.Is(err, domainErrors.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domainErrors.ErrShippingIncomplete):
		return "shipping_incomplete"
	case errors.Is(err, domainErrors.ErrNoPaymentMethod):
		return "no_payment_method"
	case errors.Is(err, domainErrors.ErrUnknownPaymentMethod):
		return "unknown_payment_method"
	case errors.Is(err, domainErrors.ErrSubmissionInProgress):
		return "submission_in_progress"
	case errors.Is(err, domainErrors.ErrOrderAlreadyPlaced):
		return "order_already_placed"
	case errors.Is(err, domainErrors.ErrOrderMissingID):
		return "order_missing_id"
	case errors.Is(err, domainErrors.ErrPaymentSessionFailed):
		return "payment_session_failed"
	case errors.Is(err, domainErrors.ErrNoPendingPayment):
		return "no_pending_payment"
	case errors.Is(err, domainErrors.ErrGatewayUnavailable):
		return "gateway_unavailable"
	default:
		return "internal"
	}
}
