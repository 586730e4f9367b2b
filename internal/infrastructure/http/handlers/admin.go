package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/infrastructure/http/response"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

const defaultSubmissionLimit = 50

type AdminHandler struct {
	journal ports.JournalRepository
	log     *logger.Logger
}

func NewAdminHandler(journal ports.JournalRepository, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		journal: journal,
		log:     log,
	}
}

type SubmissionView struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	PaymentMethod string    `json:"payment_method"`
	TotalAmount   int64     `json:"total_amount"`
	Outcome       string    `json:"outcome"`
	OrderID       string    `json:"order_id,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *AdminHandler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := defaultSubmissionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			response.WriteError(w, http.StatusBadRequest, response.StatusError, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	records, err := h.journal.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.Error("Failed to list submission journal", "error", err.Error())
		response.WriteError(w, http.StatusInternalServerError, response.StatusInternalError, "Failed to list submissions", err.Error())
		return
	}

	views := make([]SubmissionView, 0, len(records))
	for _, rec := range records {
		views = append(views, SubmissionView{
			ID:            rec.ID,
			SessionID:     rec.SessionID,
			UserID:        rec.UserID,
			PaymentMethod: string(rec.PaymentMethod),
			TotalAmount:   rec.TotalAmount,
			Outcome:       rec.Outcome,
			OrderID:       rec.OrderID,
			ErrorMessage:  rec.ErrorMessage,
			CreatedAt:     rec.CreatedAt,
		})
	}

	response.WriteSuccess(w, views)
}
