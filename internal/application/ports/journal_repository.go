package ports

import (
	"context"
	"time"

	"github.com/laptora/checkout-service/internal/domain/checkout"
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

type SubmissionRecord struct {
	ID            string
	SessionID     string
	UserID        string
	PaymentMethod checkout.Method
	TotalAmount   int64
	Outcome       string
	OrderID       string
	ErrorMessage  string
	CreatedAt     time.Time
}

// JournalRepository records every submission attempt and its outcome
// for the admin dashboard.
type JournalRepository interface {
	LogAttempt(ctx context.Context, record *SubmissionRecord) error
	ListRecent(ctx context.Context, limit int) ([]SubmissionRecord, error)
}
