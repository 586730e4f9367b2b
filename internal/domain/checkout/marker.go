package checkout

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// PendingPayment is the durable marker bridging the redirect gap: it is
// written before the user leaves for the external payment page and
// consumed on the first focus-regain event that finds it completed.
type PendingPayment struct {
	SessionID string        `json:"session_id"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func NewPendingPayment(sessionID string) *PendingPayment {
	return &PendingPayment{
		SessionID: sessionID,
		Status:    PaymentPending,
		CreatedAt: time.Now().UTC(),
	}
}

func (p *PendingPayment) MarkCompleted() {
	p.Status = PaymentCompleted
}

func (p *PendingPayment) Completed() bool {
	return p != nil && p.Status == PaymentCompleted
}
