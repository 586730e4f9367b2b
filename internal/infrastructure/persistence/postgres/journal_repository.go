package postgres

import (
	"context"
	"database/sql"

	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/domain/checkout"
	"github.com/laptora/checkout-service/internal/infrastructure/monitoring"
)

// JournalRepository records submission attempts for the admin
// dashboard.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(conn *Connection) *JournalRepository {
	return &JournalRepository{
		db: conn.GetDB(),
	}
}

func (r *JournalRepository) LogAttempt(ctx context.Context, record *ports.SubmissionRecord) error {
	query := `
		INSERT INTO submission_journal
			(id, session_id, user_id, payment_method, total_amount, outcome, order_id, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := monitoring.InstrumentExec(ctx, r.db, "INSERT", "submission_journal", query,
		record.ID,
		record.SessionID,
		record.UserID,
		string(record.PaymentMethod),
		record.TotalAmount,
		record.Outcome,
		nullable(record.OrderID),
		nullable(record.ErrorMessage),
		record.CreatedAt,
	)
	return err
}

func (r *JournalRepository) ListRecent(ctx context.Context, limit int) ([]ports.SubmissionRecord, error) {
	query := `
		SELECT id, session_id, user_id, payment_method, total_amount, outcome, order_id, error_message, created_at
		FROM submission_journal
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "submission_journal", query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ports.SubmissionRecord
	for rows.Next() {
		var record ports.SubmissionRecord
		var method string
		var orderID, errorMessage sql.NullString

		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.UserID,
			&method,
			&record.TotalAmount,
			&record.Outcome,
			&orderID,
			&errorMessage,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}

		record.PaymentMethod = checkout.Method(method)
		record.OrderID = orderID.String
		record.ErrorMessage = errorMessage.String
		records = append(records, record)
	}

	return records, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
