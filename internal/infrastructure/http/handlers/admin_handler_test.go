package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

func TestHandleListSubmissions(t *testing.T) {
	journal := &fakeJournal{
		records: []ports.SubmissionRecord{
			{
				ID:            "rec-1",
				SessionID:     "sess-1",
				UserID:        "u-1",
				PaymentMethod: "cash",
				TotalAmount:   1000000,
				Outcome:       ports.OutcomeAccepted,
				OrderID:       "ord-1",
				CreatedAt:     time.Now().UTC(),
			},
			{
				ID:           "rec-2",
				SessionID:    "sess-2",
				UserID:       "u-2",
				Outcome:      ports.OutcomeRejected,
				ErrorMessage: "Order could not be submitted. Please try again.",
				CreatedAt:    time.Now().UTC(),
			},
		},
	}
	handler := NewAdminHandler(journal, logger.NewLoggerWithOutput(io.Discard))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	handler.HandleListSubmissions(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []SubmissionView
	decodeData(t, rec, &views)
	require.Len(t, views, 2)
	assert.Equal(t, ports.OutcomeAccepted, views[0].Outcome)
	assert.Equal(t, "ord-1", views[0].OrderID)
	assert.Equal(t, ports.OutcomeRejected, views[1].Outcome)
}

func TestHandleListSubmissions_LimitValidation(t *testing.T) {
	handler := NewAdminHandler(&fakeJournal{}, logger.NewLoggerWithOutput(io.Discard))

	for _, raw := range []string{"0", "-1", "501", "abc"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/submissions?limit="+raw, nil)
		handler.HandleListSubmissions(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", raw)
	}
}
