package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrSessionNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Checkout session not found",
	},
	domainErrors.ErrSessionExpired: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Checkout session expired",
	},
	domainErrors.ErrSessionCompleted: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Checkout already completed",
	},
	domainErrors.ErrEmptyCart: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Cart is empty",
	},
	domainErrors.ErrInvalidStep: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Invalid checkout step",
	},
	domainErrors.ErrStepNotAdvanceable: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Cannot advance from current step",
	},
	domainErrors.ErrShippingIncomplete: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Shipping information is incomplete",
	},
	domainErrors.ErrNoPaymentMethod: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "No payment method selected",
	},
	domainErrors.ErrUnknownPaymentMethod: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Unknown payment method",
	},
	domainErrors.ErrSubmissionInProgress: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Order submission already in progress",
	},
	domainErrors.ErrOrderAlreadyPlaced: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Order has already been placed",
	},
	domainErrors.ErrOrderMissingID: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Order service returned an invalid order",
	},
	domainErrors.ErrPaymentSessionFailed: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Could not start payment session",
	},
	domainErrors.ErrNoPendingPayment: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "No pending payment for this session",
	},
	domainErrors.ErrGatewayUnavailable: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusServiceUnavailable,
		Message:    "Upstream service unavailable",
	},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, mapping.Message, err.Error())
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error", err.Error())
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
