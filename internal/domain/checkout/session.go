package checkout

import (
	"errors"
	"time"

	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
)

type Step int

const (
	StepReview Step = iota + 1
	StepShipping
	StepPayment
	StepConfirmation
)

func (s Step) Valid() bool {
	return s >= StepReview && s <= StepConfirmation
}

func (s Step) String() string {
	switch s {
	case StepReview:
		return "review"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

type ShippingInfo struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

func (s ShippingInfo) Complete() bool {
	return s.FullName != "" && s.Email != "" && s.Phone != "" && s.Address != ""
}

// Merge overlays the non-empty fields of other onto s. Previously set
// fields are never cleared.
func (s *ShippingInfo) Merge(other ShippingInfo) {
	if other.FullName != "" {
		s.FullName = other.FullName
	}
	if other.Email != "" {
		s.Email = other.Email
	}
	if other.Phone != "" {
		s.Phone = other.Phone
	}
	if other.Address != "" {
		s.Address = other.Address
	}
}

// Session is one attempt to move a cart through review, shipping,
// payment and confirmation. Transitions are guarded here rather than
// trusted to callers: each forward move verifies its own preconditions.
type Session struct {
	ID         string
	UserID     string
	Step       Step
	Shipping   ShippingInfo
	Payment    Method
	Order      *Order
	Processing bool
	LastError  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewSession(id, userID string) (*Session, error) {
	if id == "" {
		return nil, errors.New("session id cannot be empty")
	}

	if userID == "" {
		return nil, errors.New("user id cannot be empty")
	}

	now := time.Now().UTC()
	return &Session{
		ID:        id,
		UserID:    userID,
		Step:      StepReview,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Session) Completed() bool {
	return s.Order != nil
}

// Clone returns an independent copy. The order's item slice is shared;
// an attached order is never mutated.
func (s *Session) Clone() *Session {
	copied := *s
	if s.Order != nil {
		order := *s.Order
		copied.Order = &order
	}
	return &copied
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Advance moves the session one step forward after checking the
// target step's preconditions. Step 4 is never reachable this way;
// only AttachOrder produces the confirmation step.
func (s *Session) Advance(cart *Cart) error {
	s.LastError = ""
	s.touch()

	if s.Completed() {
		return domainErrors.ErrSessionCompleted
	}

	switch s.Step {
	case StepReview:
		if cart.Empty() {
			return domainErrors.ErrEmptyCart
		}
		s.Step = StepShipping
		return nil
	case StepShipping:
		if !s.Shipping.Complete() {
			return domainErrors.ErrShippingIncomplete
		}
		s.Step = StepPayment
		return nil
	case StepPayment:
		return domainErrors.ErrStepNotAdvanceable
	default:
		return domainErrors.ErrInvalidStep
	}
}

// Back is the explicit user action; it never touches entered data.
func (s *Session) Back() error {
	s.LastError = ""
	s.touch()

	if s.Completed() {
		return domainErrors.ErrSessionCompleted
	}

	if s.Step > StepReview {
		s.Step--
	}
	return nil
}

func (s *Session) MergeShipping(info ShippingInfo) error {
	if s.Completed() {
		return domainErrors.ErrSessionCompleted
	}

	s.LastError = ""
	s.Shipping.Merge(info)
	s.touch()
	return nil
}

func (s *Session) SelectPayment(method Method) error {
	if s.Completed() {
		return domainErrors.ErrSessionCompleted
	}

	if !method.Known() {
		return domainErrors.ErrUnknownPaymentMethod
	}

	s.LastError = ""
	s.Payment = method
	s.touch()
	return nil
}

// BeginProcessing is the re-entrancy guard around a submission
// attempt. Callers must pair it with EndProcessing on every exit path.
func (s *Session) BeginProcessing() error {
	if s.Processing {
		return domainErrors.ErrSubmissionInProgress
	}

	if s.Completed() {
		return domainErrors.ErrOrderAlreadyPlaced
	}

	s.Processing = true
	s.touch()
	return nil
}

func (s *Session) EndProcessing() {
	s.Processing = false
	s.touch()
}

func (s *Session) SetError(message string) {
	s.LastError = message
	s.touch()
}

// AttachOrder couples the order write with the step change: holding a
// confirmed order and being on the confirmation step are the same fact.
func (s *Session) AttachOrder(order *Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	if s.Completed() {
		return domainErrors.ErrOrderAlreadyPlaced
	}

	s.Order = order
	s.Step = StepConfirmation
	s.LastError = ""
	s.touch()
	return nil
}

// ForceReview returns the session to step 1 when the cart was observed
// empty mid-checkout. Idempotent, and a no-op once an order is placed.
func (s *Session) ForceReview() {
	if s.Completed() {
		return
	}

	if s.Step != StepReview {
		s.Step = StepReview
		s.touch()
	}
}

// Reset returns the session to its initial empty state so a new
// checkout can start after a completed or abandoned attempt.
func (s *Session) Reset() {
	s.Step = StepReview
	s.Shipping = ShippingInfo{}
	s.Payment = ""
	s.Order = nil
	s.Processing = false
	s.LastError = ""
	s.touch()
}
