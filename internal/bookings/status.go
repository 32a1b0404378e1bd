package bookings

// Status is the booking lifecycle state. Transitions are only legal when
// listed in the transition table below; everything else is rejected with
// ErrInvalidTransition instead of silently ignored.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// statusTransitions is the single authoritative transition table.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the move to next is in the table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// BlocksAvailability reports whether a booking in this state holds an
// exclusive reservation over its vehicle's date range.
func (s Status) BlocksAvailability() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive:
		return true
	}
	return false
}

// CanBeCancelled reports whether a non-admin cancellation is legal.
// Active bookings can only be cancelled through the admin no-show override.
func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

// PaymentStatus tracks settlement separately from the booking lifecycle.
// Once PAID it is monotonic: only the refund states are reachable.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "UNPAID"
	PaymentProcessing    PaymentStatus = "PROCESSING"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentRefundPending PaymentStatus = "REFUND_PENDING"
	PaymentRefunded      PaymentStatus = "REFUNDED"
	PaymentNotRequired   PaymentStatus = "NOT_REQUIRED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:        {PaymentProcessing, PaymentPaid, PaymentNotRequired},
	PaymentProcessing:    {PaymentPaid, PaymentUnpaid},
	PaymentPaid:          {PaymentRefundPending, PaymentRefunded},
	PaymentRefundPending: {PaymentRefunded},
	PaymentRefunded:      {},
	PaymentNotRequired:   {},
}

func (p PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[p]
	return ok
}

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowsPickup reports whether the rental may begin under this payment state.
func (p PaymentStatus) AllowsPickup() bool {
	return p == PaymentPaid || p == PaymentNotRequired
}

// IsSettled reports whether money has actually moved for this booking.
func (p PaymentStatus) IsSettled() bool {
	return p == PaymentPaid || p == PaymentRefundPending || p == PaymentRefunded
}
