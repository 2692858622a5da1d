package order

import "fmt"

// Status is the shipping axis of the order lifecycle. Transitions are
// admin-driven, never automatic, and enforced by the order store.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var shippingTransitions = map[Status][]Status{
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	// Delivered and Cancelled are terminal.
	StatusDelivered: {},
	StatusCancelled: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := shippingTransitions[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := shippingTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range shippingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment axis. It is independent of Status: changing
// one never implies a change to the other.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
	// Unsettled is the initial value for cod orders: nothing has been
	// collected yet and there is nothing to verify.
	PaymentUnsettled PaymentStatus = "Unsettled"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentPaid, PaymentFailed},
	PaymentPaid:      {PaymentRefunded},
	PaymentUnsettled: {PaymentPaid},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	ps := PaymentStatus(s)
	if _, ok := paymentTransitions[ps]; !ok {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return ps, nil
}

func (p PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[p]
	return ok
}

func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod selects how the order is paid. upi orders require a
// reference number and a payment screenshot and go through manual
// verification; cod orders require neither.
type PaymentMethod string

const (
	MethodCOD PaymentMethod = "cod"
	MethodUPI PaymentMethod = "upi"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCOD, MethodUPI:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// InitialPaymentStatus returns the payment status a new order starts in.
func InitialPaymentStatus(m PaymentMethod) PaymentStatus {
	if m == MethodUPI {
		return PaymentPending
	}
	return PaymentUnsettled
}
