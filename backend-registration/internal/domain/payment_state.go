package domain

// PaymentState is the per-contestant payment lifecycle
type PaymentState string

const (
	PaymentStateUnpaid PaymentState = "unpaid"
	PaymentStatePaid   PaymentState = "paid"
)

// paid->paid is accepted so that replayed confirmations stay harmless
var validPaymentTransitions = map[PaymentState][]PaymentState{
	PaymentStateUnpaid: {PaymentStatePaid},
	PaymentStatePaid:   {PaymentStatePaid},
}

// IsTerminal returns true once no other state is reachable
func (s PaymentState) IsTerminal() bool {
	return s == PaymentStatePaid
}

// CanTransitionTo returns true if moving to target is allowed
func (s PaymentState) CanTransitionTo(target PaymentState) bool {
	for _, allowed := range validPaymentTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
