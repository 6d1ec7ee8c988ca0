package usecase

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// IneligibleError is the normal, expected "no" of the follow-up predicate.
// Handlers map it to a 400 with the enumerated reason; it is never a fault.
type IneligibleError struct {
	Reason IneligibilityReason
}

func (e *IneligibleError) Error() string {
	return "follow-up criteria not met: " + string(e.Reason)
}

func IsIneligibleError(err error) (*IneligibleError, bool) {
	e, ok := err.(*IneligibleError)
	return e, ok
}
