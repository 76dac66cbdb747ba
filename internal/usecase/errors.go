package usecase

import "errors"

// ErrBackendUnavailable marks a persistence backend that is unreachable or
// not configured at all. It is what separates a "fallback" submission from a
// genuine rejection, so stores must wrap transport-level failures with it.
var ErrBackendUnavailable = errors.New("backend unavailable")

func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
