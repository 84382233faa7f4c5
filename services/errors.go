package services

import "net/http"

// ErrorKind classifies a ServiceError for callers that need more than the
// HTTP status code.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindAuth               ErrorKind = "auth"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindInvalidState       ErrorKind = "invalid_state"
	KindEligibilityExpired ErrorKind = "eligibility_expired"
	KindDuplicateClaim     ErrorKind = "duplicate_claim"
	KindStorage            ErrorKind = "storage"
)

// ServiceError represents a typed error with an HTTP status code and a kind.
type ServiceError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func errValidation(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

func errForbidden(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func errNotFound(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func errInvalidState(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindInvalidState, Message: msg}
}

func errEligibilityExpired(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindEligibilityExpired, Message: msg}
}

func errDuplicateClaim(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindDuplicateClaim, Message: msg}
}

func errStorage(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Kind: KindStorage, Message: msg}
}
