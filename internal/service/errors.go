package service

import (
	"fmt"

	"agriconnect-api/pkg/validator"
)

// Kind classifies service failures so transports can map them to status codes.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindUpstream
)

// Error is the typed failure returned by every service.
type Error struct {
	Kind    Kind
	Code    string
	Message string

	// Upstream only: provider status and body passed through verbatim.
	Status int
	Body   []byte

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrInsufficientStock  = &Error{Kind: KindValidation, Code: "insufficient_stock", Message: "insufficient stock remaining"}
	ErrProductNotFound    = &Error{Kind: KindNotFound, Code: "product_not_found", Message: "product not found"}
	ErrOrderNotFound      = &Error{Kind: KindNotFound, Code: "order_not_found", Message: "order not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "user not found"}
	ErrDuplicateRequest   = &Error{Kind: KindConflict, Code: "duplicate_request", Message: "request with this idempotency key was already processed"}
	ErrAccountExists      = &Error{Kind: KindConflict, Code: "account_exists", Message: "username or email already registered"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Code: "email_taken", Message: "email already registered"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Code: "invalid_credentials", Message: "invalid username or password"}
	ErrInvalidToken       = &Error{Kind: KindUnauthenticated, Code: "invalid_token", Message: "invalid or expired token"}
	ErrFarmerOnly         = &Error{Kind: KindForbidden, Code: "farmer_only", Message: "only farmers can list products"}
	ErrLocationRequired   = &Error{Kind: KindValidation, Code: "location_required", Message: "location is required"}
	ErrQuestionRequired   = &Error{Kind: KindValidation, Code: "question_required", Message: "question is required"}
)

func validationFailed(errs []*validator.ErrorResponse) *Error {
	first := errs[0]
	return &Error{
		Kind:    KindValidation,
		Code:    "invalid_input",
		Message: fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", first.FailedField, first.Tag),
	}
}

func upstream(status int, body []byte, err error) *Error {
	return &Error{Kind: KindUpstream, Code: "upstream_error", Message: "upstream provider failed", Status: status, Body: body, Err: err}
}
