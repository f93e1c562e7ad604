package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its transport status.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindState        Kind = "state"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches two AppErrors by Reason when both carry one, otherwise by Code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Reason != "" || t.Reason != "" {
		return e.Reason == t.Reason
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// WithField returns a copy of e carrying a single field error.
func (e *AppError) WithField(field, message string) *AppError {
	cp := *e
	cp.Errors = []FieldError{{Field: field, Message: message}}
	return &cp
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid username or password"}
	ErrInactiveAccount    = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Account is disabled"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}
)

// Ledger rejections. Every one of these leaves state untouched.
var (
	ErrInvalidQuantity = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "INVALID_QUANTITY",
		Message: "Quantity must be at least 1 and no more than the batch remaining quantity"}
	ErrMissingCustomer = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "MISSING_CUSTOMER",
		Message: "Customer name is required"}
	ErrEmptyInvoice = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "EMPTY_INVOICE",
		Message: "An invoice needs at least one product or service line"}
	ErrInvalidWorkerOrPrice = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "INVALID_WORKER_OR_PRICE",
		Message: "A service line needs a worker and a price greater than zero"}
	ErrNegativeGratuity = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "NEGATIVE_GRATUITY",
		Message: "Gratuity cannot be negative"}
	ErrPaymentMismatch = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "PAYMENT_MISMATCH",
		Message: "Payment does not match the invoice total"}
	ErrInvalidAmount = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "INVALID_AMOUNT",
		Message: "Amount must be greater than zero"}
	ErrInsufficientStock = &AppError{Code: http.StatusConflict, Kind: KindConflict, Reason: "INSUFFICIENT_STOCK",
		Message: "Insufficient stock"}
	ErrInsufficientPending = &AppError{Code: http.StatusConflict, Kind: KindConflict, Reason: "INSUFFICIENT_PENDING",
		Message: "Amount exceeds the pending gratuity balance"}
	ErrDuplicateWorker = &AppError{Code: http.StatusConflict, Kind: KindConflict, Reason: "DUPLICATE_WORKER",
		Message: "A user with that username already exists"}
	ErrInvoiceClosed = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindState, Reason: "INVOICE_CLOSED",
		Message: "Invoice is closed"}
	ErrWorkerHasRecordedServices = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindState, Reason: "WORKER_HAS_RECORDED_SERVICES",
		Message: "Worker has services on closed invoices and cannot be removed"}
	ErrOpenInvoicesPending = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindState, Reason: "OPEN_INVOICES_PENDING",
		Message: "Close or discard the open invoices before the weekly closing"}
	ErrInvalidMoneyScale = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: "INVALID_MONEY_SCALE",
		Message: "Amounts may have at most two decimal places"}
	ErrReportFailed = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Reason: "REPORT_FAILED",
		Message: "Closing report could not be produced"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: message,
	}
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
