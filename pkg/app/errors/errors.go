// Package errors contains helper functions and types to work with errors
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	// CategoryNoError means the operation finished without error.
	CategoryNoError Category = iota
	// CategoryDataError The caller sent some invalid data in the request,
	// for example, mismatched token/amount lists or a non-positive amount.
	// Could also represent a generic client error.
	CategoryDataError
	// CategoryUserRejected The caller declined to authorize the transaction in the signer.
	CategoryUserRejected
	// CategoryInsufficientFunds The caller lacks the native fee or a token balance.
	CategoryInsufficientFunds
	// CategoryAllowance The approval step itself failed or reverted.
	CategoryAllowance
	// CategoryRemoteRejection The contract reverted with a known reason
	// (ShipFull, AlreadyLaunched, AlreadyPassenger, InsufficientFee, TokenTransferFailed).
	CategoryRemoteRejection
	// CategoryConfiguration A computed fee exceeded the sanity ceiling, or the
	// destination chain has no known CCIP route. Hard stop, never worked around.
	CategoryConfiguration
	// CategoryResourceNotFound The caller is referencing a resource that does not exist
	CategoryResourceNotFound
	// CategoryNetwork The RPC layer errored or a receipt wait exceeded its bound
	CategoryNetwork
	// CategoryGeneralError The service failed in an unexpected way
	CategoryGeneralError
)

func (c Category) String() string {
	switch c {
	case CategoryDataError:
		return "CategoryDataError"
	case CategoryUserRejected:
		return "CategoryUserRejected"
	case CategoryInsufficientFunds:
		return "CategoryInsufficientFunds"
	case CategoryAllowance:
		return "CategoryAllowance"
	case CategoryRemoteRejection:
		return "CategoryRemoteRejection"
	case CategoryConfiguration:
		return "CategoryConfiguration"
	case CategoryResourceNotFound:
		return "CategoryResourceNotFound"
	case CategoryNetwork:
		return "CategoryNetwork"
	default:
		return "CategoryGeneralError"
	}
}

// ServiceError represents service specific type that
// is used all over the coordination paths.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

// Error method to comply with error interface
func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is implements the custom condition to check an error is equal to a service error
func (err ServiceError) Is(target error) bool {
	return err.Message == target.Error()
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Category == cat {
		return true
	}
	return false
}

// UserMessage returns the user-facing message for an error, falling back to
// the raw error text when the error carries no ServiceError.
func UserMessage(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// GeneralError returns a general service error
// the message sent to the user carries the raw error text
func GeneralError(err error) error {
	if err == nil {
		err = errors.New("internal error")
	}
	return &ServiceError{
		Category: CategoryGeneralError,
		Message:  "Transaction failed: " + err.Error(),
		Err:      err,
	}
}

// BadRequestError returns an error with category DataError
// the error message provided is returned to the user
func BadRequestError(err error, message string) error {
	if err == nil {
		err = errors.New("bad request: " + message)
	}
	return &ServiceError{
		Category: CategoryDataError,
		Message:  message,
		Err:      err,
	}
}

// UserRejectedError returns an error with category UserRejected
func UserRejectedError(err error) error {
	if err == nil {
		err = errors.New("signature rejected")
	}
	return &ServiceError{
		Category: CategoryUserRejected,
		Message:  "Transaction was rejected in the wallet.",
		Err:      err,
	}
}

// InsufficientFundsError returns an error with category InsufficientFunds
func InsufficientFundsError(err error) error {
	if err == nil {
		err = errors.New("insufficient funds")
	}
	return &ServiceError{
		Category: CategoryInsufficientFunds,
		Message:  "Insufficient balance to cover the transfer and fees.",
		Err:      err,
	}
}

// AllowanceError returns an error with category Allowance
// the error message provided is returned to the user
func AllowanceError(err error, message string) error {
	if err == nil {
		err = errors.New("allowance negotiation failed: " + message)
	}
	return &ServiceError{
		Category: CategoryAllowance,
		Message:  message,
		Err:      err,
	}
}

// RemoteRejectionError returns an error with category RemoteRejection
// the message provided is the user-facing explanation for the revert reason
func RemoteRejectionError(err error, message string) error {
	if err == nil {
		err = errors.New("remote rejection: " + message)
	}
	return &ServiceError{
		Category: CategoryRemoteRejection,
		Message:  message,
		Err:      err,
	}
}

// ConfigurationError returns an error with category Configuration
// the error message provided is returned to the user
func ConfigurationError(err error, message string) error {
	if err == nil {
		err = errors.New("configuration fault: " + message)
	}
	return &ServiceError{
		Category: CategoryConfiguration,
		Message:  message,
		Err:      err,
	}
}

// ResourceNotFoundError returns an error with category ResourceNotFound
// the error message provided is returned to the user
func ResourceNotFoundError(err error, message string) error {
	if err == nil {
		err = errors.New("resource not found: " + message)
	}
	return &ServiceError{
		Category: CategoryResourceNotFound,
		Message:  message,
		Err:      err,
	}
}

// NetworkError returns an error with category Network
func NetworkError(err error) error {
	if err == nil {
		err = errors.New("network error")
	}
	return &ServiceError{
		Category: CategoryNetwork,
		Message:  "Network error. Please check the RPC connection and try again.",
		Err:      err,
	}
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryDataError:
		return http.StatusBadRequest
	case CategoryUserRejected:
		return http.StatusForbidden
	case CategoryInsufficientFunds, CategoryRemoteRejection:
		return http.StatusUnprocessableEntity
	case CategoryAllowance:
		return http.StatusFailedDependency
	case CategoryConfiguration:
		return http.StatusInternalServerError
	case CategoryResourceNotFound:
		return http.StatusNotFound
	case CategoryNetwork:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
