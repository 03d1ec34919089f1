package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
)

// StatusCoder is implemented by user-facing errors that carry their
// own HTTP status code.
type StatusCoder interface {
	error
	StatusCode() int
}

// GetStatusCode returbs status code given error
func GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch err {
	case ErrInternalServerError:
		return http.StatusInternalServerError
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrBadParamInput:
		return http.StatusBadRequest
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}

	switch err.(type) {
	case OrderbookNotFoundError:
		return http.StatusNotFound
	case OrderbookInactiveError:
		return http.StatusConflict
	case InvalidOrderDirectionError, InvalidDenomPairError, DuplicateDenomError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// InvalidOrderDirectionError is returned when a direction string is
// neither "bid" nor "ask".
type InvalidOrderDirectionError struct {
	Direction string
}

func (e InvalidOrderDirectionError) Error() string {
	return fmt.Sprintf("invalid order direction (%s)", e.Direction)
}

// InvalidDenomPairError is returned when a token pair does not match
// the book's quote and base denoms in either orientation.
type InvalidDenomPairError struct {
	TokenInDenom  string
	TokenOutDenom string
}

func (e InvalidDenomPairError) Error() string {
	return fmt.Sprintf("denom pair (%s, %s) does not match the orderbook", e.TokenInDenom, e.TokenOutDenom)
}

// DuplicateDenomError is returned when a market is created with the
// same quote and base denom.
type DuplicateDenomError struct {
	Denom string
}

func (e DuplicateDenomError) Error() string {
	return fmt.Sprintf("quote and base denom must differ, got (%s) twice", e.Denom)
}

// OrderbookNotFoundError is returned when no market has been created yet.
type OrderbookNotFoundError struct{}

func (e OrderbookNotFoundError) Error() string {
	return "orderbook is not created"
}

// OrderbookInactiveError is returned for mutating calls while the book
// is deactivated.
type OrderbookInactiveError struct{}

func (e OrderbookInactiveError) Error() string {
	return "orderbook is inactive"
}

// FatalError marks accounting invariant breaches that indicate
// corrupted book state rather than bad input.
type FatalError interface {
	error
	IsFatal() bool
}

// IsFatalError reports whether err carries the fatal marker.
func IsFatalError(err error) bool {
	var fatal FatalError
	return errors.As(err, &fatal) && fatal.IsFatal()
}
