package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bakery-preorder/notify"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrItemNotFound         = errors.New("menu item not found")
	ErrInvalidCatalog       = errors.New("invalid catalog")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	ErrDispatchFailed       = errors.New("notification dispatch failed")
)

// GenericFailureMessage is shown to customers instead of provider errors.
const GenericFailureMessage = "We couldn't place your order. Please try again or contact us."

// ValidationError maps form field names to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

// DispatchError records which notification step failed. It matches
// ErrDispatchFailed and unwraps to the provider error.
type DispatchError struct {
	Step string
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchFailed
}

// IsConfigError reports whether err comes from a collaborator that has no
// credentials configured.
func IsConfigError(err error) bool {
	return errors.Is(err, notify.ErrEmailNotConfigured) || errors.Is(err, notify.ErrSMSNotConfigured)
}
