package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed input rejected before persistence.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	return "validation failed: " + strings.Join(names, ", ")
}

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// DeliveryError reports a failed outbound notification attempt. It is logged
// by the dispatcher and never propagated to the ingestion caller.
type DeliveryError struct {
	Channel   string
	Recipient string
	Cause     error
}

func NewDeliveryError(channel, recipient string, cause error) *DeliveryError {
	return &DeliveryError{Channel: channel, Recipient: recipient, Cause: cause}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery to %s failed: %v", e.Channel, e.Recipient, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFoundError(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
