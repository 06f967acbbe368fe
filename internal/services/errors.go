package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classify failures across workflow components. Every public
// operation returns one of these markers wrapped with call-site detail; none
// of them is allowed to crash the process.
var (
	// ErrValidation marks rejected input prior to any persistence.
	ErrValidation = errors.New("validation error")
	// ErrModeration marks an unsafe or indeterminate image classification.
	ErrModeration = errors.New("moderation rejection")
	// ErrUnavailable marks an external collaborator failure (matcher,
	// classifier, email relay).
	ErrUnavailable = errors.New("service unavailable")
	// ErrNotFound marks a lookup miss for an operator-supplied identifier.
	ErrNotFound = errors.New("not found")
	// ErrIntegrity marks cross-collection inconsistency, e.g. a report being
	// verified without its management record.
	ErrIntegrity = errors.New("lifecycle integrity error")
	// ErrConflict marks an illegal state transition request.
	ErrConflict = errors.New("state conflict")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
