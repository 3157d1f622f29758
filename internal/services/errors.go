package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for failure classification. Every error that crosses a
// stage boundary is wrapped with exactly one of these so the orchestrator
// can map it to an outcome status without string matching.
var (
	ErrProbe          = errors.New("probe error")
	ErrClassification = errors.New("classification error")
	ErrProcessing     = errors.New("processing error")
	ErrVerification   = errors.New("verification error")
	ErrValidation     = errors.New("validation error")
	ErrConfiguration  = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
