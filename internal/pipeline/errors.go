package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Failure markers for status classification. Configuration problems abort
// before any output I/O; ErrNoData means the run had nothing to produce and
// the process should exit abnormally even though each step succeeded
// locally.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrNoData        = errors.New("no data")
	ErrLocked        = errors.New("output root is locked by another run")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrNoData
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
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
