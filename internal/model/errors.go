package model

import (
	"fmt"
	"strings"
)

// NotFoundError reports a missing reference entity (liquidity tier, market,
// subaccount). Not retryable: the reference data is absent, not delayed.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DataIntegrityError reports upstream data corruption detected during a
// read-side computation. Fatal for the current request.
type DataIntegrityError struct {
	Reason string
	IDs    []string
}

func (e *DataIntegrityError) Error() string {
	if len(e.IDs) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.IDs, ", "))
}
