package errors

import (
	"fmt"
)

var (
	ErrNotFound            = fmt.Errorf("not found")
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrConflict            = fmt.Errorf("already exists")
	ErrMissingCostSummary  = fmt.Errorf("job has no cost summary")
	ErrUnknownDocumentKind = fmt.Errorf("unknown document kind")
)
