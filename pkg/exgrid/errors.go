package exgrid

import (
	"errors"
	"fmt"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/sheets"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
)

// ErrOpenFailed indicates the workbook bytes could not be read or parsed.
var ErrOpenFailed = errors.New("open failed")

// ErrUseAfterDispose indicates a call on a closed document.
var ErrUseAfterDispose = errors.New("document used after dispose")

// ErrEmptyClipboard indicates Paste before any Copy.
var ErrEmptyClipboard = errors.New("clipboard is empty")

// Errors returned by the lower-level packages, re-exported so callers only
// need to import exgrid.
var (
	ErrInvalidAddress  = address.ErrInvalidAddress
	ErrInvalidRange    = address.ErrInvalidRange
	ErrInvalidArgument = grid.ErrInvalidArgument
	ErrMergeOverlap    = grid.ErrMergeOverlap
	ErrSheetNotFound   = sheets.ErrSheetNotFound
	ErrUnknownFormat   = style.ErrUnknownFormat
	ErrInvalidColor    = style.ErrInvalidColor
	ErrInvalidNumFmt   = style.ErrInvalidNumFmt
)

// OperationError represents a failed document operation.
type OperationError struct {
	Sheet string
	Op    string // "set", "style", "merge", "delete_rows", "print_area", ...
	Err   error
}

func (e *OperationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s on sheet %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError.
func NewOperationError(sheet, op string, err error) *OperationError {
	return &OperationError{
		Sheet: sheet,
		Op:    op,
		Err:   err,
	}
}
