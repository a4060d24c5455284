// Package address converts between 1-based (column, row) coordinates and
// A1-style cell references.
package address

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// ErrInvalidAddress indicates malformed or non-positive coordinate text.
var ErrInvalidAddress = errors.New("invalid address")

// ErrInvalidRange indicates malformed range text.
var ErrInvalidRange = errors.New("invalid range")

// Address is a 1-based cell coordinate.
type Address struct {
	Col int
	Row int
}

// String returns the A1 form, or an empty string for an invalid address.
func (a Address) String() string {
	s, _ := Encode(a.Col, a.Row)
	return s
}

// Valid reports whether both coordinates are positive.
func (a Address) Valid() bool {
	return a.Col >= 1 && a.Row >= 1
}

// ColumnName returns the bijective base-26 letters for a 1-based column.
func ColumnName(col int) (string, error) {
	if col <= 0 {
		return "", fmt.Errorf("%w: column %d", ErrInvalidAddress, col)
	}
	var buf [16]byte
	i := len(buf)
	for n := col; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:]), nil
}

// Encode returns the A1 reference for (col, row).
func Encode(col, row int) (string, error) {
	if row <= 0 {
		return "", fmt.Errorf("%w: row %d", ErrInvalidAddress, row)
	}
	letters, err := ColumnName(col)
	if err != nil {
		return "", err
	}
	return letters + strconv.Itoa(row), nil
}

// MustEncode is like Encode but panics on invalid coordinates.
func MustEncode(col, row int) string {
	s, err := Encode(col, row)
	if err != nil {
		panic(err)
	}
	return s
}

// ToAbsolute returns the $A$1 form of (col, row).
func ToAbsolute(col, row int) (string, error) {
	if row <= 0 {
		return "", fmt.Errorf("%w: row %d", ErrInvalidAddress, row)
	}
	letters, err := ColumnName(col)
	if err != nil {
		return "", err
	}
	return "$" + letters + "$" + strconv.Itoa(row), nil
}

// Decode parses text of the form <letters><digits>. Letters are
// case-insensitive; "$" markers are not accepted here, see DecodeRange.
func Decode(text string) (Address, error) {
	if text == "" {
		return Address{}, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	i, col := 0, 0
	for ; i < len(text); i++ {
		c := text[i] | 0x20 // lower-case ASCII letters
		if c < 'a' || c > 'z' {
			break
		}
		col = col*26 + int(c-'a') + 1
		if col > maxColumn {
			return Address{}, fmt.Errorf("%w: %q column out of range", ErrInvalidAddress, text)
		}
	}
	if i == 0 || i == len(text) {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, text)
	}
	for j := i; j < len(text); j++ {
		if text[j] < '0' || text[j] > '9' {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, text)
		}
	}
	row, err := strconv.Atoi(text[i:])
	if err != nil || row <= 0 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, text)
	}
	return Address{Col: col, Row: row}, nil
}

// maxColumn bounds column decoding so the accumulator cannot overflow.
const maxColumn = 1 << 40

// Range is a rectangular span normalized so Start <= End on both axes.
type Range struct {
	Start Address
	End   Address
}

// NewRange builds a normalized range from two corners.
func NewRange(sx, sy, ex, ey int) (Range, error) {
	if sx <= 0 || sy <= 0 || ex <= 0 || ey <= 0 {
		return Range{}, fmt.Errorf("%w: (%d,%d)-(%d,%d)", ErrInvalidRange, sx, sy, ex, ey)
	}
	return Range{
		Start: Address{Col: min(sx, ex), Row: min(sy, ey)},
		End:   Address{Col: max(sx, ex), Row: max(sy, ey)},
	}, nil
}

// Single returns the one-cell range at a.
func Single(a Address) Range {
	return Range{Start: a, End: a}
}

// DecodeRange parses "A1" or "A1:B2". "$" markers are stripped first.
func DecodeRange(text string) (Range, error) {
	clean := strings.ReplaceAll(text, "$", "")
	parts := strings.Split(clean, ":")
	if len(parts) > 2 {
		return Range{}, fmt.Errorf("%w: %q has more than one separator", ErrInvalidRange, text)
	}
	start, err := Decode(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %w", ErrInvalidRange, text, err)
	}
	if len(parts) == 1 {
		return Single(start), nil
	}
	end, err := Decode(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %w", ErrInvalidRange, text, err)
	}
	return NewRange(start.Col, start.Row, end.Col, end.Row)
}

// Single reports whether the range covers exactly one cell.
func (r Range) Single() bool {
	return r.Start == r.End
}

// Width returns the number of columns covered.
func (r Range) Width() int { return r.End.Col - r.Start.Col + 1 }

// Height returns the number of rows covered.
func (r Range) Height() int { return r.End.Row - r.Start.Row + 1 }

// String returns "A1" for single cells and "A1:B2" otherwise.
func (r Range) String() string {
	if r.Single() {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// Absolute returns "$A$1:$B$2". Single-cell ranges keep both halves.
func (r Range) Absolute() string {
	s, _ := ToAbsolute(r.Start.Col, r.Start.Row)
	e, _ := ToAbsolute(r.End.Col, r.End.Row)
	return s + ":" + e
}

// Offset grows the range by cx columns and cy rows from its end corner.
// Negative offsets are clamped so the range never inverts.
func (r Range) Offset(cx, cy int) Range {
	r.End.Col = max(r.Start.Col, r.End.Col+cx)
	r.End.Row = max(r.Start.Row, r.End.Row+cy)
	return r
}

// Contains reports whether a lies inside r.
func (r Range) Contains(a Address) bool {
	return a.Col >= r.Start.Col && a.Col <= r.End.Col &&
		a.Row >= r.Start.Row && a.Row <= r.End.Row
}

// Overlaps reports whether r and o share at least one cell.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Col <= o.End.Col && o.Start.Col <= r.End.Col &&
		r.Start.Row <= o.End.Row && o.Start.Row <= r.End.Row
}

// Each yields every address in row-major order.
func (r Range) Each() iter.Seq[Address] {
	return func(yield func(Address) bool) {
		for row := r.Start.Row; row <= r.End.Row; row++ {
			for col := r.Start.Col; col <= r.End.Col; col++ {
				if !yield(Address{Col: col, Row: row}) {
					return
				}
			}
		}
	}
}
