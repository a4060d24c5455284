package grid

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateSystem selects the epoch time.Time values are converted against.
type DateSystem uint8

const (
	// Date1900 counts days from 1899-12-30, which matches spreadsheet
	// serials for every date from 1900-03-01 on.
	Date1900 DateSystem = iota
	// Date1904 counts days from 1904-01-01.
	Date1904
)

var (
	epoch1900 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Serial converts t to a fractional day count. The wall clock of t is used
// as-is; its location is ignored.
func (d DateSystem) Serial(t time.Time) float64 {
	epoch := epoch1900
	if d == Date1904 {
		epoch = epoch1904
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return float64(wall.Sub(epoch)) / float64(24*time.Hour)
}

// Time converts a serial back to a UTC time, rounded to the millisecond.
func (d DateSystem) Time(serial float64) time.Time {
	epoch := epoch1900
	if d == Date1904 {
		epoch = epoch1904
	}
	ms := math.Round(serial * 24 * 60 * 60 * 1000)
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

type encoded struct {
	typ CellType
	raw string
}

// encode types v for storage. Strings are interned before any cell is
// touched so a failing value leaves the grid unchanged.
func (g *Grid) encode(v any, asText bool) (encoded, error) {
	if v == nil {
		return encoded{}, nil
	}
	if asText {
		return g.text(fmt.Sprint(v)), nil
	}
	switch x := v.(type) {
	case string:
		return g.text(x), nil
	case bool:
		if x {
			return encoded{TypeBool, "1"}, nil
		}
		return encoded{TypeBool, "0"}, nil
	case time.Time:
		return number(g.cfg.Dates.Serial(x))
	case *time.Time:
		if x == nil {
			return encoded{}, nil
		}
		return number(g.cfg.Dates.Serial(*x))
	case int:
		return encoded{raw: strconv.FormatInt(int64(x), 10)}, nil
	case int8:
		return encoded{raw: strconv.FormatInt(int64(x), 10)}, nil
	case int16:
		return encoded{raw: strconv.FormatInt(int64(x), 10)}, nil
	case int32:
		return encoded{raw: strconv.FormatInt(int64(x), 10)}, nil
	case int64:
		return encoded{raw: strconv.FormatInt(x, 10)}, nil
	case uint:
		return encoded{raw: strconv.FormatUint(uint64(x), 10)}, nil
	case uint8:
		return encoded{raw: strconv.FormatUint(uint64(x), 10)}, nil
	case uint16:
		return encoded{raw: strconv.FormatUint(uint64(x), 10)}, nil
	case uint32:
		return encoded{raw: strconv.FormatUint(uint64(x), 10)}, nil
	case uint64:
		return encoded{raw: strconv.FormatUint(x, 10)}, nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return encoded{}, fmt.Errorf("%w: %v is not a finite number", ErrInvalidArgument, x)
		}
		return encoded{raw: strconv.FormatFloat(float64(x), 'f', -1, 32)}, nil
	case float64:
		return number(x)
	default:
		return g.text(fmt.Sprint(v)), nil
	}
}

func (g *Grid) text(s string) encoded {
	return encoded{TypeString, strconv.Itoa(g.strings.Intern(s))}
}

func number(f float64) (encoded, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return encoded{}, fmt.Errorf("%w: %v is not a finite number", ErrInvalidArgument, f)
	}
	return encoded{raw: strconv.FormatFloat(f, 'f', -1, 64)}, nil
}

// value decodes a cell into nil, string, float64 or bool. Numeric text
// that does not parse is returned as a string.
func (g *Grid) value(c *Cell) any {
	switch c.Type {
	case TypeString:
		i, err := strconv.Atoi(c.Raw)
		if err != nil {
			return c.Raw
		}
		s, _ := g.strings.At(i)
		return s
	case TypeBool:
		return c.Raw == "1" || c.Raw == "true"
	case TypeInlineString, TypeError:
		return c.Raw
	}
	if c.Raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(c.Raw, 64)
	if err != nil {
		return c.Raw
	}
	return f
}
