package formula

import (
	"math"
	"strings"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/sheets"
	"github.com/xuri/efp"
)

// maxRow bounds whole-column references such as A:A.
const maxRow = math.MaxInt32

// Ref is a cell on a named sheet.
type Ref struct {
	Sheet string
	Cell  address.Address
}

// String returns Sheet!A1.
func (r Ref) String() string { return r.Sheet + "!" + r.Cell.String() }

// Precedent is a range a formula reads from.
type Precedent struct {
	Sheet string
	Range address.Range
}

type edge struct {
	from Ref
	to   Precedent
}

// Chain is a lazily built map of which cells each formula reads. It is
// dropped whenever formula geometry changes and rebuilt on next query.
type Chain struct {
	dir   *sheets.Directory
	built bool
	edges []edge
	byRef map[Ref][]Precedent
}

// NewChain returns an unbuilt chain over dir.
func NewChain(dir *sheets.Directory) *Chain {
	return &Chain{dir: dir}
}

// Invalidate drops the cache.
func (c *Chain) Invalidate() {
	c.built = false
	c.edges = nil
	c.byRef = nil
}

// Built reports whether the cache currently holds data.
func (c *Chain) Built() bool { return c.built }

func (c *Chain) build() {
	if c.built {
		return
	}
	c.byRef = make(map[Ref][]Precedent)
	for _, s := range c.dir.Each() {
		for row, cell := range s.Grid.Cells() {
			if cell.Formula == nil || cell.Formula.Text == "" {
				continue
			}
			from := Ref{Sheet: s.Name, Cell: address.Address{Col: cell.Col, Row: row}}
			// efp.Parser carries tokens across Parse calls.
			ps := efp.ExcelParser()
			for _, tok := range ps.Parse(cell.Formula.Text) {
				if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
					continue
				}
				p, ok := parseReference(tok.TValue, s.Name)
				if !ok {
					continue
				}
				c.byRef[from] = append(c.byRef[from], p)
				c.edges = append(c.edges, edge{from: from, to: p})
			}
		}
	}
	c.built = true
}

// Precedents returns the ranges the formula at (sheet, a) reads.
func (c *Chain) Precedents(sheet string, a address.Address) []Precedent {
	c.build()
	return c.byRef[Ref{Sheet: sheet, Cell: a}]
}

// Dependents returns formula cells reading (sheet, a), in sheet then
// row/column order.
func (c *Chain) Dependents(sheet string, a address.Address) []Ref {
	c.build()
	var out []Ref
	seen := make(map[Ref]struct{})
	for _, e := range c.edges {
		if e.to.Sheet != sheet || !e.to.Range.Contains(a) {
			continue
		}
		if _, ok := seen[e.from]; ok {
			continue
		}
		seen[e.from] = struct{}{}
		out = append(out, e.from)
	}
	return out
}

// parseReference resolves a range operand such as A1, $B$2:C3,
// 'My Sheet'!A:A or Data!1:1. Defined names are not resolved.
func parseReference(text, current string) (Precedent, bool) {
	sheet := current
	if i := strings.LastIndex(text, "!"); i >= 0 {
		sheet = text[:i]
		if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
			sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
		}
		text = text[i+1:]
	}
	text = strings.ReplaceAll(text, "$", "")

	if rng, err := address.DecodeRange(text); err == nil {
		return Precedent{Sheet: sheet, Range: rng}, true
	}

	start, end, ok := strings.Cut(text, ":")
	if !ok {
		return Precedent{}, false
	}
	digits := "0123456789"
	switch {
	case !strings.ContainsAny(start+end, digits):
		// whole columns
		sc, err1 := address.Decode(start + "1")
		ec, err2 := address.Decode(end + "1")
		if err1 != nil || err2 != nil {
			return Precedent{}, false
		}
		rng, err := address.NewRange(sc.Col, 1, ec.Col, maxRow)
		return Precedent{Sheet: sheet, Range: rng}, err == nil
	case strings.Trim(start+end, digits) == "":
		// whole rows
		sr, err1 := address.Decode("A" + start)
		er, err2 := address.Decode("A" + end)
		if err1 != nil || err2 != nil {
			return Precedent{}, false
		}
		rng, err := address.NewRange(1, sr.Row, maxColumn, er.Row)
		return Precedent{Sheet: sheet, Range: rng}, err == nil
	}
	return Precedent{}, false
}

// maxColumn is the widest column xlsx allows (XFD).
const maxColumn = 16384
