package exgrid

import (
	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/sheets"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
)

// Pos is a rectangular range on the sheet that was active when it was
// created. It stays bound to that sheet after another is selected.
type Pos struct {
	doc   *Document
	sheet sheets.Sheet
	rng   address.Range
}

// Pos returns the range between (sx, sy) and (ex, ey) on the active sheet.
// Corners may be given in any order.
func (d *Document) Pos(sx, sy, ex, ey int) (*Pos, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	rng, err := address.NewRange(sx, sy, ex, ey)
	if err != nil {
		return nil, err
	}
	return &Pos{doc: d, sheet: s, rng: rng}, nil
}

// Cell returns the range ref, such as "B2" or "$A$1:C3".
func (d *Document) Cell(ref string) (*Pos, error) {
	return d.CellOffset(ref, 0, 0)
}

// CellOffset returns ref grown by cx columns and cy rows from its end
// corner.
func (d *Document) CellOffset(ref string, cx, cy int) (*Pos, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	rng, err := address.DecodeRange(ref)
	if err != nil {
		return nil, err
	}
	return &Pos{doc: d, sheet: s, rng: rng.Offset(cx, cy)}, nil
}

// Range returns the covered range.
func (p *Pos) Range() address.Range { return p.rng }

// Sheet returns the name of the sheet p is bound to.
func (p *Pos) Sheet() string { return p.sheet.Name }

func (p *Pos) grid() (*grid.Grid, error) {
	if err := p.doc.check(); err != nil {
		return nil, err
	}
	return p.sheet.Grid, nil
}

// Value returns the value of the top-left cell, or nil if it was never
// written.
func (p *Pos) Value() (any, error) {
	g, err := p.grid()
	if err != nil {
		return nil, err
	}
	v, _ := g.Get(p.rng.Start)
	return v, nil
}

// SetValue writes v into every cell.
func (p *Pos) SetValue(v any) error {
	return p.set(v, false)
}

// SetText writes v into every cell as a shared string.
func (p *Pos) SetText(v any) error {
	return p.set(v, true)
}

func (p *Pos) set(v any, asText bool) error {
	g, err := p.grid()
	if err != nil {
		return err
	}
	defer p.doc.changed()
	if err := g.SetRange(p.rng, v, asText); err != nil {
		return NewOperationError(p.sheet.Name, "set", err)
	}
	return nil
}

// Copy captures the value and format of the top-left cell into the
// document clipboard, replacing what was there.
func (p *Pos) Copy() error {
	g, err := p.grid()
	if err != nil {
		return err
	}
	snap := g.Capture(p.rng.Start)
	p.doc.clipboard = &snap
	return nil
}

// Paste writes the clipboard over every cell.
func (p *Pos) Paste() error {
	g, err := p.grid()
	if err != nil {
		return err
	}
	if p.doc.clipboard == nil {
		return NewOperationError(p.sheet.Name, "paste", ErrEmptyClipboard)
	}
	defer p.doc.changed()
	if err := g.Apply(p.rng, *p.doc.clipboard); err != nil {
		return NewOperationError(p.sheet.Name, "paste", err)
	}
	return nil
}

// Merge registers the range as merged. Merging a single cell does nothing.
func (p *Pos) Merge() error {
	g, err := p.grid()
	if err != nil {
		return err
	}
	if err := g.Merge(p.rng); err != nil {
		return NewOperationError(p.sheet.Name, "merge", err)
	}
	return nil
}

// SetBackColor fills every cell with a solid RRGGBB color.
func (p *Pos) SetBackColor(color string) error {
	fill, err := style.SolidFill(color)
	if err != nil {
		return NewOperationError(p.sheet.Name, "style", err)
	}
	return p.restyle(func(style.CellFormat) style.Overrides {
		return style.Overrides{Fill: &fill}
	})
}

// SetFontColor changes the font color of every cell, keeping the rest of
// each cell's font.
func (p *Pos) SetFontColor(color string) error {
	c, err := style.ParseColor(color)
	if err != nil {
		return NewOperationError(p.sheet.Name, "style", err)
	}
	return p.restyle(func(base style.CellFormat) style.Overrides {
		font := p.doc.styles.Font(base.FontID)
		font.Color = c
		return style.Overrides{Font: &font}
	})
}

// SetFormat sets the number format code, such as "#,##0.00".
func (p *Pos) SetFormat(code string) error {
	if err := style.ValidateNumFmt(code); err != nil {
		return NewOperationError(p.sheet.Name, "style", err)
	}
	return p.restyle(func(style.CellFormat) style.Overrides {
		return style.Overrides{NumFmt: &code}
	})
}

// SetBorder draws all four edges of every cell with line and color. An
// empty color uses the automatic color.
func (p *Pos) SetBorder(line style.LineStyle, color string) error {
	if color != "" {
		c, err := style.ParseColor(color)
		if err != nil {
			return NewOperationError(p.sheet.Name, "style", err)
		}
		color = c
	}
	edge := style.Edge{Style: line, Color: color}
	border := style.Border{Left: edge, Right: edge, Top: edge, Bottom: edge}
	return p.restyle(func(style.CellFormat) style.Overrides {
		return style.Overrides{Border: &border}
	})
}

// SetAlignment sets the text alignment of every cell.
func (p *Pos) SetAlignment(a style.Alignment) error {
	return p.restyle(func(style.CellFormat) style.Overrides {
		return style.Overrides{Alignment: &a}
	})
}

// restyle resolves each cell's override against the format it currently
// inherits and stamps the result. All formats are resolved before any
// cell is touched.
func (p *Pos) restyle(overrides func(base style.CellFormat) style.Overrides) error {
	g, err := p.grid()
	if err != nil {
		return err
	}
	defer p.doc.changed()
	styles := p.doc.styles
	ids := make([]int, 0, p.rng.Width()*p.rng.Height())
	for a := range p.rng.Each() {
		base := g.BaseFormat(a)
		cf, ok := styles.Format(base)
		if !ok {
			return NewOperationError(p.sheet.Name, "style", ErrUnknownFormat)
		}
		id, err := styles.Resolve(base, overrides(cf))
		if err != nil {
			return NewOperationError(p.sheet.Name, "style", err)
		}
		ids = append(ids, id)
	}
	i := 0
	for a := range p.rng.Each() {
		if err := g.ApplyStyle(address.Single(a), ids[i]); err != nil {
			return NewOperationError(p.sheet.Name, "style", err)
		}
		i++
	}
	return nil
}
