package writer

import (
	"fmt"
	"reflect"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
	"github.com/xuri/excelize/v2"
)

var patternIndexes = map[string]int{
	"none": 0, "solid": 1, "mediumGray": 2, "darkGray": 3, "lightGray": 4,
	"darkHorizontal": 5, "darkVertical": 6, "darkDown": 7, "darkUp": 8,
	"darkGrid": 9, "darkTrellis": 10, "lightHorizontal": 11,
	"lightVertical": 12, "lightDown": 13, "lightUp": 14, "lightGrid": 15,
	"lightTrellis": 16, "gray125": 17, "gray0625": 18,
}

var lineIndexes = map[style.LineStyle]int{
	style.LineThin: 1, style.LineMedium: 2, style.LineDashed: 3,
	style.LineDotted: 4, style.LineThick: 5, style.LineDouble: 6,
	style.LineHair: 7,
}

// styleID returns the excelize style for cell format id, registering it
// on first use. excelize deduplicates identical styles itself.
func (w *bookWriter) styleID(id int) (int, error) {
	if xid, ok := w.ids[id]; ok {
		return xid, nil
	}
	cf, ok := w.styles.Format(id)
	if !ok {
		return 0, fmt.Errorf("%w: %d", style.ErrUnknownFormat, id)
	}
	xid, err := w.f.NewStyle(convertFormat(w.styles, cf))
	if err != nil {
		return 0, fmt.Errorf("format %d: %w", id, err)
	}
	w.ids[id] = xid
	return xid, nil
}

// isDefaultFormat reports whether format 0 of c renders the same as format
// 0 of a fresh cache.
func isDefaultFormat(c *style.Cache) bool {
	cf, ok := c.Format(0)
	if !ok {
		return true
	}
	fresh := style.NewCache()
	want, _ := fresh.Format(0)
	return reflect.DeepEqual(convertFormat(c, cf), convertFormat(fresh, want))
}

func convertFormat(c *style.Cache, cf style.CellFormat) *excelize.Style {
	st := &excelize.Style{}

	font := c.Font(cf.FontID)
	st.Font = &excelize.Font{
		Family: font.Name,
		Size:   font.Size,
		Bold:   font.Bold,
		Italic: font.Italic,
		Color:  font.Color,
	}
	if font.Underline {
		st.Font.Underline = "single"
	}

	if fill := c.Fill(cf.FillID); fill.Pattern != style.PatternNone {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: patternIndexes[fill.Pattern]}
		if fill.Color != "" {
			st.Fill.Color = []string{fill.Color}
		}
	}

	border := c.Border(cf.BorderID)
	for _, e := range []struct {
		side string
		edge style.Edge
	}{{"left", border.Left}, {"right", border.Right}, {"top", border.Top}, {"bottom", border.Bottom}} {
		if e.edge.Style == style.LineNone {
			continue
		}
		st.Border = append(st.Border, excelize.Border{Type: e.side, Color: e.edge.Color, Style: lineIndexes[e.edge.Style]})
	}

	if cf.Alignment != nil {
		st.Alignment = &excelize.Alignment{
			Horizontal: cf.Alignment.Horizontal,
			Vertical:   cf.Alignment.Vertical,
			WrapText:   cf.Alignment.WrapText,
		}
	}
	if cf.NumFmtCode != "" {
		code := cf.NumFmtCode
		st.CustomNumFmt = &code
	} else {
		st.NumFmt = cf.NumFmt
	}
	return st
}
