package parser

import (
	"context"
	"fmt"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/diag"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
	"github.com/xuri/excelize/v2"
)

// patternNames maps excelize fill pattern indexes to pattern type names.
var patternNames = []string{
	"none", "solid", "mediumGray", "darkGray", "lightGray", "darkHorizontal",
	"darkVertical", "darkDown", "darkUp", "darkGrid", "darkTrellis",
	"lightHorizontal", "lightVertical", "lightDown", "lightUp", "lightGrid",
	"lightTrellis", "gray125", "gray0625",
}

// lineStyles maps excelize border style indexes to line styles. Styles
// without an equivalent fall back to the nearest weight.
var lineStyles = []style.LineStyle{
	style.LineNone, style.LineThin, style.LineMedium, style.LineDashed,
	style.LineDotted, style.LineThick, style.LineDouble, style.LineHair,
	style.LineDashed, style.LineDashed, style.LineDashed, style.LineDotted,
	style.LineDotted, style.LineDashed,
}

// ImportStyles reads every cellXfs record of f, in order, into a new
// cache so that cell style ids in the file address the same records.
// Fonts, fills and borders are deduplicated by value.
func ImportStyles(ctx context.Context, f *excelize.File) (*style.Cache, error) {
	c := style.NewEmptyCache()
	for i := 0; ; i++ {
		st, err := f.GetStyle(i)
		if err != nil {
			break
		}
		cf, err := convertStyle(ctx, c, st)
		if err != nil {
			return nil, fmt.Errorf("style %d: %w", i, err)
		}
		c.ImportFormat(cf)
	}
	if c.Len() == 0 {
		return style.NewCache(), nil
	}
	return c, nil
}

func convertStyle(ctx context.Context, c *style.Cache, st *excelize.Style) (style.CellFormat, error) {
	var cf style.CellFormat
	var err error

	font := style.DefaultFont
	if st.Font != nil {
		font = style.Font{
			Name:      st.Font.Family,
			Size:      st.Font.Size,
			Bold:      st.Font.Bold,
			Italic:    st.Font.Italic,
			Underline: st.Font.Underline != "" && st.Font.Underline != "none",
			Color:     tolerantColor(ctx, st.Font.Color),
		}
		if font.Name == "" {
			font.Name = style.DefaultFont.Name
		}
		if font.Size == 0 {
			font.Size = style.DefaultFont.Size
		}
	}
	if cf.FontID, err = c.FontID(font); err != nil {
		return cf, err
	}

	fill := style.Fill{Pattern: style.PatternNone}
	if st.Fill.Type == "pattern" && st.Fill.Pattern > 0 && st.Fill.Pattern < len(patternNames) {
		fill.Pattern = patternNames[st.Fill.Pattern]
		if len(st.Fill.Color) > 0 {
			fill.Color = tolerantColor(ctx, st.Fill.Color[0])
		}
	}
	if cf.FillID, err = c.FillID(fill); err != nil {
		return cf, err
	}

	var border style.Border
	for _, b := range st.Border {
		edge := style.Edge{Color: tolerantColor(ctx, b.Color)}
		if b.Style > 0 && b.Style < len(lineStyles) {
			edge.Style = lineStyles[b.Style]
		}
		switch b.Type {
		case "left":
			border.Left = edge
		case "right":
			border.Right = edge
		case "top":
			border.Top = edge
		case "bottom":
			border.Bottom = edge
		}
	}
	if cf.BorderID, err = c.BorderID(border); err != nil {
		return cf, err
	}

	if st.Alignment != nil {
		cf.Alignment = &style.Alignment{
			Horizontal: st.Alignment.Horizontal,
			Vertical:   st.Alignment.Vertical,
			WrapText:   st.Alignment.WrapText,
		}
		cf.ApplyAlignment = true
	}
	if st.CustomNumFmt != nil && *st.CustomNumFmt != "" {
		cf.NumFmtCode = *st.CustomNumFmt
		cf.ApplyNumberFormat = true
	} else {
		cf.NumFmt = st.NumFmt
		cf.ApplyNumberFormat = st.NumFmt != 0
	}
	cf.ApplyFont = cf.FontID != 0
	cf.ApplyFill = cf.FillID != 0
	cf.ApplyBorder = cf.BorderID != 0
	return cf, nil
}

// tolerantColor normalizes s, dropping colors that are not plain RGB
// (theme or indexed references surface as empty or odd strings).
func tolerantColor(ctx context.Context, s string) string {
	c, err := style.ParseColor(s)
	if err != nil {
		diag.Debugf(ctx, "ignoring color %q: %v", s, err)
		return ""
	}
	return c
}
