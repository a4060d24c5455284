package writer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/parser"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
)

func addr(t *testing.T, s string) address.Address {
	t.Helper()
	a, err := address.Decode(s)
	require.NoError(t, err)
	return a
}

func rng(t *testing.T, s string) address.Range {
	t.Helper()
	r, err := address.DecodeRange(s)
	require.NoError(t, err)
	return r
}

func TestWriteRoundTrip(t *testing.T) {
	sst := grid.NewSharedStrings()
	calc := grid.NewCalc()
	styles := style.NewCache()

	data := grid.New(sst, calc, grid.Config{})
	require.NoError(t, data.Set(addr(t, "A1"), "name"))
	require.NoError(t, data.Set(addr(t, "B1"), 12.5))
	require.NoError(t, data.Set(addr(t, "C1"), true))
	require.NoError(t, data.SetRange(rng(t, "A2:B2"), "x", false))

	fill, err := style.SolidFill("#00FF00")
	require.NoError(t, err)
	green, err := styles.Resolve(0, style.Overrides{Fill: &fill})
	require.NoError(t, err)
	code := "#,##0.000"
	numeric, err := styles.Resolve(green, style.Overrides{NumFmt: &code})
	require.NoError(t, err)
	require.NoError(t, data.ApplyStyle(rng(t, "A1:B1"), green))
	require.NoError(t, data.ApplyStyle(rng(t, "B2"), numeric))

	require.NoError(t, data.Set(addr(t, "D1"), 1))
	require.NoError(t, data.Set(addr(t, "D2"), 2))
	_, err = data.SetSharedFormula(rng(t, "E1:E2"), "D1*10")
	require.NoError(t, err)
	require.NoError(t, data.Merge(rng(t, "A4:C5")))

	other := grid.New(sst, calc, grid.Config{})
	require.NoError(t, other.Set(addr(t, "A1"), "name"))

	zero := 0
	wb := &Workbook{
		Sheets:  []Sheet{{Name: "Data", Grid: data}, {Name: "Bob's", Grid: other}},
		Styles:  styles,
		Calc:    calc,
		Regions: []models.Region{{Name: models.PrintAreaName, LocalSheetID: &zero, RefersTo: "'Data'!$A$1:$E$5"}},
	}
	calc.SetMode(grid.CalcManual)

	out, err := Write(wb)
	require.NoError(t, err)

	back, err := parser.Load(context.Background(), out, grid.Config{})
	require.NoError(t, err)
	require.Len(t, back.Sheets, 2)
	assert.Equal(t, "Data", back.Sheets[0].Name)
	assert.Equal(t, "Bob's", back.Sheets[1].Name)

	g := back.Sheets[0].Grid
	for ref, want := range map[string]any{"A1": "name", "B1": 12.5, "C1": true, "A2": "x", "B2": "x", "D2": 2.0} {
		got, ok := g.Get(addr(t, ref))
		assert.True(t, ok, ref)
		assert.Equal(t, want, got, ref)
	}
	got, _ := back.Sheets[1].Grid.Get(addr(t, "A1"))
	assert.Equal(t, "name", got)

	a1 := g.BaseFormat(addr(t, "A1"))
	cf, ok := back.Styles.Format(a1)
	require.True(t, ok)
	assert.Equal(t, "00FF00", back.Styles.Fill(cf.FillID).Color)

	b2, ok := back.Styles.Format(g.BaseFormat(addr(t, "B2")))
	require.True(t, ok)
	assert.Equal(t, "#,##0.000", b2.NumFmtCode)

	anchor, ok := g.Formula(addr(t, "E1"))
	require.True(t, ok)
	assert.Equal(t, grid.FormulaShared, anchor.Kind)
	assert.Equal(t, "D1*10", anchor.Text)
	assert.Equal(t, "E1:E2", anchor.Ref)
	follower, ok := g.Formula(addr(t, "E2"))
	require.True(t, ok)
	assert.True(t, follower.Shared())
	assert.Equal(t, anchor.SharedIndex, follower.SharedIndex)

	assert.Equal(t, []address.Range{rng(t, "A4:C5")}, g.Merges())

	require.Len(t, back.Regions, 1)
	require.NotNil(t, back.Regions[0].LocalSheetID)
	assert.Equal(t, 0, *back.Regions[0].LocalSheetID)
	assert.Equal(t, "'Data'!$A$1:$E$5", back.Regions[0].RefersTo)
	assert.Equal(t, grid.CalcManual, back.Calc.Mode)
}

func TestWriteRowAndColumnStyles(t *testing.T) {
	styles := style.NewCache()
	fill, err := style.SolidFill("FFCC00")
	require.NoError(t, err)
	yellow, err := styles.Resolve(0, style.Overrides{Fill: &fill})
	require.NoError(t, err)

	g := grid.New(nil, nil, grid.Config{})
	require.NoError(t, g.SetColumnStyle(2, 3, yellow))
	require.NoError(t, g.SetRowStyle(4, yellow))
	require.NoError(t, g.Set(addr(t, "A1"), "plain"))

	out, err := Write(&Workbook{Sheets: []Sheet{{Name: "Sheet1", Grid: g}}, Styles: styles, Calc: grid.NewCalc()})
	require.NoError(t, err)

	back, err := parser.Load(context.Background(), out, grid.Config{})
	require.NoError(t, err)
	lg := back.Sheets[0].Grid

	cols := lg.ColumnStyles()
	require.Len(t, cols, 1)
	assert.Equal(t, 2, cols[0].Min)
	assert.Equal(t, 3, cols[0].Max)
	cf, _ := back.Styles.Format(cols[0].Style)
	assert.Equal(t, "FFCC00", back.Styles.Fill(cf.FillID).Color)

	row, ok := lg.Row(4)
	require.True(t, ok)
	assert.True(t, row.HasStyle)
	assert.Equal(t, cols[0].Style, row.Style)

	assert.Equal(t, 0, lg.BaseFormat(addr(t, "A1")))
}

func TestWriteCustomDefaultFormat(t *testing.T) {
	styles := style.NewEmptyCache()
	styles.ImportFont(style.Font{Name: "Arial", Size: 14, Bold: true})
	styles.ImportFill(style.Fill{Pattern: style.PatternNone})
	styles.ImportFill(style.Fill{Pattern: style.PatternGray125})
	styles.ImportBorder(style.Border{})
	styles.ImportFormat(style.CellFormat{ApplyFont: true})
	assert.False(t, isDefaultFormat(styles))
	assert.True(t, isDefaultFormat(style.NewCache()))

	g := grid.New(nil, nil, grid.Config{})
	require.NoError(t, g.Set(addr(t, "A1"), "plain"))

	out, err := Write(&Workbook{Sheets: []Sheet{{Name: "S", Grid: g}}, Styles: styles, Calc: grid.NewCalc()})
	require.NoError(t, err)

	back, err := parser.Load(context.Background(), out, grid.Config{})
	require.NoError(t, err)
	cf, ok := back.Styles.Format(back.Sheets[0].Grid.BaseFormat(addr(t, "A1")))
	require.True(t, ok)
	font := back.Styles.Font(cf.FontID)
	assert.Equal(t, "Arial", font.Name)
	assert.Equal(t, 14.0, font.Size)
	assert.True(t, font.Bold)
}

func TestWriteDate1904(t *testing.T) {
	g := grid.New(nil, nil, grid.Config{Dates: grid.Date1904})
	out, err := Write(&Workbook{Sheets: []Sheet{{Name: "S", Grid: g}}, Styles: style.NewCache(), Dates: grid.Date1904})
	require.NoError(t, err)
	back, err := parser.Load(context.Background(), out, grid.Config{})
	require.NoError(t, err)
	assert.Equal(t, grid.Date1904, back.Dates)
}

func TestWriteErrors(t *testing.T) {
	_, err := Write(&Workbook{Styles: style.NewCache()})
	assert.Error(t, err)

	g := grid.New(nil, nil, grid.Config{})
	require.NoError(t, g.ApplyStyle(rng(t, "A1"), 99))
	_, err = Write(&Workbook{Sheets: []Sheet{{Name: "S", Grid: g}}, Styles: style.NewCache()})
	assert.ErrorIs(t, err, style.ErrUnknownFormat)

	five := 5
	_, err = Write(&Workbook{
		Sheets:  []Sheet{{Name: "S", Grid: grid.New(nil, nil, grid.Config{})}},
		Styles:  style.NewCache(),
		Regions: []models.Region{{Name: models.PrintAreaName, LocalSheetID: &five, RefersTo: "S!$A$1"}},
	})
	assert.Error(t, err)
}
