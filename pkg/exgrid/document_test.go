package exgrid

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/blob"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
)

func exported(t *testing.T, d *Document) []models.SharedFormula {
	t.Helper()
	seq, err := d.ExportSharedFormulas()
	require.NoError(t, err)
	return slices.Collect(seq)
}

func newDoc(t *testing.T, names ...string) *Document {
	t.Helper()
	d, err := New("book.xlsx", Options{Store: blob.NewMemory()}, names...)
	require.NoError(t, err)
	return d
}

func cellStyle(t *testing.T, d *Document, ref string) int {
	t.Helper()
	s, err := d.dir.Current()
	require.NoError(t, err)
	a, err := address.Decode(ref)
	require.NoError(t, err)
	c, ok := s.Grid.Cell(a)
	require.True(t, ok, "cell %s not materialized", ref)
	return c.Style
}

func TestSetGetValues(t *testing.T) {
	d := newDoc(t)

	require.NoError(t, d.SetValue(1, 1, "hello"))
	require.NoError(t, d.SetValue(2, 1, 42))
	require.NoError(t, d.SetValue(3, 1, true))
	require.NoError(t, d.SetValue(4, 1, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, d.SetTextAt("E1", 7))
	require.NoError(t, d.SetRangeValue(3, 3, 1, 2, 1.5))

	tests := []struct {
		ref  string
		want any
	}{
		{"A1", "hello"},
		{"B1", 42.0},
		{"C1", true},
		{"D1", 45292.5},
		{"E1", "7"},
		{"A2", 1.5},
		{"C3", 1.5},
		{"Z99", nil},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := d.GetValueAt(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	v, err := d.GetValue(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	require.NoError(t, d.SetValueAt("A1", nil))
	v, err = d.GetValueAt("A1")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestInvalidCoordinates(t *testing.T) {
	d := newDoc(t)

	err := d.SetValue(0, 1, "x")
	assert.ErrorIs(t, err, ErrInvalidRange)
	err = d.SetValueAt("A1:", "x")
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = d.GetValueAt("1A")
	assert.ErrorIs(t, err, ErrInvalidRange)
	err = d.SetPrintAreaText("A1:B2:C3")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSheetSelection(t *testing.T) {
	d := newDoc(t, "First", "Second")

	names, err := d.SheetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, names)

	require.NoError(t, d.SelectSheetName("Second"))
	idx, err := d.CurrentSheetIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	require.NoError(t, d.SetValue(1, 1, "on second"))

	require.NoError(t, d.SelectSheet(0))
	v, err := d.GetValue(1, 1)
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.ErrorIs(t, d.SelectSheet(2), ErrSheetNotFound)
	assert.ErrorIs(t, d.SelectSheetName("second"), ErrSheetNotFound)
}

func TestPosBoundToSheet(t *testing.T) {
	d := newDoc(t, "First", "Second")
	p, err := d.Cell("B2")
	require.NoError(t, err)
	require.NoError(t, d.SelectSheet(1))
	require.NoError(t, p.SetValue("first"))
	assert.Equal(t, "First", p.Sheet())

	require.NoError(t, d.SelectSheet(0))
	v, err := d.GetValueAt("B2")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestCellOffset(t *testing.T) {
	d := newDoc(t)
	p, err := d.CellOffset("B2", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, "B2:D3", p.Range().String())

	p, err = d.CellOffset("B2:C3", -5, 0)
	require.NoError(t, err)
	assert.Equal(t, "B2:B3", p.Range().String())
}

func TestBackColorDeduplicates(t *testing.T) {
	d := newDoc(t)
	require.NoError(t, d.SetValue(1, 1, 1))
	require.NoError(t, d.SetValue(2, 1, 2))

	a1, err := d.Cell("A1")
	require.NoError(t, err)
	b1, err := d.Cell("B1")
	require.NoError(t, err)
	require.NoError(t, a1.SetBackColor("FF0000"))
	require.NoError(t, b1.SetBackColor("#ff0000"))
	assert.Equal(t, cellStyle(t, d, "A1"), cellStyle(t, d, "B1"))

	c1, err := d.Cell("C1")
	require.NoError(t, err)
	d1, err := d.Cell("D1")
	require.NoError(t, err)
	require.NoError(t, c1.SetBackColor("00FF00"))
	require.NoError(t, d1.SetBackColor("0000FF"))
	red, green, blue := cellStyle(t, d, "A1"), cellStyle(t, d, "C1"), cellStyle(t, d, "D1")
	assert.Less(t, red, green)
	assert.Less(t, green, blue)

	f, ok := d.styles.Format(red)
	require.True(t, ok)
	assert.Equal(t, "FF0000", d.styles.Fill(f.FillID).Color)

	assert.ErrorIs(t, a1.SetBackColor("red"), ErrInvalidColor)
}

func TestStyleOverridesCompose(t *testing.T) {
	d := newDoc(t)
	p, err := d.Cell("A1:B2")
	require.NoError(t, err)
	require.NoError(t, p.SetBackColor("FFFF00"))
	require.NoError(t, p.SetFontColor("112233"))
	require.NoError(t, p.SetFormat("#,##0.00"))
	require.NoError(t, p.SetBorder(style.LineThin, "000000"))
	require.NoError(t, p.SetAlignment(style.Alignment{Horizontal: "center", WrapText: true}))

	id := cellStyle(t, d, "A1")
	assert.Equal(t, id, cellStyle(t, d, "B2"))
	f, ok := d.styles.Format(id)
	require.True(t, ok)
	assert.Equal(t, "FFFF00", d.styles.Fill(f.FillID).Color)
	assert.Equal(t, "112233", d.styles.Font(f.FontID).Color)
	assert.Equal(t, "#,##0.00", f.NumFmtCode)
	assert.Equal(t, style.LineThin, d.styles.Border(f.BorderID).Left.Style)
	require.NotNil(t, f.Alignment)
	assert.Equal(t, "center", f.Alignment.Horizontal)

	assert.ErrorIs(t, p.SetFormat(""), ErrInvalidNumFmt)
}

func TestStyleFailureLeavesCellsUntouched(t *testing.T) {
	d := newDoc(t)
	p, err := d.Cell("A1:C3")
	require.NoError(t, err)
	require.Error(t, p.SetFontColor("XYZ"))

	s, err := d.dir.Current()
	require.NoError(t, err)
	assert.Zero(t, s.Grid.RowCount())
}

func TestNewCellsInheritColumnStyle(t *testing.T) {
	d := newDoc(t)
	col, err := d.Cell("C1")
	require.NoError(t, err)
	require.NoError(t, col.SetBackColor("ABCDEF"))
	styled := cellStyle(t, d, "C1")

	s, err := d.dir.Current()
	require.NoError(t, err)
	require.NoError(t, s.Grid.SetColumnStyle(3, 3, styled))
	require.NoError(t, d.SetValue(3, 9, "new"))
	assert.Equal(t, styled, cellStyle(t, d, "C9"))

	off := false
	d2, err := New("plain.xlsx", Options{Store: blob.NewMemory(), InheritStyles: &off})
	require.NoError(t, err)
	s2, err := d2.dir.Current()
	require.NoError(t, err)
	require.NoError(t, s2.Grid.SetColumnStyle(3, 3, 1))
	require.NoError(t, d2.SetValue(3, 9, "new"))
	c, ok := s2.Grid.Cell(address.Address{Col: 3, Row: 9})
	require.True(t, ok)
	assert.False(t, c.HasStyle)
}

func TestDeleteRowsRenumbers(t *testing.T) {
	d := newDoc(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, d.SetValue(1, i, i))
	}
	require.NoError(t, d.DeleteRows(1, 2))

	for ref, want := range map[string]any{"A1": 1.0, "A2": 4.0, "A3": 5.0, "A4": nil} {
		got, err := d.GetValueAt(ref)
		require.NoError(t, err)
		assert.Equal(t, want, got, ref)
	}
	assert.ErrorIs(t, d.DeleteRows(-1, 1), ErrInvalidArgument)
	assert.ErrorIs(t, d.DeleteRows(0, 0), ErrInvalidArgument)
}

func TestDeleteRowsClearsSharedFormulas(t *testing.T) {
	d := newDoc(t)
	require.NoError(t, d.SetValue(1, 1, 1))
	require.NoError(t, d.SetValue(1, 2, 2))
	require.NoError(t, d.SetFormula("C1", "=A1*2"))
	_, err := d.SetSharedFormula("B1:B3", "A1+1")
	require.NoError(t, err)
	require.NoError(t, d.SetCalculationMode(CalcManual))

	deps, err := d.Dependents("A1")
	require.NoError(t, err)
	assert.Len(t, deps, 2)
	require.True(t, d.chain.Built())

	require.NoError(t, d.DeleteRows(4, 1))
	assert.False(t, d.chain.Built())
	assert.Empty(t, exported(t, d))

	f, ok, err := d.Formula("B1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, grid.FormulaNormal, f.Kind)
	assert.Equal(t, "A1+1", f.Text)
	_, ok, err = d.Formula("B2")
	require.NoError(t, err)
	assert.False(t, ok)

	mode, full, err := d.CalculationMode()
	require.NoError(t, err)
	assert.Equal(t, CalcAuto, mode)
	assert.True(t, full)
}

func TestPrecedents(t *testing.T) {
	d := newDoc(t)
	require.NoError(t, d.SetFormula("C1", "SUM(A1:B2)+D4"))
	prec, err := d.Precedents("C1")
	require.NoError(t, err)
	require.Len(t, prec, 2)
	assert.Equal(t, "A1:B2", prec[0].Range.String())
	assert.Equal(t, "D4", prec[1].Range.String())

	assert.ErrorIs(t, d.SetFormula("C2", "="), ErrInvalidArgument)
	assert.ErrorIs(t, d.SetCalculationMode("sometimes"), ErrInvalidArgument)
}

func TestMergeIsIdempotent(t *testing.T) {
	d := newDoc(t)
	p, err := d.Pos(3, 3, 1, 1)
	require.NoError(t, err)
	require.NoError(t, p.Merge())
	q, err := d.Cell("A1:C3")
	require.NoError(t, err)
	require.NoError(t, q.Merge())

	single, err := d.Cell("E5")
	require.NoError(t, err)
	require.NoError(t, single.Merge())

	s, err := d.dir.Current()
	require.NoError(t, err)
	assert.Len(t, s.Grid.Merges(), 1)

	overlap, err := d.Cell("B2:D4")
	require.NoError(t, err)
	assert.ErrorIs(t, overlap.Merge(), ErrMergeOverlap)
}

func TestCopyPaste(t *testing.T) {
	d := newDoc(t)
	src, err := d.Cell("A1")
	require.NoError(t, err)
	require.NoError(t, src.SetValue("copied"))
	require.NoError(t, src.SetBackColor("FF0000"))

	dst, err := d.Cell("C1:D2")
	require.NoError(t, err)
	require.NoError(t, dst.SetBackColor("00FF00"))

	assert.ErrorIs(t, dst.Paste(), ErrEmptyClipboard)
	require.NoError(t, src.Copy())
	require.NoError(t, src.SetValue("changed"))
	require.NoError(t, dst.Paste())

	for _, ref := range []string{"C1", "D2"} {
		v, err := d.GetValueAt(ref)
		require.NoError(t, err)
		assert.Equal(t, "copied", v)
		assert.Equal(t, cellStyle(t, d, "A1"), cellStyle(t, d, ref))
	}
}

func TestPrintAreaIsolation(t *testing.T) {
	d := newDoc(t, "Sheet1", "Bob's")

	require.NoError(t, d.SetPrintAreaText("A1:D20"))
	require.NoError(t, d.SetPrintAreaText("$B$2:$C$3"))
	require.NoError(t, d.SelectSheet(1))
	require.NoError(t, d.SetPrintArea(address.Range{
		Start: address.Address{Col: 1, Row: 1},
		End:   address.Address{Col: 2, Row: 2},
	}))

	regions, err := d.Regions()
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, models.PrintAreaName, regions[0].Name)
	assert.Equal(t, "'Sheet1'!$B$2:$C$3", regions[0].RefersTo)
	assert.Equal(t, 0, *regions[0].LocalSheetID)
	assert.Equal(t, "'Bob''s'!$A$1:$B$2", regions[1].RefersTo)
	assert.Equal(t, 1, *regions[1].LocalSheetID)

	areas, err := d.PrintAreas()
	require.NoError(t, err)
	assert.Equal(t, []models.PrintArea{{R1: 2, C1: 2, R2: 3, C2: 3}}, areas["Sheet1"])
	assert.Equal(t, []models.PrintArea{{R1: 1, C1: 1, R2: 2, C2: 2}}, areas["Bob's"])
}

func TestExportSharedFormulas(t *testing.T) {
	d := newDoc(t, "Data", "Other")
	_, err := d.SetSharedFormula("B1:B2", "=A1*2")
	require.NoError(t, err)
	require.NoError(t, d.SelectSheet(1))
	_, err = d.SetSharedFormula("C1", "\"a,b\"")
	require.NoError(t, err)

	first := exported(t, d)
	second := exported(t, d)
	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, models.SharedFormula{SheetName: "Data", Cell: "B1", Row: 1, Col: 2, Formula: "A1*2", Reference: "B1:B2"}, first[0])
	assert.Equal(t, "B2", first[1].Cell)
	assert.Empty(t, first[1].Formula)
	assert.Equal(t, "Other", first[2].SheetName)

	var buf bytes.Buffer
	n, err := d.ExportSharedFormulasCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "SheetName,Cell,Row,Col,SharedIndex,Formula,Reference", lines[0])
	assert.Equal(t, `Other,C1,1,3,0,"""a,b""",C1`, lines[3])

	dir := t.TempDir()
	n, err = d.ExportSharedFormulasFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = d.ExportSharedFormulasSQLite(context.Background(), filepath.Join(dir, "out.db"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCloseIsIdempotent(t *testing.T) {
	d := newDoc(t)
	p, err := d.Cell("A1")
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.True(t, d.IsDisposed())

	assert.ErrorIs(t, d.SetValue(1, 1, "x"), ErrUseAfterDispose)
	_, err = d.GetValue(1, 1)
	assert.ErrorIs(t, err, ErrUseAfterDispose)
	assert.ErrorIs(t, d.SelectSheet(0), ErrUseAfterDispose)
	assert.ErrorIs(t, p.SetValue("x"), ErrUseAfterDispose)
	assert.ErrorIs(t, d.Save(true), ErrUseAfterDispose)
	_, err = d.Dump(DumpOptions{})
	assert.ErrorIs(t, err, ErrUseAfterDispose)
	_, err = d.ExportSharedFormulas()
	assert.ErrorIs(t, err, ErrUseAfterDispose)
}

func TestSaveWithoutFlagDiscards(t *testing.T) {
	store := blob.NewMemory()
	d, err := New("book.xlsx", Options{Store: store})
	require.NoError(t, err)
	require.NoError(t, d.SetValue(1, 1, "x"))
	require.NoError(t, d.Save(false))
	assert.True(t, d.IsDisposed())

	_, err = store.Head(context.Background(), "book.xlsx")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestSaveReopenRoundTrip(t *testing.T) {
	store := blob.NewMemory()
	d, err := New("out/book.xlsx", Options{Store: store}, "Data", "Bob's")
	require.NoError(t, err)

	require.NoError(t, d.SetValueAt("A1", "name"))
	require.NoError(t, d.SetValueAt("B1", 12.5))
	require.NoError(t, d.SetValueAt("C1", true))
	p, err := d.Cell("A1:B1")
	require.NoError(t, err)
	require.NoError(t, p.SetBackColor("336699"))
	m, err := d.Cell("A3:C4")
	require.NoError(t, err)
	require.NoError(t, m.Merge())
	_, err = d.SetSharedFormula("D1:D2", "B1*2")
	require.NoError(t, err)
	require.NoError(t, d.SetPrintAreaText("A1:D4"))
	require.NoError(t, d.SelectSheet(1))
	require.NoError(t, d.SetValueAt("A1", "second"))
	require.NoError(t, d.SetPrintAreaText("A1:A1"))
	require.NoError(t, d.SetCalculationMode(CalcManual))
	require.NoError(t, d.Save(true))

	r, err := Open("out/book.xlsx", Options{Store: store})
	require.NoError(t, err)
	defer r.Close()

	names, err := r.SheetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Bob's"}, names)
	for ref, want := range map[string]any{"A1": "name", "B1": 12.5, "C1": true} {
		got, err := r.GetValueAt(ref)
		require.NoError(t, err)
		assert.Equal(t, want, got, ref)
	}
	f, ok := r.styles.Format(cellStyle(t, r, "A1"))
	require.True(t, ok)
	assert.Equal(t, "336699", r.styles.Fill(f.FillID).Color)

	s, err := r.dir.Current()
	require.NoError(t, err)
	require.Len(t, s.Grid.Merges(), 1)
	assert.Equal(t, "A3:C4", s.Grid.Merges()[0].String())

	shared := exported(t, r)
	require.Len(t, shared, 2)
	assert.Equal(t, "B1*2", shared[0].Formula)
	assert.Equal(t, "D1:D2", shared[0].Reference)

	areas, err := r.PrintAreas()
	require.NoError(t, err)
	assert.Equal(t, []models.PrintArea{{R1: 1, C1: 1, R2: 4, C2: 4}}, areas["Data"])
	assert.Equal(t, []models.PrintArea{{R1: 1, C1: 1, R2: 1, C2: 1}}, areas["Bob's"])

	mode, _, err := r.CalculationMode()
	require.NoError(t, err)
	assert.Equal(t, CalcManual, mode)

	require.NoError(t, r.SelectSheetName("Bob's"))
	v, err := r.GetValueAt("A1")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestOpenFailures(t *testing.T) {
	store := blob.NewMemory()
	_, err := Open("missing.xlsx", Options{Store: store})
	assert.ErrorIs(t, err, ErrOpenFailed)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	_, err = store.Put(context.Background(), "junk.xlsx", strings.NewReader("not a zip"), blob.PutOptions{})
	require.NoError(t, err)
	_, err = Open("junk.xlsx", Options{Store: store})
	assert.ErrorIs(t, err, ErrOpenFailed)
}

func TestOpenFromFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.xlsx")
	d, err := New(path, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, d.SetValue(2, 2, "on disk"))
	require.NoError(t, d.Save(true))

	r, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	defer r.Close()
	v, err := r.GetValueAt("B2")
	require.NoError(t, err)
	assert.Equal(t, "on disk", v)
	assert.Equal(t, "disk.xlsx", r.Name())
}

func TestDump(t *testing.T) {
	d := newDoc(t)
	require.NoError(t, d.SetValueAt("A1", "x"))
	require.NoError(t, d.SetFormula("B1", "LEN(A1)"))
	p, err := d.Cell("A1")
	require.NoError(t, err)
	require.NoError(t, p.SetBackColor("FF0000"))
	require.NoError(t, d.SetPrintAreaText("A1:B1"))

	wb, err := d.Dump(DumpOptions{})
	require.NoError(t, err)
	assert.Equal(t, "book.xlsx", wb.BookName)
	sheet := wb.Sheets["Sheet1"]
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "x", sheet.Rows[0].C["1"])
	assert.Equal(t, "LEN(A1)", sheet.Rows[0].F["2"])
	assert.NotZero(t, sheet.Rows[0].S["1"])
	assert.Len(t, sheet.PrintAreas, 1)
	assert.Equal(t, d.styles.Len(), wb.CellFormats)

	off := false
	wb, err = d.Dump(DumpOptions{IncludeStyles: &off, IncludeFormulas: &off, IncludePrintAreas: &off})
	require.NoError(t, err)
	sheet = wb.Sheets["Sheet1"]
	assert.Nil(t, sheet.Rows[0].S)
	assert.Nil(t, sheet.Rows[0].F)
	assert.Nil(t, sheet.PrintAreas)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := New("metrics.xlsx", Options{Store: blob.NewMemory(), Registerer: reg})
	require.NoError(t, err)
	p, err := d.Cell("A1:B1")
	require.NoError(t, err)
	require.NoError(t, p.SetValue("v"))
	require.NoError(t, p.SetBackColor("FF0000"))

	values := gather(t, reg)
	assert.Equal(t, 1.0, values["exgrid_style_cache_hits_total"])
	assert.Equal(t, 1.0, values["exgrid_style_cache_misses_total"])
	assert.Equal(t, 2.0, values["exgrid_cell_formats"])
	assert.Equal(t, 1.0, values["exgrid_shared_strings"])
	assert.Equal(t, 2.0, values["exgrid_cells_written_total"])

	_, err = New("metrics.xlsx", Options{Store: blob.NewMemory(), Registerer: reg})
	var already prometheus.AlreadyRegisteredError
	assert.True(t, errors.As(err, &already))

	require.NoError(t, d.Close())
	assert.Empty(t, gather(t, reg))
}

func TestMetricsGatherDuringEdits(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := New("busy.xlsx", Options{Store: blob.NewMemory(), Registerer: reg})
	require.NoError(t, err)
	defer d.Close()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				if _, err := reg.Gather(); err != nil {
					t.Error(err)
					return
				}
			}
		}
	}()

	colors := []string{"FF0000", "00FF00", "0000FF"}
	for i := range 200 {
		p, err := d.Pos(1, i+1, 3, i+1)
		require.NoError(t, err)
		require.NoError(t, p.SetBackColor(colors[i%len(colors)]))
	}
	close(done)
	wg.Wait()

	values := gather(t, reg)
	assert.Equal(t, 597.0, values["exgrid_style_cache_hits_total"])
	assert.Equal(t, 3.0, values["exgrid_style_cache_misses_total"])
	assert.Equal(t, 4.0, values["exgrid_cell_formats"])
}

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}
