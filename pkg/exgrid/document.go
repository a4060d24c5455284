package exgrid

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/blob"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/diag"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/formula"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/parser"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/sheets"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/style"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/writer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Region is a workbook defined name.
type Region = models.Region

// Calculation modes accepted by SetCalculationMode.
const (
	CalcAuto   = grid.CalcAuto
	CalcManual = grid.CalcManual
)

// Document is an open workbook. It is not safe for concurrent use.
type Document struct {
	opts  Options
	store blob.Store
	key   string

	dir     *sheets.Directory
	styles  *style.Cache
	strings *grid.SharedStrings
	calc    *grid.Calc
	regions []models.Region
	dates   grid.DateSystem
	chain   *formula.Chain

	clipboard *grid.Snapshot
	metrics   *metrics
	disposed  bool
}

// Open reads the workbook at path. See OpenContext.
func Open(path string, opts Options) (*Document, error) {
	return OpenContext(context.Background(), path, opts)
}

// OpenContext reads and parses the workbook at path. Any failure wraps
// ErrOpenFailed.
func OpenContext(ctx context.Context, path string, opts Options) (*Document, error) {
	store, key, err := opts.location(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	data, err := blob.ReadAll(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	wb, err := parser.Load(ctx, data, opts.gridConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, key, err)
	}

	d := &Document{
		opts:    opts,
		store:   store,
		key:     key,
		dir:     &sheets.Directory{},
		styles:  wb.Styles,
		strings: wb.Strings,
		calc:    wb.Calc,
		regions: wb.Regions,
		dates:   wb.Dates,
	}
	for _, s := range wb.Sheets {
		if err := d.dir.Add(s.Name, s.Grid); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
		}
	}
	if d.dir.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: workbook has no sheets", ErrOpenFailed, key)
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	d.trace(ctx, "opened "+key)
	return d, nil
}

// New creates an empty workbook that Save writes to path. With no names
// the workbook gets a single "Sheet1".
func New(path string, opts Options, names ...string) (*Document, error) {
	store, key, err := opts.location(path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = []string{"Sheet1"}
	}
	d := &Document{
		opts:    opts,
		store:   store,
		key:     key,
		dir:     &sheets.Directory{},
		styles:  style.NewCache(),
		strings: grid.NewSharedStrings(),
		calc:    grid.NewCalc(),
		dates:   opts.DateSystem,
	}
	cfg := opts.gridConfig()
	for _, name := range names {
		if err := d.dir.Add(name, grid.New(d.strings, d.calc, cfg)); err != nil {
			return nil, err
		}
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) init() error {
	d.chain = formula.NewChain(d.dir)
	d.calc.Attach(d.chain)
	if d.opts.Registerer == nil {
		return nil
	}
	m, err := registerMetrics(d.opts.Registerer, d.key)
	if err != nil {
		return err
	}
	d.metrics = m
	d.changed()
	return nil
}

// changed publishes the counters after a mutation.
func (d *Document) changed() {
	if d.metrics != nil {
		d.metrics.observe(d)
	}
}

// Name returns the key the document is read from and saved to.
func (d *Document) Name() string { return d.key }

func (d *Document) check() error {
	if d.disposed {
		return ErrUseAfterDispose
	}
	return nil
}

// current returns the active sheet, failing after dispose.
func (d *Document) current() (sheets.Sheet, error) {
	if err := d.check(); err != nil {
		return sheets.Sheet{}, err
	}
	return d.dir.Current()
}

func (d *Document) trace(ctx context.Context, msg string) {
	if d.opts.Timer == nil {
		return
	}
	if err := d.opts.Timer.Log(msg); err != nil {
		diag.Debugf(ctx, "timer: %v", err)
	}
}

// SelectSheet activates the sheet at the 0-based index i.
func (d *Document) SelectSheet(i int) error {
	if err := d.check(); err != nil {
		return err
	}
	return d.dir.Select(i)
}

// SelectSheetName activates the sheet named name (case-sensitive).
func (d *Document) SelectSheetName(name string) error {
	if err := d.check(); err != nil {
		return err
	}
	return d.dir.SelectName(name)
}

// SheetNames returns sheet names in declaration order.
func (d *Document) SheetNames() ([]string, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.dir.Names(), nil
}

// CurrentSheetIndex returns the 0-based position of the active sheet.
func (d *Document) CurrentSheetIndex() (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return d.dir.CurrentLocalID(), nil
}

// SetValue writes v into the cell at (col, row).
func (d *Document) SetValue(col, row int, v any) error {
	return d.SetRangeValue(col, row, col, row, v)
}

// SetRangeValue writes v into every cell between the two corners.
func (d *Document) SetRangeValue(sx, sy, ex, ey int, v any) error {
	p, err := d.Pos(sx, sy, ex, ey)
	if err != nil {
		return err
	}
	return p.SetValue(v)
}

// SetValueAt writes v into the cell or range ref, such as "B2" or "A1:C3".
func (d *Document) SetValueAt(ref string, v any) error {
	p, err := d.Cell(ref)
	if err != nil {
		return err
	}
	return p.SetValue(v)
}

// SetTextAt writes v as a shared string whatever its type.
func (d *Document) SetTextAt(ref string, v any) error {
	p, err := d.Cell(ref)
	if err != nil {
		return err
	}
	return p.SetText(v)
}

// GetValue returns the value at (col, row): nil, string, float64 or bool.
func (d *Document) GetValue(col, row int) (any, error) {
	p, err := d.Pos(col, row, col, row)
	if err != nil {
		return nil, err
	}
	return p.Value()
}

// GetValueAt returns the value of the top-left cell of ref.
func (d *Document) GetValueAt(ref string) (any, error) {
	p, err := d.Cell(ref)
	if err != nil {
		return nil, err
	}
	return p.Value()
}

// DeleteRows removes count rows starting at the 0-based row start on the
// active sheet and shifts the rows below up.
func (d *Document) DeleteRows(start, count int) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	defer d.changed()
	if err := s.Grid.DeleteRows(start, count); err != nil {
		return NewOperationError(s.Name, "delete_rows", err)
	}
	return nil
}

// SetCalculationMode switches between automatic and manual calculation.
func (d *Document) SetCalculationMode(mode grid.CalcMode) error {
	if err := d.check(); err != nil {
		return err
	}
	switch mode {
	case CalcAuto, CalcManual:
	default:
		return NewOperationError("", "calc_mode", fmt.Errorf("%w: mode %q", ErrInvalidArgument, mode))
	}
	d.calc.SetMode(mode)
	return nil
}

// CalculationMode returns the mode and whether a full recalculation is
// requested on next open.
func (d *Document) CalculationMode() (grid.CalcMode, bool, error) {
	if err := d.check(); err != nil {
		return "", false, err
	}
	return d.calc.Mode, d.calc.FullCalcOnLoad, nil
}

// SetFormula stores text as a plain formula at ref. A leading '=' is
// dropped. The cached value is kept.
func (d *Document) SetFormula(ref, text string) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	a, err := address.Decode(ref)
	if err != nil {
		return err
	}
	text = trimFormula(text)
	if text == "" {
		return NewOperationError(s.Name, "formula", fmt.Errorf("%w: empty formula", ErrInvalidArgument))
	}
	if err := s.Grid.SetFormula(a, grid.Formula{Text: text}); err != nil {
		return NewOperationError(s.Name, "formula", err)
	}
	d.chain.Invalidate()
	return nil
}

// SetSharedFormula shares text across the range ref, anchored at its
// top-left cell, and returns the group id.
func (d *Document) SetSharedFormula(ref, text string) (int, error) {
	s, err := d.current()
	if err != nil {
		return 0, err
	}
	rng, err := address.DecodeRange(ref)
	if err != nil {
		return 0, err
	}
	si, err := s.Grid.SetSharedFormula(rng, trimFormula(text))
	if err != nil {
		return 0, NewOperationError(s.Name, "formula", err)
	}
	d.chain.Invalidate()
	return si, nil
}

// Formula returns the formula stored at ref on the active sheet.
func (d *Document) Formula(ref string) (grid.Formula, bool, error) {
	s, err := d.current()
	if err != nil {
		return grid.Formula{}, false, err
	}
	a, err := address.Decode(ref)
	if err != nil {
		return grid.Formula{}, false, err
	}
	f, ok := s.Grid.Formula(a)
	return f, ok, nil
}

// Precedents returns the ranges the formula at ref on the active sheet
// reads from.
func (d *Document) Precedents(ref string) ([]formula.Precedent, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	a, err := address.Decode(ref)
	if err != nil {
		return nil, err
	}
	return d.chain.Precedents(s.Name, a), nil
}

// Dependents returns the formula cells that read ref on the active sheet.
func (d *Document) Dependents(ref string) ([]formula.Ref, error) {
	s, err := d.current()
	if err != nil {
		return nil, err
	}
	a, err := address.Decode(ref)
	if err != nil {
		return nil, err
	}
	return d.chain.Dependents(s.Name, a), nil
}

func trimFormula(text string) string {
	if len(text) > 0 && text[0] == '=' {
		return text[1:]
	}
	return text
}

// Save persists the workbook when flag is set, then releases the
// document whether or not saving succeeded. See SaveContext.
func (d *Document) Save(flag bool) error {
	return d.SaveContext(context.Background(), flag)
}

// SaveContext is Save with a context for the store write.
func (d *Document) SaveContext(ctx context.Context, flag bool) error {
	if err := d.check(); err != nil {
		return err
	}
	defer d.release()
	if !flag {
		return nil
	}
	data, err := writer.Write(d.snapshot())
	if err != nil {
		return NewOperationError("", "save", err)
	}
	if _, err := d.store.Put(ctx, d.key, bytes.NewReader(data), blob.PutOptions{
		ContentType: xlsxContentType,
		Overwrite:   true,
	}); err != nil {
		return NewOperationError("", "save", err)
	}
	d.trace(ctx, "saved "+d.key)
	return nil
}

// Close releases the document without saving. It is safe to call more
// than once.
func (d *Document) Close() error {
	if d.disposed {
		return nil
	}
	d.release()
	return nil
}

func (d *Document) snapshot() *writer.Workbook {
	wb := &writer.Workbook{
		Styles:  d.styles,
		Calc:    d.calc,
		Regions: d.regions,
		Dates:   d.dates,
	}
	for _, s := range d.dir.Each() {
		wb.Sheets = append(wb.Sheets, writer.Sheet{Name: s.Name, Grid: s.Grid})
	}
	return wb
}

func (d *Document) release() {
	if d.metrics != nil {
		d.metrics.unregister()
		d.metrics = nil
	}
	d.disposed = true
	d.dir = nil
	d.styles = nil
	d.strings = nil
	d.regions = nil
	d.chain = nil
	d.clipboard = nil
}

// IsDisposed reports whether Save or Close has released the document.
func (d *Document) IsDisposed() bool { return d.disposed }
