package grid

// CalcMode is the workbook calculation mode.
type CalcMode string

// Calculation modes.
const (
	CalcAuto   CalcMode = "auto"
	CalcManual CalcMode = "manual"
)

// Invalidator is implemented by caches derived from formula geometry.
type Invalidator interface {
	Invalidate()
}

// Calc carries the workbook calculation properties shared by every sheet.
type Calc struct {
	Mode           CalcMode
	FullCalcOnLoad bool

	chains []Invalidator
}

// NewCalc returns automatic calculation without a forced full recalc.
func NewCalc() *Calc {
	return &Calc{Mode: CalcAuto}
}

// Attach registers a derived cache to drop whenever formulas move.
func (c *Calc) Attach(inv Invalidator) {
	c.chains = append(c.chains, inv)
}

// SetMode switches the calculation mode and clears the recalc-on-open flag.
func (c *Calc) SetMode(m CalcMode) {
	c.Mode = m
	c.FullCalcOnLoad = false
}

// RequestRecalc drops derived dependency caches and asks the reader to
// recalculate everything on next open.
func (c *Calc) RequestRecalc() {
	for _, inv := range c.chains {
		inv.Invalidate()
	}
	c.Mode = CalcAuto
	c.FullCalcOnLoad = true
}
