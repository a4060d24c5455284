package output

import (
	"strconv"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

func clipRow(row models.CellRow, area models.PrintArea) (models.CellRow, bool) {
	out := models.CellRow{R: row.R, C: make(map[string]interface{}), Style: row.Style}
	inside := func(key string) bool {
		col, err := strconv.Atoi(key)
		return err == nil && area.Contains(row.R, col)
	}
	for k, v := range row.C {
		if inside(k) {
			out.C[k] = v
		}
	}
	for k, v := range row.S {
		if inside(k) {
			if out.S == nil {
				out.S = make(map[string]int)
			}
			out.S[k] = v
		}
	}
	for k, v := range row.F {
		if inside(k) {
			if out.F == nil {
				out.F = make(map[string]string)
			}
			out.F[k] = v
		}
	}
	return out, len(out.C) > 0 || len(out.S) > 0 || len(out.F) > 0
}

func mergeIntersects(ref string, area models.PrintArea) bool {
	rng, err := address.DecodeRange(ref)
	if err != nil {
		return false
	}
	box, err := address.NewRange(area.C1, area.R1, area.C2, area.R2)
	if err != nil {
		return false
	}
	return rng.Overlaps(box)
}
