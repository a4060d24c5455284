package parser

import (
	"strings"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/address"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// PrintAreas groups the print-area regions of a workbook by sheet name.
// A region scoped to a sheet belongs to that sheet; an unscoped one to the
// sheet named in its reference.
func PrintAreas(regions []models.Region, sheetNames []string) map[string][]models.PrintArea {
	result := make(map[string][]models.PrintArea)
	for _, r := range regions {
		if !strings.EqualFold(r.Name, models.PrintAreaName) {
			continue
		}
		sheetName, areas := parsePrintAreaReference(r.RefersTo)
		if r.LocalSheetID != nil && *r.LocalSheetID >= 0 && *r.LocalSheetID < len(sheetNames) {
			sheetName = sheetNames[*r.LocalSheetID]
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'Sheet Name'!$A$1:$D$10,'Sheet Name'!$F$1:$G$2 or Sheet1!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []models.PrintArea) {
	var areas []models.PrintArea
	var sheetName string
	for _, part := range splitReferences(ref) {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := unquoteSheetName(part[:idx])
		if sheetName == "" {
			sheetName = sheet
		}
		if area, ok := parseRangeToArea(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}
	return sheetName, areas
}

// splitReferences splits on commas outside quoted sheet names.
func splitReferences(ref string) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(ref); i++ {
		switch ref[i] {
		case '\'':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, ref[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, ref[start:])
}

func unquoteSheetName(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

// parseRangeToArea parses a range string like $A$1:$D$10 to PrintArea.
func parseRangeToArea(rangeStr string) (models.PrintArea, bool) {
	rng, err := address.DecodeRange(rangeStr)
	if err != nil {
		return models.PrintArea{}, false
	}
	return models.PrintArea{
		R1: rng.Start.Row,
		C1: rng.Start.Col,
		R2: rng.End.Row,
		C2: rng.End.Col,
	}, true
}
