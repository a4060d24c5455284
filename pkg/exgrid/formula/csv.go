package formula

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmptyPath indicates a blank output path.
var ErrEmptyPath = errors.New("output path is empty")

// Header is the first CSV record.
var Header = []string{"SheetName", "Cell", "Row", "Col", "SharedIndex", "Formula", "Reference"}

// WriteCSV writes the header and one record per exported cell as UTF-8
// without a byte-order mark. It returns the number of data records.
func WriteCSV(w io.Writer, seq iter.Seq[models.SharedFormula]) (int, error) {
	tw := transform.NewWriter(w, unicode.UTF8.NewEncoder())
	bw := bufio.NewWriter(tw)

	n := 0
	if err := writeRecord(bw, Header); err != nil {
		return 0, err
	}
	for rec := range seq {
		fields := []string{
			rec.SheetName,
			rec.Cell,
			strconv.Itoa(rec.Row),
			strconv.Itoa(rec.Col),
			strconv.Itoa(rec.SharedIndex),
			rec.Formula,
			rec.Reference,
		}
		if err := writeRecord(bw, fields); err != nil {
			return n, err
		}
		n++
	}
	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, tw.Close()
}

// WriteCSVFile writes the export to path, replacing any existing file.
func WriteCSVFile(path string, seq iter.Seq[models.SharedFormula]) (n int, err error) {
	if strings.TrimSpace(path) == "" {
		return 0, ErrEmptyPath
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, seq)
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(escape(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// escape quotes a field containing a comma, quote, CR or LF.
func escape(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
