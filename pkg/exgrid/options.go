// Package exgrid edits xlsx workbooks through a sparse ordered cell grid
// and a deduplicating style table.
package exgrid

import (
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/blob"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/diag"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
)

// Options configures how a document is opened and saved.
type Options struct {
	// Store holds the workbook bytes. If nil, the file at the given path
	// is read and written through a filesystem store rooted at its
	// directory.
	Store blob.Store
	// DateSystem converts time.Time values. A workbook flagged date1904
	// overrides it on open.
	DateSystem grid.DateSystem
	// InheritStyles specifies whether new cells take the column or row
	// format. If nil, defaults to true.
	InheritStyles *bool
	// Timer, if set, receives elapsed-time lines for open and save.
	Timer *diag.Timer
	// Registerer, if set, receives the document's metrics.
	Registerer prometheus.Registerer
}

// DefaultOptions returns default document options.
func DefaultOptions() Options {
	return Options{
		DateSystem: grid.Date1900,
	}
}

// ShouldInheritStyles returns whether new cells inherit column/row formats.
func (o Options) ShouldInheritStyles() bool {
	if o.InheritStyles != nil {
		return *o.InheritStyles
	}
	return true
}

func (o Options) gridConfig() grid.Config {
	return grid.Config{
		Dates:     o.DateSystem,
		NoInherit: !o.ShouldInheritStyles(),
	}
}

// location returns the store and key path resolves to.
func (o Options) location(path string) (blob.Store, string, error) {
	if o.Store != nil {
		return o.Store, filepath.ToSlash(path), nil
	}
	store, err := blob.NewFilesystem(filepath.Dir(path))
	if err != nil {
		return nil, "", err
	}
	return store, filepath.Base(path), nil
}
