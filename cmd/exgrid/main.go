// Package main provides the CLI entry point for exgrid-go.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/exgrid-go/pkg/exgrid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/blob"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/diag"
)

// cli holds the global flags shared by every subcommand.
type cli struct {
	logPath string
	quiet   bool
	sheet   string

	timer *diag.Timer
	out   io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	rootCmd := &cobra.Command{
		Use:   "exgrid",
		Short: "Edit cells, styles and print areas of xlsx workbooks",
		Long: `exgrid-go edits xlsx workbooks in place: values, background colors,
merges, row deletion, print areas and calculation mode. It also exports
shared-formula metadata and dumps workbooks as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			diag.SetQuiet(c.quiet)
			if c.logPath == "" {
				return nil
			}
			t, err := diag.NewTimer(c.logPath)
			if err != nil {
				return fmt.Errorf("log file: %w", err)
			}
			c.timer = t
			return t.Start(cmd.Name())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.timer == nil {
				return nil
			}
			return c.timer.End(cmd.Name())
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.logPath, "log", "", "Append elapsed-time lines to this file")
	rootCmd.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Suppress warnings")

	rootCmd.AddCommand(
		c.newCmd(),
		c.sheetsCmd(),
		c.getCmd(),
		c.setCmd(),
		c.mergeCmd(),
		c.deleteRowsCmd(),
		c.printAreaCmd(),
		c.calcModeCmd(),
		c.exportCmd(),
		c.dumpCmd(),
	)
	return rootCmd
}

// options builds document options. EXGRID_BLOB_DRIVER selects a blob
// store; without it paths are plain files.
func (c *cli) options(ctx context.Context) (exgrid.Options, error) {
	opts := exgrid.DefaultOptions()
	opts.Timer = c.timer
	if os.Getenv("EXGRID_BLOB_DRIVER") == "" {
		return opts, nil
	}
	store, err := blob.Open(ctx)
	if err != nil {
		return opts, fmt.Errorf("blob store: %w", err)
	}
	opts.Store = store
	return opts, nil
}

// open opens path and selects the --sheet flag's sheet when given.
func (c *cli) open(ctx context.Context, path string) (*exgrid.Document, error) {
	opts, err := c.options(ctx)
	if err != nil {
		return nil, err
	}
	d, err := exgrid.OpenContext(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if c.sheet != "" {
		if err := d.SelectSheetName(c.sheet); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	return d, nil
}

// edit opens path, applies fn and saves only when fn succeeds.
func (c *cli) edit(ctx context.Context, path string, fn func(*exgrid.Document) error) error {
	d, err := c.open(ctx, path)
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		_ = d.Close()
		return err
	}
	return d.SaveContext(ctx, true)
}

func (c *cli) addSheetFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.sheet, "sheet", "", "Sheet name (default: first sheet)")
}
