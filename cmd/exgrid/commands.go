package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ukaji3/exgrid-go/pkg/exgrid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/grid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/output"
)

func (c *cli) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new FILE [SHEET...]",
		Short: "Create an empty workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd.Context())
			if err != nil {
				return err
			}
			d, err := exgrid.New(args[0], opts, args[1:]...)
			if err != nil {
				return err
			}
			return d.SaveContext(cmd.Context(), true)
		},
	}
}

func (c *cli) sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets FILE",
		Short: "List sheet names in declaration order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer d.Close()
			names, err := d.SheetNames()
			if err != nil {
				return err
			}
			for i, name := range names {
				fmt.Fprintf(c.out, "%d\t%s\n", i, name)
			}
			return nil
		},
	}
}

func (c *cli) getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get FILE CELL",
		Short: "Print the value of a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer d.Close()
			v, err := d.GetValueAt(args[1])
			if err != nil {
				return err
			}
			if v != nil {
				fmt.Fprintln(c.out, v)
			}
			return nil
		},
	}
	c.addSheetFlag(cmd)
	return cmd
}

func (c *cli) setCmd() *cobra.Command {
	var (
		asText bool
		bg     string
	)
	cmd := &cobra.Command{
		Use:   "set FILE RANGE VALUE",
		Short: "Write a value into every cell of a range",
		Long: `Write a value into every cell of a range. Numbers and true/false are
typed unless --text is given.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *exgrid.Document) error {
				p, err := d.Cell(args[1])
				if err != nil {
					return err
				}
				if asText {
					err = p.SetText(args[2])
				} else {
					err = p.SetValue(parseValue(args[2]))
				}
				if err != nil {
					return err
				}
				if bg != "" {
					return p.SetBackColor(bg)
				}
				return nil
			})
		},
	}
	c.addSheetFlag(cmd)
	cmd.Flags().BoolVar(&asText, "text", false, "Store the value as text")
	cmd.Flags().StringVar(&bg, "bg", "", "Background color as RRGGBB")
	return cmd
}

// parseValue types command-line text the way a user typing into a cell
// would expect: numbers, booleans, else text.
func parseValue(s string) any {
	switch s {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

func (c *cli) mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge FILE RANGE",
		Short: "Merge a range of cells",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *exgrid.Document) error {
				p, err := d.Cell(args[1])
				if err != nil {
					return err
				}
				return p.Merge()
			})
		},
	}
	c.addSheetFlag(cmd)
	return cmd
}

func (c *cli) deleteRowsCmd() *cobra.Command {
	var start, count int
	cmd := &cobra.Command{
		Use:   "delete-rows FILE",
		Short: "Delete rows and shift the rows below up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *exgrid.Document) error {
				return d.DeleteRows(start-1, count)
			})
		},
	}
	c.addSheetFlag(cmd)
	cmd.Flags().IntVar(&start, "start", 0, "First row to delete (1-based)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of rows to delete")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func (c *cli) printAreaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print-area FILE RANGE",
		Short: "Set the print area of a sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *exgrid.Document) error {
				return d.SetPrintAreaText(args[1])
			})
		},
	}
	c.addSheetFlag(cmd)
	return cmd
}

func (c *cli) calcModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "calc-mode FILE auto|manual",
		Short:     "Set the workbook calculation mode",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(grid.CalcAuto), string(grid.CalcManual)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], func(d *exgrid.Document) error {
				return d.SetCalculationMode(grid.CalcMode(args[1]))
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		outputPath string
		sqlitePath string
		asJSON     bool
		pretty     bool
	)
	cmd := &cobra.Command{
		Use:   "export-shared-formulas FILE",
		Short: "Export shared-formula cells as CSV, JSON or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			if sqlitePath != "" {
				n, err := d.ExportSharedFormulasSQLite(cmd.Context(), sqlitePath)
				if err != nil {
					return fmt.Errorf("sqlite export failed: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%d records written to %s\n", n, sqlitePath)
			}
			switch {
			case asJSON:
				seq, err := d.ExportSharedFormulas()
				if err != nil {
					return err
				}
				records := slices.Collect(seq)
				jsonData, err := output.SharedFormulasToJSON(records, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				return c.write(outputPath, jsonData)
			case outputPath != "":
				_, err := d.ExportSharedFormulasFile(outputPath)
				return err
			case sqlitePath == "":
				_, err := d.ExportSharedFormulasCSV(c.out)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Write records into this SQLite database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of CSV")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func (c *cli) dumpCmd() *cobra.Command {
	var (
		outputPath    string
		pretty        bool
		noStyles      bool
		sheetsDir     string
		printAreasDir string
	)
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Dump cells, merges and print areas as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			includeStyles := !noStyles
			wb, err := d.Dump(exgrid.DumpOptions{IncludeStyles: &includeStyles})
			if err != nil {
				return fmt.Errorf("dump failed: %w", err)
			}

			jsonData, err := output.ToJSON(wb, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" || (sheetsDir == "" && printAreasDir == "") {
				if err := c.write(outputPath, jsonData); err != nil {
					return err
				}
			}
			if sheetsDir != "" {
				if err := writeSheetFiles(wb, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}
			if printAreasDir != "" {
				if err := writePrintAreaFiles(wb, printAreasDir, pretty); err != nil {
					return fmt.Errorf("failed to write print area files: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&noStyles, "no-styles", false, "Omit format ids")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	cmd.Flags().StringVar(&printAreasDir, "print-areas-dir", "", "Directory for per-print-area output files")
	return cmd
}

// write sends data to path, or to stdout when path is empty.
func (c *cli) write(path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(c.out, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeSheetFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for sheetName, sheet := range wb.Sheets {
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, sheetName+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}

func writePrintAreaFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for sheetName, sheet := range wb.Sheets {
		for i, area := range sheet.PrintAreas {
			view := output.PrintAreaView(wb.BookName, sheetName, sheet, area)
			jsonData, err := output.PrintAreaViewToJSON(&view, pretty)
			if err != nil {
				return err
			}
			filename := filepath.Join(dir, fmt.Sprintf("%s_area%d.json", sheetName, i+1))
			if err := os.WriteFile(filename, jsonData, 0644); err != nil {
				return err
			}
		}
	}
	return nil
}
