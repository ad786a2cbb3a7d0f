package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Koson7970/wood-strength-prediction-model/internal/diagram"
	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/metrics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/pipeline"
	"github.com/Koson7970/wood-strength-prediction-model/internal/report"
	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

// ErrExportRefused is returned when exports were requested but some members
// could not be sized
var ErrExportRefused = errors.New("exports not written: some members could not be sized")

var (
	// Inputs
	sizeMembersFile string
	sizeCatalogFile string

	// Run settings, override the configuration when set
	sizeWorkers    int
	sizeWidthClass string
	sizeSI         bool
	sizeColumns    int
	sizeSeed       int32

	// Outputs
	sizeSave          bool
	sizeOutput        string
	sizeReportCSV     string
	sizeXLSX          string
	sizePDF           string
	sizeProject       string
	sizeShowDiagram   bool
	sizeExportDiagram string
	sizeChart         bool
	sizeMetricsFile   string
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Assign catalog timber to analysis members and size each member",
	Long: `Pair every member with one catalog entry by bending rank and compute
the number of identical pieces each member needs.

Members are read from the analysis output (.csv, .xlsx, .yaml or .json).
Forces are expected in kN and kN·m unless --si=false is given, in which
case they are taken as kgf and kgf·cm. The catalog is read from the
strength-prediction output (.csv or .xlsx) with columns
reference, MOR, MOE, shear strength, compression strength (kgf/cm²).

Examples:
  # Size a model and print the results
  timbermatch size --members members.csv --catalog catalog.csv

  # Save the tabular export and draw the section layout
  timbermatch size -m members.csv -c catalog.csv --save --output out/members.csv \
      --export-diagram out/layout.png --columns 8

  # Full report set
  timbermatch size -m members.xlsx -c catalog.xlsx --report-csv sizing.csv \
      --xlsx report.xlsx --pdf report.pdf`,
	RunE: runSize,
}

func init() {
	rootCmd.AddCommand(sizeCmd)

	sizeCmd.Flags().StringVarP(&sizeMembersFile, "members", "m", "", "Member file from the structural analysis [required]")
	sizeCmd.Flags().StringVarP(&sizeCatalogFile, "catalog", "c", "", "Timber catalog file [required]")
	sizeCmd.MarkFlagRequired("members")
	sizeCmd.MarkFlagRequired("catalog")

	sizeCmd.Flags().IntVarP(&sizeWorkers, "workers", "w", 0, "Size pairs concurrently with this many workers")
	sizeCmd.Flags().StringVar(&sizeWidthClass, "width-class", "narrow", "Nominal width class for the catalog: narrow, medium, wide")
	sizeCmd.Flags().BoolVar(&sizeSI, "si", true, "Member forces are in kN and kN·m")
	sizeCmd.Flags().IntVar(&sizeColumns, "columns", 10, "Sections per row in the layout drawing")
	sizeCmd.Flags().Int32Var(&sizeSeed, "seed", timber.DefaultSeed, "Seed for the catalog size assignment")

	sizeCmd.Flags().BoolVar(&sizeSave, "save", false, "Write the tabular export as CSV")
	sizeCmd.Flags().StringVarP(&sizeOutput, "output", "o", "members.csv", "Destination of the CSV export")
	sizeCmd.Flags().StringVar(&sizeReportCSV, "report-csv", "", "Write the per-member sizing report as CSV to this file")
	sizeCmd.Flags().StringVar(&sizeXLSX, "xlsx", "", "Write the sizing report workbook to this file")
	sizeCmd.Flags().StringVar(&sizePDF, "pdf", "", "Write the sizing report PDF to this file")
	sizeCmd.Flags().StringVar(&sizeProject, "project", "", "Project name printed in the PDF header")
	sizeCmd.Flags().BoolVar(&sizeShowDiagram, "diagram", false, "Show ASCII section sketches")
	sizeCmd.Flags().StringVar(&sizeExportDiagram, "export-diagram", "", "Export the section layout to file (png, svg, pdf)")
	sizeCmd.Flags().BoolVar(&sizeChart, "chart", false, "Show a chart of the governing ratio per member")
	sizeCmd.Flags().StringVar(&sizeMetricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format")
}

func applySizeFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = sizeWorkers
	}
	if flags.Changed("width-class") {
		cfg.WidthClass = sizeWidthClass
	}
	if flags.Changed("si") {
		cfg.SIUnits = sizeSI
	}
	if flags.Changed("columns") {
		cfg.Columns = sizeColumns
	}
	if flags.Changed("seed") {
		cfg.Seed = sizeSeed
	}
	return cfg.Validate()
}

func runSize(cmd *cobra.Command, args []string) error {
	if err := applySizeFlags(cmd); err != nil {
		return err
	}
	topts, err := cfg.TimberOptions()
	if err != nil {
		return err
	}

	rows, err := member.LoadFile(sizeMembersFile)
	if err != nil {
		return err
	}
	catalog, err := timber.LoadFile(sizeCatalogFile)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	opts := pipeline.Options{
		Member:  member.Options{SkipUnitConversion: !cfg.SIUnits},
		Timber:  topts,
		Workers: cfg.Workers,
		Logger:  logger,
	}
	if sizeMetricsFile != "" {
		recorder = metrics.New(false)
		opts.Observer = recorder
	}

	start := time.Now()
	out, sizeErr := pipeline.Run(cmd.Context(), rows, catalog, opts)
	if out == nil {
		return sizeErr
	}
	if recorder != nil {
		recorder.ObserveRun(start)
		if err := recorder.WriteTextfile(sizeMetricsFile); err != nil {
			logger.Warn("metrics file not written", zap.String("path", sizeMetricsFile), zap.Error(err))
		}
	}

	w := cmd.OutOrStdout()
	printSizeResults(w, out)

	if sizeShowDiagram {
		for _, d := range diagram.FromReport(out.Report) {
			fmt.Fprintln(w, diagram.DrawASCIISection(d))
		}
	}
	if sizeChart {
		if chart := diagram.RatioChart(out.Report, 10); chart != "" {
			fmt.Fprintln(w, chart)
			fmt.Fprintln(w)
		}
	}

	if sizeErr != nil {
		if exportsRequested() {
			return fmt.Errorf("%w: %v", ErrExportRefused, sizeErr)
		}
		return sizeErr
	}
	return writeExports(w, out)
}

func exportsRequested() bool {
	return sizeSave || sizeReportCSV != "" || sizeXLSX != "" || sizePDF != "" || sizeExportDiagram != ""
}

func printSizeResults(w io.Writer, out *pipeline.Output) {
	rep := out.Report

	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "     COMPOSITE TIMBER MEMBER SIZING")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "INPUT DATA:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Run:\t%s\n", out.RunID)
	fmt.Fprintf(tw, "  Members:\t%d\n", len(out.Members))
	fmt.Fprintf(tw, "  Catalog entries:\t%d\n", len(out.Stock))
	fmt.Fprintf(tw, "  Width class:\t%s\n", cfg.WidthClass)
	fmt.Fprintf(tw, "  Seed:\t%d\n", cfg.Seed)
	units := "kN, kN·m"
	if !cfg.SIUnits {
		units = "kgf, kgf·cm"
	}
	fmt.Fprintf(tw, "  Input units:\t%s\n", units)
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SIZING RESULTS:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "  Member\tForce\tMaterial\tn\tb (cm)\th (cm)\tL (cm)\tBending\tCompr.\tShear\tMax\t")
	for _, r := range rep.Rows {
		if !r.Sized() {
			fmt.Fprintf(tw, "  %d\t%s\t-\t-\t-\t-\t%s\t-\t-\t-\t-\t\n", r.MemberID, r.Force, mechanics.Format2(r.Length))
			continue
		}
		flag := ""
		if r.Buckled {
			flag = "*"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%d%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.MemberID, r.Force, r.MaterialID, r.CompositeNum, flag,
			mechanics.Format2(r.Width), mechanics.Format2(r.Height), mechanics.Format2(r.Length),
			mechanics.Format2(r.BendingRatio), mechanics.Format2(r.CompressionRatio),
			mechanics.Format2(r.ShearRatio), mechanics.Format2(r.MaxRatio))
	}
	tw.Flush()
	fmt.Fprintln(w, "  * composite count raised by the buckling check")
	fmt.Fprintln(w)

	sized, overstressed, buckled, pieces := 0, 0, 0, 0
	for _, r := range rep.Rows {
		if !r.Sized() {
			continue
		}
		sized++
		pieces += r.CompositeNum
		if r.MaxRatio > 1 {
			overstressed++
		}
		if r.Buckled {
			buckled++
		}
	}
	failed := rep.Failed()
	fmt.Fprint(w, diagram.DrawSummaryBox("SUMMARY", []string{
		fmt.Sprintf("Members sized:        %d of %d", sized, len(rep.Rows)),
		fmt.Sprintf("Timber pieces:        %d", pieces),
		fmt.Sprintf("Buckling governed:    %d", buckled),
		fmt.Sprintf("Overstressed (>1.0):  %d", overstressed),
		fmt.Sprintf("Not sized:            %d", len(failed)),
	}))
	fmt.Fprintln(w)

	if len(failed) > 0 {
		fmt.Fprintln(w, "MEMBERS NOT SIZED:")
		fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
		for _, r := range failed {
			fmt.Fprintf(w, "  Member %d: %s\n", r.MemberID, r.Err)
		}
		fmt.Fprintln(w)
	}
}

func writeExports(w io.Writer, out *pipeline.Output) error {
	rep := out.Report

	if sizeSave {
		if err := report.SaveCSV(sizeOutput, rep.Export); err != nil {
			return err
		}
		fmt.Fprintf(w, "  Export saved to: %s\n", sizeOutput)
	}
	if sizeReportCSV != "" {
		if err := report.SaveSizingCSV(sizeReportCSV, rep.Rows); err != nil {
			return err
		}
		fmt.Fprintf(w, "  Sizing report saved to: %s\n", sizeReportCSV)
	}
	if sizeXLSX != "" {
		if err := ensureDir(sizeXLSX); err != nil {
			return err
		}
		if err := report.WriteXLSX(sizeXLSX, rep); err != nil {
			return err
		}
		fmt.Fprintf(w, "  Workbook saved to: %s\n", sizeXLSX)
	}
	if sizePDF != "" {
		if err := ensureDir(sizePDF); err != nil {
			return err
		}
		f, err := os.Create(sizePDF)
		if err != nil {
			return err
		}
		meta := report.Meta{Project: sizeProject, RunID: out.RunID, Date: out.Started}
		if err := report.WritePDF(f, rep, meta); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(w, "  PDF report saved to: %s\n", sizePDF)
	}
	if sizeExportDiagram != "" {
		if err := diagram.ExportLayout(diagram.FromReport(rep), cfg.Columns, sizeExportDiagram); err != nil {
			return fmt.Errorf("export diagram: %w", err)
		}
		fmt.Fprintf(w, "  Section layout exported to: %s\n", sizeExportDiagram)
	}
	return nil
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
