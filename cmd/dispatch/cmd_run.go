package main

import (
	"context"
	"dispatch-route-service/internal/adapters/sheet"
	"dispatch-route-service/internal/app"
	"dispatch-route-service/internal/config"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/report"
	"dispatch-route-service/internal/services"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var runOpts struct {
	origin string
	output string
}

var runCmd = &cobra.Command{
	Use:   "run <input.xlsx>",
	Short: "Compute every vehicle itinerary of a dispatch workbook",
	Long: `Reads stops (배송호차, 운행순번, 거래처명, 거래처주소) from the first sheet of the
workbook, computes each leg from the origin, and writes a result workbook with
배송상세 and 호차별요약 sheets.

$ dispatch run input.xlsx --origin "서울특별시 중구 세종대로 110" -o result.xlsx
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runDispatch(ctx, args[0], runOpts.origin, runOpts.output, cmd.OutOrStdout())
	},
}

func init() {
	runCmd.Flags().StringVar(&runOpts.origin, "origin", "", "origin address (default $DEFAULT_ORIGIN)")
	runCmd.Flags().StringVarP(&runOpts.output, "output", "o", "dispatch_result.xlsx", "result workbook path")
	rootCmd.AddCommand(runCmd)
}

func runDispatch(ctx context.Context, inputPath, origin, outputPath string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if origin == "" {
		origin = cfg.DefaultOrigin
	}
	ctx = obs.WithRequestID(ctx, uuid.NewString())

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	stops, err := sheet.ReadStops(in)
	_ = in.Close()
	if err != nil {
		return err
	}
	log.Printf("loaded stops=%d vehicles=%d from %s", len(stops), len(services.GroupByVehicle(stops)), inputPath)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar := progressbar.NewOptions(len(services.GroupByVehicle(stops)),
			progressbar.OptionSetDescription("Routing vehicles"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		a.Dispatcher.OnVehicleDone = func(domain.VehicleSummary) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	res, err := a.Dispatcher.Run(ctx, stops, origin)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := sheet.WriteResult(f, res); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	if cfg.DatabaseURL != "" {
		run, err := services.RecordRun(ctx, a.Runs, origin, res)
		if err != nil {
			log.Printf("store run failed: %v", err)
		} else {
			log.Printf("stored run id=%s", run.ID)
		}
	}

	printSummary(out, res)
	fmt.Fprintf(out, "\nresult written to %s\n", outputPath)
	return nil
}

// printSummary writes the per-vehicle totals and the grand total.
func printSummary(w io.Writer, res *domain.DispatchResult) {
	fmt.Fprintf(w, "origin: %s (%s)\n", res.Origin.DisplayAddress, res.Origin.Coordinates)
	for _, s := range res.Summaries {
		fmt.Fprintf(w, "%s\t%d stops\t%.1f km\t%s\n",
			s.VehicleID, s.StopCount, report.Km(s.TotalDistanceMeters), report.Duration(s.TotalDurationSeconds))
	}
	t := res.Total()
	fmt.Fprintf(w, "total\t%d vehicles\t%d stops\t%.1f km\t%s\n",
		t.Vehicles, t.StopCount, report.Km(t.TotalDistanceMeters), report.Duration(t.TotalDurationSeconds))

	failed := 0
	for _, s := range res.Segments {
		if s.Note != domain.NoteNone {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(w, "%d segment(s) need attention, see the 비고 column\n", failed)
	}
}
