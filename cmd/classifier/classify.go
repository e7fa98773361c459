package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/image-classifier/internal/progress"
	"github.com/jonathan/image-classifier/internal/upload"
)

var classifyCommand = &cobra.Command{
	Use:   "classify <image>...",
	Short: "Classify images with the staged progress animation",
	Long: `Validates the images (JPEG, PNG or WebP up to 10MB), runs the four processing stages
and prints the ranked predictions. Interrupt with Ctrl-C to cancel the run.

The category defaults to the defaultCategory preference.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

var (
	classifyCategory     string
	classifyHighAccuracy bool
	classifyNoBatch      bool
	classifyNoSave       bool
	classifyReport       bool
	classifyNoCompress   bool
	classifyRefresh      time.Duration
)

func init() {
	classifyCommand.Flags().StringVarP(&classifyCategory, "category", "c", "", "Category type (animals, clothing, food, vehicles, objects, nature, architecture, sports)")
	classifyCommand.Flags().BoolVar(&classifyHighAccuracy, "high-accuracy", false, "Use the slower high accuracy mode")
	classifyCommand.Flags().BoolVar(&classifyNoBatch, "no-batch", false, "Disable batch processing")
	classifyCommand.Flags().BoolVar(&classifyNoSave, "no-save", false, "Do not save the results to the history")
	classifyCommand.Flags().BoolVar(&classifyReport, "report", false, "Write a JSON report to the export directory")
	classifyCommand.Flags().BoolVar(&classifyNoCompress, "no-compress", false, "Do not compress the images")
	classifyCommand.Flags().DurationVar(&classifyRefresh, "refresh", 500*time.Millisecond, "Progress refresh interval")

	rootCmd.AddCommand(classifyCommand)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classifyRefresh <= 0 {
		return fmt.Errorf("--refresh must be positive")
	}
	a, err := openApp(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	hist, err := a.history()
	if err != nil {
		return err
	}

	runner := progress.NewRunner(progress.RealClock{})
	runner.TicksPerStage = appConfig.TicksPerStage
	runner.SettleDelay = appConfig.SettleDelay()
	runner.Logger = a.log

	dash := upload.NewDashboard(upload.Config{
		Runner:    runner,
		Navigator: a.nav,
		Store:     a.store,
		History:   hist,
		Sink:      a.sink,
		Logger:    a.log,
	})
	if err := dash.Mount(); err != nil {
		a.log.Warn("welcome flag unavailable", "error", err)
	}
	if dash.ShowWelcome() {
		a.printer.PrintWelcome()
	}

	fs := afero.NewOsFs()
	files := make([]upload.File, 0, len(args))
	for _, path := range args {
		f, err := upload.Inspect(fs, path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	if err := dash.SelectFiles(files); err != nil {
		var verr *upload.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, fe := range verr.Files {
			fmt.Fprintln(cmd.ErrOrStderr(), fe.Message)
		}
	}

	category := classifyCategory
	if category == "" {
		category = a.prefs.DefaultCategory
	}
	if err := dash.SelectCategory(category); err != nil {
		return err
	}
	opts := upload.Options{
		BatchProcessing: !classifyNoBatch,
		HighAccuracy:    classifyHighAccuracy,
		SaveToHistory:   !classifyNoSave,
		GenerateReport:  classifyReport,
		CompressImages:  !classifyNoCompress,
	}
	if err := dash.SetOptions(opts); err != nil {
		return err
	}
	a.printer.PrintUploadSummary(dash.Files(), category, opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := dash.StartClassification()
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	// Task: wait for completion, cancelling on interrupt.
	g.Go(func() error {
		defer close(done)
		return h.Wait(gCtx)
	})

	// Renderer: print the latest event until the task ends.
	g.Go(func() error {
		ticker := time.NewTicker(classifyRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				if p, label, ok := dash.Progress(); ok {
					a.printer.PrintProgress(p, label)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			p, label, _ := dash.Progress()
			a.printer.PrintProgress(p, label)
			return nil
		}
		return err
	}

	visit, ok := a.nav.Last()
	if !ok {
		return fmt.Errorf("classification ended without results")
	}
	out, ok := visit.Payload.(upload.Outcome)
	if !ok {
		return fmt.Errorf("unexpected results payload %T", visit.Payload)
	}
	for _, r := range out.Results {
		a.printer.PrintResult(r)
	}
	if out.Report != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s/%s\n", a.sink.Dir(), out.Report)
	}
	if len(out.Saved) > 0 {
		if err := a.saveHistory(hist); err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d result(s) to the history\n", len(out.Saved))
	}
	return nil
}
