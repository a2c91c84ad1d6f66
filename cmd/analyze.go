package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"expired-listings/config"
	"expired-listings/models"
	"expired-listings/report"
	"expired-listings/services"
	"expired-listings/storage"
	"expired-listings/utils"
)

type analyzeOptions struct {
	offMarket string
	sold      string
	forSale   string
	out       string
	pdf       string
	save      bool

	filters    models.Filters
	useFilters bool
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze three MLS exports and write the expired listings as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			for _, name := range []string{"min-price", "max-price", "min-beds", "max-beds",
				"min-baths", "max-baths", "min-dom", "max-dom", "property-type"} {
				if cmd.Flags().Changed(name) {
					opts.useFilters = true
				}
			}

			return runAnalyze(cmd.Context(), cfg, logger, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.offMarket, "off-market", "", "off-market listings CSV export")
	f.StringVar(&opts.sold, "sold", "", "sold listings CSV export")
	f.StringVar(&opts.forSale, "for-sale", "", "for-sale listings CSV export")
	f.StringVarP(&opts.out, "out", "o", filepath.Join("output", services.ExportFileName), "where to write the results CSV")
	f.StringVar(&opts.pdf, "pdf", "", "also print a PDF report to this path (needs Chrome or Chromium)")
	f.BoolVar(&opts.save, "save", false, "persist the run in the configured store")

	f.Float64Var(&opts.filters.MinPrice, "min-price", 0, "minimum list price")
	f.Float64Var(&opts.filters.MaxPrice, "max-price", 0, "maximum list price")
	f.Float64Var(&opts.filters.MinBeds, "min-beds", 0, "minimum bedrooms")
	f.Float64Var(&opts.filters.MaxBeds, "max-beds", 0, "maximum bedrooms")
	f.Float64Var(&opts.filters.MinBaths, "min-baths", 0, "minimum bathrooms")
	f.Float64Var(&opts.filters.MaxBaths, "max-baths", 0, "maximum bathrooms")
	f.Float64Var(&opts.filters.MinDOM, "min-dom", 0, "minimum days on market")
	f.Float64Var(&opts.filters.MaxDOM, "max-dom", 0, "maximum days on market")
	f.StringSliceVar(&opts.filters.PropertyTypes, "property-type", nil, "property types to keep (repeatable)")

	for _, name := range []string{"off-market", "sold", "for-sale"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, logger *utils.Logger, opts analyzeOptions, stdout io.Writer) error {
	files := make([]*os.File, 0, 3)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	open := func(path string) (io.Reader, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open export: %w", err)
		}
		files = append(files, f)
		return f, nil
	}

	var in services.Inputs
	var err error
	if in.OffMarket, err = open(opts.offMarket); err != nil {
		return err
	}
	if in.Sold, err = open(opts.sold); err != nil {
		return err
	}
	if in.ForSale, err = open(opts.forSale); err != nil {
		return err
	}

	analysis, err := services.NewAnalyzer(logger, cfg.LoadConcurrency).Analyze(ctx, in)
	if err != nil {
		return err
	}

	var filters *models.Filters
	if opts.useFilters {
		filters = &opts.filters
	}
	insights := services.NewInsightService(logger)
	view := services.BuildView(services.NewFormatter(cfg.Cities()), insights, analysis.Expired, filters)

	fmt.Fprintf(stdout, "Found %d expired properties not currently listed or sold\n", view.Total)
	if len(view.Rows) == 0 {
		fmt.Fprintln(stdout, "No properties match the selected filters.")
	}

	csvWriter, err := storage.NewCSVWriter(opts.out)
	if err != nil {
		return err
	}
	if err := writeExport(csvWriter, view.Rows); err != nil {
		return err
	}
	logger.Info("[analyze] Wrote %d rows to %s", len(view.Rows), opts.out)

	insights.Print(stdout, view.Report)

	run := &models.Run{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
		OffMarketRows: analysis.OffMarketRows,
		SoldRows:      analysis.SoldRows,
		ForSaleRows:   analysis.ForSaleRows,
		Listings:      analysis.Expired,
	}

	if opts.save {
		store, err := storage.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Info("[analyze] Saved run %s", run.ID)
	}

	if opts.pdf != "" {
		renderer := report.NewPDFRenderer(cfg.ChromeBin, cfg.MaxRetries, logger)
		pdf, err := renderer.RenderPDF(ctx, &report.Document{
			RunID:       run.ID.String(),
			GeneratedAt: run.CreatedAt,
			View:        view,
		})
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(opts.pdf), 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
		if err := os.WriteFile(opts.pdf, pdf, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("[analyze] Wrote PDF report to %s", opts.pdf)
	}

	return nil
}

func writeExport(w storage.ExportWriter, rows []*models.DisplayRow) error {
	if err := w.WriteRows(rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
