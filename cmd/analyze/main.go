// Command analyze runs one analysis pipeline against an xlsx export and
// writes the results as CSV reports, without starting the web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"praxiscli/internal/classify"
	"praxiscli/internal/config"
	"praxiscli/internal/exporter"
	"praxiscli/internal/infrastructure"
	"praxiscli/internal/services"
	"praxiscli/pkg/contracts/domain"
)

func main() {
	moduleFlag := flag.String("module", "", "analysis module: tariffs, billing or physicians")
	input := flag.String("in", "", "path to the xlsx export")
	outDir := flag.String("out", "", "output directory for CSV reports (defaults to the configured reports dir)")
	dimension := flag.String("dimension", "profession", "tariff grouping dimension: profession or code")
	cumulative := flag.Bool("cumulative", false, "emit running totals instead of monthly values")
	flag.Parse()

	if *moduleFlag == "" || *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	module, ok := domain.ParseModule(*moduleFlag)
	if !ok {
		logger.Error("unknown module", "module", *moduleFlag)
		os.Exit(2)
	}

	paths := cfg.Paths
	if *outDir != "" {
		paths.ReportsDir = *outDir
	}

	service := services.NewAnalysisService(cfg.Analysis, logger)
	writer := exporter.NewCSVWriter(paths, logger)

	file, err := os.Open(*input)
	if err != nil {
		logger.Error("failed to open input file", "path", *input, "error", err)
		os.Exit(1)
	}
	defer file.Close()

	ctx := context.Background()

	switch module {
	case domain.ModuleTariffs:
		err = runTariffs(ctx, service, writer, file, *dimension, *cumulative)
	case domain.ModuleBilling:
		err = runBilling(ctx, service, writer, file, cfg.Analysis)
	case domain.ModulePhysicians:
		err = runPhysicians(ctx, service, writer, file)
	}

	if err != nil {
		logger.Error("analysis failed", "module", string(module), "error", err)
		os.Exit(1)
	}

	logger.Info("reports written", "module", string(module), "dir", paths.ReportsDir)
}

func runTariffs(ctx context.Context, service *services.AnalysisService, writer *exporter.CSVWriter, file *os.File, dimension string, cumulative bool) error {
	dim, ok := domain.ParseDimension(dimension)
	if !ok || dim == domain.DimensionProvider {
		return fmt.Errorf("dimension must be profession or code, got %q", dimension)
	}

	ds, err := service.LoadTariffs(ctx, file)
	if err != nil {
		return err
	}

	result := service.TariffAggregates(ds, classify.Overrides{}, services.AggregateQuery{
		Dimension:           dim,
		Cumulative:          cumulative,
		IncludeCurrentMonth: true,
	})
	return writer.WriteAggregates("tariff_aggregates.csv", dim, result.Rows)
}

func runBilling(ctx context.Context, service *services.AnalysisService, writer *exporter.CSVWriter, file *os.File, cfg config.AnalysisConfig) error {
	ds, err := service.LoadBilling(ctx, file)
	if err != nil {
		return err
	}

	invoices := service.BillingInvoices(ds, nil, nil)
	if err := writer.WriteLiquidity("liquidity.csv", service.Liquidity(invoices, cfg.Horizons)); err != nil {
		return err
	}
	if err := writer.WriteInsurerStats("insurer_stats.csv", service.InsurerStats(invoices)); err != nil {
		return err
	}
	return writer.WriteOverdue("overdue.csv", service.Overdue(invoices, cfg.OverdueMinDays))
}

func runPhysicians(ctx context.Context, service *services.AnalysisService, writer *exporter.CSVWriter, file *os.File) error {
	ds, err := service.LoadPhysicians(ctx, file)
	if err != nil {
		return err
	}

	result := service.PhysicianAggregates(ds, nil)
	if err := writer.WriteAggregates("physician_aggregates.csv", domain.DimensionProvider, result.Rows); err != nil {
		return err
	}
	return writer.WriteNameMerges("name_merges.csv", ds.NameMap)
}
