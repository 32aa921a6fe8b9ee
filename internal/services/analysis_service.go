// Package services binds the ingest, classification, deduplication,
// aggregation and liquidity engines into the operations the transport
// layer exposes.
package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"praxiscli/internal/analytics"
	"praxiscli/internal/classify"
	"praxiscli/internal/config"
	"praxiscli/internal/dedup"
	"praxiscli/internal/ingest"
	"praxiscli/internal/liquidity"
	"praxiscli/pkg/contracts/domain"
)

// AnalysisService runs the upload pipeline and answers the analytical
// queries against the resulting datasets. It owns no session state; the
// caller passes the dataset and the session's overrides in.
type AnalysisService struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(cfg config.AnalysisConfig, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "analysis_service")),
		now:    time.Now,
	}
}

// LoadTariffs runs the tariff pipeline on one uploaded workbook: read
// the "Prestation" sheet, resolve the schema, clean the rows, classify
// each record with the rule engine. The returned dataset replaces any
// previous one in the session.
func (s *AnalysisService) LoadTariffs(ctx context.Context, r io.Reader) (*domain.TariffDataset, error) {
	table, err := ingest.ReadWorkbook(r, ingest.TariffSheetName)
	if err != nil {
		return nil, err
	}

	schema, err := ingest.ResolveTariffSchema(table.Headers)
	if err != nil {
		return nil, err
	}

	records, stats := ingest.CleanTariffRows(table, schema)
	for i := range records {
		records[i].Profession = classify.Classify(records[i].Code)
	}

	s.logger.InfoContext(ctx, "tariff dataset loaded",
		slog.Int("rows_total", stats.Total),
		slog.Int("rows_kept", stats.Kept),
		slog.Int("rows_dropped", stats.Total-stats.Kept))

	return &domain.TariffDataset{
		Schema:   schema,
		Records:  records,
		Stats:    stats,
		LoadedAt: s.now(),
	}, nil
}

// LoadBilling runs the billing pipeline on one uploaded workbook, read
// from the first sheet.
func (s *AnalysisService) LoadBilling(ctx context.Context, r io.Reader) (*domain.BillingDataset, error) {
	table, err := ingest.ReadWorkbook(r, "")
	if err != nil {
		return nil, err
	}

	schema, err := ingest.ResolveBillingSchema(table.Headers)
	if err != nil {
		return nil, err
	}

	invoices, stats := ingest.CleanBillingRows(table, schema)

	s.logger.InfoContext(ctx, "billing dataset loaded",
		slog.Int("rows_total", stats.Total),
		slog.Int("invoices", stats.Kept))

	return &domain.BillingDataset{
		Schema:   schema,
		Invoices: invoices,
		Stats:    stats,
		LoadedAt: s.now(),
	}, nil
}

// LoadPhysicians runs the physician pipeline: clean the rows, build the
// canonical name map over the distinct raw provider names, and rewrite
// every record to its canonical provider before it ever reaches the
// aggregator.
func (s *AnalysisService) LoadPhysicians(ctx context.Context, r io.Reader) (*domain.PhysicianDataset, error) {
	table, err := ingest.ReadWorkbook(r, "")
	if err != nil {
		return nil, err
	}

	schema, err := ingest.ResolvePhysicianSchema(table.Headers)
	if err != nil {
		return nil, err
	}

	records, stats := ingest.CleanPhysicianRows(table, schema)

	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.RawName)
	}
	nameMap := dedup.BuildNameMap(names)
	for i := range records {
		records[i].Provider = dedup.Canonical(records[i].RawName, nameMap)
	}

	s.logger.InfoContext(ctx, "physician dataset loaded",
		slog.Int("rows_kept", stats.Kept),
		slog.Int("names_merged", len(nameMap)))

	return &domain.PhysicianDataset{
		Schema:   schema,
		Records:  records,
		NameMap:  nameMap,
		Stats:    stats,
		LoadedAt: s.now(),
	}, nil
}

// AggregateQuery selects what TariffAggregates computes.
type AggregateQuery struct {
	Dimension           domain.Dimension
	Selected            []string
	Cumulative          bool
	IncludeCurrentMonth bool
}

// AggregateResult carries the rows plus the chart shape and the empty-
// selection warning state.
type AggregateResult struct {
	Rows    []domain.AggregateRow `json:"rows"`
	Series  []domain.ChartSeries  `json:"series"`
	Warning string                `json:"warning,omitempty"`
}

// TariffAggregates answers the monthly aggregation query. Overrides from
// the session take precedence over the rule engine per code before
// grouping, so an override immediately recolors the chart.
func (s *AnalysisService) TariffAggregates(ds *domain.TariffDataset, overrides classify.Overrides, q AggregateQuery) AggregateResult {
	records := ds.Records
	if len(overrides) > 0 {
		records = append([]domain.BillingRecord(nil), records...)
		for i := range records {
			records[i].Profession = classify.Resolve(records[i].Code, overrides)
		}
	}

	if !q.IncludeCurrentMonth {
		records = analytics.ExcludeMonth(records, domain.MonthOf(s.now()))
	}
	records = analytics.FilterRecords(records, q.Dimension, q.Selected)

	if len(records) == 0 {
		return AggregateResult{Rows: []domain.AggregateRow{}, Series: []domain.ChartSeries{}, Warning: "no data selected"}
	}

	rows := analytics.Aggregate(records, q.Dimension)

	var colors map[string]string
	if q.Dimension == domain.DimensionProfession {
		colors = make(map[string]string, len(domain.CategoryColors))
		for cat, color := range domain.CategoryColors {
			colors[cat.String()] = color
		}
	}
	series := analytics.Series(rows, colors)

	if q.Cumulative {
		rows = analytics.WithCumulative(rows)
	} else {
		rows = analytics.SortForDisplay(rows)
	}

	return AggregateResult{Rows: rows, Series: series}
}

// TariffOptions lists the distinct values of a dimension for the filter
// controls, with overrides applied so the options match the chart.
func (s *AnalysisService) TariffOptions(ds *domain.TariffDataset, overrides classify.Overrides, dim domain.Dimension) []string {
	records := ds.Records
	if len(overrides) > 0 && dim == domain.DimensionProfession {
		records = append([]domain.BillingRecord(nil), records...)
		for i := range records {
			records[i].Profession = classify.Resolve(records[i].Code, overrides)
		}
	}
	return analytics.DistinctValues(records, dim)
}

// BillingInvoices filters the billing dataset by the session's insurer
// and law-type selections.
func (s *AnalysisService) BillingInvoices(ds *domain.BillingDataset, insurers, lawTypes []string) []domain.Invoice {
	allowedInsurer := toSet(insurers)
	allowedLaw := toSet(lawTypes)

	out := make([]domain.Invoice, 0, len(ds.Invoices))
	for _, inv := range ds.Invoices {
		if allowedInsurer != nil && !allowedInsurer[inv.Insurer] {
			continue
		}
		if allowedLaw != nil && !allowedLaw[inv.LawType] {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// Liquidity estimates expected collections for the configured horizons
// from the invoices' own settlement history. Callers pass the output of
// BillingInvoices so the session's insurer and law-type filters condition
// the estimate.
func (s *AnalysisService) Liquidity(invoices []domain.Invoice, horizons []int) []liquidity.HorizonEstimate {
	if len(horizons) == 0 {
		horizons = s.cfg.Horizons
	}
	history := liquidity.BuildHistory(invoices)
	return liquidity.Estimate(invoices, history, horizons)
}

// InsurerStats summarizes settlement delays per insurer.
func (s *AnalysisService) InsurerStats(invoices []domain.Invoice) []liquidity.InsurerStats {
	return liquidity.InsurerDelayStats(invoices)
}

// Overdue lists pending invoices older than the configured threshold.
func (s *AnalysisService) Overdue(invoices []domain.Invoice, minDays int) []liquidity.OverdueInvoice {
	if minDays <= 0 {
		minDays = s.cfg.OverdueMinDays
	}
	return liquidity.Overdue(invoices, minDays, s.now)
}

// PhysicianAggregates groups physician revenue by month and canonical
// provider.
func (s *AnalysisService) PhysicianAggregates(ds *domain.PhysicianDataset, providers []string) AggregateResult {
	records := ds.Records
	if providers != nil {
		allowed := toSet(providers)
		filtered := make([]domain.PhysicianRecord, 0, len(records))
		for _, rec := range records {
			if allowed[rec.Provider] {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		return AggregateResult{Rows: []domain.AggregateRow{}, Series: []domain.ChartSeries{}, Warning: "no data selected"}
	}

	rows := analytics.AggregatePhysicians(records)
	series := analytics.Series(rows, nil)
	return AggregateResult{Rows: analytics.SortForDisplay(rows), Series: series}
}

func toSet(values []string) map[string]bool {
	if values == nil {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
