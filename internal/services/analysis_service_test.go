package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"praxiscli/internal/classify"
	"praxiscli/internal/config"
	"praxiscli/internal/ingest"
	"praxiscli/pkg/contracts/domain"
)

func newService(t *testing.T) *AnalysisService {
	t.Helper()
	svc := NewAnalysisService(config.AnalysisConfig{
		Horizons:       []int{30, 60, 90},
		OverdueMinDays: 30,
	}, slog.Default())
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func tariffWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(ingest.TariffSheetName)
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	headers := make([]interface{}, 13)
	for i := range headers {
		headers[i] = ""
	}
	headers[2] = "Code prestation"
	headers[11] = "Montant CHF"
	headers[12] = "Date séance"

	all := append([][]interface{}{headers}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(ingest.TariffSheetName, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func tariffRow(code, amount, date string) []interface{} {
	row := make([]interface{}, 13)
	for i := range row {
		row[i] = ""
	}
	row[2] = code
	row[11] = amount
	row[12] = date
	return row
}

func TestLoadTariffs(t *testing.T) {
	svc := newService(t)

	ds, err := svc.LoadTariffs(context.Background(), tariffWorkbook(t, [][]interface{}{
		tariffRow("7301", "100", "05.01.2024"),
		tariffRow("73REM", "40", "05.01.2024"),
		tariffRow("bad", "abc", "05.01.2024"),
	}))
	require.NoError(t, err)

	require.Len(t, ds.Records, 2)
	assert.Equal(t, domain.CategoryPhysiotherapy, ds.Records[0].Profession)
	assert.Equal(t, domain.CategoryOther, ds.Records[1].Profession)
	assert.Equal(t, 1, ds.Stats.DroppedAmount)
}

func TestTariffAggregates(t *testing.T) {
	svc := newService(t)
	ds, err := svc.LoadTariffs(context.Background(), tariffWorkbook(t, [][]interface{}{
		tariffRow("7301", "100", "05.01.2024"),
		tariffRow("7301", "50", "20.02.2024"),
		tariffRow("7601", "80", "05.01.2024"),
		tariffRow("7301", "10", "10.06.2024"), // current month under the fake clock
	}))
	require.NoError(t, err)

	t.Run("groups by profession", func(t *testing.T) {
		res := svc.TariffAggregates(ds, nil, AggregateQuery{
			Dimension:           domain.DimensionProfession,
			IncludeCurrentMonth: true,
		})
		assert.Empty(t, res.Warning)
		require.Len(t, res.Rows, 4)
		assert.Len(t, res.Series, 2)
	})

	t.Run("current month can be excluded", func(t *testing.T) {
		res := svc.TariffAggregates(ds, nil, AggregateQuery{
			Dimension: domain.DimensionProfession,
		})
		for _, row := range res.Rows {
			assert.NotEqual(t, time.June, row.Month.Month())
		}
	})

	t.Run("overrides recolor the aggregation", func(t *testing.T) {
		overrides := classify.Overrides{"7301": domain.CategoryMassage}
		res := svc.TariffAggregates(ds, overrides, AggregateQuery{
			Dimension:           domain.DimensionProfession,
			Selected:            []string{"Massage"},
			IncludeCurrentMonth: true,
		})
		total := decimal.Zero
		for _, row := range res.Rows {
			assert.Equal(t, "Massage", row.Value)
			total = total.Add(row.Total)
		}
		assert.True(t, total.Equal(decimal.NewFromInt(160)))

		// The dataset itself keeps the rule-engine classification.
		assert.Equal(t, domain.CategoryPhysiotherapy, ds.Records[0].Profession)
	})

	t.Run("empty selection is a warning, not an error", func(t *testing.T) {
		res := svc.TariffAggregates(ds, nil, AggregateQuery{
			Dimension:           domain.DimensionProfession,
			Selected:            []string{},
			IncludeCurrentMonth: true,
		})
		assert.Equal(t, "no data selected", res.Warning)
		assert.Empty(t, res.Rows)
	})

	t.Run("cumulative view", func(t *testing.T) {
		res := svc.TariffAggregates(ds, nil, AggregateQuery{
			Dimension:           domain.DimensionCode,
			Selected:            []string{"7301"},
			Cumulative:          true,
			IncludeCurrentMonth: true,
		})
		require.Len(t, res.Rows, 3)
		assert.Equal(t, "100", res.Rows[0].Cumulative.String())
		assert.Equal(t, "150", res.Rows[1].Cumulative.String())
		assert.Equal(t, "160", res.Rows[2].Cumulative.String())
	})
}

func TestTariffOptions(t *testing.T) {
	svc := newService(t)
	ds, err := svc.LoadTariffs(context.Background(), tariffWorkbook(t, [][]interface{}{
		tariffRow("7301", "100", "05.01.2024"),
		tariffRow("7601", "80", "05.01.2024"),
	}))
	require.NoError(t, err)

	opts := svc.TariffOptions(ds, nil, domain.DimensionProfession)
	assert.Equal(t, []string{"Ergothérapie", "Physiothérapie"}, opts)

	codes := svc.TariffOptions(ds, nil, domain.DimensionCode)
	assert.Equal(t, []string{"7301", "7601"}, codes)
}

func billingWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	// Placeholder labels keep the header row at its full width: excelize
	// drops trailing empty cells on read, and the schema is positional.
	headers := make([]interface{}, 16)
	for i := range headers {
		headers[i] = fmt.Sprintf("col %d", i+1)
	}
	all := append([][]interface{}{headers}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func billingRow(invDate, law, insurer, provider, status, amount, payDate string) []interface{} {
	row := make([]interface{}, 16)
	for i := range row {
		row[i] = ""
	}
	row[2] = invDate
	row[4] = law
	row[8] = insurer
	row[9] = provider
	row[12] = status
	row[13] = amount
	row[15] = payDate
	return row
}

func TestBillingPipeline(t *testing.T) {
	svc := newService(t)

	ds, err := svc.LoadBilling(context.Background(), billingWorkbook(t, [][]interface{}{
		billingRow("01.01.2024", "LAMal", "CSS", "Cabinet A", "Payée", "100", "31.01.2024"),
		billingRow("01.02.2024", "LAMal", "CSS", "Cabinet A", "Ouverte", "200", ""),
		billingRow("01.03.2024", "LAA", "SUVA", "Cabinet B", "Ouverte", "300", ""),
	}))
	require.NoError(t, err)
	require.Len(t, ds.Invoices, 3)

	t.Run("liquidity estimates", func(t *testing.T) {
		estimates := svc.Liquidity(ds.Invoices, nil)
		require.Len(t, estimates, 3)
		assert.Equal(t, 30, estimates[0].HorizonDays)

		// Pair history covers the CSS pending invoice (delay 30 <= 30);
		// the SUVA invoice falls back to the global distribution.
		assert.True(t, estimates[0].Expected.Equal(decimal.NewFromInt(500)),
			"expected 500, got %s", estimates[0].Expected)
	})

	t.Run("insurer stats", func(t *testing.T) {
		stats := svc.InsurerStats(ds.Invoices)
		require.Len(t, stats, 2)
		assert.Equal(t, "CSS", stats[0].Insurer)
		assert.Equal(t, 1, stats[0].SettledCount)
		assert.Equal(t, 1, stats[0].PendingCount)
	})

	t.Run("overdue list", func(t *testing.T) {
		overdue := svc.Overdue(ds.Invoices, 0)
		require.Len(t, overdue, 2)
		assert.True(t, overdue[0].AgeDays > overdue[1].AgeDays)
	})

	t.Run("invoice filters", func(t *testing.T) {
		filtered := svc.BillingInvoices(ds, []string{"SUVA"}, nil)
		require.Len(t, filtered, 1)
		assert.Equal(t, "Cabinet B", filtered[0].Provider)
	})
}

func physicianWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	// Placeholder labels keep the header row at its full width: excelize
	// drops trailing empty cells on read, and the schema is positional.
	headers := make([]interface{}, 15)
	for i := range headers {
		headers[i] = fmt.Sprintf("col %d", i+1)
	}
	all := append([][]interface{}{headers}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func physicianRow(date, name, revenue string) []interface{} {
	row := make([]interface{}, 15)
	for i := range row {
		row[i] = ""
	}
	row[2] = date
	row[7] = name
	row[14] = revenue
	return row
}

func TestPhysicianPipeline(t *testing.T) {
	svc := newService(t)

	ds, err := svc.LoadPhysicians(context.Background(), physicianWorkbook(t, [][]interface{}{
		physicianRow("05.01.2024", "Dr. Jean Dupont Lausanne", "100"),
		physicianRow("06.01.2024", "Jean Dupont", "50"),
		physicianRow("07.01.2024", "Dr. Marie Curie", "80"),
	}))
	require.NoError(t, err)

	// Near-duplicate names collapse to the longest spelling.
	assert.Equal(t, "Dr. Jean Dupont Lausanne", ds.NameMap["Jean Dupont"])
	assert.Equal(t, "Dr. Jean Dupont Lausanne", ds.Records[1].Provider)

	res := svc.PhysicianAggregates(ds, nil)
	require.Len(t, res.Rows, 2)

	var dupontTotal decimal.Decimal
	for _, row := range res.Rows {
		if row.Value == "Dr. Jean Dupont Lausanne" {
			dupontTotal = row.Total
		}
	}
	assert.True(t, dupontTotal.Equal(decimal.NewFromInt(150)))
}
