package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "praxiscli/internal/errors"
)

func tariffHeaders() []string {
	return []string{
		"No", "Patient", "Code prestation", "Quantité", "Séance",
		"Thérapeute", "Assurance", "Loi", "Statut", "Remarque",
		"TVA", "Montant CHF", "Date de séance",
	}
}

func TestResolveTariffSchema(t *testing.T) {
	t.Run("resolves positional and date columns", func(t *testing.T) {
		schema, err := ResolveTariffSchema(tariffHeaders())
		require.NoError(t, err)

		assert.Equal(t, 2, schema.Code.Index)
		assert.Equal(t, "Code prestation", schema.Code.Label)
		assert.Equal(t, 11, schema.Amount.Index)
		assert.Equal(t, "Montant CHF", schema.Amount.Label)
		assert.Equal(t, 12, schema.Date.Index)
	})

	t.Run("date match is case-insensitive", func(t *testing.T) {
		headers := tariffHeaders()
		headers[12] = "DATE SÉANCE"
		schema, err := ResolveTariffSchema(headers)
		require.NoError(t, err)
		assert.Equal(t, 12, schema.Date.Index)
	})

	t.Run("falls back to first column when no date header", func(t *testing.T) {
		headers := tariffHeaders()
		headers[12] = "Séance du"
		schema, err := ResolveTariffSchema(headers)
		require.NoError(t, err)
		assert.Equal(t, 0, schema.Date.Index)
	})

	t.Run("fails when table narrower than the template", func(t *testing.T) {
		_, err := ResolveTariffSchema([]string{"A", "B", "C", "D"})
		require.Error(t, err)

		var schemaErr *apperrors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "amount", schemaErr.Column)
		assert.Equal(t, 11, schemaErr.Ordinal)
	})

	t.Run("resolution is all-or-nothing", func(t *testing.T) {
		// Code column exists at position 2 but amount does not:
		// no partial schema is returned.
		schema, err := ResolveTariffSchema([]string{"A", "B", "Code", "D", "E"})
		require.Error(t, err)
		assert.Zero(t, schema)
	})
}

func TestResolveBillingSchema(t *testing.T) {
	headers := make([]string, 16)
	for i := range headers {
		headers[i] = string(rune('A' + i))
	}

	schema, err := ResolveBillingSchema(headers)
	require.NoError(t, err)
	assert.Equal(t, 2, schema.InvoiceDate.Index)
	assert.Equal(t, 4, schema.LawType.Index)
	assert.Equal(t, 8, schema.Insurer.Index)
	assert.Equal(t, 9, schema.Provider.Index)
	assert.Equal(t, 12, schema.Status.Index)
	assert.Equal(t, 13, schema.Amount.Index)
	assert.Equal(t, 15, schema.PaymentDate.Index)

	_, err = ResolveBillingSchema(headers[:15])
	var schemaErr *apperrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "payment date", schemaErr.Column)
}

func TestResolvePhysicianSchema(t *testing.T) {
	headers := make([]string, 15)
	for i := range headers {
		headers[i] = string(rune('A' + i))
	}

	schema, err := ResolvePhysicianSchema(headers)
	require.NoError(t, err)
	assert.Equal(t, 2, schema.Date.Index)
	assert.Equal(t, 7, schema.Physician.Index)
	assert.Equal(t, 14, schema.Revenue.Index)

	_, err = ResolvePhysicianSchema(headers[:10])
	require.Error(t, err)
}
