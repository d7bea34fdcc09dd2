package cart

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func testCatalog() []entity.Product {
	noodles := entity.Product{
		ID:           uuid.New(),
		Name:         "Instant Noodles",
		SKU:          "SKU-NOODLE",
		Barcode:      strPtr("8934563100"),
		BaseUnit:     "pcs",
		SellingPrice: 5000,
	}
	noodles.Units = []entity.ProductUnit{{
		ID:             uuid.New(),
		ProductID:      noodles.ID,
		Name:           "carton",
		ConversionRate: 24,
		Price:          int64Ptr(110000),
		Barcode:        strPtr("8934563200"),
	}}

	water := entity.Product{
		ID:           uuid.New(),
		Name:         "Mineral Water",
		SKU:          "SKU-WATER",
		Barcode:      strPtr("8935001000"),
		BaseUnit:     "bottle",
		SellingPrice: 8000,
	}
	return []entity.Product{noodles, water}
}

func TestResolveBarcodeByProductBarcode(t *testing.T) {
	catalog := testCatalog()

	matches, err := ResolveBarcode("8934563100", catalog)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, catalog[0].ID, matches[0].ProductID)
	assert.Nil(t, matches[0].UnitID)
	assert.Equal(t, int64(5000), matches[0].UnitPrice)
}

func TestResolveBarcodeBySKU(t *testing.T) {
	catalog := testCatalog()

	matches, err := ResolveBarcode("SKU-WATER", catalog)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, catalog[1].ID, matches[0].ProductID)
}

func TestResolveBarcodeByUnitBarcode(t *testing.T) {
	catalog := testCatalog()

	matches, err := ResolveBarcode("8934563200", catalog)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].UnitID)
	assert.Equal(t, catalog[0].Units[0].ID, *matches[0].UnitID)
	assert.Equal(t, 24, matches[0].ConversionRate)
	assert.Equal(t, int64(110000), matches[0].UnitPrice)
}

func TestResolveBarcodeUnitWithoutPriceDerivesFromBase(t *testing.T) {
	catalog := testCatalog()
	catalog[0].Units[0].Price = nil

	matches, err := ResolveBarcode("8934563200", catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), matches[0].UnitPrice)
}

func TestResolveBarcodeNotFound(t *testing.T) {
	_, err := ResolveBarcode("0000000000", testCatalog())
	assert.True(t, apperror.IsCode(err, http.StatusNotFound))
}

func TestResolveBarcodeEmptyCode(t *testing.T) {
	_, err := ResolveBarcode("", testCatalog())
	assert.Error(t, err)
}

func TestResolveBarcodeAmbiguousReturnsAllCandidates(t *testing.T) {
	catalog := testCatalog()
	// Same code on one product's barcode and another product's unit barcode.
	catalog[1].Units = []entity.ProductUnit{{
		ID:             uuid.New(),
		ProductID:      catalog[1].ID,
		Name:           "pack",
		ConversionRate: 6,
		Barcode:        strPtr("8934563100"),
	}}

	matches, err := ResolveBarcode("8934563100", catalog)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, http.StatusConflict))
	require.Len(t, matches, 2)
	// Base-unit match ordered before the unit match.
	assert.Nil(t, matches[0].UnitID)
	assert.NotNil(t, matches[1].UnitID)
}

func TestResolveBarcodeDeterministicOverSameSnapshot(t *testing.T) {
	catalog := testCatalog()
	catalog[1].Barcode = strPtr("8934563100")

	first, err1 := ResolveBarcode("8934563100", catalog)
	second, err2 := ResolveBarcode("8934563100", catalog)
	require.Error(t, err1)
	require.Error(t, err2)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ProductID, second[i].ProductID)
	}
}
