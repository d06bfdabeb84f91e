package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(uuid.New(), "A1", "SKU-1", "T-shirt")
	require.NoError(t, err)
	assert.Equal(t, ProductStatusPublished, p.Status)
	assert.Empty(t, p.Variations)
}

func TestNewProduct_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewProduct(uuid.Nil, "A1", "SKU-1", "T")
	assert.ErrorIs(t, err, ErrProductInvalidTenant)

	_, err = NewProduct(tenantID, "A1", "SKU-1", "   ")
	assert.ErrorIs(t, err, ErrProductTitleRequired)

	_, err = NewProduct(tenantID, "", "", "T")
	assert.ErrorIs(t, err, ErrProductKeyRequired)
}

func TestProduct_EnsureDefaultVariation(t *testing.T) {
	p, err := NewProduct(uuid.New(), "A1", "SKU-1", "T-shirt")
	require.NoError(t, err)
	p.Barcode = "4600000000001"

	v := p.EnsureDefaultVariation()
	require.Len(t, p.Variations, 1)
	assert.Equal(t, "SKU-1", v.VendorCode)
	assert.Equal(t, "4600000000001", v.Barcode)
	assert.Equal(t, ProductStatusPublished, v.Status)
	assert.Equal(t, p.ID, v.ProductID)

	// Calling again must not create a second variation
	again := p.EnsureDefaultVariation()
	assert.Len(t, p.Variations, 1)
	assert.Equal(t, v.ID, again.ID)
}

func TestProduct_AddVariation(t *testing.T) {
	p, err := NewProduct(uuid.New(), "A1", "SKU-1", "T-shirt")
	require.NoError(t, err)

	v := p.AddVariation(Variation{ExternalID: "v-1", VendorCode: "SKU-1-RED"})
	assert.NotEqual(t, uuid.Nil, v.ID)
	assert.Equal(t, p.ID, v.ProductID)
	assert.Equal(t, ProductStatusPublished, v.Status)

	found, ok := p.VariationByExternalID("v-1")
	require.True(t, ok)
	assert.Equal(t, v.ID, found.ID)

	found, ok = p.VariationByVendorCode("SKU-1-RED")
	require.True(t, ok)
	assert.Equal(t, v.ID, found.ID)

	_, ok = p.VariationByExternalID("missing")
	assert.False(t, ok)
}

func TestOwnerType_IsValid(t *testing.T) {
	assert.True(t, OwnerTypeProduct.IsValid())
	assert.True(t, OwnerTypeVariation.IsValid())
	assert.True(t, OwnerTypeItem.IsValid())
	assert.False(t, OwnerType("bundle").IsValid())
}
