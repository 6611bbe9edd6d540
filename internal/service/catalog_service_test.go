package service

import (
	"context"
	"testing"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	svc      CatalogService
	products *stubProductRepo
	groups   *stubGroupRepo
	audit    *stubAuditRepo
	groupID  uuid.UUID
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	groups := newStubGroupRepo()
	group := model.PricingGroup{Name: "Cadenas oro 14k", Method: model.MethodGram}
	require.NoError(t, groups.CreateGroup(context.Background(), &group))

	products := newStubProductRepo()
	audit := &stubAuditRepo{}
	paramsSvc := NewParamsService(&stubParamsRepo{params: storedParameters()}, audit, nil)
	pricingSvc := NewPricingService(paramsSvc, groups)

	svc := NewCatalogService(products, groups, audit, pricingSvc, stubTxManager{}, nil)
	return &catalogFixture{svc: svc, products: products, groups: groups, audit: audit, groupID: group.ID}
}

func (f *catalogFixture) createProduct(t *testing.T, variants ...CreateVariantRequest) ProductResponse {
	t.Helper()
	product, err := f.svc.CreateProduct(context.Background(), CreateProductRequest{
		SKU:      "CAD-001",
		Name:     "Cadena barbada",
		GroupID:  f.groupID.String(),
		Variants: variants,
	}, "")
	require.NoError(t, err)
	return product
}

func TestCreateProductWithVariants(t *testing.T) {
	f := newCatalogFixture(t)

	product := f.createProduct(t,
		CreateVariantRequest{Size: "50cm", Weight: "4", Stock: 3},
		CreateVariantRequest{Size: "60cm", Weight: "5", Stock: 1},
	)

	assert.Equal(t, "CAD-001", product.SKU)
	assert.Len(t, product.Variants, 2)
	assert.Empty(t, product.BasePrice, "anchor is unset until a price application")

	_, err := f.svc.CreateProduct(context.Background(), CreateProductRequest{
		SKU:      "CAD-001",
		Name:     "Duplicado",
		GroupID:  f.groupID.String(),
		Variants: []CreateVariantRequest{{Size: "50cm"}},
	}, "")
	assert.ErrorContains(t, err, "already exists")
}

func TestCreateProductUnknownGroup(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.svc.CreateProduct(context.Background(), CreateProductRequest{
		SKU:      "CAD-002",
		Name:     "Cadena",
		GroupID:  uuid.NewString(),
		Variants: []CreateVariantRequest{{Size: "50cm"}},
	}, "")
	assert.ErrorContains(t, err, "not found")
}

func TestApplyFinalPricePartialFailure(t *testing.T) {
	f := newCatalogFixture(t)

	product := f.createProduct(t,
		CreateVariantRequest{Size: "50cm", Weight: "4"},
		CreateVariantRequest{Size: "40cm", Weight: "2"},
	)
	missingID := uuid.NewString()

	result, err := f.svc.ApplyFinalPrice(context.Background(), ApplyPriceRequest{
		ProductID:  product.ID,
		VariantIDs: []string{product.Variants[0].ID, product.Variants[1].ID, missingID},
		Price:      "6440.83",
		BaseWeight: "4",
	}, "")
	require.NoError(t, err)

	assert.Len(t, result.Successful, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, missingID, result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Error, "not found")

	// Anchor variant takes the price verbatim, the sibling is projected by weight.
	stored, err := f.svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "6440.83", stored.BasePrice)
	prices := map[string]string{}
	for _, v := range stored.Variants {
		prices[v.Size] = v.Price
	}
	assert.Equal(t, "6440.83", prices["50cm"])
	assert.Equal(t, "3220.42", prices["40cm"])

	assert.Contains(t, f.audit.actions(), model.ActionApplyFinalPrice)
}

func TestApplyFinalPriceIdempotent(t *testing.T) {
	f := newCatalogFixture(t)

	product := f.createProduct(t, CreateVariantRequest{Size: "50cm", Weight: "4"})
	req := ApplyPriceRequest{
		ProductID:  product.ID,
		VariantIDs: []string{product.Variants[0].ID},
		Price:      "6440.83",
		BaseWeight: "4",
	}

	first, err := f.svc.ApplyFinalPrice(context.Background(), req, "")
	require.NoError(t, err)
	second, err := f.svc.ApplyFinalPrice(context.Background(), req, "")
	require.NoError(t, err)

	assert.Equal(t, first.Successful, second.Successful)

	stored, err := f.svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "6440.83", stored.Variants[0].Price)
}

func TestApplyFinalPriceRejectsBadInput(t *testing.T) {
	f := newCatalogFixture(t)
	product := f.createProduct(t, CreateVariantRequest{Size: "50cm", Weight: "4"})

	cases := []struct {
		name string
		req  ApplyPriceRequest
	}{
		{"zero price", ApplyPriceRequest{ProductID: product.ID, VariantIDs: []string{product.Variants[0].ID}, Price: "0", BaseWeight: "4"}},
		{"zero base weight", ApplyPriceRequest{ProductID: product.ID, VariantIDs: []string{product.Variants[0].ID}, Price: "100", BaseWeight: "0"}},
		{"bad product id", ApplyPriceRequest{ProductID: "not-a-uuid", VariantIDs: []string{product.Variants[0].ID}, Price: "100", BaseWeight: "4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ApplyFinalPrice(context.Background(), tc.req, "")
			assert.Error(t, err)
		})
	}
}

func TestVariantPricesProjectFromAnchor(t *testing.T) {
	f := newCatalogFixture(t)

	product := f.createProduct(t,
		CreateVariantRequest{Size: "50cm", Weight: "4"},
		CreateVariantRequest{Size: "40cm", Weight: "2"},
		CreateVariantRequest{Size: "unica"},
	)
	productID, err := uuid.Parse(product.ID)
	require.NoError(t, err)
	require.NoError(t, f.products.SetPriceAnchor(context.Background(), productID,
		decimal.RequireFromString("6440.83"), decimal.RequireFromString("4")))

	prices, err := f.svc.VariantPrices(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, prices, 3)

	bySize := map[string]VariantPriceResponse{}
	for _, p := range prices {
		bySize[p.Size] = p
	}

	assert.Equal(t, "6440.83", bySize["50cm"].Price)
	assert.Equal(t, "projected", bySize["50cm"].Source)
	assert.Equal(t, "3220.42", bySize["40cm"].Price)
	// Weightless variants sell at the anchor price as-is.
	assert.Equal(t, "6440.83", bySize["unica"].Price)
	assert.Equal(t, "anchor", bySize["unica"].Source)
}

func TestVariantPricesFallBackToCalculator(t *testing.T) {
	f := newCatalogFixture(t)

	// No anchor yet: prices come from the group's calculator at each weight.
	product := f.createProduct(t, CreateVariantRequest{Size: "40cm", Weight: "2"})

	prices, err := f.svc.VariantPrices(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, prices, 1)

	// Default cost record, weight 2: metal 3000, +30% margin 3900,
	// +16% tax 4524, +3.6% fee and 3 fixed = 4689.864.
	assert.Equal(t, "4689.86", prices[0].Price)
	assert.Equal(t, "calculated", prices[0].Source)
}

func TestDeleteProduct(t *testing.T) {
	f := newCatalogFixture(t)
	product := f.createProduct(t, CreateVariantRequest{Size: "50cm", Weight: "4"})

	require.NoError(t, f.svc.DeleteProduct(context.Background(), product.ID, ""))

	_, err := f.svc.GetProduct(context.Background(), product.ID)
	assert.ErrorContains(t, err, "not found")
	assert.Contains(t, f.audit.actions(), model.ActionDeleteProduct)
}
