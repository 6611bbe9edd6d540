package service

import (
	"context"
	"errors"
	"fmt"

	"joyeria/internal/model"
	"joyeria/internal/pricing"
	"joyeria/internal/repository"
	"joyeria/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateVariantRequest struct {
	Size   string `json:"size" binding:"required"`
	Weight string `json:"weight"` // optional, decimal string in grams
	Stock  int    `json:"stock"`
}

type CreateProductRequest struct {
	SKU      string                 `json:"sku" binding:"required"`
	Name     string                 `json:"name" binding:"required"`
	GroupID  string                 `json:"group_id" binding:"required"`
	Variants []CreateVariantRequest `json:"variants" binding:"required,min=1,dive"`
}

type VariantResponse struct {
	ID     string `json:"id"`
	Size   string `json:"size"`
	Weight string `json:"weight,omitempty"`
	Price  string `json:"price,omitempty"`
	Stock  int    `json:"stock"`
}

type ProductResponse struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	GroupID    string            `json:"group_id"`
	BasePrice  string            `json:"base_price,omitempty"`
	BaseWeight string            `json:"base_weight,omitempty"`
	Variants   []VariantResponse `json:"variants"`
}

// VariantPriceResponse is a projected storefront price, never persisted.
type VariantPriceResponse struct {
	VariantID string `json:"variant_id"`
	Size      string `json:"size"`
	Weight    string `json:"weight,omitempty"`
	Price     string `json:"price"`
	Source    string `json:"source"` // "anchor", "projected" or "calculated"
}

// ApplyPriceRequest applies an admin-confirmed final price to a set of
// variants. Price anchors the variant whose weight equals BaseWeight; sibling
// variants get the weight-proportional projection of that price.
type ApplyPriceRequest struct {
	ProductID  string   `json:"product_id" binding:"required"`
	VariantIDs []string `json:"variant_ids" binding:"required,min=1"`
	Price      string   `json:"price" binding:"required"`
	BaseWeight string   `json:"base_weight" binding:"required"`
}

type ApplyFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// ApplyResult is the per-variant outcome split of a bulk price application.
type ApplyResult struct {
	Successful []string       `json:"successful"`
	Failed     []ApplyFailure `json:"failed"`
}

// --- Interface ---

type CatalogService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest, userID string) (ProductResponse, error)
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error)
	DeleteProduct(ctx context.Context, id string, userID string) error
	// VariantPrices computes the current display prices for every variant of
	// a product without writing anything.
	VariantPrices(ctx context.Context, productID string) ([]VariantPriceResponse, error)
	// ApplyFinalPrice persists prices variant by variant; one bad id never
	// aborts the rest of the batch.
	ApplyFinalPrice(ctx context.Context, req ApplyPriceRequest, userID string) (ApplyResult, error)
}

type catalogService struct {
	repo    repository.ProductRepository
	groups  repository.GroupRepository
	audit   repository.AuditRepository
	pricing PricingService
	txMgr   repository.TransactionManager
	hub     *websocket.Hub
}

func NewCatalogService(
	repo repository.ProductRepository,
	groups repository.GroupRepository,
	audit repository.AuditRepository,
	pricingSvc PricingService,
	txMgr repository.TransactionManager,
	hub *websocket.Hub,
) CatalogService {
	return &catalogService{
		repo:    repo,
		groups:  groups,
		audit:   audit,
		pricing: pricingSvc,
		txMgr:   txMgr,
		hub:     hub,
	}
}

// --- Implementation ---

func (s *catalogService) CreateProduct(ctx context.Context, req CreateProductRequest, userID string) (ProductResponse, error) {
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid group id: %w", err)
	}

	if _, err := s.groups.FindGroupByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, fmt.Errorf("pricing group not found")
		}
		return ProductResponse{}, fmt.Errorf("failed to fetch pricing group: %w", err)
	}

	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return ProductResponse{}, fmt.Errorf("product with SKU %s already exists", req.SKU)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductResponse{}, fmt.Errorf("failed to check SKU: %w", err)
	}

	product := model.Product{SKU: req.SKU, Name: req.Name, GroupID: groupID}

	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		for _, v := range req.Variants {
			variant := model.ProductVariant{
				ProductID: product.ID,
				Size:      v.Size,
				Stock:     v.Stock,
			}
			if v.Weight != "" {
				w, err := decimal.NewFromString(v.Weight)
				if err != nil {
					return fmt.Errorf("invalid weight for size %s: %w", v.Size, err)
				}
				if w.Sign() < 0 {
					return &pricing.ValidationError{Field: "weight", Reason: "must not be negative"}
				}
				variant.Weight = &w
			}
			if err := s.repo.CreateVariant(txCtx, &variant); err != nil {
				return fmt.Errorf("failed to create variant %s: %w", v.Size, err)
			}
			product.Variants = append(product.Variants, variant)
		}
		return nil
	})
	if err != nil {
		return ProductResponse{}, err
	}

	writeAudit(ctx, s.audit, userID, model.ActionCreateProduct, product.ID.String(), product.Name, req)
	return toProductResponse(product), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(*product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error) {
	products, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res, total, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string, userID string) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	writeAudit(ctx, s.audit, userID, model.ActionDeleteProduct, product.ID.String(), product.Name, nil)
	return nil
}

func (s *catalogService) VariantPrices(ctx context.Context, productID string) ([]VariantPriceResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	res := make([]VariantPriceResponse, 0, len(product.Variants))
	for _, v := range product.Variants {
		price, source, err := s.variantPrice(ctx, product, v)
		if err != nil {
			return nil, fmt.Errorf("failed to price variant %s: %w", v.Size, err)
		}
		entry := VariantPriceResponse{
			VariantID: v.ID.String(),
			Size:      v.Size,
			Price:     price.StringFixed(2),
			Source:    source,
		}
		if v.Weight != nil {
			entry.Weight = v.Weight.String()
		}
		res = append(res, entry)
	}
	return res, nil
}

// variantPrice resolves the display price for one variant. With an anchor in
// place the price is projected proportionally from it; without one it falls
// through to the full calculator at the variant's weight. A variant with no
// weight of its own always sells at the anchor price.
func (s *catalogService) variantPrice(ctx context.Context, product *model.Product, v model.ProductVariant) (decimal.Decimal, string, error) {
	if product.BasePrice != nil && product.BaseWeight != nil {
		if v.Weight == nil {
			return *product.BasePrice, "anchor", nil
		}
		projected, err := pricing.ProjectVariantPrice(*product.BasePrice, *product.BaseWeight, *v.Weight)
		if err != nil {
			return decimal.Zero, "", err
		}
		return projected, "projected", nil
	}

	weight := decimal.Zero
	if v.Weight != nil {
		weight = *v.Weight
	}
	gp, err := s.pricing.PriceForWeight(ctx, product.GroupID, weight)
	if err != nil {
		return decimal.Zero, "", err
	}
	return gp.FinalPrice.Round(2), "calculated", nil
}

func (s *catalogService) ApplyFinalPrice(ctx context.Context, req ApplyPriceRequest, userID string) (ApplyResult, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("invalid product id: %w", err)
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("invalid price value: %w", err)
	}
	if price.Sign() <= 0 {
		return ApplyResult{}, &pricing.ValidationError{Field: "price", Reason: "must be greater than zero"}
	}

	baseWeight, err := decimal.NewFromString(req.BaseWeight)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("invalid base_weight value: %w", err)
	}
	if baseWeight.Sign() <= 0 {
		return ApplyResult{}, &pricing.ValidationError{Field: "base_weight", Reason: "must be greater than zero"}
	}

	product, err := s.findProduct(ctx, req.ProductID)
	if err != nil {
		return ApplyResult{}, err
	}

	result := ApplyResult{Successful: []string{}, Failed: []ApplyFailure{}}
	for _, rawID := range req.VariantIDs {
		if err := s.applyToVariant(ctx, product, rawID, price, baseWeight); err != nil {
			result.Failed = append(result.Failed, ApplyFailure{ID: rawID, Error: err.Error()})
			continue
		}
		result.Successful = append(result.Successful, rawID)
	}

	// The anchor moves only when at least one variant actually took the price.
	if len(result.Successful) > 0 {
		if err := s.repo.SetPriceAnchor(ctx, productID, price.Round(2), baseWeight); err != nil {
			return ApplyResult{}, fmt.Errorf("failed to update price anchor: %w", err)
		}

		writeAudit(ctx, s.audit, userID, model.ActionApplyFinalPrice, product.ID.String(), product.Name, result)
		if s.hub != nil {
			s.hub.BroadcastEvent(websocket.Event{Type: websocket.EventPricesApplied, Payload: map[string]interface{}{
				"product_id": product.ID.String(),
				"applied":    result.Successful,
			}})
		}
	}

	return result, nil
}

// --- Helpers ---

func (s *catalogService) applyToVariant(ctx context.Context, product *model.Product, rawID string, price, baseWeight decimal.Decimal) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid variant id: %w", err)
	}

	variant, err := s.repo.FindVariantByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("variant not found")
		}
		return fmt.Errorf("failed to fetch variant: %w", err)
	}
	if variant.ProductID != product.ID {
		return fmt.Errorf("variant does not belong to product")
	}

	applied := price.Round(2)
	if variant.Weight != nil && !variant.Weight.Equal(baseWeight) {
		applied, err = pricing.ProjectVariantPrice(price, baseWeight, *variant.Weight)
		if err != nil {
			return err
		}
	}

	if err := s.repo.SetVariantPrice(ctx, id, applied); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("variant not found")
		}
		return fmt.Errorf("failed to persist price: %w", err)
	}
	return nil
}

func (s *catalogService) findProduct(ctx context.Context, id string) (*model.Product, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func toProductResponse(p model.Product) ProductResponse {
	res := ProductResponse{
		ID:       p.ID.String(),
		SKU:      p.SKU,
		Name:     p.Name,
		GroupID:  p.GroupID.String(),
		Variants: make([]VariantResponse, 0, len(p.Variants)),
	}
	if p.BasePrice != nil {
		res.BasePrice = p.BasePrice.StringFixed(2)
	}
	if p.BaseWeight != nil {
		res.BaseWeight = p.BaseWeight.String()
	}
	for _, v := range p.Variants {
		res.Variants = append(res.Variants, toVariantResponse(v))
	}
	return res
}

func toVariantResponse(v model.ProductVariant) VariantResponse {
	res := VariantResponse{
		ID:    v.ID.String(),
		Size:  v.Size,
		Stock: v.Stock,
	}
	if v.Weight != nil {
		res.Weight = v.Weight.String()
	}
	if v.Price != nil {
		res.Price = v.Price.StringFixed(2)
	}
	return res
}
