package service

import (
	"context"
	"sync"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests.

type stubParamsRepo struct {
	mu       sync.Mutex
	params   *model.GlobalParameters
	getCalls int
}

func (r *stubParamsRepo) Get(ctx context.Context) (*model.GlobalParameters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.params == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p := *r.params
	return &p, nil
}

func (r *stubParamsRepo) Update(ctx context.Context, params *model.GlobalParameters) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	params.ID = model.GlobalParametersID
	p := *params
	r.params = &p
	return nil
}

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *stubAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, int64(len(r.entries)), nil
}

func (r *stubAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type stubGroupRepo struct {
	mu     sync.Mutex
	groups map[uuid.UUID]model.PricingGroup
	vars   map[uuid.UUID]model.GroupVariables
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{
		groups: make(map[uuid.UUID]model.PricingGroup),
		vars:   make(map[uuid.UUID]model.GroupVariables),
	}
}

func (r *stubGroupRepo) CreateGroup(ctx context.Context, group *model.PricingGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	r.groups[group.ID] = *group
	return nil
}

func (r *stubGroupRepo) FindGroupByID(ctx context.Context, id uuid.UUID) (*model.PricingGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (r *stubGroupRepo) ListGroups(ctx context.Context, page, limit int) ([]model.PricingGroup, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PricingGroup, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

func (r *stubGroupRepo) GetVariables(ctx context.Context, groupID uuid.UUID) (*model.GroupVariables, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vars[groupID]; ok {
		return &v, nil
	}
	seeded := model.DefaultGroupVariables(groupID)
	r.vars[groupID] = seeded
	return &seeded, nil
}

func (r *stubGroupRepo) UpsertVariables(ctx context.Context, vars *model.GroupVariables) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vars[vars.GroupID] = *vars
	return nil
}

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
	variants map[uuid.UUID]model.ProductVariant
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]model.Product),
		variants: make(map[uuid.UUID]model.ProductVariant),
	}
}

func (r *stubProductRepo) Create(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = *product
	return nil
}

func (r *stubProductRepo) Update(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Variants = nil
	for _, v := range r.variants {
		if v.ProductID == id {
			p.Variants = append(p.Variants, v)
		}
	}
	return &p, nil
}

func (r *stubProductRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) CreateVariant(ctx context.Context, variant *model.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	r.variants[variant.ID] = *variant
	return nil
}

func (r *stubProductRepo) FindVariantByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *stubProductRepo) SetVariantPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.variants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Price = &price
	r.variants[id] = v
	return nil
}

func (r *stubProductRepo) SetPriceAnchor(ctx context.Context, productID uuid.UUID, price, baseWeight decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.BasePrice = &price
	p.BaseWeight = &baseWeight
	r.products[productID] = p
	return nil
}

// stubTxManager runs the callback without a real transaction.
type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func storedParameters() *model.GlobalParameters {
	return &model.GlobalParameters{
		ID:                model.GlobalParametersID,
		MetalQuotation:    decimal.RequireFromString("1500"),
		ProfitMargin:      decimal.RequireFromString("0.30"),
		TaxRate:           decimal.RequireFromString("0.16"),
		ProcessorFeeRate:  decimal.RequireFromString("0.036"),
		ProcessorFixedFee: decimal.RequireFromString("3"),
		ExchangeRate:      decimal.RequireFromString("18.50"),
	}
}
