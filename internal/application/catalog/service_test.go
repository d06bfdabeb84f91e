package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/application/reconcile"
	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeProducts struct {
	byID       map[uuid.UUID]*catalog.Product
	lastFilter catalog.ProductFilter
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: make(map[uuid.UUID]*catalog.Product)}
}

func (f *fakeProducts) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	product, ok := f.byID[id]
	if !ok || product.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (f *fakeProducts) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*catalog.Product, error) {
	if externalID == "" {
		return nil, shared.ErrNotFound
	}
	for _, product := range f.byID {
		if product.TenantID == tenantID && product.ExternalID == externalID {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProducts) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	if sku == "" {
		return nil, shared.ErrNotFound
	}
	for _, product := range f.byID {
		if product.TenantID == tenantID && product.SKU == sku {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProducts) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if product, ok := f.byID[id]; ok && product.TenantID == tenantID {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindAll(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	f.lastFilter = filter
	var out []catalog.Product
	for _, product := range f.byID {
		if product.TenantID != tenantID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(product.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	for _, product := range f.byID {
		if product.TenantID == tenantID && product.SKU == sku && product.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProducts) FindOwner(ctx context.Context, tenantID uuid.UUID, ownerType catalog.OwnerType, externalID, sku string) (uuid.UUID, uuid.UUID, error) {
	return uuid.Nil, uuid.Nil, shared.ErrNotFound
}

func (f *fakeProducts) Save(ctx context.Context, product *catalog.Product) error {
	f.byID[product.ID] = product
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := f.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

type fakeCategories struct {
	byID    map[uuid.UUID]*catalog.Category
	deleted []uuid.UUID
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byID: make(map[uuid.UUID]*catalog.Category)}
}

func (f *fakeCategories) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	category, ok := f.byID[id]
	if !ok || category.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return category, nil
}

func (f *fakeCategories) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*catalog.Category, error) {
	for _, category := range f.byID {
		if category.TenantID == tenantID && category.ExternalID == externalID {
			return category, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCategories) FindByName(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (*catalog.Category, error) {
	for _, category := range f.byID {
		if category.TenantID != tenantID || category.Name != name {
			continue
		}
		if (parentID == nil) != (category.ParentID == nil) {
			continue
		}
		if parentID != nil && *parentID != *category.ParentID {
			continue
		}
		return category, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCategories) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, category := range f.byID {
		if category.TenantID == tenantID {
			out = append(out, *category)
		}
	}
	return out, nil
}

func (f *fakeCategories) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, category := range f.byID {
		if category.TenantID == tenantID && category.ParentID != nil && *category.ParentID == parentID {
			out = append(out, *category)
		}
	}
	return out, nil
}

func (f *fakeCategories) Save(ctx context.Context, category *catalog.Category) error {
	f.byID[category.ID] = category
	return nil
}

func (f *fakeCategories) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := f.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePriceLists struct {
	byID     map[uuid.UUID]*catalog.PriceList
	attached map[uuid.UUID][]uuid.UUID
	detached map[uuid.UUID][]uuid.UUID
}

func newFakePriceLists() *fakePriceLists {
	return &fakePriceLists{
		byID:     make(map[uuid.UUID]*catalog.PriceList),
		attached: make(map[uuid.UUID][]uuid.UUID),
		detached: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakePriceLists) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.PriceList, error) {
	list, ok := f.byID[id]
	if !ok || list.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return list, nil
}

func (f *fakePriceLists) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.PriceList, error) {
	var out []catalog.PriceList
	for _, list := range f.byID {
		if list.TenantID == tenantID {
			out = append(out, *list)
		}
	}
	return out, nil
}

func (f *fakePriceLists) Save(ctx context.Context, list *catalog.PriceList) error {
	f.byID[list.ID] = list
	return nil
}

func (f *fakePriceLists) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakePriceLists) SyncProducts(ctx context.Context, listID uuid.UUID, productIDs []uuid.UUID) error {
	f.attached[listID] = append(f.attached[listID], productIDs...)
	return nil
}

func (f *fakePriceLists) DetachProducts(ctx context.Context, listID uuid.UUID, productIDs []uuid.UUID) error {
	f.detached[listID] = append(f.detached[listID], productIDs...)
	return nil
}

func (f *fakePriceLists) FindPriceRecord(ctx context.Context, listID uuid.UUID, ownerType catalog.OwnerType, ownerID uuid.UUID) (*catalog.PriceRecord, error) {
	return nil, shared.ErrNotFound
}

func (f *fakePriceLists) SavePriceRecords(ctx context.Context, records []catalog.PriceRecord) error {
	return nil
}

type plainImages struct{}

func (plainImages) IsUploadRef(ref string) bool { return false }

func (plainImages) PermanentURL(ctx context.Context, tenantID uuid.UUID, ref string) (string, error) {
	return ref, nil
}

func (plainImages) Promote(ctx context.Context, tenantID uuid.UUID, ref string) error { return nil }

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type serviceFixture struct {
	tenantID   uuid.UUID
	products   *fakeProducts
	categories *fakeCategories
	priceLists *fakePriceLists
	engine     *reconcile.Engine
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	products := newFakeProducts()
	categories := newFakeCategories()
	priceLists := newFakePriceLists()
	return &serviceFixture{
		tenantID:   uuid.New(),
		products:   products,
		categories: categories,
		priceLists: priceLists,
		engine:     reconcile.NewEngine(products, categories, priceLists, plainImages{}, zap.NewNop()),
	}
}

func (f *serviceFixture) addProduct(t *testing.T, title, sku string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(f.tenantID, "", sku, title)
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestProductService_List(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewProductService(f.products, f.engine, zap.NewNop())
	f.addProduct(t, "Ceramic mug", "MUG")
	f.addProduct(t, "Cotton t-shirt", "TSHIRT")

	t.Run("applies defaults and search", func(t *testing.T) {
		resp, err := svc.List(t.Context(), f.tenantID, ListProductsQuery{Search: "mug"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 50, resp.PageSize)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Ceramic mug", resp.Items[0].Title)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.List(t.Context(), f.tenantID, ListProductsQuery{Status: "archived"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("other tenants see nothing", func(t *testing.T) {
		resp, err := svc.List(t.Context(), uuid.New(), ListProductsQuery{})
		require.NoError(t, err)
		assert.Zero(t, resp.Total)
	})
}

func TestProductService_BatchUpsert(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewProductService(f.products, f.engine, zap.NewNop())

	price := decimal.NewFromInt(490)
	records := []reconcile.ProductRecord{
		{SKU: "MUG", Title: "Ceramic mug", Price: &price},
		{SKU: "", Title: ""},
	}
	result, err := svc.BatchUpsert(t.Context(), f.tenantID, records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.All)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.AdditionalInfo, 1)
	assert.Equal(t, 1, result.AdditionalInfo[0].Index)

	created, err := f.products.FindBySKU(t.Context(), f.tenantID, "MUG")
	require.NoError(t, err)
	assert.Equal(t, "Ceramic mug", created.Title)
}

func TestProductService_Delete(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewProductService(f.products, f.engine, zap.NewNop())
	product := f.addProduct(t, "Ceramic mug", "MUG")

	require.NoError(t, svc.Delete(t.Context(), f.tenantID, product.ID))
	require.ErrorIs(t, svc.Delete(t.Context(), f.tenantID, product.ID), shared.ErrNotFound)
}

func TestCategoryService(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewCategoryService(f.categories, f.engine, zap.NewNop())

	t.Run("create and reparent", func(t *testing.T) {
		root, err := svc.Create(t.Context(), f.tenantID, CreateCategoryRequest{Name: "Kitchen"})
		require.NoError(t, err)

		child, err := svc.Create(t.Context(), f.tenantID, CreateCategoryRequest{Name: "Mugs", ParentID: &root.ID})
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, root.ID, *child.ParentID)

		moved, err := svc.Update(t.Context(), f.tenantID, child.ID, UpdateCategoryRequest{MoveToRoot: true})
		require.NoError(t, err)
		assert.Nil(t, moved.ParentID)
	})

	t.Run("rejects foreign parent", func(t *testing.T) {
		foreign := uuid.New()
		_, err := svc.Create(t.Context(), f.tenantID, CreateCategoryRequest{Name: "Orphan", ParentID: &foreign})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rename", func(t *testing.T) {
		created, err := svc.Create(t.Context(), f.tenantID, CreateCategoryRequest{Name: "Tees"})
		require.NoError(t, err)

		name := "T-shirts"
		renamed, err := svc.Update(t.Context(), f.tenantID, created.ID, UpdateCategoryRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "T-shirts", renamed.Name)
	})
}

func TestPriceListService(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewPriceListService(f.priceLists, f.engine, zap.NewNop())

	created, err := svc.Create(t.Context(), f.tenantID, CreatePriceListRequest{Name: "Ozon prices", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, created.IsDefault)

	lists, err := svc.List(t.Context(), f.tenantID)
	require.NoError(t, err)
	require.Len(t, lists, 1)

	productID := uuid.New()
	require.NoError(t, svc.AttachProducts(t.Context(), f.tenantID, created.ID, []uuid.UUID{productID}))
	assert.Equal(t, []uuid.UUID{productID}, f.priceLists.attached[created.ID])

	require.ErrorIs(t,
		svc.AttachProducts(t.Context(), f.tenantID, uuid.New(), []uuid.UUID{productID}),
		shared.ErrNotFound)

	require.NoError(t, svc.Delete(t.Context(), f.tenantID, created.ID))
	_, err = svc.List(t.Context(), f.tenantID)
	require.NoError(t, err)
}
