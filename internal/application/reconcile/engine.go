package reconcile

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// ImageStore resolves opaque upload-session identifiers submitted in
// image fields to permanent storage locations. Promotion of the
// temporary asset is deferred by the engine until the owning record has
// validated, so partial batch failures leave no moved files behind.
type ImageStore interface {
	// IsUploadRef reports whether ref is a temporary upload reference
	// rather than a plain URL.
	IsUploadRef(ref string) bool

	// PermanentURL returns the permanent location ref will have after
	// promotion, without moving anything.
	PermanentURL(ctx context.Context, tenantID uuid.UUID, ref string) (string, error)

	// Promote moves the temporary asset to its permanent location.
	// Assumed atomic per file.
	Promote(ctx context.Context, tenantID uuid.UUID, ref string) error
}

// Engine turns unordered batches of external records into idempotent
// create-or-update-or-delete decisions against local catalog entities.
// Records are validated individually: one bad record never aborts the
// batch, it becomes an AdditionalInfo entry in the result.
type Engine struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	priceLists catalog.PriceListRepository
	images     ImageStore
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	priceLists catalog.PriceListRepository,
	images ImageStore,
	logger *zap.Logger,
) *Engine {
	v := validator.New()
	// Report field errors under their JSON names, matching the payload
	// the integrator submitted.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Engine{
		products:   products,
		categories: categories,
		priceLists: priceLists,
		images:     images,
		validate:   v,
		logger:     logger,
	}
}

// pendingPromotion is a deferred temp-to-permanent image move.
type pendingPromotion struct {
	tenantID uuid.UUID
	ref      string
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// UpsertProducts reconciles a batch of product records. Matching key
// precedence: caller-owned local ID, then external ID, then SKU.
// Re-submitting an identical batch is idempotent: nothing is created
// twice and unchanged records do not count as updated.
func (e *Engine) UpsertProducts(ctx context.Context, tenantID uuid.UUID, records []ProductRecord) (*Result, error) {
	result := NewResult(len(records))
	attach := make(map[uuid.UUID][]uuid.UUID)
	var promotions []pendingPromotion

	for i, rec := range records {
		if errs := e.check(rec); errs != nil {
			result.Reject(i, errs, rec)
			continue
		}

		product, err := e.matchProduct(ctx, tenantID, rec.ID, rec.ExternalID, rec.SKU)
		if err != nil {
			result.RejectField(i, "record", err.Error(), rec)
			continue
		}

		images, recPromotions, imgErr := e.resolveImages(ctx, tenantID, rec.Images)
		if imgErr != nil {
			result.RejectField(i, "images", imgErr.Error(), rec)
			continue
		}

		if product == nil {
			product, err = e.createProduct(tenantID, rec, images)
			if err != nil {
				result.RejectField(i, "record", err.Error(), rec)
				continue
			}
			if err := e.assignCategory(ctx, tenantID, product, rec); err != nil {
				result.RejectField(i, "category_external_id", err.Error(), rec)
				continue
			}
			if err := e.products.Save(ctx, product); err != nil {
				e.rejectSave(result, i, rec, err)
				continue
			}
			result.Created++
		} else {
			changed := e.applyProductRecord(product, rec, images)
			categoryChanged, err := e.applyCategory(ctx, tenantID, product, rec)
			if err != nil {
				result.RejectField(i, "category_external_id", err.Error(), rec)
				continue
			}
			if changed || categoryChanged {
				if err := e.products.Save(ctx, product); err != nil {
					e.rejectSave(result, i, rec, err)
					continue
				}
				result.Updated++
			}
		}

		promotions = append(promotions, recPromotions...)
		for _, listID := range rec.PriceListIDs {
			attach[listID] = append(attach[listID], product.ID)
		}
	}

	e.syncPriceLists(ctx, attach)
	e.promoteImages(ctx, promotions)
	return result, nil
}

// DeleteProducts removes a batch of products. Unresolvable records are
// reported in AdditionalInfo, never fatal.
func (e *Engine) DeleteProducts(ctx context.Context, tenantID uuid.UUID, records []DeleteRecord) (*Result, error) {
	result := NewResult(len(records))

	for i, rec := range records {
		if errs := e.check(rec); errs != nil {
			result.Reject(i, errs, rec)
			continue
		}

		product, err := e.matchProduct(ctx, tenantID, rec.ID, rec.ExternalID, rec.SKU)
		if err != nil {
			result.RejectField(i, "record", err.Error(), rec)
			continue
		}
		if product == nil {
			result.RejectField(i, "record", "product not found", rec)
			continue
		}

		if err := e.products.Delete(ctx, tenantID, product.ID); err != nil {
			e.rejectSave(result, i, rec, err)
			continue
		}
		result.Deleted++
	}

	return result, nil
}

// matchProduct resolves an incoming record to an existing product, or
// nil when no match exists. An explicit ID that is not owned by the
// tenant is an error, not a create.
func (e *Engine) matchProduct(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID, externalID, sku string) (*catalog.Product, error) {
	if id != nil {
		product, err := e.products.FindByID(ctx, tenantID, *id)
		if err != nil {
			if isNotFound(err) {
				return nil, errors.New("product with the given id not found")
			}
			return nil, err
		}
		return product, nil
	}

	if externalID != "" {
		product, err := e.products.FindByExternalID(ctx, tenantID, externalID)
		if err == nil {
			return product, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	if sku != "" {
		product, err := e.products.FindBySKU(ctx, tenantID, sku)
		if err == nil {
			return product, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	return nil, nil
}

func (e *Engine) createProduct(tenantID uuid.UUID, rec ProductRecord, images []string) (*catalog.Product, error) {
	product, err := catalog.NewProduct(tenantID, rec.ExternalID, rec.SKU, rec.Title)
	if err != nil {
		return nil, err
	}
	product.Barcode = rec.Barcode
	product.Description = rec.Description
	product.Images = images

	for _, vr := range rec.Variations {
		v := catalog.Variation{
			ExternalID: vr.ExternalID,
			VendorCode: vr.VendorCode,
			Barcode:    vr.Barcode,
		}
		applyDecimal(&v.Price, vr.Price)
		applyDecimal(&v.OldPrice, vr.OldPrice)
		applyDecimal(&v.Stock, vr.Stock)
		added := product.AddVariation(v)
		for _, ir := range vr.Items {
			item := catalog.VariationItem{
				BaseEntity:  shared.NewBaseEntity(),
				VariationID: added.ID,
				ExternalID:  ir.ExternalID,
				Value:       ir.Value,
			}
			applyDecimal(&item.Price, ir.Price)
			applyDecimal(&item.Stock, ir.Stock)
			added.Items = append(added.Items, item)
		}
	}

	// A payload with no variations still yields a complete hierarchy.
	v := product.EnsureDefaultVariation()
	if len(rec.Variations) == 0 {
		applyDecimal(&v.Price, rec.Price)
		applyDecimal(&v.OldPrice, rec.OldPrice)
		applyDecimal(&v.Stock, rec.Stock)
	}

	return product, nil
}

// applyProductRecord updates mutable fields only and reports whether
// anything actually changed. Fields absent from the payload are left
// untouched.
func (e *Engine) applyProductRecord(product *catalog.Product, rec ProductRecord, images []string) bool {
	changed := false

	if rec.Title != "" && rec.Title != product.Title {
		product.Title = rec.Title
		changed = true
	}
	if rec.Description != "" && rec.Description != product.Description {
		product.Description = rec.Description
		changed = true
	}
	if rec.Barcode != "" && rec.Barcode != product.Barcode {
		product.Barcode = rec.Barcode
		changed = true
	}
	if rec.SKU != "" && rec.SKU != product.SKU {
		product.SKU = rec.SKU
		changed = true
	}
	if len(images) > 0 && !equalStrings(images, product.Images) {
		product.Images = images
		changed = true
	}

	for _, vr := range rec.Variations {
		if e.applyVariationRecord(product, vr) {
			changed = true
		}
	}

	if len(rec.Variations) == 0 {
		v := product.EnsureDefaultVariation()
		if applyDecimalChanged(&v.Price, rec.Price) {
			changed = true
		}
		if applyDecimalChanged(&v.OldPrice, rec.OldPrice) {
			changed = true
		}
		if applyDecimalChanged(&v.Stock, rec.Stock) {
			changed = true
		}
	}

	if changed {
		product.Touch()
	}
	return changed
}

func (e *Engine) applyVariationRecord(product *catalog.Product, vr VariationRecord) bool {
	v, ok := product.VariationByExternalID(vr.ExternalID)
	if !ok {
		v, ok = product.VariationByVendorCode(vr.VendorCode)
	}
	if !ok {
		added := product.AddVariation(catalog.Variation{
			ExternalID: vr.ExternalID,
			VendorCode: vr.VendorCode,
			Barcode:    vr.Barcode,
		})
		applyDecimal(&added.Price, vr.Price)
		applyDecimal(&added.OldPrice, vr.OldPrice)
		applyDecimal(&added.Stock, vr.Stock)
		for _, ir := range vr.Items {
			item := catalog.VariationItem{
				BaseEntity:  shared.NewBaseEntity(),
				VariationID: added.ID,
				ExternalID:  ir.ExternalID,
				Value:       ir.Value,
			}
			applyDecimal(&item.Price, ir.Price)
			applyDecimal(&item.Stock, ir.Stock)
			added.Items = append(added.Items, item)
		}
		return true
	}

	changed := false
	if vr.Barcode != "" && vr.Barcode != v.Barcode {
		v.Barcode = vr.Barcode
		changed = true
	}
	if applyDecimalChanged(&v.Price, vr.Price) {
		changed = true
	}
	if applyDecimalChanged(&v.OldPrice, vr.OldPrice) {
		changed = true
	}
	if applyDecimalChanged(&v.Stock, vr.Stock) {
		changed = true
	}

	for _, ir := range vr.Items {
		if applyItemRecord(v, ir) {
			changed = true
		}
	}
	return changed
}

func applyItemRecord(v *catalog.Variation, ir ItemRecord) bool {
	for i := range v.Items {
		if v.Items[i].ExternalID != ir.ExternalID {
			continue
		}
		changed := false
		if ir.Value != "" && ir.Value != v.Items[i].Value {
			v.Items[i].Value = ir.Value
			changed = true
		}
		if applyDecimalChanged(&v.Items[i].Price, ir.Price) {
			changed = true
		}
		if applyDecimalChanged(&v.Items[i].Stock, ir.Stock) {
			changed = true
		}
		return changed
	}

	item := catalog.VariationItem{
		BaseEntity:  shared.NewBaseEntity(),
		VariationID: v.ID,
		ExternalID:  ir.ExternalID,
		Value:       ir.Value,
	}
	applyDecimal(&item.Price, ir.Price)
	applyDecimal(&item.Stock, ir.Stock)
	v.Items = append(v.Items, item)
	return true
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// UpsertCategories reconciles a batch of category records. Parents must
// precede children within a batch; records referencing an unknown
// parent are reported, not fatal.
func (e *Engine) UpsertCategories(ctx context.Context, tenantID uuid.UUID, records []CategoryRecord) (*Result, error) {
	result := NewResult(len(records))

	for i, rec := range records {
		if errs := e.check(rec); errs != nil {
			result.Reject(i, errs, rec)
			continue
		}

		var parentID *uuid.UUID
		if rec.ParentExternalID != "" {
			parent, err := e.categories.FindByExternalID(ctx, tenantID, rec.ParentExternalID)
			if err != nil {
				if isNotFound(err) {
					result.RejectField(i, "parent_external_id", "parent category not found", rec)
					continue
				}
				result.RejectField(i, "record", err.Error(), rec)
				continue
			}
			id := parent.ID
			parentID = &id
		}

		category, err := e.matchCategory(ctx, tenantID, rec, parentID)
		if err != nil {
			result.RejectField(i, "record", err.Error(), rec)
			continue
		}

		if category == nil {
			category, err = catalog.NewCategory(tenantID, rec.Name, parentID)
			if err != nil {
				result.RejectField(i, "name", err.Error(), rec)
				continue
			}
			category.ExternalID = rec.ExternalID
			if err := e.categories.Save(ctx, category); err != nil {
				e.rejectSave(result, i, rec, err)
				continue
			}
			result.Created++
			continue
		}

		changed := false
		if rec.Name != "" && rec.Name != category.Name {
			category.Name = rec.Name
			changed = true
		}
		if rec.ExternalID != "" && rec.ExternalID != category.ExternalID {
			category.ExternalID = rec.ExternalID
			changed = true
		}
		if !equalUUIDPtr(parentID, category.ParentID) && rec.ParentExternalID != "" {
			category.ParentID = parentID
			changed = true
		}
		if changed {
			category.Touch()
			if err := e.categories.Save(ctx, category); err != nil {
				e.rejectSave(result, i, rec, err)
				continue
			}
			result.Updated++
		}
	}

	return result, nil
}

func (e *Engine) matchCategory(ctx context.Context, tenantID uuid.UUID, rec CategoryRecord, parentID *uuid.UUID) (*catalog.Category, error) {
	if rec.ID != nil {
		category, err := e.categories.FindByID(ctx, tenantID, *rec.ID)
		if err != nil {
			if isNotFound(err) {
				return nil, errors.New("category with the given id not found")
			}
			return nil, err
		}
		return category, nil
	}

	if rec.ExternalID != "" {
		category, err := e.categories.FindByExternalID(ctx, tenantID, rec.ExternalID)
		if err == nil {
			return category, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	if rec.Name != "" {
		category, err := e.categories.FindByName(ctx, tenantID, rec.Name, parentID)
		if err == nil {
			return category, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	return nil, nil
}

// assignCategory resolves the category reference of a new product,
// creating the category on the fly when only a name is known.
func (e *Engine) assignCategory(ctx context.Context, tenantID uuid.UUID, product *catalog.Product, rec ProductRecord) error {
	id, err := e.resolveCategory(ctx, tenantID, rec)
	if err != nil {
		return err
	}
	product.CategoryID = id
	return nil
}

// applyCategory updates the category of an existing product, reporting
// whether it changed.
func (e *Engine) applyCategory(ctx context.Context, tenantID uuid.UUID, product *catalog.Product, rec ProductRecord) (bool, error) {
	if rec.CategoryExternalID == "" && rec.CategoryName == "" {
		return false, nil
	}
	id, err := e.resolveCategory(ctx, tenantID, rec)
	if err != nil {
		return false, err
	}
	if equalUUIDPtr(id, product.CategoryID) {
		return false, nil
	}
	product.CategoryID = id
	return true, nil
}

func (e *Engine) resolveCategory(ctx context.Context, tenantID uuid.UUID, rec ProductRecord) (*uuid.UUID, error) {
	if rec.CategoryExternalID == "" && rec.CategoryName == "" {
		return nil, nil
	}

	if rec.CategoryExternalID != "" {
		category, err := e.categories.FindByExternalID(ctx, tenantID, rec.CategoryExternalID)
		if err == nil {
			id := category.ID
			return &id, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	if rec.CategoryName != "" {
		category, err := e.categories.FindByName(ctx, tenantID, rec.CategoryName, nil)
		if err == nil {
			id := category.ID
			return &id, nil
		}
		if !isNotFound(err) {
			return nil, err
		}

		// Unknown category names from imports become new tree roots;
		// the user re-parents them later.
		category, err = catalog.NewCategory(tenantID, rec.CategoryName, nil)
		if err != nil {
			return nil, err
		}
		category.ExternalID = rec.CategoryExternalID
		if err := e.categories.Save(ctx, category); err != nil {
			return nil, err
		}
		id := category.ID
		return &id, nil
	}

	return nil, errors.New("category not found")
}

// ---------------------------------------------------------------------------
// Prices
// ---------------------------------------------------------------------------

// UpsertPrices reconciles a batch of per-price-list overrides and
// attaches the touched products to their lists in one bulk pass.
func (e *Engine) UpsertPrices(ctx context.Context, tenantID uuid.UUID, records []PriceRecordInput) (*Result, error) {
	result := NewResult(len(records))
	toSave := make([]catalog.PriceRecord, 0, len(records))
	attach := make(map[uuid.UUID][]uuid.UUID)

	for i, rec := range records {
		if errs := e.check(rec); errs != nil {
			result.Reject(i, errs, rec)
			continue
		}

		ownerType := catalog.OwnerType(rec.OwnerType)
		ownerID, productID, err := e.products.FindOwner(ctx, tenantID, ownerType, rec.ExternalID, rec.SKU)
		if err != nil {
			if isNotFound(err) {
				result.RejectField(i, "external_id", "price owner not found", rec)
				continue
			}
			result.RejectField(i, "record", err.Error(), rec)
			continue
		}

		record, err := e.priceLists.FindPriceRecord(ctx, rec.PriceListID, ownerType, ownerID)
		if err != nil {
			if !isNotFound(err) {
				result.RejectField(i, "record", err.Error(), rec)
				continue
			}
			record, err = catalog.NewPriceRecord(rec.PriceListID, ownerType, ownerID)
			if err != nil {
				result.RejectField(i, "type", err.Error(), rec)
				continue
			}
			result.Created++
		} else {
			result.Updated++
		}

		applyDecimal(&record.Price, rec.Price)
		applyDecimal(&record.OldPrice, rec.OldPrice)
		applyDecimal(&record.Stock, rec.Stock)
		toSave = append(toSave, *record)
		attach[rec.PriceListID] = append(attach[rec.PriceListID], productID)
	}

	if len(toSave) > 0 {
		if err := e.priceLists.SavePriceRecords(ctx, toSave); err != nil {
			return nil, err
		}
	}
	e.syncPriceLists(ctx, attach)
	return result, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// check validates a record and returns its field errors, nil when valid.
func (e *Engine) check(rec any) map[string][]string {
	err := e.validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"record": {err.Error()}}
	}

	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field == "" {
			field = "record"
		}
		out[field] = append(out[field], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + strings.ToLower(fe.Param()) + " is empty"
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// rejectSave records a persistence failure for one record. Unique-key
// conflicts keep their user-facing message; anything else is logged and
// reported generically so internals never leak to the caller.
func (e *Engine) rejectSave(result *Result, index int, rec any, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		result.RejectField(index, "record", domainErr.Message, rec)
		return
	}
	e.logger.Error("reconcile: persistence failure",
		zap.Int("index", index),
		zap.Error(err),
	)
	result.RejectField(index, "record", "failed to save record", rec)
}

func (e *Engine) resolveImages(ctx context.Context, tenantID uuid.UUID, refs []string) ([]string, []pendingPromotion, error) {
	if len(refs) == 0 || e.images == nil {
		return refs, nil, nil
	}

	out := make([]string, 0, len(refs))
	var promotions []pendingPromotion
	for _, ref := range refs {
		if !e.images.IsUploadRef(ref) {
			out = append(out, ref)
			continue
		}
		url, err := e.images.PermanentURL(ctx, tenantID, ref)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, url)
		promotions = append(promotions, pendingPromotion{tenantID: tenantID, ref: ref})
	}
	return out, promotions, nil
}

// promoteImages executes the deferred temp-to-permanent moves for
// records that made it through validation. Failures are logged; the
// batch result is already final at this point.
func (e *Engine) promoteImages(ctx context.Context, promotions []pendingPromotion) {
	for _, p := range promotions {
		if err := e.images.Promote(ctx, p.tenantID, p.ref); err != nil {
			e.logger.Error("reconcile: image promotion failed",
				zap.String("ref", p.ref),
				zap.Error(err),
			)
		}
	}
}

// syncPriceLists attaches products to price lists in bulk, one call per
// list for the whole batch.
func (e *Engine) syncPriceLists(ctx context.Context, attach map[uuid.UUID][]uuid.UUID) {
	for listID, productIDs := range attach {
		if err := e.priceLists.SyncProducts(ctx, listID, dedupe(productIDs)); err != nil {
			e.logger.Error("reconcile: price list sync failed",
				zap.String("price_list_id", listID.String()),
				zap.Error(err),
			)
		}
	}
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrNotFound.Code
	}
	return false
}

func applyDecimal(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

func applyDecimalChanged(dst *decimal.Decimal, src *decimal.Decimal) bool {
	if src == nil || dst.Equal(*src) {
		return false
	}
	*dst = *src
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
