package marketplace

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// DictionaryCache is a read-through cache for marketplace reference
// values. Lookups that miss fall back to the provider.
type DictionaryCache interface {
	// Get returns cached values for the query key, false on miss.
	Get(ctx context.Context, code marketplace.Code, query marketplace.DictionaryQuery) ([]marketplace.DictionaryValue, bool)

	// Put stores values for the query key.
	Put(ctx context.Context, code marketplace.Code, query marketplace.DictionaryQuery, values []marketplace.DictionaryValue)
}

// DictionaryService maintains local copies of marketplace taxonomies
// (categories, attributes and their dictionaries) and serves enumerable
// reference values through a cache.
type DictionaryService struct {
	dictionaries marketplace.DictionaryRepository
	registry     marketplace.Registry
	cache        DictionaryCache
	logger       *zap.Logger
}

// NewDictionaryService creates a new DictionaryService.
func NewDictionaryService(
	dictionaries marketplace.DictionaryRepository,
	registry marketplace.Registry,
	cache DictionaryCache,
	logger *zap.Logger,
) *DictionaryService {
	return &DictionaryService{
		dictionaries: dictionaries,
		registry:     registry,
		cache:        cache,
		logger:       logger,
	}
}

// List returns locally stored reference entries of one kind.
func (s *DictionaryService) List(ctx context.Context, code marketplace.Code, kind marketplace.DictionaryKind) ([]DictionaryEntryResponse, error) {
	entries, err := s.dictionaries.FindByKind(ctx, code, kind)
	if err != nil {
		return nil, err
	}
	out := make([]DictionaryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, DictionaryEntryResponse{
			ID:         e.ID,
			Kind:       string(e.Kind),
			ExternalID: e.ExternalID,
			ParentID:   e.ParentID,
			Name:       e.Name,
		})
	}
	return out, nil
}

// Values serves enumerable reference values, read-through cached.
func (s *DictionaryService) Values(ctx context.Context, creds marketplace.Credentials, query marketplace.DictionaryQuery) ([]marketplace.DictionaryValue, error) {
	if values, ok := s.cache.Get(ctx, creds.Marketplace, query); ok {
		return values, nil
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	values, err := provider.DictionaryValues(ctx, creds, query)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, creds.Marketplace, query, values)
	return values, nil
}

// SyncAttributes crawls the marketplace taxonomy and reconciles it into
// the local dictionary store. Records arrive parent-before-child from
// the providers; unknown parents degrade to root entries rather than
// failing the crawl.
func (s *DictionaryService) SyncAttributes(ctx context.Context, creds marketplace.Credentials) (*SyncReport, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	records, err := provider.ImportAttributes(ctx, creds)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Marketplace: creds.Marketplace.String(), Fetched: len(records)}

	// IDs resolved during this crawl, so children find parents saved a
	// moment ago without re-querying.
	resolved := make(map[string]uuid.UUID, len(records))

	for _, rec := range records {
		var parentID *uuid.UUID
		if rec.ParentExternalID != "" {
			if id, ok := resolved[parentKey(rec.Kind, rec.ParentExternalID)]; ok {
				parentID = &id
			} else if parent, err := s.findParent(ctx, creds.Marketplace, rec.Kind, rec.ParentExternalID); err == nil {
				id := parent.ID
				parentID = &id
			}
		}

		existing, err := s.dictionaries.FindByExternalID(ctx, creds.Marketplace, rec.Kind, rec.ExternalID)
		switch {
		case err == nil:
			changed := false
			if rec.Name != "" && rec.Name != existing.Name {
				existing.Name = rec.Name
				changed = true
			}
			if parentID != nil && (existing.ParentID == nil || *existing.ParentID != *parentID) {
				existing.ParentID = parentID
				changed = true
			}
			if rec.Payload != nil {
				existing.Payload = rec.Payload
				changed = true
			}
			resolved[parentKey(rec.Kind, rec.ExternalID)] = existing.ID
			if !changed {
				report.Skipped++
				continue
			}
			existing.Touch()
			if err := s.dictionaries.Save(ctx, existing); err != nil {
				report.Failed++
				continue
			}
			report.Updated++

		case isNotFound(err):
			entry, err := marketplace.NewDictionary(creds.Marketplace, rec.Kind, rec.ExternalID, rec.Name)
			if err != nil {
				report.Failed++
				continue
			}
			entry.ParentID = parentID
			entry.Payload = rec.Payload
			if err := s.dictionaries.Save(ctx, entry); err != nil {
				s.logger.Error("attribute sync: save failed",
					zap.String("external_id", rec.ExternalID),
					zap.Error(err),
				)
				report.Failed++
				continue
			}
			resolved[parentKey(rec.Kind, rec.ExternalID)] = entry.ID
			report.Created++

		default:
			report.Failed++
		}
	}
	return report, nil
}

// SyncWarehouses mirrors the marketplace warehouse list into the
// dictionary store so the UI can offer warehouse pickers offline.
func (s *DictionaryService) SyncWarehouses(ctx context.Context, creds marketplace.Credentials) (*SyncReport, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	warehouses, err := provider.Warehouses(ctx, creds)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Marketplace: creds.Marketplace.String(), Fetched: len(warehouses)}
	for _, w := range warehouses {
		existing, err := s.dictionaries.FindByExternalID(ctx, creds.Marketplace, marketplace.DictionaryKindDictionaryValue, "warehouse:"+w.ExternalID)
		switch {
		case err == nil:
			if existing.Name == w.Name {
				report.Skipped++
				continue
			}
			existing.Name = w.Name
			existing.Touch()
			if err := s.dictionaries.Save(ctx, existing); err != nil {
				report.Failed++
				continue
			}
			report.Updated++

		case isNotFound(err):
			entry, err := marketplace.NewDictionary(creds.Marketplace, marketplace.DictionaryKindDictionaryValue, "warehouse:"+w.ExternalID, w.Name)
			if err != nil {
				report.Failed++
				continue
			}
			entry.Payload = map[string]any{"is_fbs": w.IsFBS}
			if err := s.dictionaries.Save(ctx, entry); err != nil {
				report.Failed++
				continue
			}
			report.Created++

		default:
			report.Failed++
		}
	}
	return report, nil
}

// findParent locates a parent entry, trying the same kind first and
// falling back to the category tree which parents most taxonomies.
func (s *DictionaryService) findParent(ctx context.Context, code marketplace.Code, kind marketplace.DictionaryKind, externalID string) (*marketplace.Dictionary, error) {
	entry, err := s.dictionaries.FindByExternalID(ctx, code, kind, externalID)
	if err == nil {
		return entry, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return s.dictionaries.FindByExternalID(ctx, code, marketplace.DictionaryKindCategory, externalID)
}

func parentKey(kind marketplace.DictionaryKind, externalID string) string {
	return string(kind) + ":" + externalID
}
