package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

func TestGormIntegrationRepository_FindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormIntegrationRepository(db)
	ctx := context.Background()

	active, err := marketplace.NewIntegration(uuid.New(), marketplace.CodeOzon)
	require.NoError(t, err)
	active.UpdateSettings(marketplace.Settings{
		ClientID: "c-1",
		APIKey:   "key-1",
		Import:   marketplace.ImportSettings{Enabled: true, ImportOrders: true},
	})
	active.Publish()
	require.NoError(t, repo.Save(ctx, active))

	draft, err := marketplace.NewIntegration(uuid.New(), marketplace.CodeWildberries)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, draft))

	t.Run("filters by published", func(t *testing.T) {
		published := true
		found, err := repo.FindActive(ctx, marketplace.IntegrationFilter{Published: &published})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, active.ID, found[0].ID)
		assert.Equal(t, "key-1", found[0].Settings.APIKey)
	})

	t.Run("filters by import toggle", func(t *testing.T) {
		importOn := true
		found, err := repo.FindActive(ctx, marketplace.IntegrationFilter{ImportOn: &importOn})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, active.ID, found[0].ID)
	})

	t.Run("second integration for the same slot collides", func(t *testing.T) {
		dupe, err := marketplace.NewIntegration(active.TenantID, marketplace.CodeOzon)
		require.NoError(t, err)
		err = repo.Save(ctx, dupe)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_UNIQUE", domainErr.Code)
	})
}

func TestGormListingRepository_OwnerLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	ownerID := uuid.New()

	listing := marketplace.NewListing(tenantID, marketplace.CodeOzon, catalog.OwnerTypeVariation, ownerID)
	listing.MarkPending("task-9")
	require.NoError(t, repo.Save(ctx, listing))

	t.Run("finds by owner", func(t *testing.T) {
		found, err := repo.FindByOwner(ctx, tenantID, marketplace.CodeOzon, catalog.OwnerTypeVariation, ownerID)
		require.NoError(t, err)
		assert.Equal(t, marketplace.ListingStatePending, found.State)
		assert.Equal(t, "task-9", found.TaskID)
	})

	t.Run("finds by state after batch update", func(t *testing.T) {
		listing.MarkSuccess("ext-77")
		other := marketplace.NewListing(tenantID, marketplace.CodeOzon, catalog.OwnerTypeVariation, uuid.New())
		other.MarkError("mandatory attribute missing")
		require.NoError(t, repo.SaveBatch(ctx, []*marketplace.Listing{listing, other}))

		failed, err := repo.FindByState(ctx, tenantID, marketplace.CodeOzon, marketplace.ListingStateError)
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, "mandatory attribute missing", failed[0].LastError)

		succeeded, err := repo.FindByState(ctx, tenantID, marketplace.CodeOzon, marketplace.ListingStateSuccess)
		require.NoError(t, err)
		require.Len(t, succeeded, 1)
		assert.Equal(t, "ext-77", succeeded[0].ExternalID)
	})

	t.Run("delete by owner", func(t *testing.T) {
		require.NoError(t, repo.DeleteByOwner(ctx, tenantID, catalog.OwnerTypeVariation, ownerID))
		_, err := repo.FindByOwner(ctx, tenantID, marketplace.CodeOzon, catalog.OwnerTypeVariation, ownerID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDictionaryRepository_SaveBatchUpserts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDictionaryRepository(db)
	ctx := context.Background()

	parent, err := marketplace.NewDictionary(marketplace.CodeOzon, marketplace.DictionaryKindCategory, "cat-1", "Kitchen")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, parent))

	attr, err := marketplace.NewDictionary(marketplace.CodeOzon, marketplace.DictionaryKindAttribute, "attr-1", "Color")
	require.NoError(t, err)
	attr.ParentID = &parent.ID
	attr.Payload = map[string]any{"is_required": true}
	require.NoError(t, repo.SaveBatch(ctx, []*marketplace.Dictionary{attr}))

	t.Run("round trips payload and hierarchy", func(t *testing.T) {
		found, err := repo.FindByExternalID(ctx, marketplace.CodeOzon, marketplace.DictionaryKindAttribute, "attr-1")
		require.NoError(t, err)
		assert.Equal(t, "Color", found.Name)
		require.NotNil(t, found.ParentID)
		assert.Equal(t, parent.ID, *found.ParentID)
		assert.Equal(t, true, found.Payload["is_required"])

		children, err := repo.FindChildren(ctx, parent.ID)
		require.NoError(t, err)
		assert.Len(t, children, 1)
	})

	t.Run("re-sync with same external ID updates in place", func(t *testing.T) {
		renamed, err := marketplace.NewDictionary(marketplace.CodeOzon, marketplace.DictionaryKindAttribute, "attr-1", "Colour")
		require.NoError(t, err)
		require.NoError(t, repo.SaveBatch(ctx, []*marketplace.Dictionary{renamed}))

		entries, err := repo.FindByKind(ctx, marketplace.CodeOzon, marketplace.DictionaryKindAttribute)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Colour", entries[0].Name)
	})

	t.Run("entries are scoped by marketplace", func(t *testing.T) {
		_, err := repo.FindByExternalID(ctx, marketplace.CodeWildberries, marketplace.DictionaryKindAttribute, "attr-1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
