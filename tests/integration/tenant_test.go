package integration

import (
	"context"
	"testing"

	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/atelierhq/atelier-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewTenantService(tdb.DB)
	ctx := context.Background()

	t.Run("create and resolve by domain", func(t *testing.T) {
		tdb.CleanTables(t)

		tenant, err := svc.Create(ctx, services.CreateTenantParams{
			Name:          "River House",
			Slug:          "river-house",
			Domains:       []string{"riverhouse.com", "www.riverhouse.com"},
			PrimaryDomain: "riverhouse.com",
			ContactEmail:  "owner@riverhouse.com",
		})
		require.NoError(t, err)
		assert.True(t, tenant.IsActive)

		found, err := svc.GetByDomain(ctx, "www.riverhouse.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, tenant.ID, found.ID)

		// Dev servers send the port along with the host.
		found, err = svc.GetByDomain(ctx, "riverhouse.com:8443")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, tenant.ID, found.ID)
	})

	t.Run("inactive tenant does not resolve", func(t *testing.T) {
		tdb.CleanTables(t)
		fixtures := testutil.NewFixtures(tdb.DB)

		tenant := fixtures.CreateTenant(t, testutil.WithDomains("dormant.example.com"), testutil.Inactive())

		found, err := svc.GetByDomain(ctx, "dormant.example.com")
		require.NoError(t, err)
		assert.Nil(t, found)

		byID, err := svc.GetByID(ctx, tenant.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.False(t, byID.IsActive)
	})

	t.Run("slug availability", func(t *testing.T) {
		tdb.CleanTables(t)
		fixtures := testutil.NewFixtures(tdb.DB)

		tenant := fixtures.CreateTenant(t, testutil.WithSlug("oak-lane"))

		available, err := svc.IsSlugAvailable(ctx, "oak-lane", nil)
		require.NoError(t, err)
		assert.False(t, available)

		// A tenant never conflicts with its own slug while being edited.
		available, err = svc.IsSlugAvailable(ctx, "oak-lane", &tenant.ID)
		require.NoError(t, err)
		assert.True(t, available)

		available, err = svc.IsSlugAvailable(ctx, "maple-row", nil)
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("domain availability", func(t *testing.T) {
		tdb.CleanTables(t)
		fixtures := testutil.NewFixtures(tdb.DB)

		fixtures.CreateTenant(t, testutil.WithDomains("taken.example.com", "alias.example.com"))

		available, err := svc.IsDomainAvailable(ctx, "alias.example.com", nil)
		require.NoError(t, err)
		assert.False(t, available)

		available, err = svc.IsDomainAvailable(ctx, "free.example.com", nil)
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("unique slug enforced by storage", func(t *testing.T) {
		tdb.CleanTables(t)
		fixtures := testutil.NewFixtures(tdb.DB)

		fixtures.CreateTenant(t, testutil.WithSlug("dup-slug"))

		_, err := svc.Create(ctx, services.CreateTenantParams{
			Name:          "Duplicate",
			Slug:          "dup-slug",
			Domains:       []string{"dup.example.com"},
			PrimaryDomain: "dup.example.com",
			ContactEmail:  "dup@example.com",
		})
		assert.Error(t, err)
	})

	t.Run("partial update", func(t *testing.T) {
		tdb.CleanTables(t)
		fixtures := testutil.NewFixtures(tdb.DB)

		tenant := fixtures.CreateTenant(t)
		name := "Renamed Studio"
		active := false

		updated, err := svc.Update(ctx, tenant.ID, services.UpdateTenantParams{
			Name:     &name,
			IsActive: &active,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, name, updated.Name)
		assert.False(t, updated.IsActive)
		assert.Equal(t, tenant.Slug, updated.Slug)
	})

	t.Run("delete", func(t *testing.T) {
		tdb.CleanTables(t)
		fixtures := testutil.NewFixtures(tdb.DB)

		tenant := fixtures.CreateTenant(t)

		deleted, err := svc.Delete(ctx, tenant.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		found, err := svc.GetByID(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		deleted, err = svc.Delete(ctx, tenant.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
