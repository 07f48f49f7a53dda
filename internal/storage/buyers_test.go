package storage

import (
	"context"
	"testing"

	"github.com/reachly/leadmatch/internal/common"
	"github.com/reachly/leadmatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyerRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	buyer := testBuyer("buyer@example.com")
	require.NoError(t, store.CreateBuyer(ctx, buyer))

	got, err := store.GetBuyer(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, buyer.CompanyName, got.CompanyName)
	assert.Equal(t, buyer.Industries, got.Industries)
	require.Len(t, got.Services, 2)
	// Submission order survives the round trip.
	assert.Equal(t, "Marketing", got.Services[0].Service)
	assert.True(t, got.Services[0].Active)
	assert.Equal(t, "SEO", got.Services[1].Service)
	assert.False(t, got.Services[1].Active)

	_, err = store.GetBuyer(ctx, "missing@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateBuyer(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	buyer := testBuyer("buyer@example.com")
	require.NoError(t, store.CreateBuyer(ctx, buyer))

	buyer.CompanyName = "Northwind Global"
	buyer.Industries = []string{"SaaS", "Retail"}
	buyer.Active = false
	require.NoError(t, store.UpdateBuyer(ctx, buyer))

	got, err := store.GetBuyer(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Northwind Global", got.CompanyName)
	assert.Equal(t, []string{"SaaS", "Retail"}, got.Industries)
	assert.False(t, got.Active)
	// Profile updates leave the service list alone.
	assert.Len(t, got.Services, 2)

	missing := testBuyer("missing@example.com")
	assert.ErrorIs(t, store.UpdateBuyer(ctx, missing), common.ErrNotFound)
}

func TestReplaceBuyerServices(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateBuyer(ctx, testBuyer("buyer@example.com")))

	replacement := []model.ServiceRequest{
		{ID: "svc-3", Service: "Design", Timeframe: "ASAP", Budget: "$10k+", Active: true},
	}
	buyer, err := store.ReplaceBuyerServices(ctx, "buyer@example.com", replacement)
	require.NoError(t, err)
	require.Len(t, buyer.Services, 1)
	assert.Equal(t, "Design", buyer.Services[0].Service)

	_, err = store.ReplaceBuyerServices(ctx, "missing@example.com", replacement)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetServiceActive(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateBuyer(ctx, testBuyer("buyer@example.com")))

	svc, err := store.SetServiceActive(ctx, "buyer@example.com", "svc-1", false)
	require.NoError(t, err)
	assert.False(t, svc.Active)
	assert.Equal(t, "Marketing", svc.Service)

	svc, err = store.SetServiceActive(ctx, "buyer@example.com", "svc-2", true)
	require.NoError(t, err)
	assert.True(t, svc.Active)

	_, err = store.SetServiceActive(ctx, "buyer@example.com", "svc-404", true)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// A service id scoped to another buyer is not reachable.
	other := testBuyer("other@example.com")
	other.Services = []model.ServiceRequest{{ID: "svc-9", Service: "Legal", Timeframe: "ASAP", Budget: "$1k", Active: true}}
	require.NoError(t, store.CreateBuyer(ctx, other))
	_, err = store.SetServiceActive(ctx, "buyer@example.com", "svc-9", false)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetAllBuyers(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateBuyer(ctx, testBuyer("a@example.com")))
	b := testBuyer("b@example.com")
	b.Services = nil
	require.NoError(t, store.CreateBuyer(ctx, b))

	buyers, err := store.GetAllBuyers(ctx)
	require.NoError(t, err)
	require.Len(t, buyers, 2)

	byEmail := map[string]model.Buyer{}
	for _, buyer := range buyers {
		byEmail[buyer.Email] = buyer
	}
	assert.Len(t, byEmail["a@example.com"].Services, 2)
	assert.Empty(t, byEmail["b@example.com"].Services)
}
