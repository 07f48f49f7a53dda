package storage

import (
	"context"
	"testing"

	"github.com/reachly/leadmatch/internal/common"
	"github.com/reachly/leadmatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	vendor := testVendor("vendor@example.com")
	require.NoError(t, store.CreateVendor(ctx, vendor))

	got, err := store.GetVendor(ctx, "vendor@example.com")
	require.NoError(t, err)
	assert.Equal(t, vendor.CompanyName, got.CompanyName)
	assert.Equal(t, vendor.SelectedIndustries, got.SelectedIndustries)
	assert.Equal(t, vendor.SelectedServices, got.SelectedServices)
	assert.Equal(t, 0, got.Leads)
	assert.True(t, got.Active)
	assert.Empty(t, got.MatchedBuyers)

	_, err = store.GetVendor(ctx, "missing@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateVendor_DoesNotTouchLedger(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	vendor := testVendor("vendor@example.com")
	require.NoError(t, store.CreateVendor(ctx, vendor))
	_, err := store.AddLeads(ctx, vendor.Email, 3)
	require.NoError(t, err)

	vendor.CompanyName = "Acme Rebranded"
	vendor.SelectedIndustries = []string{"Healthcare"}
	vendor.Leads = 99 // must be ignored by profile updates
	require.NoError(t, store.UpdateVendor(ctx, vendor))

	got, err := store.GetVendor(ctx, vendor.Email)
	require.NoError(t, err)
	assert.Equal(t, "Acme Rebranded", got.CompanyName)
	assert.Equal(t, []string{"Healthcare"}, got.SelectedIndustries)
	assert.Equal(t, 3, got.Leads)
}

func TestAddLeadsAndGetLeads(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("vendor@example.com")))

	balance, err := store.AddLeads(ctx, "vendor@example.com", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, balance)

	balance, err = store.AddLeads(ctx, "vendor@example.com", 2)
	require.NoError(t, err)
	assert.Equal(t, 7, balance)

	balance, err = store.GetLeads(ctx, "vendor@example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, balance)

	_, err = store.AddLeads(ctx, "vendor@example.com", -1)
	assert.ErrorIs(t, err, ErrNegativeCount)

	_, err = store.AddLeads(ctx, "missing@example.com", 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func acceptedRecord(buyerEmail string) model.MatchRecord {
	return model.MatchRecord{
		BuyerEmail:  buyerEmail,
		BuyerName:   "Grace Hopper",
		CompanyName: "Northwind",
		Status:      model.StatusAccepted,
	}
}

func TestAcceptMatch(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("vendor@example.com")))
	_, err := store.AddLeads(ctx, "vendor@example.com", 2)
	require.NoError(t, err)

	remaining, err := store.AcceptMatch(ctx, "vendor@example.com", acceptedRecord("buyer@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	vendor, err := store.GetVendor(ctx, "vendor@example.com")
	require.NoError(t, err)
	require.Len(t, vendor.MatchedBuyers, 1)
	assert.Equal(t, model.StatusAccepted, vendor.MatchedBuyers[0].Status)
	assert.Equal(t, "Grace Hopper", vendor.MatchedBuyers[0].BuyerName)
}

func TestAcceptMatch_AlreadyAccepted(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("vendor@example.com")))
	_, err := store.AddLeads(ctx, "vendor@example.com", 2)
	require.NoError(t, err)

	_, err = store.AcceptMatch(ctx, "vendor@example.com", acceptedRecord("buyer@example.com"))
	require.NoError(t, err)

	// The repeat accept fails and deducts nothing.
	_, err = store.AcceptMatch(ctx, "vendor@example.com", acceptedRecord("buyer@example.com"))
	assert.ErrorIs(t, err, common.ErrAlreadyAccepted)

	balance, err := store.GetLeads(ctx, "vendor@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, balance)
}

func TestAcceptMatch_InsufficientLeads(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("vendor@example.com")))

	_, err := store.AcceptMatch(ctx, "vendor@example.com", acceptedRecord("buyer@example.com"))
	assert.ErrorIs(t, err, common.ErrInsufficientLeads)

	// The failed transition wrote no record.
	vendor, err := store.GetVendor(ctx, "vendor@example.com")
	require.NoError(t, err)
	assert.Empty(t, vendor.MatchedBuyers)
	assert.Equal(t, 0, vendor.Leads)
}

func TestAcceptMatch_ReacceptAfterRejection(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("vendor@example.com")))
	_, err := store.AddLeads(ctx, "vendor@example.com", 2)
	require.NoError(t, err)

	_, err = store.AcceptMatch(ctx, "vendor@example.com", acceptedRecord("buyer@example.com"))
	require.NoError(t, err)

	rejected := acceptedRecord("buyer@example.com")
	rejected.Status = model.StatusRejected
	require.NoError(t, store.SetMatchRecord(ctx, "vendor@example.com", rejected))

	// rejected -> accepted costs a second lead; that pair's earlier accept
	// no longer guards it.
	remaining, err := store.AcceptMatch(ctx, "vendor@example.com", acceptedRecord("buyer@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestSetMatchRecord(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("vendor@example.com")))

	record := model.MatchRecord{
		BuyerEmail:  "buyer@example.com",
		BuyerName:   "Grace Hopper",
		CompanyName: "Northwind",
		Status:      model.StatusRejected,
	}
	require.NoError(t, store.SetMatchRecord(ctx, "vendor@example.com", record))

	// A later transition keeps the original snapshot fields.
	record.BuyerName = "Renamed Buyer"
	record.Status = model.StatusPending
	require.NoError(t, store.SetMatchRecord(ctx, "vendor@example.com", record))

	vendor, err := store.GetVendor(ctx, "vendor@example.com")
	require.NoError(t, err)
	require.Len(t, vendor.MatchedBuyers, 1)
	assert.Equal(t, model.StatusPending, vendor.MatchedBuyers[0].Status)
	assert.Equal(t, "Grace Hopper", vendor.MatchedBuyers[0].BuyerName)
}

func TestSetMatchRecord_RejectsAcceptedStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("vendor@example.com")))

	err := store.SetMatchRecord(ctx, "vendor@example.com", acceptedRecord("buyer@example.com"))
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestGetAllVendors(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateVendor(ctx, testVendor("a@example.com")))
	require.NoError(t, store.CreateVendor(ctx, testVendor("b@example.com")))

	rejected := model.MatchRecord{BuyerEmail: "buyer@example.com", Status: model.StatusRejected}
	require.NoError(t, store.SetMatchRecord(ctx, "b@example.com", rejected))

	vendors, err := store.GetAllVendors(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 2)

	byEmail := map[string]model.Vendor{}
	for _, v := range vendors {
		byEmail[v.Email] = v
	}
	assert.Empty(t, byEmail["a@example.com"].MatchedBuyers)
	require.Len(t, byEmail["b@example.com"].MatchedBuyers, 1)
	assert.Equal(t, model.StatusRejected, byEmail["b@example.com"].MatchedBuyers[0].Status)
}
