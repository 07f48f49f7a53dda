package match

import (
	"testing"

	"github.com/reachly/leadmatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeBuyer(email, industry, service string) model.Buyer {
	return model.Buyer{
		Email:      email,
		Industries: []string{industry},
		Services:   []model.ServiceRequest{{Service: service, Active: true}},
		Active:     true,
	}
}

func saasVendor(email string, records ...model.MatchRecord) model.Vendor {
	return model.Vendor{
		Email:              email,
		SelectedIndustries: []string{"SaaS"},
		SelectedServices:   []string{"Marketing"},
		MatchedBuyers:      records,
		Active:             true,
	}
}

func TestForVendor(t *testing.T) {
	vendor := saasVendor("vendor@example.com",
		model.MatchRecord{BuyerEmail: "accepted@example.com", Status: model.StatusAccepted},
		model.MatchRecord{BuyerEmail: "rejected@example.com", Status: model.StatusRejected},
	)

	buyers := []model.Buyer{
		activeBuyer("pending@example.com", "SaaS", "Marketing"),
		activeBuyer("accepted@example.com", "SaaS", "Marketing"),
		activeBuyer("rejected@example.com", "SaaS", "Marketing"),
		activeBuyer("elsewhere@example.com", "Retail", "Marketing"),
	}

	matches := ForVendor(&vendor, buyers)
	require.Len(t, matches, 3, "all statuses stay visible to the vendor")

	statuses := make(map[string]model.MatchStatus, len(matches))
	for _, m := range matches {
		statuses[m.Buyer.Email] = m.Status
	}
	assert.Equal(t, model.StatusPending, statuses["pending@example.com"])
	assert.Equal(t, model.StatusAccepted, statuses["accepted@example.com"])
	assert.Equal(t, model.StatusRejected, statuses["rejected@example.com"])
}

func TestForVendor_AcceptedKeepsInactiveServiceVisible(t *testing.T) {
	vendor := saasVendor("vendor@example.com",
		model.MatchRecord{BuyerEmail: "buyer@example.com", Status: model.StatusAccepted},
	)

	buyer := activeBuyer("buyer@example.com", "SaaS", "Marketing")
	buyer.Services[0].Active = false

	matches := ForVendor(&vendor, []model.Buyer{buyer})
	require.Len(t, matches, 1)
	assert.Equal(t, model.StatusAccepted, matches[0].Status)
}

func TestForBuyer_ExcludesRejectingVendors(t *testing.T) {
	buyer := activeBuyer("buyer@example.com", "SaaS", "Marketing")

	vendors := []model.Vendor{
		saasVendor("open@example.com"),
		saasVendor("rejecting@example.com",
			model.MatchRecord{BuyerEmail: "buyer@example.com", Status: model.StatusRejected}),
		saasVendor("accepting@example.com",
			model.MatchRecord{BuyerEmail: "buyer@example.com", Status: model.StatusAccepted}),
	}

	matches := ForBuyer(&buyer, vendors)
	require.Len(t, matches, 2)

	emails := []string{matches[0].Vendor.Email, matches[1].Vendor.Email}
	assert.Contains(t, emails, "open@example.com")
	assert.Contains(t, emails, "accepting@example.com")
	assert.NotContains(t, emails, "rejecting@example.com")
}

func TestForBuyer_NoOverrideForInactiveServices(t *testing.T) {
	// Even an accepting vendor does not appear once the buyer's only matching
	// service is inactive: the override is a vendor-facing rule.
	buyer := activeBuyer("buyer@example.com", "SaaS", "Marketing")
	buyer.Services[0].Active = false

	vendors := []model.Vendor{
		saasVendor("accepting@example.com",
			model.MatchRecord{BuyerEmail: "buyer@example.com", Status: model.StatusAccepted}),
	}

	assert.Empty(t, ForBuyer(&buyer, vendors))
}
