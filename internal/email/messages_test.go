package email

import (
	"testing"

	"github.com/reachly/leadmatch/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestVendorWelcome(t *testing.T) {
	vendor := &model.Vendor{
		Email:     "  vendor@example.com ",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}

	msg := VendorWelcome(vendor)
	assert.Equal(t, "vendor@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Vendor Dashboard")
	assert.Contains(t, msg.Body, "Dear Ada Lovelace,")
}

func TestAdminNewBuyer(t *testing.T) {
	buyer := &model.Buyer{
		Email:       "buyer@example.com",
		FirstName:   "Grace",
		LastName:    "Hopper",
		CompanyName: "Northwind",
	}

	msg := AdminNewBuyer("admin@example.com", buyer)
	assert.Equal(t, "admin@example.com", msg.To)
	assert.Contains(t, msg.Body, "Grace Hopper")
	assert.Contains(t, msg.Body, "Northwind")
}

func TestLeadsLow(t *testing.T) {
	vendor := &model.Vendor{Email: "vendor@example.com", FirstName: "Ada", LastName: "Lovelace", Leads: 1}

	msg := LeadsLow(vendor)
	assert.Equal(t, "Low Leads Balance Alert", msg.Subject)
	assert.Contains(t, msg.Body, "balance is now at 1")
}

func TestAccountStatusChanged(t *testing.T) {
	deactivated := AccountStatusChanged("vendor@example.com", "Ada Lovelace", false)
	assert.Contains(t, deactivated.Body, "deactivated")

	reactivated := AccountStatusChanged("vendor@example.com", "Ada Lovelace", true)
	assert.Contains(t, reactivated.Body, "reactivated")
}
