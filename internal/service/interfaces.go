// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/reachly/leadmatch/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Identity registry. Emails are unique across both roles; GetRole
	// returns common.ErrNotFound for an unclaimed email.
	GetRole(ctx context.Context, email string) (model.Role, error)

	// Vendor operations
	CreateVendor(ctx context.Context, vendor *model.Vendor) error
	GetVendor(ctx context.Context, email string) (*model.Vendor, error)
	UpdateVendor(ctx context.Context, vendor *model.Vendor) error
	GetAllVendors(ctx context.Context) ([]model.Vendor, error)

	// Lead ledger
	AddLeads(ctx context.Context, email string, count int) (int, error)
	GetLeads(ctx context.Context, email string) (int, error)

	// Match records. SetMatchRecord upserts a pending/rejected decision;
	// AcceptMatch performs the guarded transition into accepted, decrementing
	// the lead balance atomically, and returns the remaining balance.
	SetMatchRecord(ctx context.Context, vendorEmail string, record model.MatchRecord) error
	AcceptMatch(ctx context.Context, vendorEmail string, record model.MatchRecord) (int, error)

	// Buyer operations
	CreateBuyer(ctx context.Context, buyer *model.Buyer) error
	GetBuyer(ctx context.Context, email string) (*model.Buyer, error)
	UpdateBuyer(ctx context.Context, buyer *model.Buyer) error
	GetAllBuyers(ctx context.Context) ([]model.Buyer, error)
	ReplaceBuyerServices(ctx context.Context, email string, services []model.ServiceRequest) (*model.Buyer, error)
	SetServiceActive(ctx context.Context, email, serviceID string, active bool) (*model.ServiceRequest, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Sender delivers outbound notification email. Implementations must treat
// delivery as best-effort: callers log failures and never roll back the
// mutation that triggered the notification.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// VendorPatch carries partial updates to a vendor profile. Nil fields are
// left unchanged. The lead balance and match records are never patched here;
// they move only through the ledger and status-transition paths.
type VendorPatch struct {
	CompanyName        *string   `json:"companyName"`
	FirstName          *string   `json:"firstName"`
	LastName           *string   `json:"lastName"`
	Phone              *string   `json:"phone"`
	CompanyWebsite     *string   `json:"companyWebsite"`
	AdditionalInfo     *string   `json:"additionalInfo"`
	MinimumBudget      *float64  `json:"minimumBudget"`
	SelectedIndustries *[]string `json:"selectedIndustries"`
	SelectedServices   *[]string `json:"selectedServices"`
	Active             *bool     `json:"active"`
}

// BuyerPatch carries partial updates to a buyer profile. The service list is
// not patched here; it moves through ReplaceBuyerServices and
// SetServiceActive.
type BuyerPatch struct {
	CompanyName *string   `json:"companyName"`
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	Phone       *string   `json:"phone"`
	Industries  *[]string `json:"industries"`
	Active      *bool     `json:"active"`
}
