package engine

import (
	"context"

	"github.com/reachly/leadmatch/internal/match"
	"github.com/reachly/leadmatch/internal/model"
)

// GetVendor returns one vendor profile with its match records.
func (e *MatchEngine) GetVendor(ctx context.Context, vendorEmail string) (*model.Vendor, error) {
	return e.storage.GetVendor(ctx, vendorEmail)
}

// GetBuyer returns one buyer profile with its service requests.
func (e *MatchEngine) GetBuyer(ctx context.Context, buyerEmail string) (*model.Buyer, error) {
	return e.storage.GetBuyer(ctx, buyerEmail)
}

// VendorMatches computes the vendor's current buyer list. Eligibility runs
// under the accepted-relationship override and every match is annotated with
// the vendor's recorded status.
func (e *MatchEngine) VendorMatches(ctx context.Context, vendorEmail string) ([]match.BuyerMatch, error) {
	vendor, err := e.storage.GetVendor(ctx, vendorEmail)
	if err != nil {
		return nil, err
	}
	buyers, err := e.storage.GetAllBuyers(ctx)
	if err != nil {
		return nil, err
	}
	return match.ForVendor(vendor, buyers), nil
}

// BuyerMatches computes the buyer's current vendor list, excluding vendors
// that have rejected this buyer.
func (e *MatchEngine) BuyerMatches(ctx context.Context, buyerEmail string) ([]match.VendorMatch, error) {
	buyer, err := e.storage.GetBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}
	vendors, err := e.storage.GetAllVendors(ctx)
	if err != nil {
		return nil, err
	}
	return match.ForBuyer(buyer, vendors), nil
}

// Report builds the administrative matched/unmatched view over the whole
// dataset.
func (e *MatchEngine) Report(ctx context.Context) (*match.GlobalReport, error) {
	vendors, buyers, err := e.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	report := match.Global(vendors, buyers)
	return &report, nil
}

// ListVendors returns every vendor with per-vendor match stats and eligible
// buyers.
func (e *MatchEngine) ListVendors(ctx context.Context) ([]match.VendorSummary, error) {
	vendors, buyers, err := e.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return match.VendorSummaries(vendors, buyers), nil
}

// ListBuyers returns every buyer with the vendors that have recorded a
// decision about them.
func (e *MatchEngine) ListBuyers(ctx context.Context) ([]match.BuyerSummary, error) {
	vendors, buyers, err := e.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return match.BuyerSummaries(buyers, vendors), nil
}

func (e *MatchEngine) loadAll(ctx context.Context) ([]model.Vendor, []model.Buyer, error) {
	vendors, err := e.storage.GetAllVendors(ctx)
	if err != nil {
		return nil, nil, err
	}
	buyers, err := e.storage.GetAllBuyers(ctx)
	if err != nil {
		return nil, nil, err
	}
	return vendors, buyers, nil
}
