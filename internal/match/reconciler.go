package match

import "github.com/reachly/leadmatch/internal/model"

// BuyerMatch is one buyer a vendor is currently eligible to serve, annotated
// with the vendor's recorded decision.
type BuyerMatch struct {
	Buyer        model.Buyer       `json:"buyer"`
	MatchReasons []string          `json:"matchReasons"`
	Status       model.MatchStatus `json:"status"`
}

// VendorMatch is one vendor a buyer is currently eligible to hire.
type VendorMatch struct {
	Vendor       model.Vendor `json:"vendor"`
	MatchReasons []string     `json:"matchReasons"`
}

// ForVendor computes the vendor-facing match list: every buyer that matches
// under the accepted-relationship override, annotated with the recorded
// status (absence of a record reads as pending). All computed matches are
// included regardless of status; the vendor sees what it has rejected.
func ForVendor(vendor *model.Vendor, buyers []model.Buyer) []BuyerMatch {
	var matches []BuyerMatch
	for i := range buyers {
		buyer := &buyers[i]
		result := EvaluateForVendor(vendor, buyer)
		if !result.IsMatch {
			continue
		}
		matches = append(matches, BuyerMatch{
			Buyer:        *buyer,
			MatchReasons: result.Reasons,
			Status:       vendor.StatusFor(buyer.Email),
		})
	}
	return matches
}

// ForBuyer computes the buyer-facing match list: every vendor that matches on
// current attributes, excluding vendors that have rejected this buyer. The
// accepted-service override does not apply here; the buyer's own inactive
// services never attract new vendors.
func ForBuyer(buyer *model.Buyer, vendors []model.Vendor) []VendorMatch {
	var matches []VendorMatch
	for i := range vendors {
		vendor := &vendors[i]
		result := Evaluate(vendor, buyer)
		if !result.IsMatch {
			continue
		}
		if rec := vendor.MatchRecordFor(buyer.Email); rec != nil && rec.Status == model.StatusRejected {
			continue
		}
		matches = append(matches, VendorMatch{
			Vendor:       *vendor,
			MatchReasons: result.Reasons,
		})
	}
	return matches
}
