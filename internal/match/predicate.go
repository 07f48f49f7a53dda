// Package match implements the eligibility predicate, the status
// reconciliation views, and the aggregate marketplace reports. Everything in
// this package is a pure computation over model values; persisted match
// records contribute status annotations only, never the eligibility decision
// itself.
package match

import (
	"strings"

	"github.com/reachly/leadmatch/internal/model"
)

// Result is the outcome of evaluating a single vendor/buyer pair.
type Result struct {
	Reasons []string
	IsMatch bool
}

// Evaluate reports whether the vendor and buyer match on their current
// attributes. A match requires at least one shared industry and at least one
// active buyer service the vendor offers; industry overlap alone is not
// enough. Reasons lists the industry overlap and the service overlap, in
// that order.
func Evaluate(vendor *model.Vendor, buyer *model.Buyer) Result {
	return evaluate(vendor, buyer, false)
}

// EvaluateForVendor is Evaluate with the accepted-relationship override: when
// the vendor already holds an accepted record for the buyer, the buyer's
// inactive services still count. An accepted relationship must not silently
// lose visibility of services the buyer later deactivates.
func EvaluateForVendor(vendor *model.Vendor, buyer *model.Buyer) Result {
	return evaluate(vendor, buyer, vendor.HasAccepted(buyer.Email))
}

func evaluate(vendor *model.Vendor, buyer *model.Buyer, includeInactive bool) Result {
	industries := industryOverlap(vendor, buyer)
	if len(industries) == 0 {
		return Result{}
	}

	services := serviceOverlap(vendor, buyer, includeInactive)
	if len(services) == 0 {
		return Result{}
	}

	return Result{
		IsMatch: true,
		Reasons: []string{
			"industryMatch: " + strings.Join(industries, ", "),
			"serviceMatch: " + strings.Join(services, ", "),
		},
	}
}

// industryOverlap preserves the vendor's industry order.
func industryOverlap(vendor *model.Vendor, buyer *model.Buyer) []string {
	wanted := make(map[string]struct{}, len(buyer.Industries))
	for _, industry := range buyer.Industries {
		wanted[industry] = struct{}{}
	}

	var overlap []string
	for _, industry := range vendor.SelectedIndustries {
		if _, ok := wanted[industry]; ok {
			overlap = append(overlap, industry)
		}
	}
	return overlap
}

// serviceOverlap preserves the buyer's service order.
func serviceOverlap(vendor *model.Vendor, buyer *model.Buyer, includeInactive bool) []string {
	offered := make(map[string]struct{}, len(vendor.SelectedServices))
	for _, svc := range vendor.SelectedServices {
		offered[svc] = struct{}{}
	}

	var overlap []string
	for _, req := range buyer.Services {
		if _, ok := offered[req.Service]; !ok {
			continue
		}
		if !req.Active && !includeInactive {
			continue
		}
		overlap = append(overlap, req.Service)
	}
	return overlap
}
