package match

import "github.com/reachly/leadmatch/internal/model"

// BuyerPairing is one eligible buyer inside the global report. Unlike
// BuyerMatch it carries no status: the report answers "who is eligible right
// now", not "who has an active relationship".
type BuyerPairing struct {
	Buyer        model.Buyer `json:"buyer"`
	MatchReasons []string    `json:"matchReasons"`
}

// MatchedVendor groups a vendor with every buyer it currently matches.
type MatchedVendor struct {
	Vendor        model.Vendor   `json:"vendor"`
	MatchedBuyers []BuyerPairing `json:"matchedBuyers"`
}

// MatchedBuyer groups a buyer with every vendor it currently matches.
type MatchedBuyer struct {
	Buyer          model.Buyer   `json:"buyer"`
	MatchedVendors []VendorMatch `json:"matchedVendors"`
}

// VendorReport is the vendor side of the global report.
type VendorReport struct {
	Matched         []MatchedVendor `json:"matched"`
	NotMatched      []model.Vendor  `json:"notMatched"`
	TotalMatches    int             `json:"totalMatches"`
	TotalNotMatched int             `json:"totalNotMatched"`
}

// BuyerReport is the buyer side of the global report.
type BuyerReport struct {
	Matched         []MatchedBuyer `json:"matched"`
	NotMatched      []model.Buyer  `json:"notMatched"`
	TotalMatches    int            `json:"totalMatches"`
	TotalNotMatched int            `json:"totalNotMatched"`
}

// GlobalReport summarizes both sides of the marketplace.
type GlobalReport struct {
	Buyer  BuyerReport  `json:"buyer"`
	Vendor VendorReport `json:"vendor"`
}

// Global builds the administrative matched/unmatched view across the whole
// dataset. It evaluates the strict predicate only: no rejected-exclusion and
// no accepted-service override, since no per-vendor relationship context
// applies to a global eligibility pass.
func Global(vendors []model.Vendor, buyers []model.Buyer) GlobalReport {
	var report GlobalReport

	for i := range vendors {
		vendor := &vendors[i]
		var paired []BuyerPairing
		for j := range buyers {
			buyer := &buyers[j]
			if result := Evaluate(vendor, buyer); result.IsMatch {
				paired = append(paired, BuyerPairing{Buyer: *buyer, MatchReasons: result.Reasons})
			}
		}
		if len(paired) > 0 {
			report.Vendor.Matched = append(report.Vendor.Matched, MatchedVendor{Vendor: *vendor, MatchedBuyers: paired})
			report.Vendor.TotalMatches++
		} else {
			report.Vendor.NotMatched = append(report.Vendor.NotMatched, *vendor)
			report.Vendor.TotalNotMatched++
		}
	}

	for i := range buyers {
		buyer := &buyers[i]
		var paired []VendorMatch
		for j := range vendors {
			vendor := &vendors[j]
			if result := Evaluate(vendor, buyer); result.IsMatch {
				paired = append(paired, VendorMatch{Vendor: *vendor, MatchReasons: result.Reasons})
			}
		}
		if len(paired) > 0 {
			report.Buyer.Matched = append(report.Buyer.Matched, MatchedBuyer{Buyer: *buyer, MatchedVendors: paired})
			report.Buyer.TotalMatches++
		} else {
			report.Buyer.NotMatched = append(report.Buyer.NotMatched, *buyer)
			report.Buyer.TotalNotMatched++
		}
	}

	return report
}

// VendorStats counts a vendor's recorded decisions by status. Records are
// counted even when the buyer is no longer eligible; the decision history
// outlives the buyer's edits.
type VendorStats struct {
	AcceptedBuyers int `json:"acceptedBuyers"`
	RejectedBuyers int `json:"rejectedBuyers"`
	PendingBuyers  int `json:"pendingBuyers"`
	TotalMatches   int `json:"totalMatches"`
}

// VendorSummary pairs a vendor and its stats with the currently eligible
// buyers, each annotated with recorded status.
type VendorSummary struct {
	Vendor        model.Vendor `json:"vendor"`
	Stats         VendorStats  `json:"stats"`
	MatchedBuyers []BuyerMatch `json:"matchedBuyers"`
}

// VendorSummaries builds the all-vendors listing with per-vendor match stats.
// Eligibility uses the strict predicate; the stats come from the persisted
// records.
func VendorSummaries(vendors []model.Vendor, buyers []model.Buyer) []VendorSummary {
	summaries := make([]VendorSummary, 0, len(vendors))
	for i := range vendors {
		vendor := &vendors[i]

		var stats VendorStats
		for _, rec := range vendor.MatchedBuyers {
			switch rec.Status {
			case model.StatusAccepted:
				stats.AcceptedBuyers++
			case model.StatusRejected:
				stats.RejectedBuyers++
			default:
				stats.PendingBuyers++
			}
		}

		var matched []BuyerMatch
		for j := range buyers {
			buyer := &buyers[j]
			result := Evaluate(vendor, buyer)
			if !result.IsMatch {
				continue
			}
			matched = append(matched, BuyerMatch{
				Buyer:        *buyer,
				MatchReasons: result.Reasons,
				Status:       vendor.StatusFor(buyer.Email),
			})
		}
		stats.TotalMatches = len(matched)

		summaries = append(summaries, VendorSummary{
			Vendor:        *vendor,
			Stats:         stats,
			MatchedBuyers: matched,
		})
	}
	return summaries
}

// RecordedVendor is a vendor that holds a match record for a buyer, with the
// recorded status.
type RecordedVendor struct {
	Vendor model.Vendor      `json:"vendor"`
	Status model.MatchStatus `json:"status"`
}

// BuyerStats counts the decisions vendors have recorded about a buyer.
type BuyerStats struct {
	AcceptedVendors int `json:"acceptedVendors"`
	RejectedVendors int `json:"rejectedVendors"`
	PendingVendors  int `json:"pendingVendors"`
	TotalMatches    int `json:"totalMatches"`
}

// BuyerSummary pairs a buyer with every vendor that has recorded a decision
// about it.
type BuyerSummary struct {
	Buyer          model.Buyer      `json:"buyer"`
	Stats          BuyerStats       `json:"stats"`
	MatchedVendors []RecordedVendor `json:"matchedVendors"`
}

// BuyerSummaries builds the all-buyers listing. This view is record-driven
// rather than predicate-driven: it reports which vendors have taken a
// decision on each buyer, whatever the current eligibility.
func BuyerSummaries(buyers []model.Buyer, vendors []model.Vendor) []BuyerSummary {
	summaries := make([]BuyerSummary, 0, len(buyers))
	for i := range buyers {
		buyer := &buyers[i]

		var stats BuyerStats
		var recorded []RecordedVendor
		for j := range vendors {
			vendor := &vendors[j]
			rec := vendor.MatchRecordFor(buyer.Email)
			if rec == nil {
				continue
			}
			status := rec.Status
			if status == "" {
				status = model.StatusPending
			}
			switch status {
			case model.StatusAccepted:
				stats.AcceptedVendors++
			case model.StatusRejected:
				stats.RejectedVendors++
			default:
				stats.PendingVendors++
			}
			recorded = append(recorded, RecordedVendor{Vendor: *vendor, Status: status})
		}
		stats.TotalMatches = len(recorded)

		summaries = append(summaries, BuyerSummary{
			Buyer:          *buyer,
			Stats:          stats,
			MatchedVendors: recorded,
		})
	}
	return summaries
}
