// Package model defines the marketplace domain types.
package model

import "time"

// Vendor is a service provider profile. Leads is the consumable credit
// balance spent on accepting matches; MatchedBuyers holds the vendor's
// recorded decisions, not the set of currently eligible buyers.
type Vendor struct {
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
	Email              string        `json:"email"`
	CompanyName        string        `json:"companyName"`
	FirstName          string        `json:"firstName"`
	LastName           string        `json:"lastName"`
	Phone              string        `json:"phone"`
	CompanyWebsite     string        `json:"companyWebsite"`
	AdditionalInfo     string        `json:"additionalInfo,omitempty"`
	SelectedIndustries []string      `json:"selectedIndustries"`
	SelectedServices   []string      `json:"selectedServices"`
	MatchedBuyers      []MatchRecord `json:"matchedBuyers"`
	MinimumBudget      float64       `json:"minimumBudget"`
	Leads              int           `json:"leads"`
	AgreeToTerms       bool          `json:"agreeToTerms"`
	Active             bool          `json:"active"`
}

// FullName returns the contact name used in notifications.
func (v *Vendor) FullName() string {
	return v.FirstName + " " + v.LastName
}

// MatchRecordFor returns the vendor's record for the given buyer email, or
// nil when no decision has been recorded. Absence of a record is equivalent
// to StatusPending.
func (v *Vendor) MatchRecordFor(buyerEmail string) *MatchRecord {
	for i := range v.MatchedBuyers {
		if v.MatchedBuyers[i].BuyerEmail == buyerEmail {
			return &v.MatchedBuyers[i]
		}
	}
	return nil
}

// StatusFor returns the recorded status for the buyer, defaulting to pending.
func (v *Vendor) StatusFor(buyerEmail string) MatchStatus {
	if rec := v.MatchRecordFor(buyerEmail); rec != nil && rec.Status != "" {
		return rec.Status
	}
	return StatusPending
}

// HasAccepted reports whether the vendor holds an accepted record for the
// buyer. An accepted relationship keeps the buyer's inactive services visible
// to this vendor.
func (v *Vendor) HasAccepted(buyerEmail string) bool {
	rec := v.MatchRecordFor(buyerEmail)
	return rec != nil && rec.Status == StatusAccepted
}
