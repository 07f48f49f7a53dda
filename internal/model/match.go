package model

import "time"

// MatchStatus is the human decision a vendor has recorded for a matched buyer.
type MatchStatus string

const (
	// StatusPending indicates the vendor has not acted on the match yet.
	StatusPending MatchStatus = "pending"
	// StatusAccepted indicates the vendor spent a lead to accept the match.
	StatusAccepted MatchStatus = "accepted"
	// StatusRejected indicates the vendor declined the match.
	StatusRejected MatchStatus = "rejected"
)

// Valid reports whether s is one of the known match statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// MatchRecord is one persisted vendor decision about a buyer. The buyer name
// and company are snapshots taken when the record is created; they are not
// refreshed when the buyer later edits their profile. BuyerEmail is the
// identity key.
type MatchRecord struct {
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	BuyerEmail  string      `json:"buyerEmail"`
	BuyerName   string      `json:"buyerName"`
	CompanyName string      `json:"companyName"`
	Status      MatchStatus `json:"status"`
}
