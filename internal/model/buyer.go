package model

import "time"

// Buyer is a service-seeking profile.
type Buyer struct {
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Email       string           `json:"email"`
	CompanyName string           `json:"companyName"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Phone       string           `json:"phone"`
	Industries  []string         `json:"industries"`
	Services    []ServiceRequest `json:"services"`
	Active      bool             `json:"active"`
}

// FullName returns the contact name used in notifications and match records.
func (b *Buyer) FullName() string {
	return b.FirstName + " " + b.LastName
}

// ServiceByID returns the service request with the given id, or nil.
func (b *Buyer) ServiceByID(id string) *ServiceRequest {
	for i := range b.Services {
		if b.Services[i].ID == id {
			return &b.Services[i]
		}
	}
	return nil
}

// ServiceRequest is one service a buyer is shopping for. Only active requests
// participate in matching, except for vendors that already hold an accepted
// record with the buyer.
type ServiceRequest struct {
	ID        string `json:"id"`
	Service   string `json:"service"`
	Timeframe string `json:"timeframe"`
	Budget    string `json:"budget"`
	Active    bool   `json:"active"`
}
