package model

// Role tags which side of the marketplace claimed an email address. Emails
// are globally unique across both roles.
type Role string

const (
	// RoleVendor marks an email registered through the vendor form.
	RoleVendor Role = "vendor"
	// RoleBuyer marks an email registered through the buyer form.
	RoleBuyer Role = "buyer"
)
