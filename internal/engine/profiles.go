package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/reachly/leadmatch/internal/common"
	"github.com/reachly/leadmatch/internal/email"
	"github.com/reachly/leadmatch/internal/model"
	"github.com/reachly/leadmatch/internal/service"
)

// SubmitVendor registers a new vendor profile. The email must be unclaimed by
// either role; on success the vendor gets a welcome email and the admin gets
// a registration notice.
func (e *MatchEngine) SubmitVendor(ctx context.Context, vendor *model.Vendor) error {
	vendor.Email = strings.TrimSpace(strings.ToLower(vendor.Email))
	if err := validateProfile(vendor.Email, vendor.FirstName, vendor.LastName, vendor.CompanyName); err != nil {
		return err
	}
	if !vendor.AgreeToTerms {
		return common.NewUserError("You must agree to the terms of service.", common.ErrValidation)
	}
	vendor.Leads = 0
	vendor.Active = true

	if err := e.storage.CreateVendor(ctx, vendor); err != nil {
		return e.duplicateMessage(ctx, vendor.Email, err)
	}

	e.notify(ctx, email.VendorWelcome(vendor))
	e.notify(ctx, email.AdminNewVendor(e.adminEmail, vendor))
	return nil
}

// SubmitBuyer registers a new buyer profile with its initial service
// requests. Every submitted service gets a fresh id and starts active.
func (e *MatchEngine) SubmitBuyer(ctx context.Context, buyer *model.Buyer) error {
	buyer.Email = strings.TrimSpace(strings.ToLower(buyer.Email))
	if err := validateProfile(buyer.Email, buyer.FirstName, buyer.LastName, buyer.CompanyName); err != nil {
		return err
	}
	services, err := prepareServices(buyer.Services)
	if err != nil {
		return err
	}
	buyer.Services = services
	buyer.Active = true

	if err := e.storage.CreateBuyer(ctx, buyer); err != nil {
		return e.duplicateMessage(ctx, buyer.Email, err)
	}

	e.notify(ctx, email.BuyerWelcome(buyer))
	e.notify(ctx, email.AdminNewBuyer(e.adminEmail, buyer))
	return nil
}

// duplicateMessage turns a duplicate-email failure into a role-specific
// user-facing message. Other errors pass through unchanged.
func (e *MatchEngine) duplicateMessage(ctx context.Context, addr string, err error) error {
	if !errors.Is(err, common.ErrDuplicateEmail) {
		return err
	}
	msg := "This email is already registered."
	if role, roleErr := e.storage.GetRole(ctx, addr); roleErr == nil {
		msg = "This email is already registered as a " + string(role) + " account."
	}
	return common.NewUserError(msg, err)
}

func validateProfile(addr, firstName, lastName, companyName string) error {
	switch {
	case addr == "":
		return common.NewUserError("Email is required.", common.ErrValidation)
	case strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "":
		return common.NewUserError("First and last name are required.", common.ErrValidation)
	case strings.TrimSpace(companyName) == "":
		return common.NewUserError("Company name is required.", common.ErrValidation)
	}
	return nil
}

// prepareServices validates submitted service entries and assigns ids. Every
// stored service starts active; deactivation is a separate explicit step.
func prepareServices(services []model.ServiceRequest) ([]model.ServiceRequest, error) {
	prepared := make([]model.ServiceRequest, 0, len(services))
	for _, svc := range services {
		if strings.TrimSpace(svc.Service) == "" ||
			strings.TrimSpace(svc.Timeframe) == "" ||
			strings.TrimSpace(svc.Budget) == "" {
			return nil, common.NewUserError(
				"Each service must include service name, timeframe, and budget",
				common.ErrValidation)
		}
		svc.ID = uuid.NewString()
		svc.Active = true
		prepared = append(prepared, svc)
	}
	return prepared, nil
}

// UpdateVendor applies a partial profile update. Flipping the active flag
// triggers an account-status notification. The lead balance and match records
// are never touched here.
func (e *MatchEngine) UpdateVendor(ctx context.Context, vendorEmail string, patch service.VendorPatch) (*model.Vendor, error) {
	vendor, err := e.storage.GetVendor(ctx, vendorEmail)
	if err != nil {
		return nil, err
	}

	statusChanged := patch.Active != nil && *patch.Active != vendor.Active
	applyVendorPatch(vendor, patch)

	if err := e.storage.UpdateVendor(ctx, vendor); err != nil {
		return nil, err
	}
	if statusChanged {
		e.notify(ctx, email.AccountStatusChanged(vendor.Email, vendor.FullName(), vendor.Active))
	}
	return e.storage.GetVendor(ctx, vendorEmail)
}

// UpdateBuyer applies a partial profile update. The service list is not
// patched here; it moves through UpdateBuyerServices and SetServiceActive.
func (e *MatchEngine) UpdateBuyer(ctx context.Context, buyerEmail string, patch service.BuyerPatch) (*model.Buyer, error) {
	buyer, err := e.storage.GetBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}

	statusChanged := patch.Active != nil && *patch.Active != buyer.Active
	applyBuyerPatch(buyer, patch)

	if err := e.storage.UpdateBuyer(ctx, buyer); err != nil {
		return nil, err
	}
	if statusChanged {
		e.notify(ctx, email.AccountStatusChanged(buyer.Email, buyer.FullName(), buyer.Active))
	}
	return e.storage.GetBuyer(ctx, buyerEmail)
}

func applyVendorPatch(vendor *model.Vendor, patch service.VendorPatch) {
	if patch.CompanyName != nil {
		vendor.CompanyName = *patch.CompanyName
	}
	if patch.FirstName != nil {
		vendor.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		vendor.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		vendor.Phone = *patch.Phone
	}
	if patch.CompanyWebsite != nil {
		vendor.CompanyWebsite = *patch.CompanyWebsite
	}
	if patch.AdditionalInfo != nil {
		vendor.AdditionalInfo = *patch.AdditionalInfo
	}
	if patch.MinimumBudget != nil {
		vendor.MinimumBudget = *patch.MinimumBudget
	}
	if patch.SelectedIndustries != nil {
		vendor.SelectedIndustries = *patch.SelectedIndustries
	}
	if patch.SelectedServices != nil {
		vendor.SelectedServices = *patch.SelectedServices
	}
	if patch.Active != nil {
		vendor.Active = *patch.Active
	}
}

func applyBuyerPatch(buyer *model.Buyer, patch service.BuyerPatch) {
	if patch.CompanyName != nil {
		buyer.CompanyName = *patch.CompanyName
	}
	if patch.FirstName != nil {
		buyer.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		buyer.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		buyer.Phone = *patch.Phone
	}
	if patch.Industries != nil {
		buyer.Industries = *patch.Industries
	}
	if patch.Active != nil {
		buyer.Active = *patch.Active
	}
}

// UpdateBuyerServices replaces the buyer's entire service list. Entries are
// validated, assigned fresh ids, and stored active.
func (e *MatchEngine) UpdateBuyerServices(ctx context.Context, buyerEmail string, services []model.ServiceRequest) (*model.Buyer, error) {
	prepared, err := prepareServices(services)
	if err != nil {
		return nil, err
	}
	return e.storage.ReplaceBuyerServices(ctx, buyerEmail, prepared)
}

// SetServiceActive toggles one buyer service's activation flag.
func (e *MatchEngine) SetServiceActive(ctx context.Context, buyerEmail, serviceID string, active bool) (*model.ServiceRequest, error) {
	return e.storage.SetServiceActive(ctx, buyerEmail, serviceID, active)
}
