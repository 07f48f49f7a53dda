// Package storage provides the data persistence layer for the marketplace.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reachly/leadmatch/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidVendor = errors.New("invalid vendor")
	ErrInvalidBuyer  = errors.New("invalid buyer")
	ErrInvalidRecord = errors.New("invalid match record")
	ErrNegativeCount = errors.New("count cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateVendor validates a vendor profile.
func validateVendor(vendor *model.Vendor) error {
	if vendor == nil {
		return fmt.Errorf("%w: vendor", ErrNilParameter)
	}
	if strings.TrimSpace(vendor.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidVendor)
	}
	if strings.TrimSpace(vendor.CompanyName) == "" {
		return fmt.Errorf("%w: missing company name", ErrInvalidVendor)
	}
	if vendor.Leads < 0 {
		return fmt.Errorf("%w: negative lead balance", ErrInvalidVendor)
	}
	return nil
}

// validateBuyer validates a buyer profile.
func validateBuyer(buyer *model.Buyer) error {
	if buyer == nil {
		return fmt.Errorf("%w: buyer", ErrNilParameter)
	}
	if strings.TrimSpace(buyer.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidBuyer)
	}
	if strings.TrimSpace(buyer.CompanyName) == "" {
		return fmt.Errorf("%w: missing company name", ErrInvalidBuyer)
	}
	return nil
}

// validateRecord validates a match record before persisting.
func validateRecord(record *model.MatchRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.BuyerEmail) == "" {
		return fmt.Errorf("%w: missing buyer email", ErrInvalidRecord)
	}
	if !record.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, record.Status)
	}
	return nil
}
