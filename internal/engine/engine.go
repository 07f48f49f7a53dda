// Package engine orchestrates profile intake, match workflow, and the lead
// ledger for the marketplace.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reachly/leadmatch/internal/common"
	"github.com/reachly/leadmatch/internal/email"
	"github.com/reachly/leadmatch/internal/model"
	"github.com/reachly/leadmatch/internal/service"
)

// lowLeadsThreshold is the balance at or below which vendors get warned.
const lowLeadsThreshold = 1

// MatchEngine coordinates storage and notifications for every marketplace
// operation. All match views are recomputed from current data on each call;
// persisted records supply relationship status only.
type MatchEngine struct {
	storage    service.Storage
	sender     service.Sender
	adminEmail string
}

// Config holds configuration options for the match engine.
type Config struct {
	AdminEmail string
}

// New creates a match engine with the given dependencies.
func New(storage service.Storage, sender service.Sender, config Config) *MatchEngine {
	return &MatchEngine{
		storage:    storage,
		sender:     sender,
		adminEmail: config.AdminEmail,
	}
}

// notify delivers one message best-effort. Failures are logged and never
// propagate to the operation that triggered the notification.
func (e *MatchEngine) notify(ctx context.Context, msg email.Message) {
	if msg.To == "" {
		return
	}
	if err := e.sender.Send(ctx, msg.To, msg.Subject, msg.Body); err != nil {
		slog.Warn("Failed to send notification",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err)
	}
}

// MatchOutcome reports the result of a status transition back to the caller.
type MatchOutcome struct {
	Message        string              `json:"message"`
	MatchedBuyers  []model.MatchRecord `json:"matchedBuyers"`
	RemainingLeads int                 `json:"remainingLeads"`
}

// SetMatchStatus records the vendor's decision about a buyer. Entering
// accepted consumes one lead atomically; pending and rejected never touch the
// balance. The record snapshot is taken from the buyer's current profile when
// the record is first created.
func (e *MatchEngine) SetMatchStatus(ctx context.Context, vendorEmail, buyerEmail string, status model.MatchStatus) (*MatchOutcome, error) {
	if !status.Valid() {
		return nil, common.NewUserError(
			fmt.Sprintf("Status must be one of pending, accepted, or rejected, got %q", status),
			common.ErrValidation)
	}

	vendor, err := e.storage.GetVendor(ctx, vendorEmail)
	if err != nil {
		return nil, err
	}
	buyer, err := e.storage.GetBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}

	record := model.MatchRecord{
		BuyerEmail:  buyer.Email,
		BuyerName:   buyer.FullName(),
		CompanyName: buyer.CompanyName,
		Status:      status,
	}

	if status == model.StatusAccepted {
		remaining, acceptErr := e.storage.AcceptMatch(ctx, vendor.Email, record)
		switch {
		case errors.Is(acceptErr, common.ErrInsufficientLeads):
			return nil, common.NewUserError(
				"You have no remaining leads. Please purchase more leads to accept new matches.",
				acceptErr)
		case errors.Is(acceptErr, common.ErrAlreadyAccepted):
			return nil, common.NewUserError("You have already accepted this match.", acceptErr)
		case acceptErr != nil:
			return nil, acceptErr
		}

		slog.Info("Match accepted",
			"vendor", vendor.Email,
			"buyer", buyer.Email,
			"remaining_leads", remaining)

		if remaining <= lowLeadsThreshold {
			low := *vendor
			low.Leads = remaining
			e.notify(ctx, email.LeadsLow(&low))
		}
	} else {
		if err := e.storage.SetMatchRecord(ctx, vendor.Email, record); err != nil {
			return nil, err
		}
		slog.Info("Match status updated",
			"vendor", vendor.Email,
			"buyer", buyer.Email,
			"status", status)
	}

	updated, err := e.storage.GetVendor(ctx, vendor.Email)
	if err != nil {
		return nil, err
	}
	return &MatchOutcome{
		Message:        fmt.Sprintf("Match status updated to %s", status),
		MatchedBuyers:  updated.MatchedBuyers,
		RemainingLeads: updated.Leads,
	}, nil
}

// AddLeads credits leads to a vendor and notifies them of the new balance.
func (e *MatchEngine) AddLeads(ctx context.Context, vendorEmail string, count int) (int, error) {
	if count < 0 {
		return 0, common.NewUserError("Lead count must not be negative.", common.ErrValidation)
	}
	balance, err := e.storage.AddLeads(ctx, vendorEmail, count)
	if err != nil {
		return 0, err
	}

	slog.Info("Leads assigned", "vendor", vendorEmail, "added", count, "balance", balance)

	if vendor, getErr := e.storage.GetVendor(ctx, vendorEmail); getErr == nil {
		e.notify(ctx, email.LeadsAssigned(vendor, count))
	}
	return balance, nil
}

// GetLeads returns a vendor's current lead balance.
func (e *MatchEngine) GetLeads(ctx context.Context, vendorEmail string) (int, error) {
	return e.storage.GetLeads(ctx, vendorEmail)
}
