package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/reachly/leadmatch/internal/common"
	"github.com/reachly/leadmatch/internal/model"
)

// CreateVendor persists a new vendor profile, claiming its email in the
// identity registry in the same transaction. Returns common.ErrDuplicateEmail
// when the email is held by either role.
func (s *SQLiteStorage) CreateVendor(ctx context.Context, vendor *model.Vendor) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVendor(vendor); err != nil {
		return err
	}

	now := time.Now().UTC()
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = now
	}
	vendor.UpdatedAt = now

	industries, err := marshalStrings(vendor.SelectedIndustries)
	if err != nil {
		return err
	}
	services, err := marshalStrings(vendor.SelectedServices)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := claimEmail(ctx, tx, vendor.Email, model.RoleVendor); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vendors (
			email, company_name, first_name, last_name, phone, company_website,
			minimum_budget, additional_info, agree_to_terms,
			selected_industries, selected_services, leads, active,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, vendor.Email, vendor.CompanyName, vendor.FirstName, vendor.LastName,
		vendor.Phone, vendor.CompanyWebsite, vendor.MinimumBudget,
		vendor.AdditionalInfo, vendor.AgreeToTerms, industries, services,
		vendor.Leads, vendor.Active, vendor.CreatedAt, vendor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vendor: %w", err)
	}

	return tx.Commit()
}

// GetVendor retrieves a vendor by email, including its match records.
func (s *SQLiteStorage) GetVendor(ctx context.Context, email string) (*model.Vendor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}
	return s.getVendorTx(ctx, s.db, email)
}

func (s *SQLiteStorage) getVendorTx(ctx context.Context, q queryable, email string) (*model.Vendor, error) {
	row := q.QueryRowContext(ctx, `
		SELECT email, company_name, first_name, last_name, phone, company_website,
		       minimum_budget, additional_info, agree_to_terms,
		       selected_industries, selected_services, leads, active,
		       created_at, updated_at
		FROM vendors
		WHERE email = ?
	`, email)

	vendor, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vendor %s: %w", email, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	records, err := s.loadMatchRecords(ctx, q, vendor.Email)
	if err != nil {
		return nil, err
	}
	vendor.MatchedBuyers = records

	return vendor, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVendor(row rowScanner) (*model.Vendor, error) {
	var vendor model.Vendor
	var phone, website, info sql.NullString
	var industries, services string

	err := row.Scan(
		&vendor.Email,
		&vendor.CompanyName,
		&vendor.FirstName,
		&vendor.LastName,
		&phone,
		&website,
		&vendor.MinimumBudget,
		&info,
		&vendor.AgreeToTerms,
		&industries,
		&services,
		&vendor.Leads,
		&vendor.Active,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	vendor.Phone = phone.String
	vendor.CompanyWebsite = website.String
	vendor.AdditionalInfo = info.String

	if vendor.SelectedIndustries, err = unmarshalStrings(industries); err != nil {
		return nil, err
	}
	if vendor.SelectedServices, err = unmarshalStrings(services); err != nil {
		return nil, err
	}

	return &vendor, nil
}

// UpdateVendor persists the vendor's profile fields. The lead balance and
// match records are deliberately excluded; they change only through AddLeads,
// SetMatchRecord, and AcceptMatch so profile edits cannot race the ledger.
func (s *SQLiteStorage) UpdateVendor(ctx context.Context, vendor *model.Vendor) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVendor(vendor); err != nil {
		return err
	}

	industries, err := marshalStrings(vendor.SelectedIndustries)
	if err != nil {
		return err
	}
	services, err := marshalStrings(vendor.SelectedServices)
	if err != nil {
		return err
	}

	vendor.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE vendors SET
			company_name = ?, first_name = ?, last_name = ?, phone = ?,
			company_website = ?, minimum_budget = ?, additional_info = ?,
			agree_to_terms = ?, selected_industries = ?, selected_services = ?,
			active = ?, updated_at = ?
		WHERE email = ?
	`, vendor.CompanyName, vendor.FirstName, vendor.LastName, vendor.Phone,
		vendor.CompanyWebsite, vendor.MinimumBudget, vendor.AdditionalInfo,
		vendor.AgreeToTerms, industries, services, vendor.Active,
		vendor.UpdatedAt, vendor.Email)
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("vendor %s: %w", vendor.Email, common.ErrNotFound)
	}
	return nil
}

// GetAllVendors retrieves every vendor with its match records.
func (s *SQLiteStorage) GetAllVendors(ctx context.Context) ([]model.Vendor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT email, company_name, first_name, last_name, phone, company_website,
		       minimum_budget, additional_info, agree_to_terms,
		       selected_industries, selected_services, leads, active,
		       created_at, updated_at
		FROM vendors
		ORDER BY created_at, email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vendors []model.Vendor
	for rows.Next() {
		vendor, scanErr := scanVendor(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", scanErr)
		}
		vendors = append(vendors, *vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vendors: %w", err)
	}

	if err := s.attachMatchRecords(ctx, vendors); err != nil {
		return nil, err
	}

	return vendors, nil
}

// attachMatchRecords loads every match record in one pass and distributes
// them onto the vendor slice.
func (s *SQLiteStorage) attachMatchRecords(ctx context.Context, vendors []model.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT vendor_email, buyer_email, buyer_name, company_name, status,
		       created_at, updated_at
		FROM match_records
		ORDER BY created_at, buyer_email
	`)
	if err != nil {
		return fmt.Errorf("failed to query match records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byVendor := make(map[string][]model.MatchRecord)
	for rows.Next() {
		var vendorEmail string
		var record model.MatchRecord
		var buyerName, companyName sql.NullString
		if err := rows.Scan(&vendorEmail, &record.BuyerEmail, &buyerName,
			&companyName, &record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan match record: %w", err)
		}
		record.BuyerName = buyerName.String
		record.CompanyName = companyName.String
		byVendor[vendorEmail] = append(byVendor[vendorEmail], record)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate match records: %w", err)
	}

	for i := range vendors {
		vendors[i].MatchedBuyers = byVendor[vendors[i].Email]
	}
	return nil
}

func (s *SQLiteStorage) loadMatchRecords(ctx context.Context, q queryable, vendorEmail string) ([]model.MatchRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT buyer_email, buyer_name, company_name, status, created_at, updated_at
		FROM match_records
		WHERE vendor_email = ?
		ORDER BY created_at, buyer_email
	`, vendorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query match records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.MatchRecord
	for rows.Next() {
		var record model.MatchRecord
		var buyerName, companyName sql.NullString
		if err := rows.Scan(&record.BuyerEmail, &buyerName, &companyName,
			&record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		record.BuyerName = buyerName.String
		record.CompanyName = companyName.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match records: %w", err)
	}
	return records, nil
}

// AddLeads credits the vendor's lead balance and returns the new total.
func (s *SQLiteStorage) AddLeads(ctx context.Context, email string, count int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(email, "email"); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE vendors SET leads = leads + ?, updated_at = ? WHERE email = ?
	`, count, time.Now().UTC(), email)
	if err != nil {
		return 0, fmt.Errorf("failed to add leads: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return 0, fmt.Errorf("vendor %s: %w", email, common.ErrNotFound)
	}

	var balance int
	if err := tx.QueryRowContext(ctx, `SELECT leads FROM vendors WHERE email = ?`, email).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to read lead balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return balance, nil
}

// GetLeads returns the vendor's current lead balance.
func (s *SQLiteStorage) GetLeads(ctx context.Context, email string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(email, "email"); err != nil {
		return 0, err
	}

	var balance int
	err := s.db.QueryRowContext(ctx, `SELECT leads FROM vendors WHERE email = ?`, email).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("vendor %s: %w", email, common.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get leads: %w", err)
	}
	return balance, nil
}

// SetMatchRecord upserts a pending or rejected decision. The buyer snapshot
// fields are written on first insert only; later transitions keep the
// original snapshot.
func (s *SQLiteStorage) SetMatchRecord(ctx context.Context, vendorEmail string, record model.MatchRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(vendorEmail, "vendorEmail"); err != nil {
		return err
	}
	if err := validateRecord(&record); err != nil {
		return err
	}
	if record.Status == model.StatusAccepted {
		return fmt.Errorf("%w: accepted transitions must go through AcceptMatch", ErrInvalidRecord)
	}

	if err := s.upsertRecord(ctx, s.db, vendorEmail, record); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStorage) upsertRecord(ctx context.Context, q queryable, vendorEmail string, record model.MatchRecord) error {
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO match_records (
			vendor_email, buyer_email, buyer_name, company_name, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(vendor_email, buyer_email) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`, vendorEmail, record.BuyerEmail, record.BuyerName, record.CompanyName,
		record.Status, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert match record: %w", err)
	}
	return nil
}

// AcceptMatch performs the guarded transition into accepted: it fails with
// common.ErrAlreadyAccepted when the pair is already accepted and with
// common.ErrInsufficientLeads when the balance is exhausted, and otherwise
// decrements the balance by exactly one and upserts the record, all in a
// single transaction. Returns the remaining balance.
func (s *SQLiteStorage) AcceptMatch(ctx context.Context, vendorEmail string, record model.MatchRecord) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(vendorEmail, "vendorEmail"); err != nil {
		return 0, err
	}
	if err := validateRecord(&record); err != nil {
		return 0, err
	}
	if record.Status != model.StatusAccepted {
		return 0, fmt.Errorf("%w: AcceptMatch requires accepted status", ErrInvalidRecord)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current model.MatchStatus
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM match_records WHERE vendor_email = ? AND buyer_email = ?
	`, vendorEmail, record.BuyerEmail).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to read match record: %w", err)
	}
	if err == nil && current == model.StatusAccepted {
		return 0, fmt.Errorf("vendor %s, buyer %s: %w", vendorEmail, record.BuyerEmail, common.ErrAlreadyAccepted)
	}

	// Conditional decrement: zero rows means the balance is gone (or the
	// vendor vanished, which callers rule out beforehand).
	result, err := tx.ExecContext(ctx, `
		UPDATE vendors SET leads = leads - 1, updated_at = ? WHERE email = ? AND leads > 0
	`, time.Now().UTC(), vendorEmail)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement leads: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check decrement result: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM vendors WHERE email = ?)`, vendorEmail).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check vendor existence: %w", err)
		}
		if !exists {
			return 0, fmt.Errorf("vendor %s: %w", vendorEmail, common.ErrNotFound)
		}
		return 0, fmt.Errorf("vendor %s: %w", vendorEmail, common.ErrInsufficientLeads)
	}

	if err := s.upsertRecord(ctx, tx, vendorEmail, record); err != nil {
		return 0, err
	}

	var remaining int
	if err := tx.QueryRowContext(ctx, `SELECT leads FROM vendors WHERE email = ?`, vendorEmail).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("failed to read lead balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return remaining, nil
}
