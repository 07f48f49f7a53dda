package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/reachly/leadmatch/internal/common"
	"github.com/reachly/leadmatch/internal/model"
)

// CreateBuyer persists a new buyer profile with its service requests,
// claiming the email in the identity registry in the same transaction.
func (s *SQLiteStorage) CreateBuyer(ctx context.Context, buyer *model.Buyer) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBuyer(buyer); err != nil {
		return err
	}

	now := time.Now().UTC()
	if buyer.CreatedAt.IsZero() {
		buyer.CreatedAt = now
	}
	buyer.UpdatedAt = now

	industries, err := marshalStrings(buyer.Industries)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := claimEmail(ctx, tx, buyer.Email, model.RoleBuyer); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO buyers (
			email, company_name, first_name, last_name, phone, industries,
			active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, buyer.Email, buyer.CompanyName, buyer.FirstName, buyer.LastName,
		buyer.Phone, industries, buyer.Active, buyer.CreatedAt, buyer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert buyer: %w", err)
	}

	if err := insertServices(ctx, tx, buyer.Email, buyer.Services); err != nil {
		return err
	}

	return tx.Commit()
}

func insertServices(ctx context.Context, tx *sql.Tx, buyerEmail string, services []model.ServiceRequest) error {
	for i, svc := range services {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO buyer_services (id, buyer_email, service, timeframe, budget, active, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, svc.ID, buyerEmail, svc.Service, svc.Timeframe, svc.Budget, svc.Active, i)
		if err != nil {
			return fmt.Errorf("failed to insert service %q: %w", svc.Service, err)
		}
	}
	return nil
}

// GetBuyer retrieves a buyer by email, including its service requests in
// submission order.
func (s *SQLiteStorage) GetBuyer(ctx context.Context, email string) (*model.Buyer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}
	return s.getBuyerTx(ctx, s.db, email)
}

func (s *SQLiteStorage) getBuyerTx(ctx context.Context, q queryable, email string) (*model.Buyer, error) {
	row := q.QueryRowContext(ctx, `
		SELECT email, company_name, first_name, last_name, phone, industries,
		       active, created_at, updated_at
		FROM buyers
		WHERE email = ?
	`, email)

	buyer, err := scanBuyer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("buyer %s: %w", email, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}

	services, err := s.loadServices(ctx, q, buyer.Email)
	if err != nil {
		return nil, err
	}
	buyer.Services = services

	return buyer, nil
}

func scanBuyer(row rowScanner) (*model.Buyer, error) {
	var buyer model.Buyer
	var phone sql.NullString
	var industries string

	err := row.Scan(
		&buyer.Email,
		&buyer.CompanyName,
		&buyer.FirstName,
		&buyer.LastName,
		&phone,
		&industries,
		&buyer.Active,
		&buyer.CreatedAt,
		&buyer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	buyer.Phone = phone.String
	if buyer.Industries, err = unmarshalStrings(industries); err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (s *SQLiteStorage) loadServices(ctx context.Context, q queryable, buyerEmail string) ([]model.ServiceRequest, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, service, timeframe, budget, active
		FROM buyer_services
		WHERE buyer_email = ?
		ORDER BY position
	`, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var services []model.ServiceRequest
	for rows.Next() {
		var svc model.ServiceRequest
		if err := rows.Scan(&svc.ID, &svc.Service, &svc.Timeframe, &svc.Budget, &svc.Active); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}
	return services, nil
}

// UpdateBuyer persists the buyer's profile fields. The service list moves
// through ReplaceBuyerServices and SetServiceActive only.
func (s *SQLiteStorage) UpdateBuyer(ctx context.Context, buyer *model.Buyer) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBuyer(buyer); err != nil {
		return err
	}

	industries, err := marshalStrings(buyer.Industries)
	if err != nil {
		return err
	}

	buyer.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE buyers SET
			company_name = ?, first_name = ?, last_name = ?, phone = ?,
			industries = ?, active = ?, updated_at = ?
		WHERE email = ?
	`, buyer.CompanyName, buyer.FirstName, buyer.LastName, buyer.Phone,
		industries, buyer.Active, buyer.UpdatedAt, buyer.Email)
	if err != nil {
		return fmt.Errorf("failed to update buyer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("buyer %s: %w", buyer.Email, common.ErrNotFound)
	}
	return nil
}

// GetAllBuyers retrieves every buyer with their service requests.
func (s *SQLiteStorage) GetAllBuyers(ctx context.Context) ([]model.Buyer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT email, company_name, first_name, last_name, phone, industries,
		       active, created_at, updated_at
		FROM buyers
		ORDER BY created_at, email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query buyers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buyers []model.Buyer
	for rows.Next() {
		buyer, scanErr := scanBuyer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan buyer: %w", scanErr)
		}
		buyers = append(buyers, *buyer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate buyers: %w", err)
	}

	if err := s.attachServices(ctx, buyers); err != nil {
		return nil, err
	}

	return buyers, nil
}

func (s *SQLiteStorage) attachServices(ctx context.Context, buyers []model.Buyer) error {
	if len(buyers) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT buyer_email, id, service, timeframe, budget, active
		FROM buyer_services
		ORDER BY buyer_email, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byBuyer := make(map[string][]model.ServiceRequest)
	for rows.Next() {
		var email string
		var svc model.ServiceRequest
		if err := rows.Scan(&email, &svc.ID, &svc.Service, &svc.Timeframe, &svc.Budget, &svc.Active); err != nil {
			return fmt.Errorf("failed to scan service: %w", err)
		}
		byBuyer[email] = append(byBuyer[email], svc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate services: %w", err)
	}

	for i := range buyers {
		buyers[i].Services = byBuyer[buyers[i].Email]
	}
	return nil
}

// ReplaceBuyerServices swaps the buyer's entire service list and returns the
// refreshed buyer.
func (s *SQLiteStorage) ReplaceBuyerServices(ctx context.Context, email string, services []model.ServiceRequest) (*model.Buyer, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM buyers WHERE email = ?)`, email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check buyer existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("buyer %s: %w", email, common.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM buyer_services WHERE buyer_email = ?`, email); err != nil {
		return nil, fmt.Errorf("failed to clear services: %w", err)
	}
	if err := insertServices(ctx, tx, email, services); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE buyers SET updated_at = ? WHERE email = ?`, time.Now().UTC(), email); err != nil {
		return nil, fmt.Errorf("failed to touch buyer: %w", err)
	}

	buyer, err := s.getBuyerTx(ctx, tx, email)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return buyer, nil
}

// SetServiceActive toggles one service request's activation flag and returns
// the updated service.
func (s *SQLiteStorage) SetServiceActive(ctx context.Context, email, serviceID string, active bool) (*model.ServiceRequest, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}
	if err := validateString(serviceID, "serviceID"); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE buyer_services SET active = ? WHERE id = ? AND buyer_email = ?
	`, active, serviceID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("service %s for buyer %s: %w", serviceID, email, common.ErrNotFound)
	}

	var svc model.ServiceRequest
	err = s.db.QueryRowContext(ctx, `
		SELECT id, service, timeframe, budget, active
		FROM buyer_services WHERE id = ?
	`, serviceID).Scan(&svc.ID, &svc.Service, &svc.Timeframe, &svc.Budget, &svc.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to read service: %w", err)
	}
	return &svc, nil
}
