package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

func (s *Store) LoadCustomerKeys(ctx context.Context, tenantID uuid.UUID, limit int) ([]records.KeyedID, error) {
	return s.loadKeys(ctx, "load customer keys", `
		SELECT id, COALESCE(email, ''), COALESCE(phone, '')
		FROM customers
		WHERE tenant_id = $1 AND (email IS NOT NULL OR phone IS NOT NULL)
		ORDER BY created_at, id
		LIMIT $2
	`, tenantID, limit)
}

func (s *Store) LoadVehicleKeys(ctx context.Context, tenantID uuid.UUID, limit int) ([]records.KeyedID, error) {
	return s.loadKeys(ctx, "load vehicle keys", `
		SELECT id, COALESCE(vin, ''), COALESCE(license_plate, '')
		FROM vehicles
		WHERE tenant_id = $1 AND (vin IS NOT NULL OR license_plate IS NOT NULL)
		ORDER BY created_at, id
		LIMIT $2
	`, tenantID, limit)
}

func (s *Store) loadKeys(ctx context.Context, op, query string, tenantID uuid.UUID, limit int) ([]records.KeyedID, error) {
	rows, err := s.pool.Query(ctx, query, tenantID, limitArg(limit))
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var out []records.KeyedID
	for rows.Next() {
		var (
			id            uuid.UUID
			first, second string
		)
		if err := rows.Scan(&id, &first, &second); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, records.KeyedID{ID: id, Keys: []string{first, second}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Store) InsertCustomer(ctx context.Context, c records.Customer) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (
			tenant_id, first_name, last_name, name, business_name, email, phone, is_fleet,
			source_run_id, external_id, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		c.TenantID, nullable(c.FirstName), nullable(c.LastName), nullable(c.Name), nullable(c.BusinessName),
		nullable(c.Email), nullable(c.Phone), c.IsFleet,
		c.Provenance.SourceRunID, nullable(c.Provenance.ExternalID), c.Provenance.Confidence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("insert customer", err)
	}
	return id, nil
}

// UpdateCustomer overwrites only the columns the import supplied a value for.
func (s *Store) UpdateCustomer(ctx context.Context, c records.Customer) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE customers SET
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			name = COALESCE($5, name),
			business_name = COALESCE($6, business_name),
			email = COALESCE($7, email),
			phone = COALESCE($8, phone),
			is_fleet = is_fleet OR $9,
			source_run_id = $10,
			external_id = $11,
			confidence = $12,
			updated_at = now()
		WHERE tenant_id = $1 AND id = $2
	`,
		c.TenantID, c.ID, nullable(c.FirstName), nullable(c.LastName), nullable(c.Name), nullable(c.BusinessName),
		nullable(c.Email), nullable(c.Phone), c.IsFleet,
		c.Provenance.SourceRunID, nullable(c.Provenance.ExternalID), c.Provenance.Confidence,
	)
	if err != nil {
		return wrap("update customer", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update customer %s: %w", c.ID, records.ErrNotFound)
	}
	return nil
}

func (s *Store) InsertVehicle(ctx context.Context, v records.Vehicle) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO vehicles (
			tenant_id, customer_id, vin, license_plate, year, make, model, unit_number, mileage, engine_hours,
			source_run_id, external_id, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		v.TenantID, v.CustomerID, nullable(v.VIN), nullable(v.Plate), v.Year, nullable(v.Make), nullable(v.Model),
		nullable(v.UnitNumber), v.Mileage, v.EngineHours,
		v.Provenance.SourceRunID, nullable(v.Provenance.ExternalID), v.Provenance.Confidence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("insert vehicle", err)
	}
	return id, nil
}

func (s *Store) UpdateVehicle(ctx context.Context, v records.Vehicle) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vehicles SET
			customer_id = COALESCE($3, customer_id),
			vin = COALESCE($4, vin),
			license_plate = COALESCE($5, license_plate),
			year = COALESCE($6, year),
			make = COALESCE($7, make),
			model = COALESCE($8, model),
			unit_number = COALESCE($9, unit_number),
			mileage = COALESCE($10, mileage),
			engine_hours = COALESCE($11, engine_hours),
			source_run_id = $12,
			external_id = $13,
			confidence = $14,
			updated_at = now()
		WHERE tenant_id = $1 AND id = $2
	`,
		v.TenantID, v.ID, v.CustomerID, nullable(v.VIN), nullable(v.Plate), v.Year, nullable(v.Make), nullable(v.Model),
		nullable(v.UnitNumber), v.Mileage, v.EngineHours,
		v.Provenance.SourceRunID, nullable(v.Provenance.ExternalID), v.Provenance.Confidence,
	)
	if err != nil {
		return wrap("update vehicle", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update vehicle %s: %w", v.ID, records.ErrNotFound)
	}
	return nil
}
