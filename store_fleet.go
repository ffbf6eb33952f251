package main

import (
	"context"
	"time"
)

// BusOperator is a partner bus company the portal charters vehicles from.
type BusOperator struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contactName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Vehicle is a bus in a partner operator's fleet.
type Vehicle struct {
	ID           int       `json:"id"`
	OperatorID   int       `json:"operatorId"`
	Registration string    `json:"registration"`
	Make         string    `json:"make"`
	Seats        int       `json:"seats"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a *App) storeListBusOperators(ctx context.Context) ([]BusOperator, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, contact_name, email, phone, is_active, created_at, updated_at
		FROM bus_operators
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []BusOperator
	for rows.Next() {
		var op BusOperator
		if err := rows.Scan(&op.ID, &op.Name, &op.ContactName, &op.Email, &op.Phone,
			&op.IsActive, &op.CreatedAt, &op.UpdatedAt); err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	return operators, rows.Err()
}

func (a *App) storeCreateBusOperator(ctx context.Context, op *BusOperator) error {
	return a.db.QueryRowContext(ctx, `
		INSERT INTO bus_operators (name, contact_name, email, phone, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, op.Name, op.ContactName, op.Email, op.Phone, op.IsActive,
	).Scan(&op.ID, &op.CreatedAt, &op.UpdatedAt)
}

func (a *App) storeUpdateBusOperator(ctx context.Context, op *BusOperator) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE bus_operators
		SET name = $2, contact_name = $3, email = $4, phone = $5, updated_at = NOW()
		WHERE id = $1
	`, op.ID, op.Name, op.ContactName, op.Email, op.Phone)
	return err
}

func (a *App) storeToggleBusOperator(ctx context.Context, id int) (bool, error) {
	var isActive bool
	err := a.db.QueryRowContext(ctx, `
		UPDATE bus_operators
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING is_active
	`, id).Scan(&isActive)
	return isActive, err
}

func (a *App) storeListVehicles(ctx context.Context, operatorID int) ([]Vehicle, error) {
	query := `
		SELECT id, operator_id, registration, make, seats, is_active, created_at, updated_at
		FROM vehicles
	`
	args := []any{}
	if operatorID > 0 {
		query += ` WHERE operator_id = $1`
		args = append(args, operatorID)
	}
	query += ` ORDER BY registration ASC`

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.OperatorID, &v.Registration, &v.Make, &v.Seats,
			&v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (a *App) storeCreateVehicle(ctx context.Context, v *Vehicle) error {
	return a.db.QueryRowContext(ctx, `
		INSERT INTO vehicles (operator_id, registration, make, seats, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, v.OperatorID, v.Registration, v.Make, v.Seats, v.IsActive,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (a *App) storeUpdateVehicle(ctx context.Context, v *Vehicle) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE vehicles
		SET operator_id = $2, registration = $3, make = $4, seats = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`, v.ID, v.OperatorID, v.Registration, v.Make, v.Seats, v.IsActive)
	return err
}
