package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminUser is a portal administrator. Password hashes never leave the store layer.
type AdminUser struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *App) authenticateAdminCredentials(ctx context.Context, email string, password string) (*AdminUser, error) {
	var admin AdminUser
	var passwordHash sql.NullString
	err := a.db.QueryRowContext(ctx, `
		SELECT id, email, name, role, is_active, created_at, password_hash
		FROM admins
		WHERE email = $1
	`, email).Scan(&admin.ID, &admin.Email, &admin.Name, &admin.Role, &admin.IsActive, &admin.CreatedAt, &passwordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apiError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "Invalid credentials"}
		}
		return nil, err
	}
	if !passwordHash.Valid || !admin.IsActive || bcrypt.CompareHashAndPassword([]byte(passwordHash.String), []byte(password)) != nil {
		return nil, &apiError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "Invalid credentials"}
	}
	return &admin, nil
}

func (a *App) storeListAdmins(ctx context.Context) ([]AdminUser, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, email, name, role, is_active, created_at
		FROM admins
		ORDER BY email ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []AdminUser
	for rows.Next() {
		var admin AdminUser
		if err := rows.Scan(&admin.ID, &admin.Email, &admin.Name, &admin.Role, &admin.IsActive, &admin.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (a *App) storeCreateAdmin(ctx context.Context, email, name, role, password string) (*AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := AdminUser{Email: email, Name: name, Role: role, IsActive: true}
	err = a.db.QueryRowContext(ctx, `
		INSERT INTO admins (email, name, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at
	`, email, name, role, string(hash)).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (a *App) storeToggleAdmin(ctx context.Context, id int) (bool, error) {
	var isActive bool
	err := a.db.QueryRowContext(ctx, `
		UPDATE admins
		SET is_active = NOT is_active
		WHERE id = $1
		RETURNING is_active
	`, id).Scan(&isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return false, &apiError{Status: http.StatusNotFound, Code: "not_found", Message: "Admin not found"}
	}
	return isActive, err
}

// bootstrapAdmin creates the first admin account on an empty database so the
// portal is reachable after a fresh deploy.
func (a *App) bootstrapAdmin(ctx context.Context) error {
	if a.cfg.BootstrapAdminEmail == "" || a.cfg.BootstrapAdminPassword == "" {
		return nil
	}
	var count int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := a.storeCreateAdmin(ctx, a.cfg.BootstrapAdminEmail, "Administratör", adminRoleAdmin, a.cfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}
	a.log.Info("bootstrap admin created", "email", a.cfg.BootstrapAdminEmail)
	return nil
}
