package database

import (
	"context"
	"database/sql"
	"errors"
)

// RoleRepository reads the role-assignment mapping. The table is written at
// provisioning time only; the application never mutates it.
type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) FindByUserID(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`, userID,
	).Scan(&role)

	if errors.Is(err, sql.ErrNoRows) {
		// No row is not an error: the resolver defaults to affiliate.
		return "", nil
	}
	if err != nil {
		return "", classify(err)
	}
	return role, nil
}
