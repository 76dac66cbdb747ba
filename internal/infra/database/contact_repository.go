package database

import (
	"context"
	"database/sql"

	"github.com/restoflow/leads-api/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Insert(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (nom, email, telephone, etablissement, type, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		contact.Nom,
		contact.Email,
		contact.Telephone,
		nullString(contact.Etablissement),
		contact.Type,
		nullString(contact.Message),
	).Scan(&contact.ID, &contact.Status, &contact.CreatedAt)

	return classify(err)
}
