package entity

import (
	"context"
	"time"
)

// Contact is the self-hosted variant of a lead, kept with the French column
// names the legacy /api/contacts endpoint exposes.
const (
	ContactTypeRestaurateur = "restaurateur"
	ContactTypeApporteur    = "apporteur"

	ContactStatusNouveau = "nouveau"
)

type Contact struct {
	ID            int64     `json:"id"`
	Nom           string    `json:"nom"`
	Email         string    `json:"email"`
	Telephone     string    `json:"telephone"`
	Etablissement string    `json:"etablissement,omitempty"`
	Type          string    `json:"type"`
	Message       string    `json:"message,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func ValidContactType(t string) bool {
	return t == ContactTypeRestaurateur || t == ContactTypeApporteur
}

type ContactRepositoryInterface interface {
	Insert(ctx context.Context, contact *Contact) error
}
