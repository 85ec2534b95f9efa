package storage

import (
	"context"
	"database/sql"
	"errors"

	apperrors "bizhealth-workers/internal/common/errors"
)

// OwnerContact is where alerts for an owner are delivered.
type OwnerContact struct {
	OwnerID string
	Name    string
	Email   string
	Phone   string
}

// OwnerStore reads owners.
type OwnerStore struct {
	db *sql.DB
}

func NewOwnerStore(db *sql.DB) *OwnerStore {
	return &OwnerStore{db: db}
}

// Contact returns the owner's contact details. Unknown owners yield an empty
// contact, not an error.
func (s *OwnerStore) Contact(ctx context.Context, ownerID string) (*OwnerContact, error) {
	var name, email, phone sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT name, email, phone FROM owners WHERE id = $1`, ownerID).
		Scan(&name, &email, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return &OwnerContact{OwnerID: ownerID}, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("load owner contact", err)
	}
	return &OwnerContact{OwnerID: ownerID, Name: name.String, Email: email.String, Phone: phone.String}, nil
}
