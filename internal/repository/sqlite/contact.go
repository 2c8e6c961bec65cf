package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/model"
	"github.com/sakif/wellbeing-tracker/internal/repository"
)

// Contact methods only work on a *DB opened with NewSupport; the default
// database has no emergency_contacts table.
var _ repository.ContactRepository = (*DB)(nil)

const contactColumns = `id, first_name, last_name, mobile_number, gender, created_at, updated_at`

func (db *DB) CreateContact(ctx context.Context, contact *model.EmergencyContact) error {
	t := now()
	contact.ID = xid.New().String()
	contact.CreatedAt = t
	contact.UpdatedAt = t

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO emergency_contacts (`+contactColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		contact.ID,
		contact.FirstName,
		contact.LastName,
		contact.MobileNumber,
		contact.Gender,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating emergency contact: %w", err)
	}
	return nil
}

func (db *DB) GetContactByID(ctx context.Context, id string) (*model.EmergencyContact, error) {
	return getContact(ctx, db.conn, id)
}

func getContact(ctx context.Context, q querier, id string) (*model.EmergencyContact, error) {
	var c model.EmergencyContact
	err := q.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM emergency_contacts WHERE id = ?`, id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.MobileNumber, &c.Gender, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Emergency contact", id)
		}
		return nil, fmt.Errorf("sqlite: getting emergency contact %s: %w", id, err)
	}
	return &c, nil
}

// ListContacts returns the whole contact book. It is expected to stay small,
// so there is no pagination.
func (db *DB) ListContacts(ctx context.Context) ([]model.EmergencyContact, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+contactColumns+`
		 FROM emergency_contacts
		 ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing emergency contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.EmergencyContact{}
	for rows.Next() {
		var c model.EmergencyContact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.MobileNumber, &c.Gender, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning emergency contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating emergency contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContact reads, modifies and writes the contact inside one write
// transaction. The id and created_at columns are never changed.
func (db *DB) UpdateContact(ctx context.Context, id string, apply func(*model.EmergencyContact) error) (*model.EmergencyContact, error) {
	var contact *model.EmergencyContact
	err := db.writeTx(ctx, func(q querier) error {
		var err error
		contact, err = getContact(ctx, q, id)
		if err != nil {
			return err
		}
		if err := apply(contact); err != nil {
			return err
		}
		contact.ID = id
		contact.UpdatedAt = now()

		_, err = q.ExecContext(ctx,
			`UPDATE emergency_contacts
			 SET first_name = ?, last_name = ?, mobile_number = ?, gender = ?, updated_at = ?
			 WHERE id = ?`,
			contact.FirstName,
			contact.LastName,
			contact.MobileNumber,
			contact.Gender,
			contact.UpdatedAt,
			id,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating emergency contact %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (db *DB) DeleteContact(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM emergency_contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting emergency contact %s: %w", id, err)
	}
	return notFoundIfNoRows(result, "Emergency contact", id)
}
