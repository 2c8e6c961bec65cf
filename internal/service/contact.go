package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/model"
	"github.com/sakif/wellbeing-tracker/internal/repository"
)

const (
	MaxContactNameLength = 50
	minMobileDigits      = 7
	maxMobileLength      = 20
)

// ContactService manages the shared emergency contact book.
type ContactService struct {
	repo   repository.ContactRepository
	logger *slog.Logger
}

func NewContactService(repo repository.ContactRepository, logger *slog.Logger) *ContactService {
	return &ContactService{repo: repo, logger: logger}
}

// ContactInput carries client-supplied fields. Nil means "not sent", which
// matters for partial updates.
type ContactInput struct {
	FirstName    *string       `json:"firstName"`
	LastName     *string       `json:"lastName"`
	MobileNumber *string       `json:"mobileNumber"`
	Gender       *model.Gender `json:"gender"`
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (*model.EmergencyContact, error) {
	contact := &model.EmergencyContact{}
	applyContactInput(contact, in)

	if err := validateContact(contact); err != nil {
		return nil, err
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("creating emergency contact: %w", err)
	}

	s.logger.Info("emergency contact created", slog.String("id", contact.ID))
	return contact, nil
}

func (s *ContactService) List(ctx context.Context) ([]model.EmergencyContact, error) {
	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing emergency contacts: %w", err)
	}
	return contacts, nil
}

// Update applies the fields present in `in` and re-validates the whole record.
// The read and the write happen in one repository transaction.
func (s *ContactService) Update(ctx context.Context, id string, in ContactInput) (*model.EmergencyContact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Emergency contact", id)
	}

	contact, err := s.repo.UpdateContact(ctx, id, func(c *model.EmergencyContact) error {
		applyContactInput(c, in)
		return validateContact(c)
	})
	if err != nil {
		return nil, fmt.Errorf("updating emergency contact: %w", err)
	}

	s.logger.Info("emergency contact updated", slog.String("id", contact.ID))
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.NotFound("Emergency contact", id)
	}

	if err := s.repo.DeleteContact(ctx, id); err != nil {
		return err
	}

	s.logger.Info("emergency contact deleted", slog.String("id", id))
	return nil
}

func applyContactInput(c *model.EmergencyContact, in ContactInput) {
	if in.FirstName != nil {
		c.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		c.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.MobileNumber != nil {
		c.MobileNumber = strings.TrimSpace(*in.MobileNumber)
	}
	if in.Gender != nil {
		c.Gender = normalise(*in.Gender)
	}
}

func validateContact(c *model.EmergencyContact) error {
	return firstError(
		required("firstName", c.FirstName),
		maxLength("firstName", c.FirstName, MaxContactNameLength),
		required("lastName", c.LastName),
		maxLength("lastName", c.LastName, MaxContactNameLength),
		required("mobileNumber", c.MobileNumber),
		validMobile(c.MobileNumber),
		required("gender", string(c.Gender)),
		oneOf("gender", c.Gender, model.Genders),
	)
}

// validMobile accepts digits with an optional leading '+', plus spaces and
// dashes as separators: "+44 7700 900123", "0770-090-0123".
func validMobile(number string) error {
	if number == "" {
		return nil // reported by required()
	}
	invalid := apperror.ValidationFailed("mobileNumber", "mobileNumber must be a valid phone number")
	if len(number) > maxMobileLength {
		return invalid
	}

	digits := 0
	for i, r := range number {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-':
		default:
			return invalid
		}
	}
	if digits < minMobileDigits {
		return invalid
	}
	return nil
}
