package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pitfinder-backend/internal/i18n"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/session"
)

// Field identifies the form input a validation error refers to
type Field string

const (
	FieldRole  Field = "role"
	FieldName  Field = "name"
	FieldPhone Field = "phone"
)

// ValidationError names the first missing field with a localized alert
type ValidationError struct {
	Field   Field  `json:"field"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SaveError is returned when the session could not be persisted
type SaveError struct {
	Title   string
	Message string
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Form is the onboarding input
type Form struct {
	Role     *models.Role    `json:"role"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Language models.Language `json:"language"`
}

// CanSubmit mirrors the submit button's enabled state. It is only an
// affordance; Validate is still run on every submit.
func (f Form) CanSubmit() bool {
	return f.Role != nil && f.Name != "" && f.Phone != ""
}

// Validate checks role, name and phone in that order and stops at the
// first failure
func (f Form) Validate() error {
	t := i18n.OnboardingText(f.Language)

	if f.Role == nil || !f.Role.Valid() {
		return &ValidationError{Field: FieldRole, Title: t.SelectionTitle, Message: t.SelectionError}
	}
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: FieldName, Title: t.NameTitle, Message: t.NameError}
	}
	if strings.TrimSpace(f.Phone) == "" {
		return &ValidationError{Field: FieldPhone, Title: t.PhoneTitle, Message: t.PhoneError}
	}
	return nil
}

// Submitter validates forms and writes sessions
type Submitter struct {
	Now   func() time.Time
	NewID func() string
}

// NewSubmitter uses the wall clock and session.NewID
func NewSubmitter() *Submitter {
	return &Submitter{Now: time.Now, NewID: session.NewID}
}

// Submit validates the form and persists a new session. On a
// ValidationError or SaveError nothing is written and the caller
// should keep the user on the onboarding screen.
func (s *Submitter) Submit(ctx context.Context, store *session.Store, form Form) (models.Session, error) {
	if err := form.Validate(); err != nil {
		return models.Session{}, err
	}

	sess := models.Session{
		Role:      *form.Role,
		Name:      form.Name,
		Phone:     form.Phone,
		ID:        s.NewID(),
		CreatedAt: s.Now().UTC().Format(time.RFC3339Nano),
		Language:  form.Language.OrDefault(),
	}

	if err := store.Save(ctx, sess); err != nil {
		log.Printf("❌ Failed to save session: %v", err)
		t := i18n.OnboardingText(form.Language)
		return models.Session{}, &SaveError{Title: t.ErrorTitle, Message: t.GenericError, Err: err}
	}

	log.Printf("✅ Session created: %s (%s)", sess.ID, sess.Role)
	return sess, nil
}

// IsValidationError reports whether err came from Validate
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
