package contact

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okrent/cardscan/internal/classify"
	"github.com/okrent/cardscan/internal/scanning"
)

// IDGenerator generates unique IDs for contacts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidIDGenerator generates random UUIDs
type uuidIDGenerator struct{}

func (g *uuidIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles contact operations: scanning card images into draft
// contacts, persisting reviewed contacts, and serving them back out.
type Service struct {
	db          DB
	recognizer  scanning.TextRecognizer
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, recognizer scanning.TextRecognizer, storage Storage) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		storage:     storage,
		idGenerator: &uuidIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, recognizer scanning.TextRecognizer, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	// Phone cameras produce very long generated names
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "card"
	}

	return base + ext
}

// ScanCard stores the card image, recognizes its text and classifies the
// result into a draft contact. The draft is NOT persisted: the caller shows
// it to a reviewer and hands it back to CreateContact once confirmed. If
// recognition fails the stored image is cleaned up again.
func (s *Service) ScanCard(ctx context.Context, filename string, data []byte, contentType string, source classify.Source) (*Contact, error) {
	id := s.idGenerator.Generate()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	recognized, err := s.recognizer.Recognize(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to recognize card text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved image since recognition failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("recognizing card: %w", err)
	}

	card := classify.Classify(recognized.Text, recognized.Confidence, source)

	return &Contact{
		ID:          id,
		Card:        card,
		Filename:    savedPath,
		ContentType: contentType,
	}, nil
}

// CreateContact persists a reviewed draft. It stamps the timestamps and
// assigns an ID if the draft somehow lost its own.
func (s *Service) CreateContact(contact *Contact) error {
	if contact.ID == "" {
		contact.ID = s.idGenerator.Generate()
	}

	now := s.timeSource.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if err := s.db.SaveContact(contact); err != nil {
		return fmt.Errorf("saving contact to database: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by ID
func (s *Service) GetContact(id string) (*Contact, error) {
	contact, err := s.db.GetContact(id)
	if err != nil {
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	return contact, nil
}

// ListContacts returns all contacts, newest first
func (s *Service) ListContacts() ([]*Contact, error) {
	contacts, err := s.db.ListContacts()
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})

	return contacts, nil
}

// SearchContacts returns contacts whose fields contain the query,
// case-insensitively. The raw transcription is searched too so a reviewer
// can find text the classifier left unassigned. An empty query matches
// everything.
func (s *Service) SearchContacts(query string) ([]*Contact, error) {
	contacts, err := s.ListContacts()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return contacts, nil
	}

	matched := make([]*Contact, 0)
	for _, contact := range contacts {
		if contactMatchesQuery(contact, query) {
			matched = append(matched, contact)
		}
	}
	return matched, nil
}

func contactMatchesQuery(contact *Contact, query string) bool {
	fields := []string{
		contact.Name,
		contact.JobTitle,
		contact.Company,
		contact.Phone,
		contact.Email,
		contact.Website,
		contact.Location,
		contact.RawText,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// UpdateContact applies reviewer edits to a stored contact. Only the
// editable fields change: the raw transcription, source and confidence are
// the audit trail of the original scan and stay as recorded.
func (s *Service) UpdateContact(id string, card classify.Card) (*Contact, error) {
	contact, err := s.db.GetContact(id)
	if err != nil {
		return nil, fmt.Errorf("getting contact for update: %w", err)
	}

	contact.Name = card.Name
	contact.JobTitle = card.JobTitle
	contact.Company = card.Company
	contact.Phone = card.Phone
	contact.Email = card.Email
	contact.Website = card.Website
	contact.Location = card.Location
	contact.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveContact(contact); err != nil {
		return nil, fmt.Errorf("updating contact in database: %w", err)
	}
	return contact, nil
}

// DeleteContact removes a contact and its card image
func (s *Service) DeleteContact(id string) error {
	contact, err := s.db.GetContact(id)
	if err != nil {
		return fmt.Errorf("getting contact for deletion: %w", err)
	}

	if err := s.storage.Delete(contact.Filename); err != nil {
		// Log but continue with the database deletion
		slog.Warn("Failed to delete image", "filename", contact.Filename, "error", err)
	}

	if err := s.db.DeleteContact(id); err != nil {
		return fmt.Errorf("deleting contact from database: %w", err)
	}
	return nil
}

// GetCardImage retrieves the stored card image for a contact
func (s *Service) GetCardImage(id string) ([]byte, string, error) {
	contact, err := s.db.GetContact(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting contact: %w", err)
	}

	data, err := s.storage.Get(contact.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting card image: %w", err)
	}

	return data, contact.ContentType, nil
}
