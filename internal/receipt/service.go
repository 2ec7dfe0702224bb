package receipt

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ybae45/chopchop/internal/parsing"
	"github.com/ybae45/chopchop/internal/scanning"
)

var (
	// ErrInvalidUser is returned for user IDs that cannot name a storage directory
	ErrInvalidUser = errors.New("invalid user id")
	// ErrNoScanner is returned when a step needs OCR or entity analysis and no scanner is configured
	ErrNoScanner = errors.New("no scanner configured")
)

const textContentType = "text/plain; charset=utf-8"

var (
	userIDPattern        = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
	filenameSpecialChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces       = regexp.MustCompile(`\s+`)
)

// IDGenerator generates unique IDs for receipts and their items
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	parser      *parsing.Parser
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
// scanner may be nil, in which case only Publix text can be processed.
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return NewServiceWithDeps(db, scanner, storage, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		parser:      parsing.NewParserWithIDs(idGen),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

func validateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("%w: %q", ErrInvalidUser, userID)
	}
	return nil
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if filenameSpecialChars.MatchString(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = filenameSpecialChars.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ParseText turns receipt text into a Document without storing anything.
// Publix receipts go through the pattern parser; other stores fall back to
// entity analysis. A receipt without a transaction datetime yields the partial
// document and an error wrapping parsing.ErrMissingDateTime.
func (s *Service) ParseText(text string) (*parsing.Document, error) {
	var doc *parsing.Document

	switch strategy := parsing.Classify(text).(type) {
	case parsing.PublixStrategy:
		parsed, err := s.parser.Parse(strategy.Text)
		if err != nil {
			return parsed, fmt.Errorf("parsing receipt text: %w", err)
		}
		doc = parsed
	case parsing.GenericStrategy:
		if s.scanner == nil {
			return nil, fmt.Errorf("analyzing receipt text: %w", ErrNoScanner)
		}
		entities, err := s.scanner.AnalyzeEntities(strategy.Text)
		if err != nil {
			return nil, fmt.Errorf("analyzing receipt text: %w", err)
		}
		doc = parsing.FromEntities(strategy.StoreLine, entities, s.idGenerator)
	default:
		return nil, fmt.Errorf("unknown parse strategy %T", strategy)
	}

	for _, d := range doc.Diagnostics {
		slog.Warn("Receipt parse diagnostic", "source", doc.Source, "diagnostic", d)
	}

	if err := parsing.ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}
	return doc, nil
}

// ProcessText parses receipt text and stores it with the result for a user.
// Nothing is kept when the text cannot be parsed.
func (s *Service) ProcessText(userID, filename, text string) (*Receipt, error) {
	if filename == "" {
		filename = "receipt.txt"
	}
	return s.process(userID, filename, []byte(text), textContentType, func() (string, error) {
		return text, nil
	})
}

// ProcessReceipt stores an uploaded receipt image, reads it and stores the parsed result
func (s *Service) ProcessReceipt(userID, filename string, data []byte, contentType string) (*Receipt, error) {
	if s.scanner == nil {
		return nil, fmt.Errorf("reading receipt: %w", ErrNoScanner)
	}
	return s.process(userID, filename, data, contentType, func() (string, error) {
		text, err := s.scanner.ReadText(data, contentType)
		if err != nil {
			slog.Error("Failed to read receipt",
				"filename", filename,
				"content_type", contentType,
				"file_size", len(data),
				"error", err,
			)
			return "", fmt.Errorf("reading receipt: %w", err)
		}
		return text, nil
	})
}

// process saves the file, obtains its text, parses it and saves the receipt.
// The saved file is removed when a later step fails.
func (s *Service) process(userID, filename string, data []byte, contentType string, readText func() (string, error)) (*Receipt, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	id := s.idGenerator.Generate()
	savedPath, err := s.storage.Save(userFilePath(userID, id+"_"+sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := readText()
	if err != nil {
		s.removeFile(savedPath)
		return nil, err
	}

	doc, err := s.ParseText(text)
	if err != nil {
		slog.Error("Failed to parse receipt", "user_id", userID, "filename", filename, "error", err)
		s.removeFile(savedPath)
		return nil, err
	}

	receipt := &Receipt{
		ID:          id,
		UserID:      userID,
		ReceiptInfo: doc,
		Text:        text,
		Filename:    savedPath,
		ContentType: contentType,
		EntryDate:   s.timeSource.Now(),
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	slog.Info("Receipt stored",
		"user_id", userID,
		"receipt_id", receipt.ID,
		"source", doc.Source,
		"items", len(doc.Items),
	)
	return receipt, nil
}

func (s *Service) removeFile(path string) {
	if err := s.storage.Delete(path); err != nil {
		slog.Warn("Failed to delete file", "filename", path, "error", err)
	}
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(userID, id string) (*Receipt, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	receipt, err := s.db.GetReceipt(userID, id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all of a user's receipts
func (s *Service) ListReceipts(userID string) ([]*Receipt, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	receipts, err := s.db.ListReceipts(userID)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its file
func (s *Service) DeleteReceipt(userID, id string) error {
	receipt, err := s.GetReceipt(userID, id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	s.removeFile(receipt.Filename)

	if err := s.db.DeleteReceipt(userID, id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the uploaded file for a receipt
func (s *Service) GetReceiptFile(userID, id string) ([]byte, string, error) {
	receipt, err := s.GetReceipt(userID, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, receipt.ContentType, nil
}
