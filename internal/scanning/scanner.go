package scanning

import (
	"errors"

	"github.com/ybae45/chopchop/internal/parsing"
)

// ErrNoText is returned when OCR finds nothing to read in an image
var ErrNoText = errors.New("no text detected in image")

// Scanner defines the interface for the OCR and entity analysis collaborators
type Scanner interface {
	// ReadText transcribes the text printed on a receipt image or PDF
	ReadText(imageData []byte, contentType string) (string, error)
	// AnalyzeEntities finds locations, dates and consumer goods in receipt text
	AnalyzeEntities(text string) ([]parsing.Entity, error)
	// Close closes the scanner and releases resources
	Close() error
}
