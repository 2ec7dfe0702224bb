package receipt

import (
	"time"

	"github.com/ybae45/chopchop/internal/parsing"
)

// Receipt is a parsed receipt stored for a user
type Receipt struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	ReceiptInfo *parsing.Document `json:"receipt_info"`
	Text        string            `json:"text"`         // OCR text the document was parsed from
	Filename    string            `json:"filename"`     // stored upload, or the submitted text
	ContentType string            `json:"content_type"` // MIME type of the stored file
	EntryDate   time.Time         `json:"entry_date"`
}

// PurchasedAt returns the transaction time printed on the receipt, if it has one
func (r *Receipt) PurchasedAt() (time.Time, bool) {
	if r.ReceiptInfo == nil || r.ReceiptInfo.Transaction == nil {
		return time.Time{}, false
	}
	t, err := r.ReceiptInfo.Transaction.Time()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
