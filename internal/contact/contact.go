package contact

import (
	"time"

	"github.com/okrent/cardscan/internal/classify"
)

// Contact is a stored business card: the classified fields plus the
// envelope the service adds around them. A contact starts life as an
// unsaved draft returned by ScanCard and only gets timestamps once the
// reviewer confirms it with CreateContact.
type Contact struct {
	ID string `json:"id"`

	classify.Card

	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
