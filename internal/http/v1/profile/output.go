package profile

import (
	"github.com/janisto/profilehub/internal/api"
)

// SaveOutput carries a dynamic status: 201 when the call created a record,
// 200 when it updated an existing one.
type SaveOutput struct {
	Status int
	Body   api.Envelope[Profile]
}

// GetOutput is the response wrapper for get-by-email.
type GetOutput struct {
	Body api.Envelope[Profile]
}

// ListOutput is the response wrapper for list-all.
type ListOutput struct {
	Body api.Envelope[[]Profile]
}

// DeleteOutput is the response wrapper for delete-by-email.
type DeleteOutput struct {
	Body api.Envelope[struct{}]
}
