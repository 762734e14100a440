// Package history lists and displays conversations saved on the backend.
package history

import (
	"context"
	"time"

	"github.com/sikshasathi/sathi/internal/api"
	"github.com/sikshasathi/sathi/internal/sathi"
)

// Lister is the part of the API client the browser needs.
type Lister interface {
	HasToken() bool
	ListSavedChats(ctx context.Context) ([]sathi.SavedSession, error)
}

// Browser fetches saved sessions. Read-only and independent of the live
// conversation.
type Browser struct {
	client Lister
}

// NewBrowser creates a browser over the given client.
func NewBrowser(client Lister) *Browser {
	return &Browser{client: client}
}

// List fetches saved sessions, dropping entries whose stored history is
// missing, empty, or contains a turn with neither side populated.
// Malformed entries are a data-quality filter, not a fault, so they are
// skipped silently. Fails before any network call when no token is set.
func (b *Browser) List(ctx context.Context) ([]sathi.SavedSession, error) {
	if !b.client.HasToken() {
		return nil, &api.AuthError{Reason: "no access token found, please login"}
	}

	sessions, err := b.client.ListSavedChats(ctx)
	if err != nil {
		return nil, err
	}

	valid := make([]sathi.SavedSession, 0, len(sessions))
	for _, s := range sessions {
		if sathi.ValidTurns(s.Data.ChatHistory) {
			valid = append(valid, s)
		}
	}
	return valid, nil
}

// Detail projects a saved session's turns into display messages. Pure
// local state transition, no network call.
func (b *Browser) Detail(s sathi.SavedSession) []sathi.Message {
	base := s.CreatedDate
	if base.IsZero() {
		base = time.Now()
	}
	return sathi.TurnsToMessages(s.Data.ChatHistory, base)
}
