// Package orphan implements the deferred review of questions that lost
// their last wave link. Deleting a question is destructive (keywords,
// items, variable usage all cascade), so the decision is parked in a
// short-lived per-session slot and resolved only by an explicit "delete"
// or "keep" from the editor. A question is never silently deleted just
// because it temporarily has zero wave links.
package orphan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	reviewKeyPrefix = "orphan:review:"
	reviewTTL       = 30 * time.Minute
)

// DefaultLanding is where a resolved or absent review redirects when no
// valid return URL was recorded.
const DefaultLanding = "/"

// Review states.
const (
	ActionDelete = "delete"
	ActionKeep   = "keep"
)

// Review is one pending orphan decision. One slot per session; starting a
// new review overwrites the previous one.
type Review struct {
	QuestionIDs []int64   `json:"question_ids"`
	ReturnURL   string    `json:"return_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Manager stores pending reviews in Valkey, keyed per editor session with
// a 30-minute TTL.
type Manager struct {
	client valkey.Client
}

func NewManager(client valkey.Client) *Manager {
	return &Manager{client: client}
}

// Start parks questionIDs for review under the session's slot. The return
// URL is kept only if it passes the same-origin check; the review screen
// otherwise falls back to the default landing location.
func (m *Manager) Start(ctx context.Context, sessionID string, questionIDs []int64, returnURL string) error {
	if !ValidReturnURL(returnURL) {
		returnURL = ""
	}
	r := Review{
		QuestionIDs: questionIDs,
		ReturnURL:   returnURL,
		CreatedAt:   time.Now(),
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	key := reviewKeyPrefix + sessionID
	resp := m.client.Do(ctx, m.client.B().Set().Key(key).Value(string(data)).Ex(reviewTTL).Build())
	if err := resp.Error(); err != nil {
		return fmt.Errorf("save review %s: %w", sessionID, err)
	}
	return nil
}

// Pending returns the session's pending review, or nil when there is none.
// Visiting the review screen without a slot is informational, not an error.
func (m *Manager) Pending(ctx context.Context, sessionID string) (*Review, error) {
	key := reviewKeyPrefix + sessionID
	resp := m.client.Do(ctx, m.client.B().Get().Key(key).Build())
	data, err := resp.AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load review %s: %w", sessionID, err)
	}

	var r Review
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode review %s: %w", sessionID, err)
	}
	return &r, nil
}

// Clear removes the session's slot. Called on resolution regardless of the
// chosen action.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	key := reviewKeyPrefix + sessionID
	resp := m.client.Do(ctx, m.client.B().Del().Key(key).Build())
	if err := resp.Error(); err != nil {
		return fmt.Errorf("clear review %s: %w", sessionID, err)
	}
	return nil
}

// RedirectTarget returns where the actor goes after resolution.
func (r *Review) RedirectTarget() string {
	if ValidReturnURL(r.ReturnURL) {
		return r.ReturnURL
	}
	return DefaultLanding
}

// ValidAction reports whether s is one of the two resolution actions.
func ValidAction(s string) bool {
	return s == ActionDelete || s == ActionKeep
}

// ValidReturnURL accepts only same-origin targets: a non-empty absolute
// path. Scheme-relative ("//evil.example") and absolute URLs are rejected;
// the UI layer owns any richer open-redirect policy.
func ValidReturnURL(raw string) bool {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return false
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return false
	}
	return true
}
