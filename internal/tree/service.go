// Package tree implements the lifecycle rules of the
// Agent -> Space -> Checklist -> Item -> Step hierarchy: creation with
// parent linking, lookups by name or title, partial updates, step-driven
// progress derivation and the transactional cascade delete.
package tree

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/store"
)

// Service is the entry point for every tree mutation. It is safe for
// concurrent use; consistency comes from the store's transactions.
type Service struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Service backed by s. A nil logger discards output.
func New(s store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: s, logger: logger, now: time.Now}
}

// required trims v and rejects it when empty.
func required(op, field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperr.Validation(op, "%s is required", field)
	}
	return v, nil
}
