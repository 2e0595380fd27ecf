// Package notify separates best-effort side effects from the writes
// that must succeed. A failed notification or ledger annotation never
// fails the operation that triggered it.
package notify

import (
	"context"

	"github.com/kmgmill/ricemill-api/pkg/logger"
)

// Event is a business occurrence other systems may react to.
type Event struct {
	Kind    string
	Title   string
	Message string
	Meta    map[string]string
}

// Notifier delivers events. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// BestEffort runs fn and logs the error instead of returning it. Use
// it only for side effects whose failure must not undo the primary
// write.
func BestEffort(log *logger.Logger, op string, fn func() error) {
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("best-effort side effect failed")
	}
}
