// Package notifylog delivers notifications to the structured log.
// It stands in for an outbound channel (SMS, email, webhooks) that a
// deployment can swap in behind the same interface.
package notifylog

import (
	"context"

	"github.com/kmgmill/ricemill-api/internal/application/notify"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

var _ notify.Notifier = (*Notifier)(nil)

type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Notify(_ context.Context, e notify.Event) error {
	ev := n.log.Info().
		Str("kind", e.Kind).
		Str("title", e.Title)
	for k, v := range e.Meta {
		ev = ev.Str(k, v)
	}
	ev.Msg(e.Message)
	return nil
}
