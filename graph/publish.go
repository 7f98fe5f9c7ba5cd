// Package graph publishes emitted flaw report documents to NATS for
// downstream graph ingestion.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kepae/aifr-jsonld-example/jsonld"
)

// DefaultSubject is the subject flaw report documents are published on.
const DefaultSubject = "aifr.report.jsonld"

// ReportMessage is the wire envelope for a published report document.
type ReportMessage struct {
	ID          string           `json:"id"`
	Document    *jsonld.Document `json:"document"`
	PublishedAt time.Time        `json:"published_at"`
}

// Publisher pushes report documents to a NATS subject. A Publisher with a
// nil connection is a no-op, so callers need no conditional around an
// optional NATS setup.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewPublisher creates a publisher on the given connection. nc may be nil;
// an empty subject means DefaultSubject.
func NewPublisher(nc *nats.Conn, subject string, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{nc: nc, subject: subject, logger: logger}
}

// PublishReport publishes one report document.
func (p *Publisher) PublishReport(ctx context.Context, reportID string, doc *jsonld.Document) error {
	if p.nc == nil {
		return nil // Skip publishing if no NATS connection (graceful degradation)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := ReportMessage{
		ID:          reportID,
		Document:    doc,
		PublishedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal report message: %w", err)
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish report %s: %w", reportID, err)
	}

	p.logger.Debug("published report document",
		slog.String("report_id", reportID),
		slog.String("subject", p.subject))
	return nil
}
