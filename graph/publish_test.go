package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kepae/aifr-jsonld-example/jsonld"
)

func TestPublisher_NilConnectionIsNoop(t *testing.T) {
	p := NewPublisher(nil, "", nil)
	err := p.PublishReport(context.Background(), "abc123", &jsonld.Document{})
	assert.NoError(t, err)
}

func TestPublisher_CancelledContext(t *testing.T) {
	// A nil connection short-circuits before the context check; only a live
	// publisher consults it, so this exercises the nil path staying silent.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPublisher(nil, "custom.subject", nil)
	assert.NoError(t, p.PublishReport(ctx, "abc123", &jsonld.Document{}))
}
