package conversation

import (
	"context"
	"errors"

	"github.com/llatino/my-laundry-bot/internal/customers"
	"github.com/llatino/my-laundry-bot/pkg/logging"
)

// RecordStore resolves an identity key to a customer record.
type RecordStore interface {
	Lookup(ctx context.Context, identityKey string) (*customers.Record, error)
}

// Responder runs the business half of the pipeline: lookup, classification
// and composition. It is stateless and safe for concurrent use.
type Responder struct {
	store  RecordStore
	logger *logging.Logger
}

// NewResponder creates a Responder backed by the given record store.
func NewResponder(store RecordStore, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{store: store, logger: logger}
}

// Respond resolves the sender and produces the reply outcome for one
// message. Failures below the transport boundary never escape as errors;
// they become a composed fallback outcome.
func (r *Responder) Respond(ctx context.Context, identityKey, text string) Outcome {
	rec, err := r.store.Lookup(ctx, identityKey)
	switch {
	case errors.Is(err, customers.ErrNotFound):
		return UnknownIdentity(identityKey)
	case err != nil:
		r.logger.Error("customer lookup failed",
			"identity_key", identityKey,
			"error", err,
		)
		return SystemFailure(err.Error())
	}

	return Resolved(rec, Classify(text))
}
