package ngram

import (
	"errors"
	"io"
	"log/slog"
)

// Rand is the randomness source used for every sampling decision. IntN must
// return a uniformly distributed integer in [0, n). *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// Generator walks a Model to produce text. It holds the model, a
// randomness source and a logger. A Generator is not safe for concurrent
// use because its Rand is not; create one per goroutine over a shared Model.
type Generator struct {
	model     *Model
	rng       Rand
	logger    *slog.Logger
	streamErr error
}

// NewGenerator creates a Generator over a built model. It fails with
// ErrEmptyModel if the model is nil or has no windows.
func NewGenerator(model *Model, rng Rand) (*Generator, error) {
	if model == nil || model.Len() == 0 {
		return nil, ErrEmptyModel
	}
	if rng == nil {
		return nil, errors.New("ngram: nil random source")
	}
	return &Generator{
		model:  model,
		rng:    rng,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}
