package ngram

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

const (
	// DefaultFrameOpen is written before generated text to mark it as an excerpt.
	DefaultFrameOpen = "... "
	// DefaultFrameClose is written after generated text.
	DefaultFrameClose = " ..."
)

// generateOptions is used by Generate to configure output framing.
type generateOptions struct {
	frameOpen  string
	frameClose string
	separator  string
}

// GenerateOption configures how Generate renders the walk.
type GenerateOption func(*generateOptions)

// WithFraming sets the strings written before and after the generated words.
// Default: "... " and " ..."
func WithFraming(open, close string) GenerateOption {
	return func(o *generateOptions) {
		o.frameOpen = open
		o.frameClose = close
	}
}

// WithoutFraming returns the bare words joined by the separator.
func WithoutFraming() GenerateOption {
	return WithFraming("", "")
}

// WithSeparator sets the string placed between words.
// Default: " "
func WithSeparator(sep string) GenerateOption {
	return func(o *generateOptions) { o.separator = sep }
}

// Generate walks the model for numWords words and returns them as a single
// framed string. See GenerateWords for the walk itself.
func (g *Generator) Generate(ctx context.Context, numWords int, opts ...GenerateOption) (string, error) {
	options := &generateOptions{
		frameOpen:  DefaultFrameOpen,
		frameClose: DefaultFrameClose,
		separator:  " ",
	}
	for _, opt := range opts {
		opt(options)
	}

	words, err := g.GenerateWords(ctx, numWords)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString(options.frameOpen)
	for i, word := range words {
		if i > 0 {
			builder.WriteString(options.separator)
		}
		builder.WriteString(word)
	}
	builder.WriteString(options.frameClose)
	return builder.String(), nil
}

// GenerateWords performs one random walk. A seed window is chosen uniformly
// from the model and all of its N words are emitted; then numWords-N more
// words are drawn, each uniformly from the followers of the current window,
// which slides forward after every draw. When numWords <= N the seed window
// alone is returned. It fails with ErrInvalidLength if numWords < 1, and
// with the context's error if ctx is cancelled before the walk completes.
func (g *Generator) GenerateWords(ctx context.Context, numWords int) ([]string, error) {
	if numWords < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, numWords)
	}

	cursor := g.seed()
	words := make([]string, 0, max(numWords, len(cursor)))
	words = append(words, cursor...)

	for len(words) < numWords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := g.next(cursor)
		if err != nil {
			return nil, err
		}
		words = append(words, next)
		cursor = cursor.Slide(next)
	}

	g.logger.DebugContext(ctx, "Generation completed",
		slog.Int("order", g.model.order),
		slog.String("seed", Window(words[:g.model.order]).String()),
		slog.Int("requested_length", numWords),
		slog.Int("generated_length", len(words)),
	)

	return words, nil
}

// seed picks a uniformly random window from the model.
func (g *Generator) seed() Window {
	e := g.model.entries[g.rng.IntN(len(g.model.entries))]
	return slices.Clone(e.window)
}

// next draws one follower of cursor. Every window reached by sliding with its
// own followers was recorded during training, so a miss means the model is
// corrupt.
func (g *Generator) next(cursor Window) (string, error) {
	followers, ok := g.model.lookup(cursor)
	if !ok {
		g.logger.Error("Walk reached an unrecorded window", slog.String("window", cursor.String()))
		return "", fmt.Errorf("internal invariant violated: %w: %q", ErrUnknownWindow, cursor.String())
	}
	return followers[g.rng.IntN(len(followers))], nil
}

// Generate is a one-shot helper that walks model with rng and returns the
// framed text. It fails with ErrEmptyModel if the model has no windows.
func Generate(ctx context.Context, model *Model, numWords int, rng Rand, opts ...GenerateOption) (string, error) {
	g, err := NewGenerator(model, rng)
	if err != nil {
		return "", err
	}
	return g.Generate(ctx, numWords, opts...)
}
