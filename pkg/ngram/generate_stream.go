package ngram

import (
	"context"
	"fmt"
	"log/slog"
)

// GenerateStream performs the same walk as GenerateWords but returns a
// read-only channel that yields the words one at a time. This is useful when
// printing long excerpts as they are produced. The channel is closed once
// numWords words have been sent, the context is cancelled or the walk fails.
// Once the channel is closed, Err reports why the stream ended early.
//
// For the same Rand state, the words received equal those GenerateWords
// would return. The Generator must not be used for another walk until the
// channel is closed.
func (g *Generator) GenerateStream(ctx context.Context, numWords int) (<-chan string, error) {
	if numWords < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, numWords)
	}

	g.streamErr = nil
	cursor := g.seed()
	wordChan := make(chan string)

	go func() {
		defer close(wordChan)

		for _, word := range cursor {
			select {
			case <-ctx.Done():
				g.streamErr = ctx.Err()
				return
			case wordChan <- word:
			}
		}

		for generated := len(cursor); generated < numWords; generated++ {
			next, err := g.next(cursor)
			if err != nil {
				g.logger.ErrorContext(ctx, "failed to extend stream", slog.Any("error", err))
				g.streamErr = err
				return
			}
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Generation stream cancelled by context",
					slog.Int("generated_length", generated),
				)
				g.streamErr = ctx.Err()
				return
			case wordChan <- next:
			}
			cursor = cursor.Slide(next)
		}
	}()

	return wordChan, nil
}

// Err returns the error that ended the last stream early, or nil if every
// requested word was sent. It must only be called after the channel returned
// by GenerateStream has been closed.
func (g *Generator) Err() error {
	return g.streamErr
}
