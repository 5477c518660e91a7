package ngram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Builder accumulates a Model from a token stream one token at a time. Only
// the first N tokens are buffered, for the wrap-around pass.
type Builder struct {
	model  *Model
	head   []string
	cursor Window
	done   bool
}

// NewBuilder returns a Builder for windows of n words.
func NewBuilder(n int) (*Builder, error) {
	if n < MinOrder {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, n)
	}
	return &Builder{
		model: newModel(n),
		head:  make([]string, 0, n),
	}, nil
}

// Add feeds the next token of the stream. Tokens are stored verbatim.
// Tokens added after Model has been called are ignored.
func (b *Builder) Add(token string) {
	if b.done {
		return
	}
	if len(b.head) < b.model.order {
		b.head = append(b.head, token)
		if len(b.head) == b.model.order {
			b.cursor = slices.Clone(Window(b.head))
		}
		return
	}
	b.step(token)
}

// step records next as a follower of the cursor and slides the cursor.
func (b *Builder) step(next string) {
	b.model.record(b.cursor, next)
	b.cursor = b.cursor.Slide(next)
}

// Model closes the corpus with the wrap-around pass and returns the finished
// model. It fails with ErrInsufficientInput if fewer than N tokens were
// added. Later calls return the same model.
func (b *Builder) Model() (*Model, error) {
	if len(b.head) < b.model.order {
		return nil, fmt.Errorf("%w: got %d tokens, need at least %d", ErrInsufficientInput, len(b.head), b.model.order)
	}
	if !b.done {
		// Feed the first N tokens again so the windows spanning the end of
		// the corpus have followers.
		for _, token := range b.head {
			b.step(token)
		}
		b.done = true
	}
	return b.model, nil
}

// Build constructs a Model of order n from an already tokenized corpus.
// Construction is deterministic for a given token slice and n.
func Build(tokens []string, n int) (*Model, error) {
	b, err := NewBuilder(n)
	if err != nil {
		return nil, err
	}
	for _, token := range tokens {
		b.Add(token)
	}
	return b.Model()
}

// Train reads data through the tokenizer and builds a Model of order n from
// the resulting tokens. The context is checked between tokens so a large
// corpus can be abandoned.
func Train(ctx context.Context, data io.Reader, n int, tokenizer Tokenizer) (*Model, error) {
	b, err := NewBuilder(n)
	if err != nil {
		return nil, err
	}

	stream := tokenizer.NewStream(data)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		b.Add(token)
	}

	return b.Model()
}
