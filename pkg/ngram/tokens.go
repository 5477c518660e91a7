package ngram

import (
	"bufio"
	"errors"
	"io"
)

// Tokenizer is an interface that defines the contract for splitting input
// text into tokens, so the model does not depend on one splitting strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Separator returns the string used to join tokens in generated text.
	Separator() string
}

// StreamTokenizer is a stateful tokenizer that returns one token at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (string, error)
}

// defaultMaxTokenSize matches bufio.MaxScanTokenSize.
const defaultMaxTokenSize = 64 * 1024

// WhitespaceTokenizer splits text on Unicode whitespace and nothing else.
// Case and punctuation are preserved, so "The" and "the." are distinct tokens.
type WhitespaceTokenizer struct {
	maxTokenSize int
}

// TokenizerOption configures a WhitespaceTokenizer.
type TokenizerOption func(*WhitespaceTokenizer)

// WithMaxTokenSize sets the longest token the stream accepts. Longer runs of
// non-space bytes make Next fail with bufio.ErrTooLong.
// Default: 64 KiB
func WithMaxTokenSize(n int) TokenizerOption {
	return func(t *WhitespaceTokenizer) {
		if n > 0 {
			t.maxTokenSize = n
		}
	}
}

// NewWhitespaceTokenizer creates a tokenizer with default settings, which can
// be overridden by providing one or more TokenizerOption functions.
func NewWhitespaceTokenizer(opts ...TokenizerOption) *WhitespaceTokenizer {
	t := &WhitespaceTokenizer{maxTokenSize: defaultMaxTokenSize}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Separator returns a single space.
func (t *WhitespaceTokenizer) Separator() string {
	return " "
}

// NewStream returns the stream processor.
func (t *WhitespaceTokenizer) NewStream(r io.Reader) StreamTokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(4096, t.maxTokenSize)), t.maxTokenSize)
	scanner.Split(bufio.ScanWords)
	return &whitespaceStream{scanner: scanner}
}

type whitespaceStream struct {
	scanner *bufio.Scanner
}

// Next returns the next word. When the stream is exhausted it returns io.EOF.
// Any other error is a failure reading from the underlying stream.
func (s *whitespaceStream) Next() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// Tokenize is a convenience wrapper that drains a reader into a slice.
func Tokenize(r io.Reader, tokenizer Tokenizer) ([]string, error) {
	stream := tokenizer.NewStream(r)
	var tokens []string
	for {
		token, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
}
