package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/nhache/Markov-model/pkg/history"
	"github.com/nhache/Markov-model/pkg/ngram"
)

const banner = `Welcome to random writer ('N-Grams')!
This program generates random text based on a document.
Give me an input file and an 'N' value for groups
of words, and I'll create random text for you.
`

// Session drives one interactive run: pick a corpus, pick N, then generate
// excerpts until the user asks for zero words.
type Session struct {
	in         *bufio.Scanner
	out        io.Writer
	logger     *slog.Logger
	tokenizer  ngram.Tokenizer
	rng        ngram.Rand
	history    *history.Store
	stream     bool
	frameOpen  string
	frameClose string
}

// NewSession creates a session reading answers from in and writing prompts
// and excerpts to out. store may be nil to disable history.
func NewSession(in io.Reader, out io.Writer, logger *slog.Logger, config *Config, rng ngram.Rand, store *history.Store) *Session {
	return &Session{
		in:         bufio.NewScanner(in),
		out:        out,
		logger:     logger,
		tokenizer:  ngram.NewWhitespaceTokenizer(ngram.WithMaxTokenSize(config.MaxTokenSize)),
		rng:        rng,
		history:    store,
		frameOpen:  config.FrameOpen,
		frameClose: config.FrameClose,
	}
}

// SetStreaming prints excerpts word by word instead of all at once.
func (s *Session) SetStreaming(stream bool) {
	s.stream = stream
}

// Run executes the session. corpusPath and order may be empty / zero, in
// which case the user is asked for them. Running out of input ends the
// session cleanly.
func (s *Session) Run(ctx context.Context, corpusPath string, order int) error {
	_, _ = io.WriteString(s.out, banner+"\n")

	corpus, model, err := s.loadModel(ctx, corpusPath, order)
	if err != nil {
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			s.exit()
			return nil
		}
		return err
	}

	gen, err := ngram.NewGenerator(model, s.rng)
	if err != nil {
		return err
	}
	gen.SetLogger(s.logger)

	for ctx.Err() == nil {
		_, _ = fmt.Fprintln(s.out)
		numWords, err := s.promptInteger(ctx, "# of random words to generate (0 to quit): ", 0)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				break
			}
			return err
		}
		if numWords == 0 {
			break
		}

		excerpt, err := s.generate(ctx, gen, numWords)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}
		s.record(ctx, corpus, model.Order(), numWords, excerpt)
	}

	s.exit()
	return nil
}

// loadModel asks for a readable corpus and a valid N until a model can be
// built from them.
func (s *Session) loadModel(ctx context.Context, corpusPath string, order int) (string, *ngram.Model, error) {
	for {
		file, path, err := s.openCorpus(ctx, corpusPath)
		if err != nil {
			return "", nil, err
		}
		corpusPath = ""

		if order < ngram.MinOrder {
			order, err = s.promptInteger(ctx, "Value of N? ", ngram.MinOrder)
			if err != nil {
				_ = file.Close()
				return "", nil, err
			}
		}

		model, err := ngram.Train(ctx, file, order, s.tokenizer)
		_ = file.Close()
		if err == nil {
			stats := model.Stats()
			s.logger.InfoContext(ctx, "Model built",
				slog.String("corpus", path),
				slog.Int("order", stats.Order),
				slog.Int("windows", stats.Windows),
				slog.Int("transitions", stats.Transitions),
			)
			return path, model, nil
		}
		if !errors.Is(err, ngram.ErrInsufficientInput) {
			return "", nil, fmt.Errorf("failed to build model from %s: %w", path, err)
		}
		_, _ = fmt.Fprintf(s.out, "%s has fewer than %d words. Try another file.\n", path, order)
	}
}

// openCorpus opens path, or keeps asking for a file name until one opens.
func (s *Session) openCorpus(ctx context.Context, path string) (*os.File, string, error) {
	for {
		if path == "" {
			line, err := s.prompt(ctx, "Input file name? ")
			if err != nil {
				return nil, "", err
			}
			path = line
		}
		file, err := os.Open(path)
		if err == nil {
			return file, path, nil
		}
		s.logger.Debug("Could not open corpus", slog.String("path", path), slog.Any("error", err))
		path = ""
	}
}

// generate prints one excerpt and returns it. Nothing is returned unless the
// walk produced every requested word.
func (s *Session) generate(ctx context.Context, gen *ngram.Generator, numWords int) (string, error) {
	sep := s.tokenizer.Separator()
	if !s.stream {
		excerpt, err := gen.Generate(ctx, numWords,
			ngram.WithFraming(s.frameOpen, s.frameClose),
			ngram.WithSeparator(sep),
		)
		if err != nil {
			return "", err
		}
		_, _ = fmt.Fprintln(s.out, excerpt)
		return excerpt, nil
	}

	wordChan, err := gen.GenerateStream(ctx, numWords)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	builder.WriteString(s.frameOpen)
	_, _ = io.WriteString(s.out, s.frameOpen)
	first := true
	for word := range wordChan {
		if !first {
			builder.WriteString(sep)
			_, _ = io.WriteString(s.out, sep)
		}
		first = false
		builder.WriteString(word)
		_, _ = io.WriteString(s.out, word)
	}
	if err := gen.Err(); err != nil {
		_, _ = fmt.Fprintln(s.out)
		return "", err
	}
	builder.WriteString(s.frameClose)
	_, _ = fmt.Fprintln(s.out, s.frameClose)
	return builder.String(), nil
}

// record saves an excerpt to history. Failures are logged, not fatal.
func (s *Session) record(ctx context.Context, corpus string, order, requested int, excerpt string) {
	if s.history == nil {
		return
	}
	_, err := s.history.Record(ctx, history.Entry{
		Corpus:    corpus,
		Order:     order,
		Requested: requested,
		Excerpt:   excerpt,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to record history entry", slog.Any("error", err))
	}
}

func (s *Session) exit() {
	_, _ = fmt.Fprintln(s.out, "Exiting.")
}

type scanResult struct {
	line string
	err  error
}

// prompt writes msg and returns the next trimmed line of input. It gives up
// with the context's error as soon as ctx is cancelled, even while the read
// is still blocked.
func (s *Session) prompt(ctx context.Context, msg string) (string, error) {
	_, _ = io.WriteString(s.out, msg)

	result := make(chan scanResult, 1)
	go func() {
		if !s.in.Scan() {
			err := s.in.Err()
			if err == nil {
				err = io.EOF
			}
			result <- scanResult{err: err}
			return
		}
		result <- scanResult{line: strings.TrimSpace(s.in.Text())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-result:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return r.line, r.err
	}
}

// promptInteger asks until the answer is an integer no smaller than minimum.
func (s *Session) promptInteger(ctx context.Context, msg string, minimum int) (int, error) {
	for {
		line, err := s.prompt(ctx, msg)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			_, _ = fmt.Fprintln(s.out, "Illegal integer format. Try again.")
			continue
		}
		if n >= minimum {
			return n, nil
		}
	}
}
