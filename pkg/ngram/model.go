package ngram

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrInvalidOrder is returned when a model is requested with N < 2.
	ErrInvalidOrder = errors.New("ngram: order must be at least 2")
	// ErrInsufficientInput is returned when the token stream is shorter than N.
	ErrInsufficientInput = errors.New("ngram: not enough tokens to form a window")
	// ErrUnknownWindow is returned when a window that was never recorded is queried.
	ErrUnknownWindow = errors.New("ngram: unknown window")
	// ErrEmptyModel is returned when generating from a model with no windows.
	ErrEmptyModel = errors.New("ngram: model is empty")
	// ErrInvalidLength is returned when fewer than one word is requested.
	ErrInvalidLength = errors.New("ngram: word count must be positive")
)

// MinOrder is the smallest window size a Model accepts.
const MinOrder = 2

// Window is an ordered run of exactly N words used as a lookup key.
type Window []string

// Key returns the comparable form of the window used for map lookups. Each
// word is written with its byte length in front, so two windows share a key
// only when they hold the same words.
func (w Window) Key() string {
	var b strings.Builder
	for _, word := range w {
		b.WriteString(strconv.Itoa(len(word)))
		b.WriteByte(':')
		b.WriteString(word)
	}
	return b.String()
}

// Slide returns a new window with the first word dropped and next appended.
// The receiver is left untouched.
func (w Window) Slide(next string) Window {
	out := make(Window, len(w))
	copy(out, w[1:])
	out[len(out)-1] = next
	return out
}

// Equal reports whether both windows hold the same words in the same order.
func (w Window) Equal(other Window) bool {
	return slices.Equal(w, other)
}

// String renders the window space-separated, for logs and error messages.
func (w Window) String() string {
	return strings.Join(w, " ")
}

// entry pairs a window with every word observed right after it.
type entry struct {
	window    Window
	followers []string
}

// Model is an n-gram corpus model. It is built once by Build, Train or a
// Builder and is read-only afterwards, so it may be shared between
// goroutines without locking.
type Model struct {
	order   int
	index   map[string]int
	entries []entry
}

func newModel(order int) *Model {
	return &Model{
		order: order,
		index: make(map[string]int),
	}
}

// record appends next to the followers of w, inserting w when it is new.
func (m *Model) record(w Window, next string) {
	key := w.Key()
	if i, ok := m.index[key]; ok {
		m.entries[i].followers = append(m.entries[i].followers, next)
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry{
		window:    slices.Clone(w),
		followers: []string{next},
	})
}

// lookup returns the stored followers without copying. Callers must not
// modify the result.
func (m *Model) lookup(w Window) ([]string, bool) {
	i, ok := m.index[w.Key()]
	if !ok {
		return nil, false
	}
	return m.entries[i].followers, true
}

// Order returns N, the number of words in each window.
func (m *Model) Order() int {
	return m.order
}

// Len returns the number of distinct windows in the model.
func (m *Model) Len() int {
	return len(m.entries)
}

// Contains reports whether w was recorded during training.
func (m *Model) Contains(w Window) bool {
	_, ok := m.index[w.Key()]
	return ok
}

// FollowersOf returns a copy of the words recorded after w, in the order
// they were first seen and with duplicates kept. It fails with
// ErrUnknownWindow if w was never recorded.
func (m *Model) FollowersOf(w Window) ([]string, error) {
	followers, ok := m.lookup(w)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, w.String())
	}
	return slices.Clone(followers), nil
}

// Windows returns a copy of every window in the model, in the order they
// were first recorded.
func (m *Model) Windows() []Window {
	out := make([]Window, len(m.entries))
	for i, e := range m.entries {
		out[i] = slices.Clone(e.window)
	}
	return out
}
