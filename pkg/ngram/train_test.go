package ngram

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	m := setupTestModel(t, catCorpus, 2)

	testCases := []struct {
		window    Window
		followers []string
	}{
		{Window{"the", "cat"}, []string{"sat", "ran"}},
		{Window{"cat", "sat"}, []string{"on"}},
		{Window{"sat", "on"}, []string{"the"}},
		{Window{"on", "the"}, []string{"mat"}},
		{Window{"the", "mat"}, []string{"the"}},
		{Window{"mat", "the"}, []string{"cat"}},
		// Only present because of the wrap-around pass.
		{Window{"cat", "ran"}, []string{"the"}},
		{Window{"ran", "the"}, []string{"cat"}},
	}

	if m.Len() != len(testCases) {
		t.Errorf("expected %d windows, got %d", len(testCases), m.Len())
	}
	for _, tc := range testCases {
		got, err := m.FollowersOf(tc.window)
		if err != nil {
			t.Errorf("FollowersOf(%q) failed: %v", tc.window.String(), err)
			continue
		}
		if !reflect.DeepEqual(got, tc.followers) {
			t.Errorf("FollowersOf(%q) = %v, want %v", tc.window.String(), got, tc.followers)
		}
	}
}

func TestBuildMinimalInput(t *testing.T) {
	m := setupTestModel(t, []string{"a", "b"}, 2)

	if m.Len() != 2 {
		t.Fatalf("expected 2 windows, got %d", m.Len())
	}
	if got, _ := m.FollowersOf(Window{"a", "b"}); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("FollowersOf(a b) = %v, want [a]", got)
	}
	if got, _ := m.FollowersOf(Window{"b", "a"}); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("FollowersOf(b a) = %v, want [b]", got)
	}
}

func TestBuildErrors(t *testing.T) {
	testCases := []struct {
		name    string
		tokens  []string
		n       int
		wantErr error
	}{
		{name: "Fewer tokens than order", tokens: []string{"a"}, n: 2, wantErr: ErrInsufficientInput},
		{name: "No tokens", tokens: nil, n: 3, wantErr: ErrInsufficientInput},
		{name: "Order of one", tokens: catCorpus, n: 1, wantErr: ErrInvalidOrder},
		{name: "Negative order", tokens: catCorpus, n: -2, wantErr: ErrInvalidOrder},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Build(tc.tokens, tc.n)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if m != nil {
				t.Errorf("expected no model on failure, got %d windows", m.Len())
			}
		})
	}
}

func TestBuildKeepsDuplicates(t *testing.T) {
	m := setupTestModel(t, strings.Fields("a b a b a b"), 2)

	got, _ := m.FollowersOf(Window{"a", "b"})
	if !reflect.DeepEqual(got, []string{"a", "a", "a"}) {
		t.Errorf("FollowersOf(a b) = %v, want [a a a]", got)
	}
	got, _ = m.FollowersOf(Window{"b", "a"})
	if !reflect.DeepEqual(got, []string{"b", "b", "b"}) {
		t.Errorf("FollowersOf(b a) = %v, want [b b b]", got)
	}
}

func TestBuildIsCaseAndPunctuationSensitive(t *testing.T) {
	m := setupTestModel(t, strings.Fields("The cat. the cat"), 2)

	if !m.Contains(Window{"The", "cat."}) {
		t.Error("expected window 'The cat.' to be recorded verbatim")
	}
	if m.Contains(Window{"the", "cat."}) {
		t.Error("expected no case folding")
	}
	if m.Contains(Window{"The", "cat"}) {
		t.Error("expected no punctuation stripping")
	}
}

func TestBuildClosure(t *testing.T) {
	corpora := map[string][]string{
		"cats":     catCorpus,
		"repeated": strings.Fields("a b a b a b"),
		"minimal":  {"x", "y", "z"},
		"prose":    strings.Fields("one fish two fish red fish blue fish this one has a little star this one has a little car"),
	}

	for name, tokens := range corpora {
		for n := MinOrder; n <= len(tokens) && n <= 4; n++ {
			t.Run(fmt.Sprintf("%s/Order%d", name, n), func(t *testing.T) {
				m := setupTestModel(t, tokens, n)
				for _, w := range m.Windows() {
					followers, err := m.FollowersOf(w)
					if err != nil {
						t.Fatalf("FollowersOf(%q) failed: %v", w.String(), err)
					}
					if len(followers) == 0 {
						t.Errorf("window %q has no followers", w.String())
					}
					for _, f := range followers {
						if next := w.Slide(f); !m.Contains(next) {
							t.Errorf("sliding %q with %q reaches unrecorded window %q", w.String(), f, next.String())
						}
					}
				}
			})
		}
	}
}

func TestBuildTransitionCount(t *testing.T) {
	// Every token is recorded as a follower exactly once: len-N in the
	// primary pass and N in the wrap-around pass.
	for n := 2; n <= 5; n++ {
		m := setupTestModel(t, catCorpus, n)
		if got := m.Stats().Transitions; got != len(catCorpus) {
			t.Errorf("order %d: expected %d transitions, got %d", n, len(catCorpus), got)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	tokens := strings.Fields(createBenchmarkCorpus())
	m1 := setupTestModel(t, tokens, 3)
	m2 := setupTestModel(t, tokens, 3)

	if !reflect.DeepEqual(m1.Windows(), m2.Windows()) {
		t.Fatal("expected identical window order across builds")
	}
	if !reflect.DeepEqual(snapshot(t, m1), snapshot(t, m2)) {
		t.Error("expected identical follower sequences across builds")
	}
}

func TestBuilder(t *testing.T) {
	b, err := NewBuilder(2)
	if err != nil {
		t.Fatalf("NewBuilder() failed: %v", err)
	}

	b.Add("only")
	if _, err := b.Model(); !errors.Is(err, ErrInsufficientInput) {
		t.Fatalf("expected ErrInsufficientInput with one token, got %v", err)
	}

	for _, token := range catCorpus[1:] {
		b.Add(token)
	}
	m1, err := b.Model()
	if err != nil {
		t.Fatalf("Model() failed: %v", err)
	}
	transitions := m1.Stats().Transitions

	// A second call must not run the wrap-around pass again.
	m2, err := b.Model()
	if err != nil {
		t.Fatalf("second Model() failed: %v", err)
	}
	if m1 != m2 {
		t.Error("expected the same model from repeated Model() calls")
	}
	b.Add("late")
	if got := m2.Stats().Transitions; got != transitions {
		t.Errorf("expected %d transitions after finishing, got %d", transitions, got)
	}

	if _, err := NewBuilder(1); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestTrain(t *testing.T) {
	ctx := context.Background()
	text := "one fish two fish\nred fish\tblue fish.\n\n  one fish"

	m, err := Train(ctx, strings.NewReader(text), 2, NewWhitespaceTokenizer())
	if err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	want := setupTestModel(t, strings.Fields(text), 2)

	if !reflect.DeepEqual(m.Windows(), want.Windows()) {
		t.Errorf("Train() windows = %v, want %v", m.Windows(), want.Windows())
	}
	if !reflect.DeepEqual(snapshot(t, m), snapshot(t, want)) {
		t.Error("Train() followers differ from Build() over the same tokens")
	}

	_, err = Train(ctx, strings.NewReader("lonely"), 2, NewWhitespaceTokenizer())
	if !errors.Is(err, ErrInsufficientInput) {
		t.Errorf("expected ErrInsufficientInput for a one word corpus, got %v", err)
	}
}

func TestTrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Train(ctx, strings.NewReader("a b c d"), 2, NewWhitespaceTokenizer())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func BenchmarkBuild(b *testing.B) {
	tokens := strings.Fields(createBenchmarkCorpus())

	for _, order := range []int{2, 3, 4, 5} {
		b.Run(fmt.Sprintf("Order%d", order), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Build(tokens, order); err != nil {
					b.Fatalf("Build() failed: %v", err)
				}
			}
		})
	}
}
