package ngram

// ModelStats holds aggregated statistics for a single model.
type ModelStats struct {
	Order        int // The number of words in each window.
	Windows      int // The number of distinct windows.
	Transitions  int // The number of recorded window->follower observations, duplicates included.
	Vocabulary   int // The number of distinct words appearing in any window or follower list.
	MaxFollowers int // The longest follower list of any window.
}

// Stats returns a snapshot of statistics for the model.
func (m *Model) Stats() ModelStats {
	vocab := make(map[string]struct{})
	stats := ModelStats{
		Order:   m.order,
		Windows: len(m.entries),
	}
	for _, e := range m.entries {
		for _, word := range e.window {
			vocab[word] = struct{}{}
		}
		for _, word := range e.followers {
			vocab[word] = struct{}{}
		}
		stats.Transitions += len(e.followers)
		stats.MaxFollowers = max(stats.MaxFollowers, len(e.followers))
	}
	stats.Vocabulary = len(vocab)
	return stats
}
