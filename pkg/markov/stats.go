package markov

// ModelStats holds aggregated statistics for a single Model.
type ModelStats struct {
	Order          int // The window length K.
	Contexts       int // The number of distinct contexts with recorded successors.
	TotalEdges     int // The number of learned transitions, duplicates included.
	Vocabulary     int // The number of learned tokens in the alphabet, special tokens excluded.
	StartingTokens int // The number of distinct tokens that can start a sequence.
}

// Stats returns a snapshot of the model's statistics.
func (m *Model) Stats() ModelStats {
	starters := make(map[Token]struct{})
	for _, t := range m.edges[m.bos()] {
		if t != EOS {
			starters[t] = struct{}{}
		}
	}
	return ModelStats{
		Order:          m.order,
		Contexts:       len(m.edges),
		TotalEdges:     m.edgeCount,
		Vocabulary:     m.tokenizer.Alphabet().Len() - int(firstLearned),
		StartingTokens: len(starters),
	}
}
