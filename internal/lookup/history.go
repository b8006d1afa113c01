package lookup

// History is the list of searched words in the order they were first searched.
// A word appears at most once.
type History struct {
	words []string
}

func NewHistory() *History {
	return &History{}
}

// Add appends word unless an entry with exactly the same text exists.
// It reports whether the word was appended.
func (h *History) Add(word string) bool {
	if h.Contains(word) {
		return false
	}
	h.words = append(h.words, word)
	return true
}

func (h *History) Contains(word string) bool {
	for _, existing := range h.words {
		if existing == word {
			return true
		}
	}
	return false
}

// Words returns a copy of the entries.
func (h *History) Words() []string {
	words := make([]string, len(h.words))
	copy(words, h.words)
	return words
}

func (h *History) Len() int {
	return len(h.words)
}
