// https://dictionaryapi.dev/
package dictionary

// Entry is one word's record as returned by the dictionary API.
// The API returns an array of entries, one per etymology.
type Entry struct {
	Word       string     `json:"word" yaml:"word"`
	Phonetic   string     `json:"phonetic,omitempty" yaml:"phonetic,omitempty"`
	Phonetics  []Phonetic `json:"phonetics" yaml:"phonetics"`
	Meanings   []Meaning  `json:"meanings" yaml:"meanings"`
	SourceURLs []string   `json:"sourceUrls,omitempty" yaml:"source_urls,omitempty"`
}

type Phonetic struct {
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Audio string `json:"audio,omitempty" yaml:"audio,omitempty"`
}

// Playable reports whether the phonetic has both a transcription and an audio file.
func (p Phonetic) Playable() bool {
	return p.Audio != "" && p.Text != ""
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech" yaml:"part_of_speech"`
	Definitions  []Definition `json:"definitions" yaml:"definitions"`
	Synonyms     []string     `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Antonyms     []string     `json:"antonyms,omitempty" yaml:"antonyms,omitempty"`
}

type Definition struct {
	Definition string `json:"definition" yaml:"definition"`
	Example    string `json:"example,omitempty" yaml:"example,omitempty"`
}

// PlayablePhonetics returns the phonetics that have both audio and text, in source order.
func (e Entry) PlayablePhonetics() []Phonetic {
	phonetics := make([]Phonetic, 0, len(e.Phonetics))
	for _, phonetic := range e.Phonetics {
		if phonetic.Playable() {
			phonetics = append(phonetics, phonetic)
		}
	}
	return phonetics
}

// FirstPlayable returns the first phonetic that has both audio and text.
func (e Entry) FirstPlayable() (Phonetic, bool) {
	for _, phonetic := range e.Phonetics {
		if phonetic.Playable() {
			return phonetic, true
		}
	}
	return Phonetic{}, false
}
