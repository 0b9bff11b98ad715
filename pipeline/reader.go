package pipeline

import (
	"strings"

	"text2phenotype.com/morphtag/corpus"
)

// Sentence is one unit of work between stages. Err is set when the stage
// that produced it failed, and later stages pass it through untouched.
type Sentence struct {
	Index int
	Words []string
	Err   error
}

// NewSentenceReader splits each incoming text into sentences, one word per
// line and a blank line between sentences.
func NewSentenceReader() func(in <-chan string) <-chan Sentence {
	return func(in <-chan string) <-chan Sentence {
		out := make(chan Sentence)
		go func() {
			defer close(out)
			index := 0
			for text := range in {
				sentences, err := corpus.ReadPlainText(strings.NewReader(text))
				if err != nil {
					out <- Sentence{Index: index, Err: err}
					index++
					continue
				}
				for _, words := range sentences {
					out <- Sentence{Index: index, Words: words}
					index++
				}
			}
		}()
		return out
	}
}
