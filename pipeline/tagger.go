package pipeline

import (
	"fmt"

	"text2phenotype.com/morphtag/types"
	"text2phenotype.com/morphtag/utils"
)

// SentenceTagger is the part of tagger.Tagger a pipeline needs.
type SentenceTagger interface {
	TagSentence(words []string) ([]types.Analysis, []types.PlainAnalysis, error)
}

type TaggedSentence struct {
	Index    int
	Analyses []types.Analysis
	Err      error
}

// NewTaggingStage tags sentences one after another in arrival order.
func NewTaggingStage(tagger SentenceTagger) func(in <-chan Sentence) <-chan TaggedSentence {
	return func(in <-chan Sentence) <-chan TaggedSentence {
		out := make(chan TaggedSentence)
		go func() {
			defer close(out)
			for sent := range in {
				if sent.Err != nil {
					out <- TaggedSentence{Index: sent.Index, Err: sent.Err}
					continue
				}
				analyses, err := tagSentence(tagger, sent.Words)
				if err != nil {
					err = fmt.Errorf("sentence %d: %w", sent.Index, err)
				}
				out <- TaggedSentence{Index: sent.Index, Analyses: analyses, Err: err}
			}
		}()
		return out
	}
}

func tagSentence(tagger SentenceTagger, words []string) (analyses []types.Analysis, err error) {
	defer utils.RecoverWithError(&err)
	analyses, _, err = tagger.TagSentence(words)
	return analyses, err
}
