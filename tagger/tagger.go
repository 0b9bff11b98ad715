package tagger

import (
	"fmt"

	"github.com/rs/zerolog"

	"text2phenotype.com/morphtag/corpus"
	"text2phenotype.com/morphtag/logger"
	"text2phenotype.com/morphtag/store"
	"text2phenotype.com/morphtag/types"
)

// Tagger only reads its tables, so one instance may serve concurrent callers
// as long as the underlying store allows concurrent readers.
type Tagger struct {
	lookup    *Lookup
	decoder   Decoder
	set       *store.Set
	tagLogger zerolog.Logger
}

func New(models Models, cfg types.Config) *Tagger {
	return NewWithDecoder(models, cfg, NewGreedyDecoder(models.Tags, cfg.UnknownTransitionCost))
}

func NewWithDecoder(models Models, cfg types.Config, decoder Decoder) *Tagger {
	return &Tagger{
		lookup:    NewLookup(models, cfg.ZeroInflection),
		decoder:   decoder,
		tagLogger: logger.NewLogger("Tagger"),
	}
}

// Open attaches a tagger to the persisted tables named in cfg. Close releases
// them.
func Open(cfg types.Config) (*Tagger, error) {
	set, err := store.OpenSet(cfg.Store, store.ModeReadOnly)
	if err != nil {
		return nil, err
	}
	t := New(FromSet(set), cfg)
	t.set = set
	t.tagLogger.Info().
		Str("backend", cfg.Store.Backend).
		Str("dir", cfg.Store.Dir).
		Msg("Attached to model tables")
	return t, nil
}

func (t *Tagger) Close() error {
	if t.set == nil {
		return nil
	}
	return t.set.Close()
}

func (t *Tagger) Candidates(word string) (types.CandidateSet, error) {
	return t.lookup.Candidates(word)
}

// TagSentence returns one analysis per word, with and without scores.
func (t *Tagger) TagSentence(words []string) ([]types.Analysis, []types.PlainAnalysis, error) {
	sets := make([]types.CandidateSet, len(words))
	for i, word := range words {
		set, err := t.lookup.Candidates(word)
		if err != nil {
			return nil, nil, err
		}
		sets[i] = set
	}
	scored, plain, err := t.decoder.Decode(sets)
	if err != nil {
		t.tagLogger.Err(err).Caller().Strs("words", words).Msg("Failed to decode sentence")
		return nil, nil, err
	}
	return scored, plain, nil
}

func (t *Tagger) Tag(sentences [][]string) ([][]types.Analysis, [][]types.PlainAnalysis, error) {
	scored := make([][]types.Analysis, len(sentences))
	plain := make([][]types.PlainAnalysis, len(sentences))
	for i, sentence := range sentences {
		s, p, err := t.TagSentence(sentence)
		if err != nil {
			return nil, nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		scored[i], plain[i] = s, p
	}
	return scored, plain, nil
}

// TagFile tags a plain-text file with one word per line and blank lines
// between sentences.
func (t *Tagger) TagFile(filePath string) ([][]types.Analysis, [][]types.PlainAnalysis, error) {
	sentences, err := corpus.ReadPlainTextFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	t.tagLogger.Debug().Str("file", filePath).Int("sentences", len(sentences)).Msg("Tagging file")
	return t.Tag(sentences)
}
