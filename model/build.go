package model

import (
	"fmt"

	"text2phenotype.com/morphtag/logger"
	"text2phenotype.com/morphtag/store"
	"text2phenotype.com/morphtag/types"
)

type Tables struct {
	Words       types.WordModel
	Inflections types.InflectionModel
	Lemmas      types.LemmaModel
	Tags        types.TagBigramModel
}

// Build runs the vocabulary pass and the tag bigram pass over the corpus.
func Build(sentences []types.Sentence, cfg types.Config) Tables {
	buildLogger := logger.NewLogger("Model builder")

	vocab := NewVocabBuilder(cfg)
	for _, sent := range sentences {
		for _, token := range sent.Tokens {
			vocab.Add(token)
		}
	}
	bigrams := NewBigramBuilder(cfg)
	for _, sent := range sentences {
		bigrams.AddSentence(sent)
	}

	vt := vocab.Tables()
	tables := Tables{
		Words:       vt.Words,
		Inflections: vt.Inflections,
		Lemmas:      vt.Lemmas,
		Tags:        bigrams.Model(),
	}
	buildLogger.Info().
		Int("sentences", len(sentences)).
		Int("counted", vocab.Counted()).
		Int("skipped", vocab.Skipped()).
		Int("tags", bigrams.TagCount()).
		Int("words", len(tables.Words)).
		Int("inflections", len(tables.Inflections)).
		Msg("Built model tables")
	return tables
}

// Save overwrites the tables of an exclusively opened set.
func Save(tables Tables, set *store.Set) error {
	if err := set.Words.Update(tables.Words); err != nil {
		return fmt.Errorf("save word table: %w", err)
	}
	if err := set.Inflections.Update(tables.Inflections); err != nil {
		return fmt.Errorf("save inflexion table: %w", err)
	}
	if err := set.Lemmas.Update(tables.Lemmas); err != nil {
		return fmt.Errorf("save lemma table: %w", err)
	}
	if err := set.Tags.Update(tables.Tags); err != nil {
		return fmt.Errorf("save tag table: %w", err)
	}
	return nil
}

// Load reads every table of a set back into memory.
func Load(set *store.Set) (Tables, error) {
	var tables Tables
	words, err := set.Words.All()
	if err != nil {
		return tables, fmt.Errorf("load word table: %w", err)
	}
	inflections, err := set.Inflections.All()
	if err != nil {
		return tables, fmt.Errorf("load inflexion table: %w", err)
	}
	lemmas, err := set.Lemmas.All()
	if err != nil {
		return tables, fmt.Errorf("load lemma table: %w", err)
	}
	tags, err := set.Tags.All()
	if err != nil {
		return tables, fmt.Errorf("load tag table: %w", err)
	}
	return Tables{
		Words:       words,
		Inflections: inflections,
		Lemmas:      lemmas,
		Tags:        tags,
	}, nil
}
