package store

import (
	"errors"

	"text2phenotype.com/morphtag/types"
)

// Set groups the tables a model consists of.
type Set struct {
	Words       *Table[types.LemmaAnalyses]
	Inflections *Table[types.TagCosts]
	Lemmas      *Table[types.TagCosts]
	Tags        *Table[types.TagCosts]
}

func OpenSet(cfg types.StoreConfig, mode Mode) (*Set, error) {
	var opened []Backend
	open := func(name string) (Backend, error) {
		backend, err := Open(cfg, name, mode)
		if err != nil {
			for _, b := range opened {
				_ = b.Close()
			}
			return nil, err
		}
		opened = append(opened, backend)
		return backend, nil
	}

	words, err := open(cfg.WordTable)
	if err != nil {
		return nil, err
	}
	inflections, err := open(cfg.InflexionTable)
	if err != nil {
		return nil, err
	}
	lemmas, err := open(cfg.LemmaTable)
	if err != nil {
		return nil, err
	}
	tags, err := open(cfg.TagTable)
	if err != nil {
		return nil, err
	}
	return &Set{
		Words:       NewTable[types.LemmaAnalyses](cfg.WordTable, words),
		Inflections: NewTable[types.TagCosts](cfg.InflexionTable, inflections),
		Lemmas:      NewTable[types.TagCosts](cfg.LemmaTable, lemmas),
		Tags:        NewTable[types.TagCosts](cfg.TagTable, tags),
	}, nil
}

func (s *Set) Close() error {
	return errors.Join(
		s.Words.Close(),
		s.Inflections.Close(),
		s.Lemmas.Close(),
		s.Tags.Close(),
	)
}
