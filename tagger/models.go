// Package tagger assigns a lemma and a tag to every word of a sentence using
// the cost tables built by package model.
package tagger

import (
	"text2phenotype.com/morphtag/model"
	"text2phenotype.com/morphtag/store"
	"text2phenotype.com/morphtag/types"
)

// WordSource answers lookups into the word table.
type WordSource interface {
	Has(word string) (bool, error)
	Get(word string) (types.LemmaAnalyses, bool, error)
}

// CostSource answers lookups into the inflexion and tag tables.
type CostSource interface {
	Get(key string) (types.TagCosts, bool, error)
}

// Models is the read-only view the tagger works against.
type Models struct {
	Words       WordSource
	Inflections CostSource
	Tags        CostSource
}

func FromSet(set *store.Set) Models {
	return Models{
		Words:       set.Words,
		Inflections: set.Inflections,
		Tags:        set.Tags,
	}
}

func FromTables(tables model.Tables) Models {
	return Models{
		Words:       wordMap(tables.Words),
		Inflections: costMap(tables.Inflections),
		Tags:        costMap(tables.Tags),
	}
}

type wordMap types.WordModel

func (m wordMap) Has(word string) (bool, error) {
	_, ok := m[word]
	return ok, nil
}

func (m wordMap) Get(word string) (types.LemmaAnalyses, bool, error) {
	v, ok := m[word]
	return v, ok, nil
}

type costMap map[string]types.TagCosts

func (m costMap) Get(key string) (types.TagCosts, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}
