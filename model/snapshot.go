package model

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"text2phenotype.com/morphtag/types"
)

var ErrFingerprintMismatch = errors.New("model: snapshot fingerprint does not match its tables")

type snapshot struct {
	Fingerprint uint64                `msgpack:"fingerprint"`
	Words       types.WordModel       `msgpack:"words"`
	Inflections types.InflectionModel `msgpack:"inflections"`
	Lemmas      types.LemmaModel      `msgpack:"lemmas"`
	Tags        types.TagBigramModel  `msgpack:"tags"`
}

// EncodeSnapshot packs all four tables with their fingerprint into one
// msgpack document.
func EncodeSnapshot(tables Tables) ([]byte, error) {
	return msgpack.Marshal(&snapshot{
		Fingerprint: Fingerprint(tables),
		Words:       tables.Words,
		Inflections: tables.Inflections,
		Lemmas:      tables.Lemmas,
		Tags:        tables.Tags,
	})
}

// DecodeSnapshot unpacks a document written by EncodeSnapshot and checks it
// against its fingerprint.
func DecodeSnapshot(data []byte) (Tables, error) {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Tables{}, fmt.Errorf("decode snapshot: %w", err)
	}
	tables := Tables{
		Words:       s.Words,
		Inflections: s.Inflections,
		Lemmas:      s.Lemmas,
		Tags:        s.Tags,
	}
	if got := Fingerprint(tables); got != s.Fingerprint {
		return Tables{}, fmt.Errorf("%w: stored %x, computed %x", ErrFingerprintMismatch, s.Fingerprint, got)
	}
	return tables, nil
}
