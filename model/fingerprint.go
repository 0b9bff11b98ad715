package model

import (
	"bytes"
	"strconv"

	"text2phenotype.com/morphtag/types"
	"text2phenotype.com/morphtag/utils"
)

// Fingerprint hashes every cost of every table in key order. Two builds of
// the same corpus produce the same fingerprint.
func Fingerprint(tables Tables) uint64 {
	var buf bytes.Buffer
	for _, word := range types.SortedKeys(tables.Words) {
		for _, c := range tables.Words[word].Candidates() {
			writeEntry(&buf, "w", c.Cost, word, c.Lemma, c.Inflection, c.Tag)
		}
	}
	writeTagCosts(&buf, "i", tables.Inflections)
	writeTagCosts(&buf, "l", tables.Lemmas)
	writeTagCosts(&buf, "t", tables.Tags)
	return utils.HashBytes(buf.Bytes())
}

func writeTagCosts(buf *bytes.Buffer, table string, m map[string]types.TagCosts) {
	for _, key := range types.SortedKeys(m) {
		tags := m[key]
		for _, tag := range types.SortedKeys(tags) {
			writeEntry(buf, table, tags[tag], key, tag)
		}
	}
}

func writeEntry(buf *bytes.Buffer, table string, cost types.Cost, keys ...string) {
	buf.WriteString(table)
	for _, key := range keys {
		buf.WriteByte(0)
		buf.WriteString(key)
	}
	buf.WriteByte(0)
	buf.WriteString(strconv.FormatFloat(cost, 'g', -1, 64))
	buf.WriteByte('\n')
}
