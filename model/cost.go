package model

import (
	"math"
	"strconv"

	"text2phenotype.com/morphtag/types"
)

// ToCost turns a weighted count into -ln((count+1)/total) rounded to two
// decimals. Rounding goes through the shortest decimal form of the exact
// binary value, ties to even.
func ToCost(count float64, total int) types.Cost {
	logProb := math.Log((count + 1) / float64(total))
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(logProb, 'f', 2, 64), 64)
	if err != nil {
		panic(err)
	}
	cost := -rounded
	if cost == 0 {
		return 0
	}
	return cost
}

func tagCosts(counts types.TagCosts, total int) types.TagCosts {
	costs := make(types.TagCosts, len(counts))
	for tag, count := range counts {
		costs[tag] = ToCost(count, total)
	}
	return costs
}

func increment(counts map[string]types.TagCosts, key string, tag string, by float64) {
	tags, ok := counts[key]
	if !ok {
		tags = make(types.TagCosts)
		counts[key] = tags
	}
	tags[tag] += by
}
