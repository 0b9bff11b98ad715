package pipeline

import (
	"text2phenotype.com/morphtag/types"
)

type Response struct {
	Tid       string      `json:"tid"`
	Sentences interface{} `json:"sentences"`
	Error     string      `json:"error,omitempty"`
}

// NewResponseBuilder drains the tagged sentences of one request into a
// Response. The first failure replaces the sentences with an error.
func NewResponseBuilder(plain bool) func(in <-chan TaggedSentence, request Request) <-chan Response {
	return func(in <-chan TaggedSentence, request Request) <-chan Response {
		out := make(chan Response, 1)
		go func() {
			defer close(out)
			var scored [][]types.Analysis
			var firstErr error
			for tagged := range in {
				if tagged.Err != nil {
					if firstErr == nil {
						firstErr = tagged.Err
					}
					continue
				}
				scored = append(scored, tagged.Analyses)
			}

			response := Response{Tid: request.ID()}
			switch {
			case firstErr != nil:
				response.Sentences = [][]types.Analysis{}
				response.Error = firstErr.Error()
			case plain:
				response.Sentences = plainSentences(scored)
			case scored == nil:
				response.Sentences = [][]types.Analysis{}
			default:
				response.Sentences = scored
			}
			out <- response
		}()
		return out
	}
}

func plainSentences(scored [][]types.Analysis) [][]types.PlainAnalysis {
	res := make([][]types.PlainAnalysis, len(scored))
	for i, sentence := range scored {
		res[i] = make([]types.PlainAnalysis, len(sentence))
		for j, a := range sentence {
			res[i][j] = a.Plain()
		}
	}
	return res
}
