// Package pipeline turns a plain-text request into a JSON tagging response
// through a chain of channel stages.
package pipeline

import (
	"encoding/json"

	"text2phenotype.com/morphtag/logger"
)

// Pipeline delivers exactly one JSON document per request on the returned
// channel.
type Pipeline func(request Request) <-chan string

type Params struct {
	// Plain drops scores from the response.
	Plain bool `json:"plain"`
}

func NewTagging(tagger SentenceTagger, params Params) Pipeline {
	mtLogger := logger.NewLogger("Tagging pipeline")
	mtLogger.Info().
		Interface("params", params).
		Msg("Starting tagging pipeline (see parameters in 'params' field)")

	reader := NewSentenceReader()
	tagging := NewTaggingStage(tagger)
	responseBuilder := NewResponseBuilder(params.Plain)

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		pplnLog := mtLogger.With().Str("tid", request.ID()).Logger()
		pplnLog.Info().Msg("Started tagging pipeline")
		errLogger := pplnLog.With().Caller().Logger()

		go func() {
			defer close(responseChan)
			in := make(chan string)
			response := responseBuilder(tagging(reader(in)), request)

			in <- request.Text
			close(in)

			res := <-response
			if res.Error != "" {
				errLogger.Error().Str("error", res.Error).Msg("Tagging failed")
			}
			buf, err := json.Marshal(res)
			if err != nil {
				errLogger.Err(err).Msg("Failed to marshall response")
			}
			pplnLog.Info().Msg("Finished tagging pipeline")
			responseChan <- string(buf)
		}()

		return responseChan
	}
}
