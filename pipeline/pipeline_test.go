package pipeline

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/morphtag/model"
	"text2phenotype.com/morphtag/tagger"
	"text2phenotype.com/morphtag/types"
	"text2phenotype.com/morphtag/utils"
)

type echoTagger struct{}

func (echoTagger) TagSentence(words []string) ([]types.Analysis, []types.PlainAnalysis, error) {
	res := make([]types.Analysis, len(words))
	for i, w := range words {
		if w == "boom" {
			return nil, nil, errors.New("cannot tag boom")
		}
		if w == "panic" {
			panic("tagger exploded")
		}
		res[i] = types.Analysis{Lemma: strings.ToLower(w), Tag: "(NOUN, _)", Score: float64(i)}
	}
	return res, nil, nil
}

func requireJSONEqual(t *testing.T, expected, actual string) {
	t.Helper()
	require.True(t, jsonpatch.Equal([]byte(expected), []byte(actual)), "expected %s, got %s", expected, actual)
}

func TestTaggingPipelineScored(t *testing.T) {
	ppln := NewTagging(echoTagger{}, Params{})
	res := <-ppln(Request{Tid: "doc-1", Text: "Cats\nsleep\n\nDogs\n"})
	requireJSONEqual(t, `{
		"tid": "doc-1",
		"sentences": [
			[{"lemma": "cats", "pos_morph": "(NOUN, _)", "score": 0}, {"lemma": "sleep", "pos_morph": "(NOUN, _)", "score": 1}],
			[{"lemma": "dogs", "pos_morph": "(NOUN, _)", "score": 0}]
		]
	}`, res)
}

func TestTaggingPipelinePlain(t *testing.T) {
	ppln := NewTagging(echoTagger{}, Params{Plain: true})
	res := <-ppln(Request{Tid: "doc-2", Text: "1\tCats\n"})
	requireJSONEqual(t, `{
		"tid": "doc-2",
		"sentences": [[{"lemma": "1", "pos_morph": "(NOUN, _)"}]]
	}`, res)
}

func TestTaggingPipelineEmptyText(t *testing.T) {
	res := <-NewTagging(echoTagger{}, Params{})(Request{Tid: "empty", Text: "\n\n"})
	requireJSONEqual(t, `{"tid": "empty", "sentences": []}`, res)
}

func TestTaggingPipelineReportsFailures(t *testing.T) {
	ppln := NewTagging(echoTagger{}, Params{})

	res := <-ppln(Request{Tid: "bad", Text: "fine\n\nboom\n"})
	requireJSONEqual(t, `{"tid": "bad", "sentences": [], "error": "sentence 1: cannot tag boom"}`, res)

	res = <-ppln(Request{Tid: "worse", Text: "panic\n"})
	requireJSONEqual(t, `{"tid": "worse", "sentences": [], "error": "sentence 0: got panic: tagger exploded"}`, res)
}

func TestRequestIDDefaultsToTextHash(t *testing.T) {
	req := Request{Text: "some text"}
	require.Equal(t, strconv.FormatUint(utils.HashString("some text"), 16), req.ID())
	require.Equal(t, "given", Request{Tid: "given", Text: "some text"}.ID())
}

func TestTaggingPipelineWithModel(t *testing.T) {
	cfg := types.DefaultConfig()
	tables := model.Tables{
		Words: types.WordModel{
			"the": {"the": {"#": {"(DET, _)": 1.1}}},
		},
		Inflections: types.InflectionModel{
			"#": {"(NOUN, Number=Sing)": 1.1},
			"s": {"(NOUN, Number=Plur)": 0.41},
		},
		Tags: types.TagBigramModel{
			"(DET, _)": {"(NOUN, Number=Plur)": 0.69},
		},
	}
	ppln := NewTagging(tagger.New(tagger.FromTables(tables), cfg), Params{Plain: true})

	res := <-ppln(Request{Tid: "model", Text: "The\nbirds\n"})
	requireJSONEqual(t, `{
		"tid": "model",
		"sentences": [[
			{"lemma": "the", "pos_morph": "(DET, _)"},
			{"lemma": "bird", "pos_morph": "(NOUN, Number=Plur)"}
		]]
	}`, res)
}
