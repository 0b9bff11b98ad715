package types

type Analysis struct {
	Lemma string `json:"lemma" msgpack:"lemma"`
	Tag   string `json:"pos_morph" msgpack:"pos_morph"`
	Score Cost   `json:"score" msgpack:"score"`
}

type PlainAnalysis struct {
	Lemma string `json:"lemma" msgpack:"lemma"`
	Tag   string `json:"pos_morph" msgpack:"pos_morph"`
}

func (a Analysis) Plain() PlainAnalysis {
	return PlainAnalysis{Lemma: a.Lemma, Tag: a.Tag}
}
