package pipeline

import (
	"strconv"

	"text2phenotype.com/morphtag/utils"
)

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// ID returns the request tid, or a hash of the text when the caller sent
// none.
func (r Request) ID() string {
	if r.Tid != "" {
		return r.Tid
	}
	return strconv.FormatUint(utils.HashString(r.Text), 16)
}
