package worker

import (
	"fmt"
	"path"
	"time"
)

func getResultsFileKey(requestID string) string {
	return path.Join(
		"processed",
		"morphtag",
		fmt.Sprintf("%s.morphtag_results.json", requestID),
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func getFormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
