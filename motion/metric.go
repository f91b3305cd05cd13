package motion

import (
	"regexp"
	"strconv"
)

// throughputRegex matches the progress meter rate the detection tool prints,
// e.g. "412.35frames/s" or "97 frames/s".
var throughputRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*frames/s`)

// ExtractThroughput returns the last frames-per-second figure found in the
// given texts, searched in order. It is a best-effort scrape of free-form
// progress output, not a contract with the tool; a miss returns
// ErrMetricNotFound.
func ExtractThroughput(texts ...string) (float64, error) {
	for _, text := range texts {
		matches := throughputRegex.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		last := matches[len(matches)-1]
		fps, err := strconv.ParseFloat(last[1], 64)
		if err != nil {
			continue
		}
		return fps, nil
	}
	return 0, ErrMetricNotFound
}
