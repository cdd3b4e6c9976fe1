package sources

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/ppiankov/factcheck/internal/extract"
)

// escapeComponent percent-encodes s for use in a query value or path
// segment, encoding spaces as %20
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ellipsis cuts s to n characters and marks it as an excerpt
func ellipsis(s string, n int) string {
	return extract.Truncate(s, n) + "..."
}

// flexString decodes a JSON field that some APIs send either as a string
// or as an array of strings
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = flexString(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = flexString(strings.Join(many, " "))
	return nil
}
