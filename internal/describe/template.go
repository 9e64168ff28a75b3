package describe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Placeholder markers recognized in tool description templates. The set is
// closed: any other %%...%% marker in a template is a startup error, which
// catches typos before a broken description is ever advertised to a client.
const (
	// PlaceholderMetadataFields expands to the comma-separated, sorted list
	// of searchable metadata field names from the server handshake.
	PlaceholderMetadataFields = "%%METADATA_FIELDS%%"

	// PlaceholderBaseURL expands to the PatentSafe base URL, used for
	// citation-link patterns in descriptions.
	PlaceholderBaseURL = "%%BASE_URL%%"
)

// markerPattern matches any placeholder-shaped marker, known or not.
var markerPattern = regexp.MustCompile(`%%[A-Z_]+%%`)

// Values carries the handshake-derived substitutions.
type Values struct {
	// BaseURL is the PatentSafe base URL without the API prefix
	BaseURL string

	// MetadataFields is the field vocabulary from the handshake; rendered
	// sorted so descriptions are deterministic across restarts
	MetadataFields []string
}

// Render substitutes the placeholder markers in a description template and
// verifies that no marker survives. A leftover marker means the template
// references a placeholder this package does not know about.
func Render(template string, values Values) (string, error) {
	fields := make([]string, len(values.MetadataFields))
	copy(fields, values.MetadataFields)
	sort.Strings(fields)

	out := strings.ReplaceAll(template, PlaceholderMetadataFields, strings.Join(fields, ", "))
	out = strings.ReplaceAll(out, PlaceholderBaseURL, values.BaseURL)

	if leftover := markerPattern.FindString(out); leftover != "" {
		return "", fmt.Errorf("unresolved placeholder %s in tool description", leftover)
	}
	return out, nil
}
