package domain

import (
	"strconv"
	"strings"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

// FormatStrings serializes values as a []string{...} literal in the given
// style. Callers pick the style per call site; contact lists use the
// multi-line style. The result is re-canonicalized by the final gofmt
// pass, so only the line structure matters here.
func FormatStrings(format m.Format, values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, strconv.Quote(v))
	}

	if format == m.FormatMultiLine {
		return "[]string{\n" + strings.Join(quoted, ",\n") + ",\n}"
	}

	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
