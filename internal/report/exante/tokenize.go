package exante

import "strings"

const (
	delimiter = '\t'
	quote     = '"'
	bom       = "\ufeff"
)

// Tokenize splits one line of an Exante export into trimmed fields.
// Fields are tab separated; a double-quoted field may contain literal tabs, and
// a doubled quote inside it stands for one literal quote. A trailing empty field
// after the last tab is kept.
func Tokenize(line string) []string {
	line = strings.TrimPrefix(line, bom)

	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		case c == quote:
			if i+1 < len(line) && line[i+1] == quote {
				current.WriteByte(quote)
				i++
			} else {
				inQuotes = !inQuotes
			}
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
