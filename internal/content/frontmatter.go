package content

import (
	"bytes"
	"errors"
)

// ErrMissingClosingDelimiter is returned when a document opens YAML frontmatter but never closes it.
var ErrMissingClosingDelimiter = errors.New("frontmatter: missing closing delimiter")

// splitFrontmatter separates `---` delimited YAML frontmatter from the markdown body.
// If the document has no frontmatter, had is false and body is the full input.
func splitFrontmatter(doc []byte) (fm []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if bytes.Contains(doc, []byte("\r\n")) {
		nl = []byte("\r\n")
	}
	open := append([]byte("---"), nl...)
	if !bytes.HasPrefix(doc, open) {
		return nil, doc, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(doc[start:], open) {
		return []byte{}, doc[start+len(open):], true, nil
	}

	closing := append(append(append([]byte{}, nl...), "---"...), nl...)
	idx := bytes.Index(doc[start:], closing)
	if idx < 0 {
		// Allow the closing delimiter to end the file.
		tail := append(append([]byte{}, nl...), "---"...)
		if bytes.HasSuffix(doc, tail) {
			return doc[start : len(doc)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return doc[start:end], doc[start+idx+len(closing):], true, nil
}
