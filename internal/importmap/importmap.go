// Package importmap locates and loads the import map a root application
// injects into its page. File access goes through a narrow injected
// capability pair so tests substitute in-memory fakes.
package importmap

import (
	"encoding/json"

	serrors "git.home.luguber.info/inful/spaforge/internal/errors"
)

// ImportMap is a browser import map document: module specifiers to URLs,
// plus scoped overrides. The injection pipeline treats the document as
// opaque text; parsing exists for the admin surface and verification.
type ImportMap struct {
	Imports map[string]string            `json:"imports,omitempty"`
	Scopes  map[string]map[string]string `json:"scopes,omitempty"`
}

// Parse decodes an import map document. path identifies the source file in
// the returned error.
func Parse(path string, data []byte) (*ImportMap, error) {
	var m ImportMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, serrors.ImportMapParseError(path, err)
	}
	return &m, nil
}

// JSON encodes the import map document.
func (m *ImportMap) JSON() ([]byte, error) {
	return json.Marshal(m)
}
