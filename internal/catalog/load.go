package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// catalogFile is the on-disk JSON document shape: {"subjects": [...]}.
type catalogFile struct {
	Subjects []Subject `json:"subjects"`
}

// Load reads the subjects catalog from path. A missing or unparseable
// file degrades to an empty index so the local responder can still
// answer; the error is returned for logging but the index is always
// usable.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return NewIndex(nil), fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse decodes a catalog document from r. On decode failure an empty
// index is returned alongside the error.
func Parse(r io.Reader) (*Index, error) {
	var doc catalogFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return NewIndex(nil), fmt.Errorf("decode catalog: %w", err)
	}

	// Subjects without units cannot satisfy any lookup contract; drop
	// them at load time rather than special-casing every call site.
	subjects := make([]Subject, 0, len(doc.Subjects))
	for _, s := range doc.Subjects {
		if len(s.Units) == 0 {
			continue
		}
		subjects = append(subjects, s)
	}

	return NewIndex(subjects), nil
}
