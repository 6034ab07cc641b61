package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMissingName = errors.New("job definition has no Name")

// Definition is a decoded backup record. Raw is passed back to the
// scheduler untouched.
type Definition struct {
	Name string
	Raw  json.RawMessage
}

// EncodeRecord turns a raw definition document into one artifact line
func EncodeRecord(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeRecord reverses EncodeRecord and checks the document carries a Name
func DecodeRecord(line string) (Definition, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(line))
	if err != nil {
		return Definition{}, fmt.Errorf("failed to decode record: %w", err)
	}

	var doc struct {
		Name string `json:"Name"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Definition{}, fmt.Errorf("failed to parse job definition: %w", err)
	}
	if doc.Name == "" {
		return Definition{}, ErrMissingName
	}

	return Definition{Name: doc.Name, Raw: raw}, nil
}
