// Package currency maps currency display names to ISO codes and looks up
// live exchange rates.
package currency

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// UnknownCode is what Table.Code returns for names it does not know.
const UnknownCode = "UDF"

//go:embed currency-map.json
var defaultMap []byte

// Table maps lower-cased display names such as "euro" to codes such as "EUR".
// It is read-only once built and safe for concurrent use.
type Table struct {
	codes map[string]string
}

// DefaultTable returns the embedded name table.
func DefaultTable() *Table {
	t, err := LoadTable(bytes.NewReader(defaultMap))
	if err != nil {
		panic("currency: embedded table: " + err.Error())
	}
	return t
}

// LoadTable reads a JSON object of name to code.
func LoadTable(r io.Reader) (*Table, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding currency map")
	}
	return NewTable(raw), nil
}

// LoadTableFile reads a table from path, or returns DefaultTable when path is empty.
func LoadTableFile(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening currency map")
	}
	defer f.Close()
	return LoadTable(f)
}

// NewTable copies names into a Table, normalizing keys.
func NewTable(names map[string]string) *Table {
	codes := make(map[string]string, len(names))
	for name, code := range names {
		codes[normalize(name)] = strings.ToUpper(strings.TrimSpace(code))
	}
	return &Table{codes: codes}
}

// Code returns the ISO code for a display name, or UnknownCode.
func (t *Table) Code(name string) string {
	if code, ok := t.codes[normalize(name)]; ok {
		return code
	}
	return UnknownCode
}

// Len returns the number of known names.
func (t *Table) Len() int { return len(t.codes) }

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
