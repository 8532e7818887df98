package tips

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

var (
	ErrUnknownAppliance = errors.New("no tips for appliance")
	ErrInvalidTable     = errors.New("invalid tip table")
)

//go:embed default_tips.json
var defaultTable []byte

// Entry holds the tips for one appliance. In the JSON file it may be a
// single string or a list of strings.
type Entry []string

func (e *Entry) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = Entry{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("tip must be a string or a list of strings")
	}
	*e = Entry(list)
	return nil
}

// Table is the immutable appliance -> tips lookup.
type Table struct {
	entries    map[string]Entry
	appliances []string
}

func Parse(data []byte) (*Table, error) {
	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no appliances", ErrInvalidTable)
	}

	entries := make(map[string]Entry, len(raw))
	appliances := make([]string, 0, len(raw))
	for name, entry := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty appliance name", ErrInvalidTable)
		}

		cleaned := make(Entry, 0, len(entry))
		for _, tip := range entry {
			if tip = strings.TrimSpace(tip); tip != "" {
				cleaned = append(cleaned, tip)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("%w: appliance %q has no tips", ErrInvalidTable, name)
		}

		entries[name] = cleaned
		appliances = append(appliances, name)
	}
	sort.Strings(appliances)

	return &Table{entries: entries, appliances: appliances}, nil
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Default returns the tip table that ships with the binary.
func Default() *Table {
	table, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded tip table: %v", err))
	}
	return table
}

// DefaultJSON is the raw embedded table, written out by the trainer.
func DefaultJSON() []byte {
	out := make([]byte, len(defaultTable))
	copy(out, defaultTable)
	return out
}

func (t *Table) Appliances() []string {
	out := make([]string, len(t.appliances))
	copy(out, t.appliances)
	return out
}

func (t *Table) Has(appliance string) bool {
	_, ok := t.entries[appliance]
	return ok
}

// Lookup returns a copy of the tips for appliance; never empty on success.
func (t *Table) Lookup(appliance string) ([]string, error) {
	entry, ok := t.entries[appliance]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAppliance, appliance)
	}
	out := make([]string, len(entry))
	copy(out, entry)
	return out, nil
}

func (t *Table) Len() int {
	return len(t.entries)
}
