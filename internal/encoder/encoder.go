package encoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

var ErrCorruptArtifact = errors.New("corrupt encoder artifact")

// Binarizer maps a set of appliance names onto a fixed-width indicator
// vector over the names seen at fit time. Names outside that universe are
// dropped; there is no unknown bucket.
type Binarizer struct {
	classes []string
	index   map[string]int
}

type binarizerFile struct {
	Classes []string `json:"classes"`
}

func Fit(sets [][]string) *Binarizer {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, label := range set {
			seen[label] = struct{}{}
		}
	}

	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	return newBinarizer(classes)
}

func newBinarizer(classes []string) *Binarizer {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &Binarizer{classes: classes, index: index}
}

func (b *Binarizer) Classes() []string {
	out := make([]string, len(b.classes))
	copy(out, b.classes)
	return out
}

func (b *Binarizer) Width() int {
	return len(b.classes)
}

func (b *Binarizer) Knows(label string) bool {
	_, ok := b.index[label]
	return ok
}

func (b *Binarizer) Transform(set []string) []float64 {
	vec := make([]float64, len(b.classes))
	for _, label := range set {
		if i, ok := b.index[label]; ok {
			vec[i] = 1
		}
	}
	return vec
}

// Unknown returns the labels of set that Transform drops, in input order.
func (b *Binarizer) Unknown(set []string) []string {
	var unknown []string
	seen := make(map[string]bool)
	for _, label := range set {
		if b.Knows(label) || seen[label] {
			continue
		}
		seen[label] = true
		unknown = append(unknown, label)
	}
	return unknown
}

func (b *Binarizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(binarizerFile{Classes: b.classes})
}

func (b *Binarizer) UnmarshalJSON(data []byte) error {
	var f binarizerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if len(f.Classes) == 0 {
		return errors.New("encoder has no classes")
	}
	for i := 1; i < len(f.Classes); i++ {
		if f.Classes[i-1] >= f.Classes[i] {
			return fmt.Errorf("encoder classes not sorted or duplicated at %q", f.Classes[i])
		}
	}
	*b = *newBinarizer(f.Classes)
	return nil
}

func (b *Binarizer) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode binarizer: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*Binarizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var b Binarizer
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArtifact, path, err)
	}
	return &b, nil
}
