// Package catalog holds the read-only vocabulary attached to each letter:
// a list of words and a parallel list of icons.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabulary []byte

// Alphabet is the Vietnamese alphabet in teaching order.
var Alphabet = []string{
	"a", "ă", "â", "b", "c", "d", "đ", "e", "ê", "g", "h", "i", "k", "l", "m",
	"n", "o", "ô", "ơ", "p", "q", "r", "s", "t", "u", "ư", "v", "x", "y",
}

type Entry struct {
	Words []string `yaml:"words" json:"words"`
	Icons []string `yaml:"images" json:"images"`
}

type Catalog struct {
	entries map[string]Entry
	intN    func(n int) int
}

// New wraps entries. intN draws the random index; nil uses the shared
// math/rand/v2 source.
func New(entries map[string]Entry, intN func(n int) int) *Catalog {
	if entries == nil {
		entries = map[string]Entry{}
	}
	if intN == nil {
		intN = rand.IntN
	}
	return &Catalog{entries: entries, intN: intN}
}

// Default returns the vocabulary bundled with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(vocabulary))
}

func Load(r io.Reader) (*Catalog, error) {
	entries := map[string]Entry{}
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	return New(entries, nil), nil
}

// LoadFile loads a vocabulary override from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(filepath.Clean(path)) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (c *Catalog) Lookup(letter string) (Entry, bool) {
	e, ok := c.entries[letter]
	return e, ok
}

// PickRandom returns a uniformly random (word, icon) pair for letter, or two
// empty strings when the letter has no words.
func (c *Catalog) PickRandom(letter string) (string, string) {
	e, ok := c.entries[letter]
	if !ok || len(e.Words) == 0 {
		return "", ""
	}
	i := c.intN(len(e.Words))
	icon := ""
	if i < len(e.Icons) {
		icon = e.Icons[i]
	}
	return e.Words[i], icon
}

// Letters lists every letter with an entry: alphabet order first, then any
// extra keys sorted.
func (c *Catalog) Letters() []string {
	out := make([]string, 0, len(c.entries))
	for _, l := range Alphabet {
		if _, ok := c.entries[l]; ok {
			out = append(out, l)
		}
	}
	var extra []string
	for l := range c.entries {
		if !slices.Contains(Alphabet, l) {
			extra = append(extra, l)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
