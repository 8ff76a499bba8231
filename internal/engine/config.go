package engine

import (
	"errors"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrInvalidBoxCount = errors.New("invalid box count")
var ErrInvalidLetterCase = errors.New("invalid letter case")
var ErrNoLetters = errors.New("no letters selected")

// BoxCounts are the round sizes the settings screen offers.
var BoxCounts = []int{3, 4, 6, 9, 12}

type LetterCase string

const (
	Uppercase LetterCase = "uppercase"
	Lowercase LetterCase = "lowercase"
)

var (
	upper = cases.Upper(language.Vietnamese)
	lower = cases.Lower(language.Vietnamese)
)

func (c LetterCase) Valid() bool {
	return c == Uppercase || c == Lowercase
}

// Apply renders a catalog letter token in this case. Catalog tokens are
// lowercase, so Lowercase returns the token untouched.
func (c LetterCase) Apply(letter string) string {
	if c == Uppercase {
		return upper.String(letter)
	}
	return letter
}

type Config struct {
	BoxCount        int        `json:"boxCount"`
	SelectedLetters []string   `json:"selectedLetters"`
	LetterCase      LetterCase `json:"letterCase"`
}

func DefaultConfig() Config {
	return Config{
		BoxCount:        6,
		SelectedLetters: []string{"a", "d", "h"},
		LetterCase:      Uppercase,
	}
}

// NormalizeLetters lower-cases letter tokens and drops blanks and repeats,
// keeping first-seen order. A non-nil input never yields nil.
func NormalizeLetters(letters []string) []string {
	if letters == nil {
		return nil
	}
	out := make([]string, 0, len(letters))
	for _, l := range letters {
		l = lower.String(strings.TrimSpace(l))
		if l == "" || slices.Contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func ValidBoxCount(n int) bool {
	return slices.Contains(BoxCounts, n)
}

// Validate checks the fields the settings screen can set. An empty letter pool is a
// valid thing to store; it only blocks starting a round.
func (c Config) Validate() error {
	if !ValidBoxCount(c.BoxCount) {
		return ErrInvalidBoxCount
	}
	if !c.LetterCase.Valid() {
		return ErrInvalidLetterCase
	}
	return nil
}

// Playable is Validate plus the non-empty pool precondition of a round.
func (c Config) Playable() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.SelectedLetters) == 0 {
		return ErrNoLetters
	}
	return nil
}

// Timing holds the reveal pacing. None of it affects correctness.
type Timing struct {
	OpenDelay   time.Duration // click -> letter shown dimmed
	RevealDelay time.Duration // dimmed letter -> full result
	SwitchDelay time.Duration // previous box closed -> new box opens
}

func DefaultTiming() Timing {
	return Timing{
		OpenDelay:   200 * time.Millisecond,
		RevealDelay: 800 * time.Millisecond,
		SwitchDelay: 300 * time.Millisecond,
	}
}
