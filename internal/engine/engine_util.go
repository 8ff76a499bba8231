package engine

import "math/rand/v2"

// VariantCount is the number of gift box artworks the client ships.
const VariantCount = 4

type Picker interface {
	PickRandom(letter string) (word, icon string)
}

// Dealer builds rounds. IntN defaults to math/rand/v2; Picker may be nil, in
// which case every box gets an empty word and icon.
type Dealer struct {
	Picker Picker
	IntN   func(n int) int
	Timing Timing
}

func (d Dealer) NewRound(cfg Config) (Round, error) {
	if err := cfg.Playable(); err != nil {
		return Round{}, err
	}
	intN := d.IntN
	if intN == nil {
		intN = rand.IntN
	}

	cfg.SelectedLetters = append([]string(nil), cfg.SelectedLetters...)
	boxes := make([]Box, cfg.BoxCount)
	for i := range boxes {
		letter := cfg.SelectedLetters[intN(len(cfg.SelectedLetters))]
		var word, icon string
		if d.Picker != nil {
			word, icon = d.Picker.PickRandom(letter)
		}
		boxes[i] = Box{
			ID:      i,
			Letter:  letter,
			Word:    word,
			Icon:    icon,
			Variant: intN(VariantCount),
			Reveal:  RevealClosed,
		}
	}

	return Round{
		Config:    cfg,
		Boxes:     boxes,
		ActiveBox: NoBox,
		Timing:    d.Timing,
	}, nil
}

// Restart re-deals every box with the same config. Gen keeps counting from
// the old round so timers armed against it are stale.
func (d Dealer) Restart(r Round) (Round, error) {
	nr, err := d.NewRound(r.Config)
	if err != nil {
		return r, err
	}
	nr.Gen = r.Gen + 1
	return nr, nil
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// ActiveCount reports how many boxes are not closed. It is never above one.
func ActiveCount(r Round) int {
	n := 0
	for _, b := range r.Boxes {
		if b.Reveal != RevealClosed {
			n++
		}
	}
	return n
}
