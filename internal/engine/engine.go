package engine

import (
	"errors"
	"time"
)

var ErrUnknownBox = errors.New("unknown box")
var ErrStaleTimer = errors.New("stale timer")
var ErrUnsupportedCommand = errors.New("unsupported command")

// NoBox marks a round with every box closed.
const NoBox = -1

type RevealState string

const (
	RevealClosed  RevealState = "closed"
	RevealShaking RevealState = "shaking"
	RevealLetter  RevealState = "letterRevealing"
	RevealFull    RevealState = "fullyRevealed"
)

// Step names the timed transition a TimerStarted event asks the owner to
// schedule.
type Step string

const (
	StepOpen         Step = "open"
	StepRevealLetter Step = "revealLetter"
	StepRevealFull   Step = "revealFull"
)

// Cue is the sound the client should play alongside an event.
type Cue string

const (
	CueClick   Cue = "click"
	CueReveal  Cue = "reveal"
	CueSuccess Cue = "success"
)

type Box struct {
	ID      int         `json:"id"`
	Letter  string      `json:"letter"`
	Word    string      `json:"word"`
	Icon    string      `json:"icon"`
	Variant int         `json:"variant"`
	Reveal  RevealState `json:"reveal_state"`
}

type Result struct {
	Letter string `json:"letter"`
	Word   string `json:"word"`
	Icon   string `json:"icon"`
}

type Round struct {
	Config    Config  `json:"config"`
	Boxes     []Box   `json:"boxes"`
	ActiveBox int     `json:"active_box"`
	Result    *Result `json:"result,omitempty"`
	// Gen changes whenever the active box changes; timers carry the Gen they
	// were armed under and are dropped on mismatch.
	Gen    uint64 `json:"gen"`
	Timing Timing `json:"-"`
}

type CommandType string

const (
	CmdSelectBox    CommandType = "SelectBox"
	CmdOpenBox      CommandType = "OpenBox"
	CmdRevealLetter CommandType = "RevealLetter"
	CmdRevealFull   CommandType = "RevealFull"
	CmdNextBox      CommandType = "NextBox"
)

/*
	CmdSelectBox     -> EvtBoxShaking -> EvtTimerStarted(revealLetter)
	                 or EvtBoxClosed (previous box) -> EvtTimerStarted(open)
	CmdOpenBox       -> same as a fresh CmdSelectBox
	CmdRevealLetter  -> EvtLetterRevealed -> EvtTimerStarted(revealFull)
	CmdRevealFull    -> EvtBoxRevealed
	CmdNextBox       -> EvtBoxClosed
*/

type Command struct {
	Type  CommandType
	BoxID int
	Gen   uint64
}

type EventType string

const (
	EvtBoxShaking     EventType = "BoxShaking"
	EvtLetterRevealed EventType = "LetterRevealed"
	EvtBoxRevealed    EventType = "BoxRevealed"
	EvtBoxClosed      EventType = "BoxClosed"
	EvtTimerStarted   EventType = "TimerStarted"
	EvtRoundStarted   EventType = "RoundStarted"
)

type Event struct {
	Type  EventType     `json:"type"`
	BoxID int           `json:"box_id"`
	Cue   Cue           `json:"cue,omitempty"`
	Step  Step          `json:"step,omitempty"`
	Gen   uint64        `json:"gen,omitempty"`
	Delay time.Duration `json:"-"`
}

func Apply(r Round, cmd Command) ([]Event, Round, error) {
	switch cmd.Type {
	case CmdSelectBox:
		if !r.hasBox(cmd.BoxID) {
			return nil, r, ErrUnknownBox
		}
		// Re-clicking the open box does nothing
		if r.ActiveBox == cmd.BoxID {
			return nil, r, nil
		}

		if r.ActiveBox != NoBox {
			// Close the previous box first, open the new one once the switch
			// delay has passed.
			newRound := r.clone()
			closed := newRound.closeActive()
			events := []Event{
				{Type: EvtBoxClosed, BoxID: closed},
				{Type: EvtTimerStarted, BoxID: cmd.BoxID, Step: StepOpen, Gen: newRound.Gen, Delay: r.Timing.SwitchDelay},
			}
			return events, newRound, nil
		}
		return open(r, cmd.BoxID)

	case CmdOpenBox:
		if cmd.Gen != r.Gen || r.ActiveBox != NoBox {
			return nil, r, ErrStaleTimer
		}
		if !r.hasBox(cmd.BoxID) {
			return nil, r, ErrUnknownBox
		}
		return open(r, cmd.BoxID)

	case CmdRevealLetter:
		return reveal(r, cmd, StepRevealLetter)

	case CmdRevealFull:
		return reveal(r, cmd, StepRevealFull)

	case CmdNextBox:
		if r.ActiveBox == NoBox {
			return nil, r, nil
		}
		newRound := r.clone()
		closed := newRound.closeActive()
		return []Event{{Type: EvtBoxClosed, BoxID: closed}}, newRound, nil

	default:
		return nil, r, ErrUnsupportedCommand
	}
}

func open(r Round, id int) ([]Event, Round, error) {
	step, _ := stepFrom(RevealClosed)

	newRound := r.clone()
	newRound.ActiveBox = id
	newRound.Gen++
	newRound.Boxes[id].Reveal = step.To

	next, _ := stepFrom(step.To)
	events := []Event{
		{Type: EvtBoxShaking, BoxID: id, Cue: step.Cue},
		{Type: EvtTimerStarted, BoxID: id, Step: next.Step, Gen: newRound.Gen, Delay: r.Timing.OpenDelay},
	}
	return events, newRound, nil
}

func reveal(r Round, cmd Command, want Step) ([]Event, Round, error) {
	if cmd.Gen != r.Gen || cmd.BoxID != r.ActiveBox || !r.hasBox(cmd.BoxID) {
		return nil, r, ErrStaleTimer
	}
	step, ok := stepFrom(r.Boxes[cmd.BoxID].Reveal)
	if !ok || step.Step != want {
		return nil, r, ErrStaleTimer
	}

	newRound := r.clone()
	box := &newRound.Boxes[cmd.BoxID]
	box.Reveal = step.To

	switch step.To {
	case RevealLetter:
		next, _ := stepFrom(step.To)
		return []Event{
			{Type: EvtLetterRevealed, BoxID: box.ID, Cue: step.Cue},
			{Type: EvtTimerStarted, BoxID: box.ID, Step: next.Step, Gen: newRound.Gen, Delay: r.Timing.RevealDelay},
		}, newRound, nil

	default:
		newRound.Result = &Result{
			Letter: newRound.Config.LetterCase.Apply(box.Letter),
			Word:   box.Word,
			Icon:   box.Icon,
		}
		return []Event{{Type: EvtBoxRevealed, BoxID: box.ID, Cue: step.Cue}}, newRound, nil
	}
}

func (r Round) hasBox(id int) bool {
	return id >= 0 && id < len(r.Boxes)
}

// clone copies the box slice so Apply never mutates the caller's round.
func (r Round) clone() Round {
	c := r
	c.Boxes = append([]Box(nil), r.Boxes...)
	if r.Result != nil {
		res := *r.Result
		c.Result = &res
	}
	return c
}

func (r *Round) closeActive() int {
	id := r.ActiveBox
	r.Boxes[id].Reveal = RevealClosed
	r.ActiveBox = NoBox
	r.Result = nil
	r.Gen++
	return id
}
