package engine

// RevealOrder is the path a selected box walks. Each step after the first is
// driven by a timer; the first happens on the click itself.
var RevealOrder = []RevealStep{
	{From: RevealClosed, To: RevealShaking, Step: StepOpen, Cue: CueClick},
	{From: RevealShaking, To: RevealLetter, Step: StepRevealLetter, Cue: CueReveal},
	{From: RevealLetter, To: RevealFull, Step: StepRevealFull, Cue: CueSuccess},
}

type RevealStep struct {
	From RevealState
	To   RevealState
	Step Step
	Cue  Cue
}

func stepFrom(state RevealState) (RevealStep, bool) {
	for _, s := range RevealOrder {
		if s.From == state {
			return s, true
		}
	}
	return RevealStep{}, false
}
