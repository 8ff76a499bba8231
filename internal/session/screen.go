package session

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
)

var ErrWrongScreen = errors.New("command not allowed on this screen")
var ErrMissingConfig = errors.New("missing config")

type Screen string

const (
	ScreenHome     Screen = "home"
	ScreenSettings Screen = "settings"
	ScreenGame     Screen = "game"
)

type State struct {
	Screen Screen        `json:"screen"`
	Config engine.Config `json:"config"`
	Round  *engine.Round `json:"round,omitempty"`
}

type CommandType string

const (
	CmdOpenSettings   CommandType = "OpenSettings"
	CmdSaveSettings   CommandType = "SaveSettings"
	CmdCancelSettings CommandType = "CancelSettings"
	CmdStartGame      CommandType = "StartGame"
	CmdSelectBox      CommandType = "SelectBox"
	CmdNextBox        CommandType = "NextBox"
	CmdPlayAgain      CommandType = "PlayAgain"
	CmdGoHome         CommandType = "GoHome"
)

/*
	home      --OpenSettings-->   settings --CancelSettings--> home
	home      --StartGame-->      game     (saved config)
	settings  --StartGame-->      game     (config from the screen, saved first)
	settings  --SaveSettings-->   settings (every toggle is saved)
	game      --SelectBox/NextBox/PlayAgain--> game
	game      --GoHome-->         home     (round discarded)
*/

type Command struct {
	Type   CommandType
	BoxID  int
	Config *engine.Config
}

// screenEvent marks a navigation change so commit broadcasts it.
func screenEvent(t engine.EventType) []engine.Event {
	return []engine.Event{{Type: t, BoxID: engine.NoBox}}
}

const evtScreenChanged engine.EventType = "ScreenChanged"
const evtSettingsSaved engine.EventType = "SettingsSaved"

// normalized copies cfg with its letters in the stored form.
func normalized(cfg engine.Config) engine.Config {
	cfg.SelectedLetters = engine.NormalizeLetters(cfg.SelectedLetters)
	if cfg.SelectedLetters == nil {
		cfg.SelectedLetters = []string{}
	}
	return cfg
}

func (s *Session) apply(cmd Command) ([]engine.Event, State, error) {
	st := s.state

	switch cmd.Type {
	case CmdOpenSettings:
		if st.Screen != ScreenHome {
			return nil, st, ErrWrongScreen
		}
		st.Screen = ScreenSettings
		st.Config = s.loadConfig()
		return screenEvent(evtScreenChanged), st, nil

	case CmdSaveSettings:
		if st.Screen != ScreenSettings {
			return nil, st, ErrWrongScreen
		}
		if cmd.Config == nil {
			return nil, st, ErrMissingConfig
		}
		cfg := normalized(*cmd.Config)
		if err := cfg.Validate(); err != nil {
			return nil, st, err
		}
		st.Config = cfg
		s.persist(st.Config)
		return screenEvent(evtSettingsSaved), st, nil

	case CmdCancelSettings:
		if st.Screen != ScreenSettings {
			return nil, st, ErrWrongScreen
		}
		st.Screen = ScreenHome
		st.Config = s.loadConfig()
		return screenEvent(evtScreenChanged), st, nil

	case CmdStartGame:
		cfg := st.Config
		switch st.Screen {
		case ScreenHome:
		case ScreenSettings:
			if cmd.Config != nil {
				cfg = normalized(*cmd.Config)
			}
		default:
			return nil, st, ErrWrongScreen
		}
		// The start action is refused with no letters picked; the round
		// never sees an empty pool.
		if err := cfg.Playable(); err != nil {
			return nil, st, err
		}
		if st.Screen == ScreenSettings {
			s.persist(cfg)
		}
		round, err := s.dealer.NewRound(cfg)
		if err != nil {
			return nil, st, err
		}
		// Gens never repeat across rounds, so a fire from a discarded round
		// cannot match this one.
		round.Gen = s.gen + 1
		st.Screen = ScreenGame
		st.Config = cfg
		st.Round = &round
		return screenEvent(engine.EvtRoundStarted), st, nil

	case CmdSelectBox, CmdNextBox:
		if st.Screen != ScreenGame || st.Round == nil {
			return nil, st, ErrWrongScreen
		}
		roundCmd := engine.Command{Type: engine.CmdSelectBox, BoxID: cmd.BoxID}
		if cmd.Type == CmdNextBox {
			roundCmd = engine.Command{Type: engine.CmdNextBox}
		}
		events, round, err := engine.Apply(*st.Round, roundCmd)
		if err != nil {
			return nil, st, err
		}
		st.Round = &round
		return events, st, nil

	case CmdPlayAgain:
		if st.Screen != ScreenGame || st.Round == nil {
			return nil, st, ErrWrongScreen
		}
		round, err := s.dealer.Restart(*st.Round)
		if err != nil {
			return nil, st, err
		}
		st.Round = &round
		return screenEvent(engine.EvtRoundStarted), st, nil

	case CmdGoHome:
		if st.Screen != ScreenGame {
			return nil, st, ErrWrongScreen
		}
		st.Screen = ScreenHome
		st.Round = nil
		return screenEvent(evtScreenChanged), st, nil

	default:
		return nil, st, fmt.Errorf("%w: %s", engine.ErrUnsupportedCommand, cmd.Type)
	}
}
