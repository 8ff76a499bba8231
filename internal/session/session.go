package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
)

type Msg interface{ isSessionMsg() }

type FromClient struct {
	ClientID string
	Cmd      Command
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// TimerFired is posted by the reveal timers. Cmd carries the gen the timer
// was armed under.
type TimerFired struct {
	Cmd engine.Command
}

func (TimerFired) isSessionMsg() {}

// Snapshot is what a client receives. Err is set only on the reply to that
// client's own rejected command; State is then unchanged.
type Snapshot struct {
	Version int
	State   State
	Events  []engine.Event
	Err     string
}

type View struct {
	Version    int
	NumClients int
	State      State
}

// Settings is the slice of settings.Store a session needs.
type Settings interface {
	Load(ctx context.Context) engine.Config
	Save(ctx context.Context, cfg engine.Config) error
}

type Deps struct {
	Dealer   engine.Dealer
	Settings Settings
	Log      *zap.Logger
}

// Session owns one player's screen, configuration and round. Everything runs
// on the loop goroutine; timers only post messages back to the inbox.
type Session struct {
	inbox    chan Msg
	state    State
	version  int
	clients  map[string]chan Snapshot
	dealer   engine.Dealer
	settings Settings
	log      *zap.Logger
	timer    *time.Timer
	gen      uint64 // highest round gen committed so far
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)

	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		inbox:    make(chan Msg, 64), // Small buffer
		clients:  make(map[string]chan Snapshot),
		dealer:   deps.Dealer,
		settings: deps.Settings,
		log:      log.Named("session"),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.state = State{Screen: ScreenHome, Config: s.loadConfig()}

	go s.loop()
	return s
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.state}

			case Leave:
				delete(s.clients, msg.ClientID)

			case FromClient:
				events, next, err := s.apply(msg.Cmd)
				if err != nil {
					s.log.Debug("command rejected",
						zap.String("client", msg.ClientID),
						zap.String("type", string(msg.Cmd.Type)),
						zap.Error(err))
					s.reject(msg.ClientID, err)
					break
				}
				s.commit(next, events)

			case TimerFired:
				if s.state.Round == nil {
					break
				}
				events, round, err := engine.Apply(*s.state.Round, msg.Cmd)
				if err != nil {
					// Stale fires land here after a switch, next box or restart.
					s.log.Debug("timer dropped", zap.String("type", string(msg.Cmd.Type)), zap.Error(err))
					break
				}
				next := s.state
				next.Round = &round
				s.commit(next, events)

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// commit installs a new state. A command that produced no events changed
// nothing, so it neither bumps the version nor touches the pending timer.
func (s *Session) commit(next State, events []engine.Event) {
	if len(events) == 0 {
		return
	}
	s.state = next
	if next.Round != nil && next.Round.Gen > s.gen {
		s.gen = next.Round.Gen
	}
	s.version++
	s.armTimers(events)
	s.broadcast(Snapshot{Version: s.version, State: s.state, Events: events})
}

// armTimers replaces the pending timer. Every committed change either starts
// a new timer or invalidates the old one, so the old one is always stopped.
func (s *Session) armTimers(events []engine.Event) {
	s.stopTimer()
	for _, e := range events {
		if e.Type != engine.EvtTimerStarted {
			continue
		}
		cmd := timerCommand(e)
		s.timer = time.AfterFunc(e.Delay, func() {
			select {
			case s.inbox <- TimerFired{Cmd: cmd}:
			case <-s.ctx.Done():
			}
		})
	}
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func timerCommand(e engine.Event) engine.Command {
	cmd := engine.Command{BoxID: e.BoxID, Gen: e.Gen}
	switch e.Step {
	case engine.StepOpen:
		cmd.Type = engine.CmdOpenBox
	case engine.StepRevealLetter:
		cmd.Type = engine.CmdRevealLetter
	case engine.StepRevealFull:
		cmd.Type = engine.CmdRevealFull
	}
	return cmd
}

func (s *Session) shutdown() {
	s.stopTimer()
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

// reject tells the sender why its command did nothing.
func (s *Session) reject(clientID string, err error) {
	ch, ok := s.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- Snapshot{Version: s.version, State: s.state, Err: err.Error()}:
	default:
		close(ch)
		delete(s.clients, clientID)
	}
}

func (s *Session) loadConfig() engine.Config {
	if s.settings == nil {
		return engine.DefaultConfig()
	}
	return s.settings.Load(s.ctx)
}

// persist saves best effort: a failed write is logged and the game goes on
// with the in-memory config.
func (s *Session) persist(cfg engine.Config) {
	if s.settings == nil {
		return
	}
	if err := s.settings.Save(s.ctx, cfg); err != nil {
		s.log.Error("save settings", zap.Error(err))
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }
