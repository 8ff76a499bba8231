package ws

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/DoyleJ11/giftbox-letters/internal/hub"
	"github.com/DoyleJ11/giftbox-letters/internal/session"
	"github.com/DoyleJ11/giftbox-letters/internal/types"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := randID(6)
		log := log.With(zap.String("code", code), zap.String("client", clientID))

		s.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() {
			select {
			case s.Inbox() <- session.Leave{ClientID: clientID}:
			case <-s.Done():
			}
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				var snap session.Snapshot
				select {
				case <-writeCtx.Done():
					return
				case next, ok := <-out:
					if !ok {
						// The session shut down or dropped us as slow.
						conn.Close(websocket.StatusGoingAway, "session closed")
						return
					}
					snap = next
				}

				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State, Events: snap.Events}
				if snap.Err != "" {
					msg = types.ServerMessage{Type: "Error", Error: snap.Err}
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				err := wsjson.Write(ctx, conn, msg)
				cancel()
				if err != nil {
					log.Debug("write snapshot", zap.Error(err))
					return
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := toSessionCommand(cm)
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			select {
			case s.Inbox() <- session.FromClient{ClientID: clientID, Cmd: cmd}:
			case <-s.Done():
				return
			}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = wsjson.Write(ctx, conn, types.ServerMessage{Type: "Error", Error: msg})
}

func toSessionCommand(m types.ClientMessage) (session.Command, bool) {
	switch session.CommandType(m.Type) {
	case session.CmdOpenSettings, session.CmdCancelSettings, session.CmdNextBox,
		session.CmdPlayAgain, session.CmdGoHome:
		return session.Command{Type: session.CommandType(m.Type)}, true
	case session.CmdSaveSettings:
		if m.Config == nil {
			return session.Command{}, false
		}
		return session.Command{Type: session.CmdSaveSettings, Config: m.Config}, true
	case session.CmdStartGame:
		return session.Command{Type: session.CmdStartGame, Config: m.Config}, true
	case session.CmdSelectBox:
		if m.BoxID == nil {
			return session.Command{}, false
		}
		return session.Command{Type: session.CmdSelectBox, BoxID: *m.BoxID}, true
	default:
		return session.Command{}, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}
