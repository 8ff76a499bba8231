package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/giftbox-letters/internal/catalog"
	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/hub"
	"github.com/DoyleJ11/giftbox-letters/internal/session"
	"github.com/DoyleJ11/giftbox-letters/internal/types"
)

func setup(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub(ctx, session.Deps{Dealer: engine.Dealer{
		Picker: cat,
		Timing: engine.Timing{OpenDelay: 5 * time.Millisecond, RevealDelay: 5 * time.Millisecond, SwitchDelay: 5 * time.Millisecond},
	}})

	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.CreateSession{Code: "TEST01", Reply: reply}
	<-reply

	srv := httptest.NewServer(Handler(h, nil))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var msg types.ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

func write(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, v))
}

func TestHandler_PlaysARound(t *testing.T) {
	_, url := setup(t)
	conn := dial(t, url+"?code=TEST01")

	first := read(t, conn)
	require.Equal(t, "StateSnapshot", first.Type)
	require.NotNil(t, first.State)
	assert.Equal(t, session.ScreenHome, first.State.Screen)

	write(t, conn, map[string]any{"type": "StartGame"})
	started := read(t, conn)
	require.NotNil(t, started.State.Round)
	assert.Len(t, started.State.Round.Boxes, engine.DefaultConfig().BoxCount)

	write(t, conn, map[string]any{"type": "SelectBox", "box_id": 0})
	var cues []engine.Cue
	for {
		msg := read(t, conn)
		for _, e := range msg.Events {
			if e.Cue != "" {
				cues = append(cues, e.Cue)
			}
		}
		if r := msg.State.Round; r != nil && r.Result != nil {
			assert.Equal(t, engine.Uppercase.Apply(r.Boxes[0].Letter), r.Result.Letter)
			break
		}
	}
	assert.Equal(t, []engine.Cue{engine.CueClick, engine.CueReveal, engine.CueSuccess}, cues)
}

func TestHandler_BadInput(t *testing.T) {
	_, url := setup(t)
	conn := dial(t, url+"?code=TEST01")
	read(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))
	msg := read(t, conn)
	assert.Equal(t, "Error", msg.Type)
	assert.Equal(t, "bad json", msg.Error)

	for _, bad := range []map[string]any{
		{"type": "LockPick"},
		{"type": "SelectBox"},
		{"type": "SaveSettings"},
	} {
		write(t, conn, bad)
		msg := read(t, conn)
		assert.Equal(t, "Error", msg.Type, "%v", bad)
	}
}

func TestHandler_UnknownOrMissingCode(t *testing.T) {
	srv, _ := setup(t)

	resp, err := http.Get(srv.URL + "?code=NOPE00")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToSessionCommand(t *testing.T) {
	box := 2
	cmd, ok := toSessionCommand(types.ClientMessage{Type: "SelectBox", BoxID: &box})
	require.True(t, ok)
	assert.Equal(t, session.Command{Type: session.CmdSelectBox, BoxID: 2}, cmd)

	cfg := engine.DefaultConfig()
	cmd, ok = toSessionCommand(types.ClientMessage{Type: "StartGame", Config: &cfg})
	require.True(t, ok)
	assert.Equal(t, &cfg, cmd.Config)

	_, ok = toSessionCommand(types.ClientMessage{Type: "GoHome"})
	assert.True(t, ok)
}

func TestHandler_RejectedCommandGetsError(t *testing.T) {
	_, url := setup(t)
	conn := dial(t, url+"?code=TEST01")
	read(t, conn)

	write(t, conn, map[string]any{"type": "NextBox"})
	msg := read(t, conn)
	assert.Equal(t, "Error", msg.Type)
	assert.Equal(t, session.ErrWrongScreen.Error(), msg.Error)
}
