package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/storage/memory"
)

type brokenKV struct{ err error }

func (b brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, b.err }
func (b brokenKV) Put(context.Context, string, string) error         { return b.err }
func (b brokenKV) Close() error                                      { return nil }

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestLoad_MissingKeyGivesDefaults(t *testing.T) {
	s := New(memory.New(), "", nil)
	assert.Equal(t, engine.DefaultConfig(), s.Load(context.Background()))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	cases := []engine.Config{
		{BoxCount: 3, SelectedLetters: []string{"a"}, LetterCase: engine.Uppercase},
		{BoxCount: 12, SelectedLetters: []string{"đ", "ư", "b"}, LetterCase: engine.Lowercase},
		{BoxCount: 9, SelectedLetters: []string{}, LetterCase: engine.Uppercase},
		engine.DefaultConfig(),
	}
	for _, cfg := range cases {
		s := New(memory.New(), DefaultKey, nil)
		require.NoError(t, s.Save(context.Background(), cfg))
		assert.Equal(t, cfg, s.Load(context.Background()))
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	s := New(memory.New(), DefaultKey, nil)
	err := s.Save(context.Background(), engine.Config{BoxCount: 7, SelectedLetters: []string{"a"}, LetterCase: engine.Uppercase})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, engine.ErrInvalidBoxCount)
}

func TestSave_ReportsWriteFailure(t *testing.T) {
	boom := errors.New("disk full")
	s := New(brokenKV{err: boom}, DefaultKey, nil)
	err := s.Save(context.Background(), engine.DefaultConfig())
	assert.ErrorIs(t, err, boom)
}

func TestLoad_ReadFailureFallsBackAndLogs(t *testing.T) {
	log, logs := observed()
	s := New(brokenKV{err: errors.New("locked")}, DefaultKey, log)

	assert.Equal(t, engine.DefaultConfig(), s.Load(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("read settings, using defaults").Len())
}

func TestLoad_FieldByFieldFallback(t *testing.T) {
	def := engine.DefaultConfig()
	cases := []struct {
		name      string
		record    string
		want      engine.Config
		defaulted []string
	}{
		{
			name:      "corrupt json",
			record:    `{"boxCount": 3,`,
			want:      def,
			defaulted: nil,
		},
		{
			name:      "not an object",
			record:    `[1,2,3]`,
			want:      def,
			defaulted: nil,
		},
		{
			name:      "valid box count, missing letters",
			record:    `{"boxCount": 12, "letterCase": "lowercase"}`,
			want:      engine.Config{BoxCount: 12, SelectedLetters: def.SelectedLetters, LetterCase: engine.Lowercase},
			defaulted: []string{"selectedLetters"},
		},
		{
			name:      "box count outside the offered set",
			record:    `{"boxCount": 5, "selectedLetters": ["b"], "letterCase": "uppercase"}`,
			want:      engine.Config{BoxCount: 6, SelectedLetters: []string{"b"}, LetterCase: engine.Uppercase},
			defaulted: []string{"boxCount"},
		},
		{
			name:      "wrong types everywhere",
			record:    `{"boxCount": "six", "selectedLetters": "a", "letterCase": 1}`,
			want:      def,
			defaulted: []string{"boxCount", "selectedLetters", "letterCase"},
		},
		{
			name:      "null letters and unknown case",
			record:    `{"boxCount": 4, "selectedLetters": null, "letterCase": "title"}`,
			want:      engine.Config{BoxCount: 4, SelectedLetters: def.SelectedLetters, LetterCase: engine.Uppercase},
			defaulted: []string{"selectedLetters", "letterCase"},
		},
		{
			name:      "explicit empty letters kept",
			record:    `{"boxCount": 6, "selectedLetters": [], "letterCase": "uppercase"}`,
			want:      engine.Config{BoxCount: 6, SelectedLetters: []string{}, LetterCase: engine.Uppercase},
			defaulted: nil,
		},
		{
			name:      "letters normalized",
			record:    `{"boxCount": 3, "selectedLetters": ["A", "đ", "a", "Đ"], "letterCase": "lowercase"}`,
			want:      engine.Config{BoxCount: 3, SelectedLetters: []string{"a", "đ"}, LetterCase: engine.Lowercase},
			defaulted: nil,
		},
		{
			name:      "legacy record with extra fields",
			record:    `{"boxCount": 9, "theme": "forest"}`,
			want:      engine.Config{BoxCount: 9, SelectedLetters: def.SelectedLetters, LetterCase: engine.Uppercase},
			defaulted: []string{"selectedLetters", "letterCase"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kv := memory.New()
			require.NoError(t, kv.Put(context.Background(), DefaultKey, tc.record))
			log, logs := observed()

			got := New(kv, DefaultKey, log).Load(context.Background())
			assert.Equal(t, tc.want, got)

			if tc.defaulted != nil {
				entries := logs.FilterMessage("settings fields defaulted").All()
				require.Len(t, entries, 1)
				want := make([]any, len(tc.defaulted))
				for i, f := range tc.defaulted {
					want[i] = f
				}
				assert.Equal(t, want, entries[0].ContextMap()["fields"])
			}
		})
	}
}

func TestEncode_Shape(t *testing.T) {
	b, err := Encode(engine.Config{BoxCount: 3, LetterCase: engine.Lowercase})
	require.NoError(t, err)
	assert.JSONEq(t, `{"boxCount":3,"selectedLetters":[],"letterCase":"lowercase"}`, string(b))
}
