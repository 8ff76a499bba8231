// Package settings persists the game configuration as one JSON
// record in a key-value store.
//
// Loading never fails: a missing key, an unreadable store or a corrupt record
// yields defaults, and a partial record is merged with defaults field by
// field. Saving reports its error and leaves the policy (usually: log and
// carry on) to the caller.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/storage"
)

// DefaultKey is the key the browser version of the game used.
const DefaultKey = "letter-game-settings"

var ErrInvalidConfig = errors.New("invalid settings")

const (
	fieldBoxCount        = "boxCount"
	fieldSelectedLetters = "selectedLetters"
	fieldLetterCase      = "letterCase"
)

type Store struct {
	kv  storage.KV
	key string
	log *zap.Logger
}

func New(kv storage.KV, key string, log *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, key: key, log: log.Named("settings")}
}

func (s *Store) Load(ctx context.Context) engine.Config {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("read settings, using defaults", zap.String("key", s.key), zap.Error(err))
		return engine.DefaultConfig()
	}
	if !ok {
		return engine.DefaultConfig()
	}

	cfg, fallbacks, err := Decode([]byte(raw))
	if err != nil {
		s.log.Warn("parse settings, using defaults", zap.String("key", s.key), zap.Error(err))
		return cfg
	}
	if len(fallbacks) > 0 {
		s.log.Warn("settings fields defaulted", zap.String("key", s.key), zap.Strings("fields", fallbacks))
	}
	return cfg
}

func (s *Store) Save(ctx context.Context, cfg engine.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	b, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func Encode(cfg engine.Config) ([]byte, error) {
	if cfg.SelectedLetters == nil {
		cfg.SelectedLetters = []string{}
	}
	return json.Marshal(cfg)
}

// Decode merges a stored record with the defaults. It returns the names of
// the fields that were missing or invalid. A record that is not a JSON object
// returns the full defaults and an error.
func Decode(b []byte) (engine.Config, []string, error) {
	cfg := engine.DefaultConfig()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return cfg, nil, err
	}

	var fallbacks []string

	var boxCount int
	if raw, ok := fields[fieldBoxCount]; ok && json.Unmarshal(raw, &boxCount) == nil && engine.ValidBoxCount(boxCount) {
		cfg.BoxCount = boxCount
	} else {
		fallbacks = append(fallbacks, fieldBoxCount)
	}

	// An explicit empty list is kept; null is treated as missing.
	var letters []string
	if raw, ok := fields[fieldSelectedLetters]; ok && json.Unmarshal(raw, &letters) == nil && letters != nil {
		cfg.SelectedLetters = engine.NormalizeLetters(letters)
	} else {
		fallbacks = append(fallbacks, fieldSelectedLetters)
	}

	var letterCase engine.LetterCase
	if raw, ok := fields[fieldLetterCase]; ok && json.Unmarshal(raw, &letterCase) == nil && letterCase.Valid() {
		cfg.LetterCase = letterCase
	} else {
		fallbacks = append(fallbacks, fieldLetterCase)
	}

	return cfg, fallbacks, nil
}
