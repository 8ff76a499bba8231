package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/settings"
)

const maxSettingsBody = 64 << 10

func GetSettings(st *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, st.Load(r.Context()))
	}
}

// PutSettings replaces the stored configuration. A write failure is logged
// and still answered with 204: the game keeps working without persistence.
func PutSettings(st *settings.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg engine.Config
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody)).Decode(&cfg); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if cfg.SelectedLetters == nil {
			cfg.SelectedLetters = []string{}
		}
		cfg.SelectedLetters = engine.NormalizeLetters(cfg.SelectedLetters)
		if err := cfg.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := st.Save(r.Context(), cfg); err != nil {
			if errors.Is(err, settings.ErrInvalidConfig) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("save settings", zap.Error(err))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
