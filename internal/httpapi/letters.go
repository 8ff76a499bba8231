package httpapi

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/giftbox-letters/internal/catalog"
	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/settings"
	"github.com/DoyleJ11/giftbox-letters/internal/worksheet"
)

type wordView struct {
	Word string `json:"word"`
	Icon string `json:"icon"`
}

type letterView struct {
	Letter   string     `json:"letter"`
	Display  string     `json:"display"` // in the saved letter case
	Selected bool       `json:"selected"`
	Words    []wordView `json:"words"`
}

// Letters lists every catalog letter with its word pool, marking the ones in
// the saved selection.
func Letters(cat *catalog.Catalog, st *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := st.Load(r.Context())

		out := make([]letterView, 0, len(catalog.Alphabet))
		for _, l := range cat.Letters() {
			e, _ := cat.Lookup(l)
			v := letterView{
				Letter:   l,
				Display:  cfg.LetterCase.Apply(l),
				Selected: slices.Contains(cfg.SelectedLetters, l),
				Words:    make([]wordView, 0, len(e.Words)),
			}
			for i, word := range e.Words {
				wv := wordView{Word: word}
				if i < len(e.Icons) {
					wv.Icon = e.Icons[i]
				}
				v.Words = append(v.Words, wv)
			}
			out = append(out, v)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// Worksheet renders ?letters=a,b (default: the saved selection) as a PDF.
func Worksheet(rd worksheet.Renderer, st *settings.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := st.Load(r.Context())

		letters := cfg.SelectedLetters
		if q := r.URL.Query().Get("letters"); q != "" {
			letters = engine.NormalizeLetters(strings.Split(q, ","))
		}

		b, err := rd.Render(letters, cfg.LetterCase)
		if errors.Is(err, engine.ErrNoLetters) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Error("render worksheet", zap.Error(err))
			http.Error(w, "failed to render worksheet", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="worksheet.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}
