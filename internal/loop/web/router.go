package web

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/tomz197/stardrift/internal/game"
	"github.com/tomz197/stardrift/internal/loop/server"
	"github.com/tomz197/stardrift/internal/store"
)

// NewRouter serves the game page, the websocket endpoint and the
// high-score API.
func NewRouter(hub server.GameServer, tuning game.Tuning, page []byte, logger *log.Logger) *mux.Router {
	if logger == nil {
		logger = log.Default()
	}

	r := mux.NewRouter()
	r.HandleFunc("/", pageHandler(page)).Methods(http.MethodGet)
	r.Handle("/ws", NewHandler(hub, tuning, logger))
	r.HandleFunc("/api/highscore", highScoreHandler(hub.Store(), logger)).Methods(http.MethodGet)
	return r
}

func pageHandler(page []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}

// highScoreHandler reports the persisted progress. Read failures report zero.
func highScoreHandler(st store.Store, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p store.Progress
		var err error

		if p.HighScore, err = st.ReadHighScore(r.Context()); err != nil {
			logger.Warn("Could not read high score", "err", err)
			p.HighScore = 0
		}
		if p.InfiniteUnlocked, err = st.ReadInfiniteModeUnlocked(r.Context()); err != nil {
			logger.Warn("Could not read unlock flag", "err", err)
			p.InfiniteUnlocked = false
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p); err != nil {
			logger.Warn("Could not write high score response", "err", err)
		}
	}
}
