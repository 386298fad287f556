// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST /game/new      → start a session, returns a game token
//   - POST /game/word     → submit one word (token required)
//   - POST /game/restart  → new root word, cleared history and score (token required)
//   - GET  /game/state    → current session (token required)
//
// Rejected words are not HTTP errors: they come back with status "rejected"
// and a title/message pair for display, and leave the session untouched.

package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNew)
		r.Group(func(r chi.Router) {
			r.Use(s.requireGame)
			r.Post("/word", s.handleWord)
			r.Post("/restart", s.handleRestart)
			r.Get("/state", s.handleState)
		})
	})
}

// gameView is the JSON shape of a session.
type gameView struct {
	GameID   string   `json:"gameId"`
	Token    string   `json:"token,omitempty"`
	Mode     string   `json:"mode"`
	RootWord string   `json:"rootWord"`
	Score    int      `json:"score"`
	Words    []string `json:"words"` // most recent first
}

func viewOf(sess game.Session) gameView {
	return gameView{
		GameID:   sess.ID,
		Mode:     string(sess.Mode),
		RootWord: sess.Root,
		Score:    sess.Score,
		Words:    sess.Words,
	}
}

// newGameReq is the payload for /game/new and /game/restart.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
	Root string `json:"root"` // optional fixed root word (testing)
}

// chooseRoot resolves the root word and mode for a new game.
func (s *Server) chooseRoot(req newGameReq) (string, game.Mode, error) {
	mode := game.Mode(strings.ToLower(strings.TrimSpace(req.Mode)))
	switch mode {
	case "", game.ModeRandom:
		mode = game.ModeRandom
	case game.ModeDaily:
	default:
		return "", "", errors.New("unknown_mode")
	}
	if root := game.Normalize(req.Root); root != "" {
		return root, mode, nil
	}
	if mode == game.ModeDaily {
		return daily.Root(s.opts.Now(), s.opts.DailySalt, s.opts.Roots), mode, nil
	}
	return s.opts.Roots.Pick(s.opts.Rand), mode, nil
}

// handleNew starts a new session and issues a token for it.
// A valid token on the request retires the session it points to.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	root, mode, err := s.chooseRoot(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if raw := bearerOrCookie(r); raw != "" {
		if old, err := s.opts.Tokens.Parse(raw); err == nil {
			_ = s.opts.Store.Delete(r.Context(), old)
		}
	}

	sess := game.NewSession()
	sess.Start(root, mode)
	if err := s.opts.Store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.opts.Tokens.Sign(sess.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setCookie(w, tok, exp)

	s.opts.Metrics.RecordGameStarted(string(mode))
	s.opts.Metrics.SetActiveSessions(s.opts.Store.Len())
	hlog.FromRequest(r).Info().Str("gameId", sess.ID).Str("mode", string(mode)).Msg("game started")

	v := viewOf(sess.Snapshot())
	v.Token = tok
	writeJSON(w, http.StatusCreated, v)
}

// handleRestart is the "new game" event for an existing session.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	id := gameID(r)
	if req.Mode == "" {
		if cur, err := s.opts.Store.Get(r.Context(), id); err == nil {
			req.Mode = string(cur.Mode)
		}
	}
	root, mode, err := s.chooseRoot(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var view gameView
	err = s.opts.Store.Update(r.Context(), id, func(sess *game.Session) error {
		sess.Start(root, mode)
		view = viewOf(sess.Snapshot())
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "restart_failed")
		return
	}
	s.opts.Metrics.RecordGameStarted(string(mode))
	writeJSON(w, http.StatusOK, view)
}

// handleState returns the current session.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.opts.Store.Get(r.Context(), gameID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// wordReq is the payload for /game/word.
type wordReq struct {
	Word string `json:"word"`
}

// rejection is the user-facing explanation of a rejected word.
type rejection struct {
	Reason  string `json:"reason"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// wordRes is the response for /game/word.
type wordRes struct {
	Status string     `json:"status"` // accepted | rejected | ignored
	Word   string     `json:"word,omitempty"`
	Delta  int        `json:"delta"`
	Error  *rejection `json:"error,omitempty"`
	gameView
}

// handleWord validates a word against the session and applies it if accepted.
func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	var req wordReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		out  game.Outcome
		view gameView
	)
	err := s.opts.Store.Update(r.Context(), gameID(r), func(sess *game.Session) error {
		o, err := sess.Submit(req.Word, s.opts.Dictionary, s.opts.Language)
		if err != nil {
			return err
		}
		out, view = o, viewOf(sess.Snapshot())
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	case errors.Is(err, game.ErrNotStarted):
		writeError(w, http.StatusConflict, "game_not_started")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("submit word")
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	s.opts.Metrics.RecordSubmission(string(out.Status), string(out.Reason), out.Delta)
	res := wordRes{Status: string(out.Status), Word: out.Word, Delta: out.Delta, gameView: view}
	if out.Status == game.StatusRejected {
		res.Error = &rejection{
			Reason:  string(out.Reason),
			Title:   out.Reason.Title(),
			Message: out.Reason.Message(view.RootWord),
		}
	}
	hlog.FromRequest(r).Debug().
		Str("gameId", view.GameID).
		Str("status", res.Status).
		Str("reason", string(out.Reason)).
		Int("delta", out.Delta).
		Msg("word submitted")
	writeJSON(w, http.StatusOK, res)
}
