// internal/httpserver/server.go
//
// HTTP server wiring for the Pizza Detective backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/", "/health", "/toppings".
//   - Game endpoints: POST /game/new, then session-bound GET /game,
//     POST /game/topping, POST /game/clear, POST /game/submit.
//
// Notes:
//   - The browser owns rendering and message timing; every game response carries
//     the engine snapshot so the page can redraw from it.
//   - Rule violations answer 422 with a machine code, the player-facing message
//     and the unchanged snapshot.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pizza-detective/internal/daily"
	"github.com/robalobadob/pizza-detective/internal/game"
	"github.com/robalobadob/pizza-detective/internal/store"
	"github.com/robalobadob/pizza-detective/internal/toppings"
)

// Options carries the game and session settings the server needs.
type Options struct {
	Catalog               *toppings.Catalog
	ToppingsPerPizza      int
	FreshGuessAfterSubmit bool
	SessionSecret         string
	DailySalt             string
	ClientOrigin          string
	Production            bool // Secure + SameSite=None cookies

	// Now is the clock used for daily puzzles and tokens; time.Now when nil.
	Now func() time.Time
}

// Server bundles router, session store and game settings.
type Server struct {
	r     *chi.Mux
	store store.Store
	opts  Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), store: st, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"pizza-detective","endpoints":["/health","/toppings","POST /game/new","GET /game","POST /game/topping","POST /game/clear","POST /game/submit"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/toppings", s.handleToppings)

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/game", s.handleState)
		r.Post("/game/topping", s.handleTopping)
		r.Post("/game/clear", s.handleClear)
		r.Post("/game/submit", s.handleSubmit)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs path, status and duration of every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("dur", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------ CATALOG ------------------------------------

type toppingsRes struct {
	ToppingsPerPizza int                `json:"toppingsPerPizza"`
	Toppings         []toppings.Topping `json:"toppings"`
}

func (s *Server) handleToppings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toppingsRes{
		ToppingsPerPizza: s.opts.ToppingsPerPizza,
		Toppings:         s.opts.Catalog.Toppings(),
	})
}

// ------------------------------ GAME ---------------------------------------

const (
	modeRandom = "random"
	modeDaily  = "daily"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}
type newGameRes struct {
	GameID string        `json:"gameId"`
	Mode   string        `json:"mode"`
	Date   string        `json:"date,omitempty"` // daily mode only
	Token  string        `json:"token"`
	Game   game.Snapshot `json:"game"`
}

// handleNewGame creates an engine, stores it, and hands out a session token
// both as a cookie and in the body (for Bearer clients).
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	res := newGameRes{GameID: uuid.NewString(), Mode: req.Mode}
	opts := []game.Option{
		game.WithToppingsPerPizza(s.opts.ToppingsPerPizza),
		game.WithFreshGuessAfterSubmit(s.opts.FreshGuessAfterSubmit),
	}
	switch req.Mode {
	case "", modeRandom:
		res.Mode = modeRandom
	case modeDaily:
		src := daily.NewSource(s.opts.Now(), s.opts.DailySalt)
		res.Date = src.Date()
		opts = append(opts, game.WithRand(src))
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}

	eng, err := game.New(s.opts.Catalog, opts...)
	if err != nil {
		log.Error().Err(err).Msg("create engine")
		writeError(w, http.StatusInternalServerError, "engine_failed")
		return
	}
	sess := store.NewSession(res.GameID, res.Mode, eng)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.signSession(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)
	res.Token = tok
	_ = sess.Do(func(e *game.Engine) error {
		res.Game = e.Snapshot()
		return nil
	})
	log.Info().Str("gameId", sess.ID).Str("mode", res.Mode).Msg("game started")
	writeJSON(w, http.StatusOK, res)
}

type stateRes struct {
	Game game.Snapshot `json:"game"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var res stateRes
	_ = sessionFrom(r).Do(func(e *game.Engine) error {
		res.Game = e.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, res)
}

// toppingReq/Res payloads for POST /game/topping.
type toppingReq struct {
	Topping string `json:"topping"`
}
type toppingRes struct {
	Selection game.Selection `json:"selection"`
	Game      game.Snapshot  `json:"game"`
}

func (s *Server) handleTopping(w http.ResponseWriter, r *http.Request) {
	var req toppingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res toppingRes
	err := sessionFrom(r).Do(func(e *game.Engine) error {
		sel, err := e.SelectTopping(req.Topping)
		res.Selection = sel
		res.Game = e.Snapshot()
		return err
	})
	if err != nil {
		writeRuleError(w, err, res.Game)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type clearRes struct {
	NewPuzzle bool          `json:"newPuzzle"`
	Game      game.Snapshot `json:"game"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var res clearRes
	_ = sessionFrom(r).Do(func(e *game.Engine) error {
		res.NewPuzzle = e.Clear()
		res.Game = e.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, res)
}

type submitRes struct {
	Attempt game.AttemptRecord `json:"attempt"`
	Game    game.Snapshot      `json:"game"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var res submitRes
	sess := sessionFrom(r)
	err := sess.Do(func(e *game.Engine) error {
		rec, err := e.Submit()
		res.Attempt = rec
		res.Game = e.Snapshot()
		return err
	})
	if err != nil {
		writeRuleError(w, err, res.Game)
		return
	}
	if res.Attempt.IsCorrect {
		log.Info().Str("gameId", sess.ID).Int("puzzle", res.Attempt.Puzzle).
			Int("attempts", res.Attempt.Attempt).Int("score", res.Game.Score).Msg("puzzle solved")
	}
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------- errors ------------------------------------

// ruleErrorRes is the 422 body for rejected player actions.
type ruleErrorRes struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Game    game.Snapshot `json:"game"`
}

// ruleCode maps engine sentinels to stable API codes.
func ruleCode(err error) string {
	switch {
	case errors.Is(err, game.ErrTooManyToppingTypes):
		return "too_many_topping_types"
	case errors.Is(err, game.ErrEmptyGuess):
		return "empty_guess"
	case errors.Is(err, game.ErrWrongCount):
		return "wrong_count"
	case errors.Is(err, game.ErrAlreadySolved):
		return "already_solved"
	case errors.Is(err, game.ErrUnknownTopping):
		return "unknown_topping"
	}
	return ""
}

func writeRuleError(w http.ResponseWriter, err error, snap game.Snapshot) {
	var re *game.RuleError
	if !errors.As(err, &re) {
		log.Error().Err(err).Msg("engine operation")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, ruleErrorRes{
		Error:   ruleCode(err),
		Message: re.Message,
		Game:    snap,
	})
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
