package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"finopoly/internal/config"
	"finopoly/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server hosts hot-seat games over HTTP. Each game gets its own lock so
// concurrent requests against different games never block each other.
type Server struct {
	cfg config.APIConfig
	log *slog.Logger
	mux *chi.Mux

	mu    sync.RWMutex
	games map[string]*gameHandle

	catalogPath string
	seed        int64
}

// resolved guards the one-resolution-per-landing rule: it flips false
// when a roll lands on a tile and true once that tile is resolved.
type gameHandle struct {
	mu       sync.Mutex
	session  *game.Session
	resolved bool
}

func New(cfg config.APIConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:         cfg,
		log:         logger,
		mux:         chi.NewRouter(),
		games:       make(map[string]*gameHandle),
		catalogPath: cfg.CatalogPath,
		seed:        cfg.Seed,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Get("/games/{id}", s.handleGameState)
		r.Get("/games/{id}/board", s.handleBoard)
		r.Get("/games/{id}/financing", s.handleFinancingOptions)
		r.Post("/games/{id}/roll", s.handleRoll)
		r.Post("/games/{id}/resolve", s.handleResolve)
		r.Post("/games/{id}/end-turn", s.handleEndTurn)
		r.Get("/games/{id}/results", s.handleResults)
	})
}

func (s *Server) lookup(id string) (*gameHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.games[id]
	if !ok {
		return nil, game.ErrGameNotFound
	}
	return h, nil
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Players []string `json:"players"`
		Seed    int64    `json:"seed"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog, err := s.loadCatalog()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	seed := in.Seed
	if seed == 0 {
		seed = s.seed
	}
	var rng *mathrand.Rand
	if seed != 0 {
		rng = mathrand.New(mathrand.NewSource(seed))
	}

	session, err := game.NewSession(catalog, s.log, rng)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	for _, name := range in.Players {
		if _, err := session.AddPlayer(name); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	if err := session.Start(); err != nil {
		writeDomainError(w, err)
		return
	}

	s.mu.Lock()
	s.games[session.ID] = &gameHandle{session: session, resolved: true}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, session.StateView())
}

func (s *Server) loadCatalog() (*game.Catalog, error) {
	if s.catalogPath == "" {
		return nil, nil
	}
	return game.LoadCatalog(s.catalogPath)
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.session.StateView())
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	tiles := make([]game.TileView, 0, game.BoardSize)
	for _, t := range h.session.Board() {
		tiles = append(tiles, t.View())
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiles": tiles})
}

func (s *Server) handleFinancingOptions(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	p, err := h.session.CurrentPlayer()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": h.session.FinancingOptions(p)})
}

type rollResponse struct {
	Player  string         `json:"player"`
	Skipped bool           `json:"skipped"`
	Roll    int            `json:"roll,omitempty"`
	Tile    *game.TileView `json:"tile,omitempty"`
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	session := h.session
	p, skipped, err := session.BeginTurn()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if skipped {
		if err := session.NextTurn(); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rollResponse{Player: p.Name, Skipped: true})
		return
	}

	roll := session.RollDice()
	tile, err := session.MoveCurrent(roll)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.resolved = false
	tv := tile.View()
	writeJSON(w, http.StatusOK, rollResponse{Player: p.Name, Roll: roll, Tile: &tv})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	session := h.session
	p, err := session.CurrentPlayer()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	tile, err := session.CurrentTile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if h.resolved {
		writeError(w, http.StatusConflict, "tile already resolved this turn")
		return
	}

	var in struct {
		Buy          bool               `json:"buy"`
		Financing    game.FinancingKind `json:"financing"`
		Amount       float64            `json:"amount"`
		Accept       bool               `json:"accept"`
		ProjectIndex int                `json:"project_index"`
		Strategy     game.Strategy      `json:"strategy"`
	}
	// event and neutral tiles take no input, an empty body is fine
	if err := decodeJSON(r, &in); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var out game.Outcome
	var event *game.Event
	switch tile.Kind {
	case game.TileInvestment:
		if !in.Buy {
			out = game.Outcome{OK: true, Message: "passed on the investment"}
			break
		}
		out = session.BuyProject(p, tile)
	case game.TileFinancing:
		if in.Financing == "" {
			out = game.Outcome{OK: true, Message: "passed on financing"}
			break
		}
		out = session.ApplyFinancing(p, in.Financing, in.Amount)
	case game.TileEvent:
		ev, o := session.ResolveEvent(p)
		event, out = &ev, o
	case game.TileNeutral:
		out = session.ResolveNeutral(p)
	case game.TileSpecial:
		switch tile.Special {
		case game.SpecialIPO:
			out = session.ResolveIPO(p, in.Accept)
		case game.SpecialStrategy:
			out = session.ApplyStrategy(p, in.ProjectIndex, in.Strategy)
		default:
			writeDomainError(w, game.ErrWrongTile)
			return
		}
	default:
		writeDomainError(w, game.ErrWrongTile)
		return
	}

	// rule refusals leave the landing open so the player can retry with
	// corrected input
	if out.OK {
		h.resolved = true
	}

	resp := map[string]any{
		"outcome": out,
		"player":  p.View(session.Round()),
	}
	if event != nil {
		resp["event"] = map[string]any{
			"name":        event.Name,
			"description": event.Description,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.session.NextTurn(); err != nil {
		writeDomainError(w, err)
		return
	}
	h.resolved = true
	writeJSON(w, http.StatusOK, h.session.StateView())
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	results, err := h.session.FinalResults()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrGameNotOver),
		errors.Is(err, game.ErrGameStarted), errors.Is(err, game.ErrGameNotStarted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrNotEnoughPlayers), errors.Is(err, game.ErrTooManyPlayers),
		errors.Is(err, game.ErrInvalidChoice), errors.Is(err, game.ErrWrongTile),
		errors.Is(err, game.ErrInvalidCatalog):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
