package game

import (
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Session runs one game from lobby to final ranking. It is not safe for
// concurrent use; callers serialize access per game.
type Session struct {
	ID string

	logger  *slog.Logger
	rng     *mathrand.Rand
	catalog *Catalog

	board   []Tile
	players []*Player

	round       int
	totalRounds int
	current     int
	started     bool
	over        bool
}

func NewSession(catalog *Catalog, logger *slog.Logger, rng *mathrand.Rand) (*Session, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		ID:          uuid.NewString(),
		logger:      logger,
		rng:         rng,
		catalog:     catalog,
		totalRounds: DefaultRounds,
	}, nil
}

func (s *Session) AddPlayer(name string) (*Player, error) {
	if s.started {
		return nil, ErrGameStarted
	}
	if len(s.players) >= MaxPlayers {
		return nil, ErrTooManyPlayers
	}
	p, err := NewPlayer(name)
	if err != nil {
		return nil, err
	}
	for _, other := range s.players {
		if other.Name == p.Name {
			return nil, fmt.Errorf("player %q already joined", p.Name)
		}
	}
	s.players = append(s.players, p)
	s.logger.Info("player joined", "game", s.ID, "player", p.Name)
	return p, nil
}

func (s *Session) Start() error {
	if s.started {
		return ErrGameStarted
	}
	if len(s.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	board, err := generateBoard(s.catalog.Projects, s.rng)
	if err != nil {
		return err
	}
	s.board = board
	s.round = 1
	s.current = 0
	s.started = true
	s.logger.Info("game started", "game", s.ID, "players", len(s.players), "rounds", s.totalRounds)
	return nil
}

func (s *Session) Started() bool { return s.started }
func (s *Session) Over() bool    { return s.over }
func (s *Session) Round() int    { return s.round }

func (s *Session) Board() []Tile {
	out := make([]Tile, len(s.board))
	copy(out, s.board)
	return out
}

func (s *Session) Players() []*Player {
	out := make([]*Player, len(s.players))
	copy(out, s.players)
	return out
}

func (s *Session) PlayerByID(id string) (*Player, error) {
	for _, p := range s.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (s *Session) CurrentPlayer() (*Player, error) {
	if !s.started {
		return nil, ErrGameNotStarted
	}
	if s.over {
		return nil, ErrGameOver
	}
	return s.players[s.current], nil
}

func (s *Session) CurrentTile() (Tile, error) {
	p, err := s.CurrentPlayer()
	if err != nil {
		return Tile{}, err
	}
	return s.board[p.Position], nil
}

// BeginTurn hands back the player whose turn it is. The bool is true
// when the turn is forfeit (system crash penalty or bankruptcy); the
// caller should go straight to NextTurn in that case.
func (s *Session) BeginTurn() (*Player, bool, error) {
	p, err := s.CurrentPlayer()
	if err != nil {
		return nil, false, err
	}
	if p.Bankrupt {
		return p, true, nil
	}
	if p.SkipNextTurn {
		p.SkipNextTurn = false
		s.logger.Info("turn skipped", "game", s.ID, "player", p.Name)
		return p, true, nil
	}
	return p, false, nil
}

func (s *Session) RollDice() int {
	return s.rng.Intn(DiceSides) + 1
}

func (s *Session) MoveCurrent(steps int) (Tile, error) {
	p, err := s.CurrentPlayer()
	if err != nil {
		return Tile{}, err
	}
	if steps < 1 || steps > DiceSides {
		return Tile{}, fmt.Errorf("%w: move of %d steps", ErrInvalidChoice, steps)
	}
	p.Position = (p.Position + steps) % BoardSize
	tile := s.board[p.Position]
	s.logger.Info("player moved", "game", s.ID, "player", p.Name, "steps", steps, "tile", tile.Name)
	return tile, nil
}

// NextTurn advances to the next active player. Wrapping past the last
// seat settles the round: debt interest comes due, players who cannot
// cover it fold, and the round counter moves on.
func (s *Session) NextTurn() error {
	if !s.started {
		return ErrGameNotStarted
	}
	if s.over {
		return ErrGameOver
	}
	for i := 0; i < len(s.players); i++ {
		s.current++
		if s.current >= len(s.players) {
			s.current = 0
			s.settleRound()
			if s.over {
				return nil
			}
		}
		if !s.players[s.current].Bankrupt {
			return nil
		}
	}
	// nobody left standing
	s.over = true
	return nil
}

func (s *Session) settleRound() {
	active := 0
	for _, p := range s.players {
		if p.Bankrupt {
			continue
		}
		if p.Debt > 0 {
			if owed, paid := p.PayDebtInterest(); !paid {
				p.Bankrupt = true
				s.logger.Info("player bankrupt", "game", s.ID, "player", p.Name, "debt", p.Debt, "owed", owed, "cash", p.Cash)
				continue
			}
		}
		p.DebtDrawnThisRound = 0
		active++
	}
	s.round++
	if s.round > s.totalRounds || active <= 1 {
		s.over = true
		s.logger.Info("game over", "game", s.ID, "rounds_played", s.round-1)
	} else {
		s.logger.Info("round settled", "game", s.ID, "round", s.round)
	}
}

func (s *Session) Scoreboard() []ScoreboardRow {
	rows := make([]ScoreboardRow, 0, len(s.players))
	for _, p := range s.players {
		rows = append(rows, ScoreboardRow{
			Name:     p.Name,
			Cash:     p.Cash,
			Users:    p.Users,
			Debt:     p.Debt,
			NPV:      p.TotalNPV(s.round),
			Projects: len(p.Projects),
			Bankrupt: p.Bankrupt,
		})
	}
	return rows
}

// score blends portfolio value, traction, liquidity, and milestones.
func (s *Session) score(p *Player) float64 {
	milestones := 2 * float64(len(p.Projects))
	if p.IPODone {
		milestones += 10
	}
	return 0.4*p.TotalNPV(s.round) + 0.3*p.Users + 0.1*p.Cash + 0.2*milestones
}

// FinalResults ranks the solvent players by score. Bankrupt players are
// out of the game and do not place.
func (s *Session) FinalResults() ([]FinalResult, error) {
	if !s.over {
		return nil, ErrGameNotOver
	}
	results := make([]FinalResult, 0, len(s.players))
	for _, p := range s.players {
		if p.Bankrupt {
			continue
		}
		results = append(results, FinalResult{
			Name:     p.Name,
			Score:    s.score(p),
			NPV:      p.TotalNPV(s.round),
			Cash:     p.Cash,
			Users:    p.Users,
			Projects: len(p.Projects),
			IPODone:  p.IPODone,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

func (s *Session) StateView() StateView {
	v := StateView{
		ID:          s.ID,
		Round:       s.round,
		TotalRounds: s.totalRounds,
		Started:     s.started,
		Over:        s.over,
	}
	if s.started && !s.over {
		v.CurrentPlayer = s.players[s.current].Name
	}
	for _, p := range s.players {
		v.Players = append(v.Players, p.View(s.round))
	}
	return v
}
