package game

import (
	"errors"
	"io"
	"log/slog"
	"math"
	mathrand "math/rand"
	"testing"
)

func TestSessionLobbyRules(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewSession(nil, logger, mathrand.New(mathrand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := s.Start(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("got %v, want ErrNotEnoughPlayers", err)
	}

	for _, name := range []string{"Ada", "Bo", "Cy", "Di", "Ed"} {
		if _, err := s.AddPlayer(name); err != nil {
			t.Fatalf("AddPlayer(%q): %v", name, err)
		}
	}
	if _, err := s.AddPlayer("Fay"); !errors.Is(err, ErrTooManyPlayers) {
		t.Fatalf("got %v, want ErrTooManyPlayers", err)
	}
	if _, err := s.AddPlayer("Ada"); err == nil {
		t.Fatal("duplicate name accepted")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrGameStarted) {
		t.Fatalf("got %v, want ErrGameStarted", err)
	}
	if _, err := s.AddPlayer("Gil"); !errors.Is(err, ErrGameStarted) {
		t.Fatalf("got %v, want ErrGameStarted", err)
	}
}

func TestRollDiceRange(t *testing.T) {
	s := newTestSession(t, 9, "Ada", "Bo", "Cy")
	for i := 0; i < 200; i++ {
		if roll := s.RollDice(); roll < 1 || roll > DiceSides {
			t.Fatalf("roll %d out of range", roll)
		}
	}
}

func TestMoveCurrentWrapsBoard(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	p := s.Players()[0]
	p.Position = BoardSize - 2

	tile, err := s.MoveCurrent(5)
	if err != nil {
		t.Fatalf("MoveCurrent: %v", err)
	}
	if p.Position != 3 || tile.Position != 3 {
		t.Fatalf("position %d, want 3", p.Position)
	}

	if _, err := s.MoveCurrent(0); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("got %v, want ErrInvalidChoice", err)
	}
	if _, err := s.MoveCurrent(7); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("got %v, want ErrInvalidChoice", err)
	}
}

func TestNextTurnRotation(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	order := []string{"Ada", "Bo", "Cy", "Ada"}
	for i, want := range order {
		p, err := s.CurrentPlayer()
		if err != nil {
			t.Fatalf("CurrentPlayer: %v", err)
		}
		if p.Name != want {
			t.Fatalf("turn %d: got %s, want %s", i, p.Name, want)
		}
		if err := s.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
	if s.Round() != 2 {
		t.Fatalf("round %d after one full lap, want 2", s.Round())
	}
}

func TestSkipTurnConsumedOnce(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	p := s.Players()[0]
	p.SkipNextTurn = true

	got, skipped, err := s.BeginTurn()
	if err != nil {
		t.Fatalf("BeginTurn: %v", err)
	}
	if got != p || !skipped {
		t.Fatal("expected a forfeited turn")
	}
	if p.SkipNextTurn {
		t.Fatal("skip flag not consumed")
	}
	if _, skipped, _ := s.BeginTurn(); skipped {
		t.Fatal("skip applied twice")
	}
}

func TestSettlementChargesInterest(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	p := s.Players()[0]
	p.Debt = 50
	cash := p.Cash

	advanceToRound(t, s, 2)
	want := cash - 50*DebtInterestRate
	if math.Abs(p.Cash-want) > 1e-9 {
		t.Fatalf("cash %.2f, want %.2f", p.Cash, want)
	}
	if p.Debt != 50 {
		t.Fatalf("settlement changed principal: %.1f", p.Debt)
	}
	if p.DebtDrawnThisRound != 0 {
		t.Fatal("round borrowing allowance not reset")
	}
}

func TestSettlementBankruptsUnpayableDebt(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	p := s.Players()[0]
	p.Debt = 100
	p.Cash = 5 // owes 6 in interest

	advanceToRound(t, s, 2)
	if !p.Bankrupt {
		t.Fatal("player should be bankrupt")
	}
	if p.Cash != 5 {
		t.Fatalf("bankrupt player still paid: %.1f", p.Cash)
	}

	// bankrupt seats are skipped in rotation
	cur, err := s.CurrentPlayer()
	if err != nil {
		t.Fatalf("CurrentPlayer: %v", err)
	}
	if cur == p {
		t.Fatal("bankrupt player got a turn")
	}
	for i := 0; i < 6; i++ {
		if s.Over() {
			break
		}
		cur, err := s.CurrentPlayer()
		if err != nil {
			t.Fatalf("CurrentPlayer: %v", err)
		}
		if cur == p {
			t.Fatal("bankrupt player got a turn")
		}
		if err := s.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
}

func TestGameEndsAfterFinalRound(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	for !s.Over() {
		if err := s.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
	if s.Round() != DefaultRounds+1 {
		t.Fatalf("round %d at game end, want %d", s.Round(), DefaultRounds+1)
	}
	if _, err := s.CurrentPlayer(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("got %v, want ErrGameOver", err)
	}
	if err := s.NextTurn(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("got %v, want ErrGameOver", err)
	}
}

func TestGameEndsWhenOnePlayerRemains(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	players := s.Players()
	for _, p := range players[1:] {
		p.Debt = 100
		p.Cash = 0
	}
	advanceToRound(t, s, 2)
	if !s.Over() {
		t.Fatal("game should end with one solvent player")
	}
}

func TestFinalResultsRanking(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	players := s.Players()
	players[0].Cash = 200
	players[1].Cash = 200
	players[2].Cash = 500
	players[2].IPODone = true

	if _, err := s.FinalResults(); !errors.Is(err, ErrGameNotOver) {
		t.Fatalf("got %v, want ErrGameNotOver", err)
	}

	for !s.Over() {
		if err := s.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
	results, err := s.FinalResults()
	if err != nil {
		t.Fatalf("FinalResults: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Name != "Cy" || results[0].Rank != 1 {
		t.Fatalf("winner %s rank %d", results[0].Name, results[0].Rank)
	}
	// equal scores keep seating order
	if results[1].Name != "Ada" || results[2].Name != "Bo" {
		t.Fatalf("tie broken out of order: %s then %s", results[1].Name, results[2].Name)
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Fatalf("rank %d at index %d", r.Rank, i)
		}
	}
}

func TestFinalResultsExcludeBankrupt(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	p := s.Players()[0]
	p.Debt = 1000
	p.Cash = 0
	p.Users = 500 // huge traction does not buy back solvency

	for !s.Over() {
		if err := s.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
	if !p.Bankrupt {
		t.Fatal("player should be bankrupt")
	}
	results, err := s.FinalResults()
	if err != nil {
		t.Fatalf("FinalResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.Name == "Ada" {
			t.Fatal("bankrupt player placed in the final ranking")
		}
		if r.Rank != i+1 {
			t.Fatalf("rank %d at index %d", r.Rank, i)
		}
	}
}

func TestScoreFormula(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	p := s.Players()[0]
	p.Cash = 120
	p.Users = 4
	p.IPODone = true
	p.Projects = []*Project{
		{Name: "A", Life: 3, CashFlow: 10, PurchaseRound: 1},
		{Name: "B", Life: 3, CashFlow: 10, PurchaseRound: 1},
	}

	want := 0.4*p.TotalNPV(s.Round()) + 0.3*4 + 0.1*120 + 0.2*(10+2*2)
	if got := s.score(p); math.Abs(got-want) > 1e-9 {
		t.Fatalf("score %.4f, want %.4f", got, want)
	}
}

func TestStateView(t *testing.T) {
	s := newTestSession(t, 1, "Ada", "Bo", "Cy")
	v := s.StateView()
	if v.ID != s.ID || !v.Started || v.Over {
		t.Fatalf("unexpected state: %+v", v)
	}
	if v.CurrentPlayer != "Ada" {
		t.Fatalf("current player %q", v.CurrentPlayer)
	}
	if len(v.Players) != 3 {
		t.Fatalf("got %d players", len(v.Players))
	}
	if v.Round != 1 || v.TotalRounds != DefaultRounds {
		t.Fatalf("round %d/%d", v.Round, v.TotalRounds)
	}
}
