package game

import (
	"github.com/google/uuid"

	"finopoly/internal/finance"
)

// Player is a founder-company piece on the board. All money amounts are
// millions of dollars, user counts are millions of users.
type Player struct {
	ID    string
	Name  string
	Cash  float64
	Users float64
	Debt  float64

	Position  int
	Projects  []*Project
	Financing []FinancingRecord

	EquityDilution     float64
	VCUsed             bool
	LastEquityRound    int
	DebtDrawnThisRound float64
	IPODone            bool

	SkipNextTurn    bool
	PendingDiscount float64
	Bankrupt        bool
}

func NewPlayer(name string) (*Player, error) {
	name, err := validatePlayerName(name)
	if err != nil {
		return nil, err
	}
	return &Player{
		ID:    uuid.NewString(),
		Name:  name,
		Cash:  StartingCash,
		Users: StartingUsers,
	}, nil
}

func clampDilution(d float64) float64 {
	if d > 1 {
		return 1
	}
	return d
}

func (p *Player) CanAfford(amount float64) bool {
	return p.Cash >= amount
}

func (p *Player) Pay(amount float64) {
	p.Cash -= amount
}

func (p *Player) Receive(amount float64) {
	p.Cash += amount
}

func (p *Player) AddUsers(n float64) {
	p.Users += n
}

func (p *Player) LoseUsers(n float64) {
	p.Users -= n
	if p.Users < 0 {
		p.Users = 0
	}
}

func (p *Player) AddFinancing(kind FinancingKind, amount float64, round int) {
	p.Financing = append(p.Financing, FinancingRecord{Kind: kind, Amount: amount, Round: round})
}

// PayDebtInterest charges one settlement's interest on the outstanding
// principal. Returns the amount owed and whether it was covered.
func (p *Player) PayDebtInterest() (float64, bool) {
	interest := p.Debt * DebtInterestRate
	if p.Cash < interest {
		return interest, false
	}
	p.Cash -= interest
	return interest, true
}

func (p *Player) OwnsProject(name string) bool {
	for _, pr := range p.Projects {
		if pr.Name == name {
			return true
		}
	}
	return false
}

func (p *Player) removeProject(project *Project) {
	for i, pr := range p.Projects {
		if pr == project {
			p.Projects = append(p.Projects[:i], p.Projects[i+1:]...)
			return
		}
	}
}

// CashFlowTotal sums the per-round cash flow of every project the
// player still holds, regardless of remaining life.
func (p *Player) CashFlowTotal() float64 {
	var total float64
	for _, pr := range p.Projects {
		total += pr.CashFlow
	}
	return total
}

// CollectRevenues pays out one round of cash flow from every project
// the player holds and returns the amount collected. Project life
// limits valuation, not payouts.
func (p *Player) CollectRevenues() float64 {
	collected := p.CashFlowTotal()
	p.Cash += collected
	return collected
}

// TotalNPV values the player's portfolio at the given round: the
// discounted value of each project's remaining cash flows, shrunk by
// equity dilution and the IPO valuation cut.
func (p *Player) TotalNPV(round int) float64 {
	var total float64
	for _, pr := range p.Projects {
		remaining := pr.Life - (round - pr.PurchaseRound)
		total += finance.RemainingLifeValue(remaining, pr.CashFlow, finance.DefaultDiscountRate)
	}
	total *= 1 - p.EquityDilution
	if p.IPODone {
		total *= IPOValuationCut
	}
	return total
}

func (p *Player) View(round int) PlayerView {
	v := PlayerView{
		ID:           p.ID,
		Name:         p.Name,
		Cash:         p.Cash,
		Users:        p.Users,
		Debt:         p.Debt,
		Position:     p.Position,
		NPV:          p.TotalNPV(round),
		Financing:    p.Financing,
		IPODone:      p.IPODone,
		Bankrupt:     p.Bankrupt,
		SkipNextTurn: p.SkipNextTurn,
	}
	for _, pr := range p.Projects {
		v.Projects = append(v.Projects, pr.View())
	}
	return v
}
