package game

import "fmt"

type TileKind string

const (
	TileInvestment TileKind = "investment"
	TileFinancing  TileKind = "financing"
	TileEvent      TileKind = "event"
	TileNeutral    TileKind = "neutral"
	TileSpecial    TileKind = "special"
)

type SpecialKind string

const (
	SpecialIPO      SpecialKind = "ipo"
	SpecialStrategy SpecialKind = "strategy"
)

type Risk string

const (
	RiskLow    Risk = "Low"
	RiskMedium Risk = "Medium"
	RiskHigh   Risk = "High"
)

type FinancingKind string

const (
	FinancingDebt   FinancingKind = "debt"
	FinancingVC     FinancingKind = "vc"
	FinancingEquity FinancingKind = "equity"
	FinancingIPO    FinancingKind = "ipo"
)

type Strategy string

const (
	StrategyExpand Strategy = "expand"
	StrategyPivot  Strategy = "pivot"
	StrategySell   Strategy = "sell"
	StrategySkip   Strategy = "skip"
)

// Outcome reports the result of a player action. OK false means the
// action was refused by the rules, not that the call itself failed.
type Outcome struct {
	OK         bool    `json:"ok"`
	Message    string  `json:"message"`
	CashDelta  float64 `json:"cash_delta,omitempty"`
	UsersDelta float64 `json:"users_delta,omitempty"`
}

func refuse(format string, args ...any) Outcome {
	return Outcome{OK: false, Message: fmt.Sprintf(format, args...)}
}

func accept(format string, args ...any) Outcome {
	return Outcome{OK: true, Message: fmt.Sprintf(format, args...)}
}

type FinancingRecord struct {
	Kind   FinancingKind `json:"kind"`
	Amount float64       `json:"amount"`
	Round  int           `json:"round"`
}

type FinancingOption struct {
	Kind        FinancingKind `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Amount      float64       `json:"amount"`
	Constraint  string        `json:"constraint"`
	Available   bool          `json:"available"`
	Reason      string        `json:"reason,omitempty"`
}

type ScoreboardRow struct {
	Name     string  `json:"name"`
	Cash     float64 `json:"cash"`
	Users    float64 `json:"users"`
	Debt     float64 `json:"debt"`
	NPV      float64 `json:"npv"`
	Projects int     `json:"projects"`
	Bankrupt bool    `json:"bankrupt"`
}

type FinalResult struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	NPV      float64 `json:"npv"`
	Cash     float64 `json:"cash"`
	Users    float64 `json:"users"`
	Projects int     `json:"projects"`
	IPODone  bool    `json:"ipo_done"`
}

type ProjectView struct {
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	Life          int     `json:"life"`
	CashFlow      float64 `json:"cash_flow"`
	RealOption    string  `json:"real_option"`
	Risk          Risk    `json:"risk"`
	UserGain      float64 `json:"user_gain"`
	Owner         string  `json:"owner,omitempty"`
	PurchaseRound int     `json:"purchase_round,omitempty"`
}

type TileView struct {
	Position int          `json:"position"`
	Kind     TileKind     `json:"kind"`
	Name     string       `json:"name"`
	Special  SpecialKind  `json:"special,omitempty"`
	Project  *ProjectView `json:"project,omitempty"`
}

type PlayerView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Cash         float64           `json:"cash"`
	Users        float64           `json:"users"`
	Debt         float64           `json:"debt"`
	Position     int               `json:"position"`
	NPV          float64           `json:"npv"`
	Projects     []ProjectView     `json:"projects"`
	Financing    []FinancingRecord `json:"financing,omitempty"`
	IPODone      bool              `json:"ipo_done"`
	Bankrupt     bool              `json:"bankrupt"`
	SkipNextTurn bool              `json:"skip_next_turn"`
}

type StateView struct {
	ID            string       `json:"id"`
	Round         int          `json:"round"`
	TotalRounds   int          `json:"total_rounds"`
	Started       bool         `json:"started"`
	Over          bool         `json:"over"`
	CurrentPlayer string       `json:"current_player,omitempty"`
	Players       []PlayerView `json:"players"`
}
