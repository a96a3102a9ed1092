package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is an investment a player can own. Owner and PurchaseRound are
// zeroed while the project sits unsold on the board.
type Project struct {
	Name          string
	Cost          float64
	Life          int
	CashFlow      float64
	RealOption    string
	Risk          Risk
	UserGain      float64
	Owner         *Player
	PurchaseRound int
}

func (p *Project) View() ProjectView {
	v := ProjectView{
		Name:       p.Name,
		Cost:       p.Cost,
		Life:       p.Life,
		CashFlow:   p.CashFlow,
		RealOption: p.RealOption,
		Risk:       p.Risk,
		UserGain:   p.UserGain,
	}
	if p.Owner != nil {
		v.Owner = p.Owner.Name
		v.PurchaseRound = p.PurchaseRound
	}
	return v
}

type FinancingTerms struct {
	Kind        FinancingKind
	Name        string
	Description string
	Amount      float64
	Constraint  string
}

type Event struct {
	Kind        EventKind
	Name        string
	Description string
}

// Catalog holds the project, financing, and event tables a session is
// built from. Sessions take ownership of the slices, so each session
// must get a fresh catalog.
type Catalog struct {
	Projects  []*Project
	Financing []FinancingTerms
	Events    []Event
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		Projects: []*Project{
			{Name: "Expand to Asia Market", Cost: 50, Life: 3, CashFlow: 20, RealOption: "Expand", Risk: RiskHigh, UserGain: 2},
			{Name: "Referral Program", Cost: 20, Life: 3, CashFlow: 12, RealOption: "Scale", Risk: RiskLow, UserGain: 1.5},
			{Name: "Retail Partnership", Cost: 40, Life: 3, CashFlow: 18, RealOption: "User Trust", Risk: RiskHigh, UserGain: 1.8},
			{Name: "AI Fraud Prevention", Cost: 30, Life: 3, CashFlow: 15, RealOption: "Efficiency Gain", Risk: RiskMedium, UserGain: 1},
			{Name: "Product Launch", Cost: 35, Life: 2, CashFlow: 25, RealOption: "Rebrand", Risk: RiskMedium, UserGain: 2.5},
			{Name: "Mobile App Redesign", Cost: 25, Life: 2, CashFlow: 15, RealOption: "User Experience", Risk: RiskLow, UserGain: 1.2},
			{Name: "Blockchain Integration", Cost: 45, Life: 3, CashFlow: 17, RealOption: "Security", Risk: RiskHigh, UserGain: 1.5},
			{Name: "Customer Support AI", Cost: 30, Life: 2, CashFlow: 18, RealOption: "Efficiency", Risk: RiskMedium, UserGain: 0.8},
		},
		Financing: []FinancingTerms{
			{Kind: FinancingDebt, Name: "Debt", Description: "Loan at 6% annual interest", Amount: 50, Constraint: "Max $50M per round"},
			{Kind: FinancingVC, Name: "VC Funding", Description: "Raise $40M but lose 10% NPV", Amount: 40, Constraint: "Once per game"},
			{Kind: FinancingEquity, Name: "Equity", Description: "Raise capital but dilute 20% NPV", Amount: 60, Constraint: "Once per round"},
			{Kind: FinancingIPO, Name: "IPO", Description: "Raise $100M but lose 30% of final NPV", Amount: 100, Constraint: "Only in Round 4 or 5"},
		},
		Events: []Event{
			{Kind: EventDownturn, Name: "Economic Downturn", Description: "Cash flows shrink 15% this round"},
			{Kind: EventBreach, Name: "Cybersecurity Breach", Description: "Pay $15M unless protected by security projects"},
			{Kind: EventDataLeak, Name: "Data Leak Scandal", Description: "Lose 1M users"},
			{Kind: EventFine, Name: "Regulatory Fine", Description: "Pay $10M unless running fraud prevention"},
			{Kind: EventCrash, Name: "System Crash", Description: "Skip your next turn"},
			{Kind: EventExpansion, Name: "Market Expansion", Description: "Gain 0.5M users"},
			{Kind: EventPartnership, Name: "Strategic Partnership", Description: "Receive $10M"},
			{Kind: EventTalent, Name: "Talent Acquisition", Description: "10% off your next project purchase"},
		},
	}
}

type catalogFile struct {
	Projects []struct {
		Name       string  `yaml:"name"`
		Cost       float64 `yaml:"cost"`
		Life       int     `yaml:"life"`
		CashFlow   float64 `yaml:"cash_flow"`
		RealOption string  `yaml:"real_option"`
		Risk       string  `yaml:"risk"`
		UserGain   float64 `yaml:"user_gain"`
	} `yaml:"projects"`
	Financing []struct {
		Kind        string  `yaml:"kind"`
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Amount      float64 `yaml:"amount"`
		Constraint  string  `yaml:"constraint"`
	} `yaml:"financing"`
}

// LoadCatalog reads a project/financing override file. Events are not
// overridable; the built-in table always applies.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	cat := DefaultCatalog()
	if len(file.Projects) > 0 {
		cat.Projects = nil
		for _, p := range file.Projects {
			cat.Projects = append(cat.Projects, &Project{
				Name:       p.Name,
				Cost:       p.Cost,
				Life:       p.Life,
				CashFlow:   p.CashFlow,
				RealOption: p.RealOption,
				Risk:       Risk(p.Risk),
				UserGain:   p.UserGain,
			})
		}
	}
	if len(file.Financing) > 0 {
		cat.Financing = nil
		for _, f := range file.Financing {
			cat.Financing = append(cat.Financing, FinancingTerms{
				Kind:        FinancingKind(f.Kind),
				Name:        f.Name,
				Description: f.Description,
				Amount:      f.Amount,
				Constraint:  f.Constraint,
			})
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) Validate() error {
	if len(c.Projects) == 0 {
		return fmt.Errorf("%w: at least one project is required", ErrInvalidCatalog)
	}
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.Name == "" {
			return fmt.Errorf("%w: project with empty name", ErrInvalidCatalog)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate project %q", ErrInvalidCatalog, p.Name)
		}
		seen[p.Name] = true
		if p.Cost <= 0 || p.Life <= 0 || p.CashFlow <= 0 {
			return fmt.Errorf("%w: project %q needs positive cost, life, and cash flow", ErrInvalidCatalog, p.Name)
		}
		switch p.Risk {
		case RiskLow, RiskMedium, RiskHigh:
		default:
			return fmt.Errorf("%w: project %q has unknown risk %q", ErrInvalidCatalog, p.Name, p.Risk)
		}
	}
	kinds := make(map[FinancingKind]bool, len(c.Financing))
	for _, f := range c.Financing {
		if f.Amount <= 0 {
			return fmt.Errorf("%w: financing %q needs a positive amount", ErrInvalidCatalog, f.Name)
		}
		switch f.Kind {
		case FinancingDebt, FinancingVC, FinancingEquity, FinancingIPO:
		default:
			return fmt.Errorf("%w: financing %q has unknown kind %q", ErrInvalidCatalog, f.Name, f.Kind)
		}
		if kinds[f.Kind] {
			return fmt.Errorf("%w: duplicate financing kind %q", ErrInvalidCatalog, f.Kind)
		}
		kinds[f.Kind] = true
	}
	return nil
}

func (c *Catalog) financing(kind FinancingKind) (FinancingTerms, bool) {
	for _, f := range c.Financing {
		if f.Kind == kind {
			return f, true
		}
	}
	return FinancingTerms{}, false
}
