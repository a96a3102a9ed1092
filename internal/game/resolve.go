package game

import "fmt"

// InvestmentOffer returns the project for sale on an investment tile,
// or nil when the tile holds none or the project already sold.
func (s *Session) InvestmentOffer(t Tile) *Project {
	if t.Kind != TileInvestment || t.Project == nil || t.Project.Owner != nil {
		return nil
	}
	return t.Project
}

// BuyProject sells the tile's project to the player at catalog cost,
// minus any pending talent-acquisition discount.
func (s *Session) BuyProject(p *Player, t Tile) Outcome {
	if t.Kind != TileInvestment || t.Project == nil {
		return refuse("nothing to invest in here")
	}
	project := t.Project
	if project.Owner == p {
		return refuse("you already own %s", project.Name)
	}
	if project.Owner != nil {
		return refuse("%s already belongs to %s", project.Name, project.Owner.Name)
	}
	price := project.Cost
	if p.PendingDiscount > 0 {
		price *= 1 - p.PendingDiscount
	}
	if !p.CanAfford(price) {
		return refuse("need $%.1fM for %s, you have $%.1fM", price, project.Name, p.Cash)
	}
	p.Pay(price)
	p.PendingDiscount = 0
	project.Owner = p
	project.PurchaseRound = s.round
	p.Projects = append(p.Projects, project)
	p.AddUsers(project.UserGain)
	s.logger.Info("project bought", "game", s.ID, "player", p.Name, "project", project.Name, "price", price)
	out := accept("%s acquires %s for $%.1fM (+%.1fM users)", p.Name, project.Name, price, project.UserGain)
	out.CashDelta = -price
	out.UsersDelta = project.UserGain
	return out
}

// FinancingOptions lists every instrument with its availability for the
// player right now.
func (s *Session) FinancingOptions(p *Player) []FinancingOption {
	opts := make([]FinancingOption, 0, len(s.catalog.Financing))
	for _, f := range s.catalog.Financing {
		opt := FinancingOption{
			Kind:        f.Kind,
			Name:        f.Name,
			Description: f.Description,
			Amount:      f.Amount,
			Constraint:  f.Constraint,
			Available:   true,
		}
		switch f.Kind {
		case FinancingDebt:
			if p.DebtDrawnThisRound >= f.Amount {
				opt.Available = false
				opt.Reason = "round borrowing limit reached"
			}
		case FinancingVC:
			if p.VCUsed {
				opt.Available = false
				opt.Reason = "VC round already taken"
			}
		case FinancingEquity:
			if p.LastEquityRound == s.round {
				opt.Available = false
				opt.Reason = "equity already issued this round"
			}
		case FinancingIPO:
			if p.IPODone {
				opt.Available = false
				opt.Reason = "already public"
			} else if s.round < IPOMinRound {
				opt.Available = false
				opt.Reason = fmt.Sprintf("IPO opens in round %d", IPOMinRound)
			}
		}
		opts = append(opts, opt)
	}
	return opts
}

// ApplyFinancing executes one instrument. Debt and equity take a
// player-chosen amount up to the catalog limit; VC and IPO are
// fixed-size rounds.
func (s *Session) ApplyFinancing(p *Player, kind FinancingKind, amount float64) Outcome {
	terms, ok := s.catalog.financing(kind)
	if !ok {
		return refuse("no such financing instrument %q", kind)
	}
	switch kind {
	case FinancingDebt:
		remaining := terms.Amount - p.DebtDrawnThisRound
		if remaining <= 0 {
			return refuse("round borrowing limit of $%.0fM reached", terms.Amount)
		}
		if amount <= 0 {
			return refuse("choose a positive amount to borrow")
		}
		if amount > remaining {
			return refuse("only $%.1fM of the debt line is left this round", remaining)
		}
		p.Receive(amount)
		p.Debt += amount
		p.DebtDrawnThisRound += amount
		p.AddFinancing(FinancingDebt, amount, s.round)
		s.logger.Info("debt drawn", "game", s.ID, "player", p.Name, "amount", amount, "debt", p.Debt)
		out := accept("borrowed $%.1fM at %.0f%% annual interest", amount, DebtInterestRate*100)
		out.CashDelta = amount
		return out
	case FinancingVC:
		if p.VCUsed {
			return refuse("VC funding is a once-per-game deal")
		}
		p.Receive(terms.Amount)
		p.VCUsed = true
		p.EquityDilution = clampDilution(p.EquityDilution + VCDilution)
		p.AddFinancing(FinancingVC, terms.Amount, s.round)
		s.logger.Info("vc round closed", "game", s.ID, "player", p.Name, "amount", terms.Amount)
		out := accept("raised $%.0fM from VCs, valuation diluted %.0f%%", terms.Amount, VCDilution*100)
		out.CashDelta = terms.Amount
		return out
	case FinancingEquity:
		if p.LastEquityRound == s.round {
			return refuse("equity can be issued once per round")
		}
		if amount <= 0 {
			return refuse("choose a positive amount to raise")
		}
		if amount > terms.Amount {
			return refuse("equity issues are capped at $%.0fM", terms.Amount)
		}
		p.Receive(amount)
		p.LastEquityRound = s.round
		p.EquityDilution = clampDilution(p.EquityDilution + EquityDilution)
		p.AddFinancing(FinancingEquity, amount, s.round)
		s.logger.Info("equity issued", "game", s.ID, "player", p.Name, "amount", amount)
		out := accept("issued equity for $%.1fM, valuation diluted %.0f%%", amount, EquityDilution*100)
		out.CashDelta = amount
		return out
	case FinancingIPO:
		return s.applyIPO(p, terms.Amount)
	default:
		return refuse("no such financing instrument %q", kind)
	}
}

func (s *Session) applyIPO(p *Player, amount float64) Outcome {
	if p.IPODone {
		return refuse("you already rang the bell")
	}
	if s.round < IPOMinRound {
		return refuse("IPO is only available from round %d", IPOMinRound)
	}
	p.Receive(amount)
	p.IPODone = true
	p.AddFinancing(FinancingIPO, amount, s.round)
	s.logger.Info("ipo completed", "game", s.ID, "player", p.Name, "amount", amount)
	out := accept("IPO raises $%.0fM, final valuation takes a %.0f%% haircut", amount, (1-IPOValuationCut)*100)
	out.CashDelta = amount
	return out
}

// ResolveEvent draws a market event and applies it to the player.
func (s *Session) ResolveEvent(p *Player) (Event, Outcome) {
	ev := s.catalog.Events[s.rng.Intn(len(s.catalog.Events))]
	out := applyEvent(ev, p)
	s.logger.Info("event drawn", "game", s.ID, "player", p.Name, "event", ev.Name)
	return ev, out
}

// ResolveNeutral collects one round of revenue from the player's live
// projects.
func (s *Session) ResolveNeutral(p *Player) Outcome {
	collected := p.CollectRevenues()
	if collected == 0 {
		return accept("no projects paying out yet")
	}
	out := accept("collected $%.1fM in project revenue", collected)
	out.CashDelta = collected
	return out
}

// ResolveIPO handles the IPO window tile. Declining costs nothing.
func (s *Session) ResolveIPO(p *Player, accept bool) Outcome {
	if !accept {
		return Outcome{OK: true, Message: "staying private for now"}
	}
	terms, ok := s.catalog.financing(FinancingIPO)
	if !ok {
		return refuse("no IPO terms on offer")
	}
	return s.applyIPO(p, terms.Amount)
}

// ApplyStrategy plays a real-option move on one of the player's
// projects. Skip is always legal and does nothing.
func (s *Session) ApplyStrategy(p *Player, projectIndex int, strategy Strategy) Outcome {
	if strategy == StrategySkip {
		return accept("holding course")
	}
	if projectIndex < 0 || projectIndex >= len(p.Projects) {
		return refuse("no project in slot %d", projectIndex)
	}
	project := p.Projects[projectIndex]
	switch strategy {
	case StrategyExpand:
		if !p.CanAfford(ExpandCost) {
			return refuse("expanding costs $%.0fM, you have $%.1fM", ExpandCost, p.Cash)
		}
		p.Pay(ExpandCost)
		project.CashFlow *= ExpandMultiplier
		s.logger.Info("project expanded", "game", s.ID, "player", p.Name, "project", project.Name)
		out := accept("%s expands: cash flow now $%.1fM per round", project.Name, project.CashFlow)
		out.CashDelta = -ExpandCost
		return out
	case StrategyPivot:
		if !p.CanAfford(PivotCost) {
			return refuse("pivoting costs $%.0fM, you have $%.1fM", PivotCost, p.Cash)
		}
		p.Pay(PivotCost)
		project.CashFlow *= PivotMultiplier
		project.Life++
		s.logger.Info("project pivoted", "game", s.ID, "player", p.Name, "project", project.Name)
		out := accept("%s pivots: cash flow $%.1fM, one more year of life", project.Name, project.CashFlow)
		out.CashDelta = -PivotCost
		return out
	case StrategySell:
		credit := SellRecoveryRate * project.Cost
		p.Receive(credit)
		p.removeProject(project)
		project.Owner = nil
		project.PurchaseRound = 0
		s.logger.Info("project sold", "game", s.ID, "player", p.Name, "project", project.Name, "credit", credit)
		out := accept("%s sold off for $%.1fM", project.Name, credit)
		out.CashDelta = credit
		return out
	default:
		return refuse("unknown strategy %q", strategy)
	}
}
