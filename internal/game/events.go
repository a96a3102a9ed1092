package game

import "fmt"

type EventKind string

const (
	EventDownturn    EventKind = "economic_downturn"
	EventBreach      EventKind = "cybersecurity_breach"
	EventDataLeak    EventKind = "data_leak_scandal"
	EventFine        EventKind = "regulatory_fine"
	EventCrash       EventKind = "system_crash"
	EventExpansion   EventKind = "market_expansion"
	EventPartnership EventKind = "strategic_partnership"
	EventTalent      EventKind = "talent_acquisition"
)

// applyEvent mutates the player per the drawn event and describes what
// happened. Security projects shield their owners from breaches and
// fines.
func applyEvent(ev Event, p *Player) Outcome {
	cash, users := p.Cash, p.Users
	out := applyEventEffect(ev, p)
	out.CashDelta = p.Cash - cash
	out.UsersDelta = p.Users - users
	return out
}

func applyEventEffect(ev Event, p *Player) Outcome {
	switch ev.Kind {
	case EventDownturn:
		hit := 0.15 * p.CashFlowTotal()
		p.Pay(hit)
		return accept("Economic downturn: cash flows shrink, you lose $%.1fM", hit)
	case EventBreach:
		if p.OwnsProject("AI Fraud Prevention") || p.OwnsProject("Blockchain Integration") {
			return accept("Cybersecurity breach deflected by your security stack")
		}
		p.Pay(15)
		return accept("Cybersecurity breach: incident response costs $15M")
	case EventDataLeak:
		p.LoseUsers(1)
		return accept("Data leak scandal: 1M users walk away")
	case EventFine:
		if p.OwnsProject("AI Fraud Prevention") {
			return accept("Regulatory fine waived thanks to AI Fraud Prevention")
		}
		p.Pay(10)
		return accept("Regulatory fine: $10M penalty")
	case EventCrash:
		p.SkipNextTurn = true
		return accept("System crash: you skip your next turn")
	case EventExpansion:
		p.AddUsers(0.5)
		return accept("Market expansion: 0.5M new users")
	case EventPartnership:
		p.Receive(10)
		return accept("Strategic partnership lands $10M")
	case EventTalent:
		p.PendingDiscount = EventDiscountRate
		return accept("Talent acquisition: 10%% off your next project purchase")
	default:
		return refuse("unknown event %q", ev.Kind)
	}
}

func (e Event) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Description)
}
