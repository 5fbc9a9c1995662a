package game

import "fmt"

// ActionType enumerates the closed set of betting actions. Dispatch is an
// exhaustive switch so a new action cannot be added without updating
// validation.
type ActionType int

const (
	Check ActionType = iota
	Bet
	Raise
	Call
	Fold
)

// String returns the action name.
func (t ActionType) String() string {
	switch t {
	case Check:
		return "check"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case Call:
		return "call"
	case Fold:
		return "fold"
	default:
		return "unknown"
	}
}

// Action is a player's chosen move. Amount is the raise-to / bet total and
// is only meaningful for Bet and Raise.
type Action struct {
	Type   ActionType
	Amount int
}

// String renders the action for logs and events.
func (a Action) String() string {
	switch a.Type {
	case Bet, Raise:
		return fmt.Sprintf("%s %d", a.Type, a.Amount)
	default:
		return a.Type.String()
	}
}

// CheckAction, CallAction and FoldAction are convenience constructors for
// the amount-less actions.
func CheckAction() Action { return Action{Type: Check} }

func CallAction() Action { return Action{Type: Call} }

func FoldAction() Action { return Action{Type: Fold} }

// BetAction bets amount as the street's opening wager.
func BetAction(amount int) Action { return Action{Type: Bet, Amount: amount} }

// RaiseAction raises the street's total bet to amount.
func RaiseAction(amount int) Action { return Action{Type: Raise, Amount: amount} }
