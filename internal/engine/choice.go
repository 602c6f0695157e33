package engine

// ChoiceType identifies the shape of question a ChoiceRequest asks.
type ChoiceType int

const (
	ChoiceConfirm ChoiceType = iota
	ChoiceSelectCards
	ChoiceSelectTargets
	ChoiceSelectOption
)

func (t ChoiceType) String() string {
	switch t {
	case ChoiceConfirm:
		return "Confirm"
	case ChoiceSelectCards:
		return "SelectCards"
	case ChoiceSelectTargets:
		return "SelectTargets"
	case ChoiceSelectOption:
		return "SelectOption"
	default:
		return "Unknown"
	}
}

// ChoiceRequest is the sole mechanism by which the engine asks the outside
// world a question.
type ChoiceRequest struct {
	RequestId string
	Seat      int
	Type      ChoiceType
	Key       string // human-readable purpose, e.g. "biyue-activate"

	AllowedCards []*Card
	AllowedSeats []int
	MinCount     int
	MaxCount     int
	Options      []string
}

// ChoiceResult answers a ChoiceRequest. The embedder must echo RequestId
// and Seat. A declined/cancelled choice is the sentinel
// ChoiceResult{Confirmed: false} with no selections.
type ChoiceResult struct {
	RequestId      string
	Seat           int
	Confirmed      bool
	SelectedCards  []*Card
	SelectedSeats  []int
	SelectedOption string
}

// DeclinedChoice is the sentinel cancellation result for a request.
func DeclinedChoice(req ChoiceRequest) ChoiceResult {
	return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: false}
}

// ChoiceCallback is the single suspension point of the resolution stack.
type ChoiceCallback func(req ChoiceRequest) ChoiceResult

// Validate checks a result against the constraints of the request it
// answers, returning an *CoreError(InvalidChoice) on mismatch.
func (req ChoiceRequest) Validate(res ChoiceResult) error {
	if res.RequestId != req.RequestId {
		return NewCoreError(InvalidChoice, "request id mismatch")
	}
	if !res.Confirmed {
		return nil
	}
	switch req.Type {
	case ChoiceSelectCards:
		if len(res.SelectedCards) < req.MinCount || (req.MaxCount > 0 && len(res.SelectedCards) > req.MaxCount) {
			return NewCoreError(InvalidChoice, "selected card count out of range")
		}
		for _, c := range res.SelectedCards {
			if !containsCard(req.AllowedCards, c) {
				return NewCoreError(InvalidChoice, "card not in AllowedCards")
			}
		}
	case ChoiceSelectTargets:
		if len(res.SelectedSeats) < req.MinCount || (req.MaxCount > 0 && len(res.SelectedSeats) > req.MaxCount) {
			return NewCoreError(InvalidChoice, "selected seat count out of range")
		}
		for _, s := range res.SelectedSeats {
			if !containsSeat(req.AllowedSeats, s) {
				return NewCoreError(InvalidChoice, "seat not in AllowedSeats")
			}
		}
	case ChoiceSelectOption:
		if !containsString(req.Options, res.SelectedOption) {
			return NewCoreError(InvalidChoice, "option not in Options")
		}
	}
	return nil
}

func containsCard(cards []*Card, c *Card) bool {
	for _, cc := range cards {
		if cc.Id == c.Id {
			return true
		}
	}
	return false
}

func containsSeat(seats []int, s int) bool {
	for _, ss := range seats {
		if ss == s {
			return true
		}
	}
	return false
}

func containsString(opts []string, s string) bool {
	for _, o := range opts {
		if o == s {
			return true
		}
	}
	return false
}
