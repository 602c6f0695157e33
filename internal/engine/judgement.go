package engine

// JudgementReason names why a judgement was requested.
type JudgementReason int

const (
	JudgementReasonSkill JudgementReason = iota
	JudgementReasonDelayedTrick
	JudgementReasonEquipment
)

// JudgementRule is a predicate over the final judged card.
type JudgementRule struct {
	Name      string
	Predicate func(c *Card) bool
}

// IsHeart passes on a Heart — the Lebusishu rule used by
// JudgementTrickResolver.
var IsHeart = JudgementRule{Name: "IsHeart", Predicate: func(c *Card) bool { return c.Suit == Heart }}

// IsNotHeart passes on anything but Heart — the Ganglie success condition.
var IsNotHeart = JudgementRule{Name: "IsNotHeart", Predicate: func(c *Card) bool { return c.Suit != Heart }}

// IsSpadeTwoToNine is the Shandian rule: passes (and the bolt strikes) on
// Spade 2-9.
var IsSpadeTwoToNine = JudgementRule{Name: "IsSpadeTwoToNine", Predicate: func(c *Card) bool {
	return c.Suit == Spade && c.Rank >= 2 && c.Rank <= 9
}}

// IsBlack is the generic black-suit rule (e.g. Luoshen retry condition).
var IsBlack = JudgementRule{Name: "IsBlack", Predicate: func(c *Card) bool { return c.Suit.IsBlack() }}

// JudgementRequest configures one run of the judgement procedure.
type JudgementRequest struct {
	RequestId   string
	OwnerSeat   int
	Reason      JudgementReason
	SourceTag   string
	Rule        JudgementRule
	AllowModify bool
	AllowRetry  bool
}

// JudgementModification records one applied modifier during the window.
type JudgementModification struct {
	ModifierSeat   int
	ModifierSource string
	ReplacedCard   *Card
	ReplacementCard *Card
}

// JudgementResult is what the procedure returns.
type JudgementResult struct {
	OriginalCard *Card
	FinalCard    *Card
	Passed       bool
	Modifications []JudgementModification
}

// JudgementModifyDecision is what an IJudgementModifier returns when it
// elects to act.
type JudgementModifyDecision struct {
	ReplacementCard *Card
	ModifierSeat    int
	ModifierSource  string
}

// IJudgementModifier is the skill role that can intercept a judgement's
// drawn card during the modifier window.
type IJudgementModifier interface {
	CanModify(ctx *ResolutionContext, judgingSeat int) bool
	GetDecision(ctx *ResolutionContext, judgingSeat int, choiceCb ChoiceCallback) *JudgementModifyDecision
}

// JudgementService runs the draw -> modifier window -> evaluate -> archive
// procedure.
type JudgementService struct {
	game *Game
}

// NewJudgementService builds the service bound to a game.
func NewJudgementService(g *Game) *JudgementService { return &JudgementService{game: g} }

// Run executes one full judgement request, including AllowRetry looping.
func (s *JudgementService) Run(ctx *ResolutionContext, req JudgementRequest) (JudgementResult, error) {
	for {
		res, err := s.runOnce(ctx, req)
		if err != nil {
			return res, err
		}
		if res.Passed || !req.AllowRetry {
			return res, nil
		}
	}
}

func (s *JudgementService) runOnce(ctx *ResolutionContext, req JudgementRequest) (JudgementResult, error) {
	owner := s.game.Player(req.OwnerSeat)
	if owner == nil {
		return JudgementResult{}, NewCoreError(InvariantViolation, "judgement for unknown seat")
	}

	drawn, err := s.game.CardMove.Draw(ctx, req.OwnerSeat, 1)
	if err != nil {
		return JudgementResult{}, err
	}
	original := drawn[0]
	// Draw puts the card in hand; relocate it into the judgement zone.
	if err := s.game.CardMove.Move(ctx, []*Card{original}, ZoneJudgement, req.OwnerSeat, "judgement-draw", PositionDefault); err != nil {
		return JudgementResult{}, err
	}
	if err := s.game.Bus.Publish(s.game.CurrentPlayerSeat, Event{
		Kind: JudgementPerformedEvent, Seat: req.OwnerSeat, JPhase: JudgementDrawn, Card: original,
	}); err != nil {
		return JudgementResult{}, err
	}

	result := JudgementResult{OriginalCard: original, FinalCard: original}

	if req.AllowModify {
		for _, seat := range s.game.SeatsClockwiseFrom(req.OwnerSeat, true) {
			for _, skill := range s.game.Skills.ActiveSkillsWithRole(seat, RoleJudgementModifier) {
				mod, ok := skill.Impl.(IJudgementModifier)
				if !ok || !mod.CanModify(ctx, req.OwnerSeat) {
					continue
				}
				decision := mod.GetDecision(ctx, req.OwnerSeat, ctx.ChoiceCb)
				if decision == nil {
					continue
				}
				if !owner.HandZone.Contains(decision.ReplacementCard) && decision.ReplacementCard != original {
					ctx.Log.Warn("skill modifier returned a card not in owner's hand", "skill", skill.Id)
					continue
				}
				prevTop := owner.JudgementZone.Top()
				if err := s.game.CardMove.Move(ctx, []*Card{decision.ReplacementCard}, ZoneJudgement, req.OwnerSeat, "judgement-modify", PositionTop); err != nil {
					return result, err
				}
				if prevTop != nil {
					if err := s.game.CardMove.Discard(ctx, []*Card{prevTop}, "judgement-modify-replaced"); err != nil {
						return result, err
					}
				}
				result.FinalCard = decision.ReplacementCard
				result.Modifications = append(result.Modifications, JudgementModification{
					ModifierSeat: decision.ModifierSeat, ModifierSource: decision.ModifierSource,
					ReplacedCard: prevTop, ReplacementCard: decision.ReplacementCard,
				})
				if err := s.game.Bus.Publish(s.game.CurrentPlayerSeat, Event{
					Kind: JudgementPerformedEvent, Seat: req.OwnerSeat, JPhase: JudgementModified, Card: result.FinalCard,
				}); err != nil {
					return result, err
				}
			}
		}
	}

	result.Passed = req.Rule.Predicate(result.FinalCard)

	if err := s.game.CardMove.Discard(ctx, []*Card{result.FinalCard}, "judgement-archive"); err != nil {
		return result, err
	}
	if err := s.game.Bus.Publish(s.game.CurrentPlayerSeat, Event{
		Kind: JudgementPerformedEvent, Seat: req.OwnerSeat, JPhase: JudgementResolved, Card: result.FinalCard,
	}); err != nil {
		return result, err
	}
	return result, nil
}
