package engine

// TargetClass is a card's basic target shape before skill modifiers apply.
type TargetClass int

const (
	TargetSingleOtherInRange TargetClass = iota
	TargetAllOther
	TargetSelf
	TargetSingleAnyOther
	TargetSingleOtherWithinDistanceK
)

// GetLegalTargets computes the legal target seats for a card played by
// sourceSeat: start from the card's basic target class, then narrow by
// every active ITargetFilteringSkill across all alive players.
func (r *RuleService) GetLegalTargets(ctx *ResolutionContext, card EffectiveView, class TargetClass, sourceSeat int, distanceK int) []int {
	var candidates []int
	switch class {
	case TargetSelf:
		candidates = []int{sourceSeat}
	case TargetAllOther:
		for _, p := range r.game.AlivePlayers() {
			if p.Seat != sourceSeat {
				candidates = append(candidates, p.Seat)
			}
		}
	case TargetSingleAnyOther:
		for _, p := range r.game.AlivePlayers() {
			if p.Seat != sourceSeat {
				candidates = append(candidates, p.Seat)
			}
		}
	case TargetSingleOtherInRange:
		for _, p := range r.game.AlivePlayers() {
			if p.Seat != sourceSeat && r.CanAttack(ctx, card, sourceSeat, p.Seat) {
				candidates = append(candidates, p.Seat)
			}
		}
	case TargetSingleOtherWithinDistanceK:
		for _, p := range r.game.AlivePlayers() {
			if p.Seat != sourceSeat && r.GetSeatDistance(sourceSeat, p.Seat) <= distanceK {
				candidates = append(candidates, p.Seat)
			}
		}
	}

	for _, seat := range r.game.SeatsClockwiseFrom(sourceSeat, true) {
		for _, si := range r.game.Skills.ActiveSkillsWithRole(seat, RoleTargetFiltering) {
			candidates = si.Impl.(ITargetFilteringSkill).FilterTargets(ctx, card, sourceSeat, candidates)
		}
	}
	return candidates
}

// RevalidateTarget reports whether seat is still a legal recipient of an
// effect that opened a response window against it: alive and present.
// Resolvers call this after the window closes, before applying its
// consequence, so a target removed mid-window (e.g. dying to an unrelated
// effect while a Jink window is open) folds away instead of forcing a
// fresh target choice.
func (r *RuleService) RevalidateTarget(seat int) bool {
	p := r.game.Player(seat)
	return p != nil && p.IsAlive
}

// ApplyTargetModifiers lets active ITargetModifyingSkill instances redirect
// a chosen target at resolution time (e.g. Liuli). It asks only the
// original target's own skills, since the redirect is that player's choice
// to make.
func (r *RuleService) ApplyTargetModifiers(ctx *ResolutionContext, sourceSeat, targetSeat int, choiceCb ChoiceCallback) int {
	current := targetSeat
	for _, si := range r.game.Skills.ActiveSkillsWithRole(current, RoleTargetModifying) {
		newTarget, redirected := si.Impl.(ITargetModifyingSkill).ModifyTarget(ctx, sourceSeat, current, choiceCb)
		if redirected {
			current = newTarget
		}
	}
	return current
}
