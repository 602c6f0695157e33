package engine

// GetLegalResponses returns the cards in responderSeat's hand legal to play
// as the required response subtype, including virtual cards produced by
// any active ICardConversionSkill. Conversion precedence: at most one
// conversion applies per physical card; if more than one skill would
// convert the same card, the first by skill registration order wins.
func (r *RuleService) GetLegalResponses(ctx *ResolutionContext, responderSeat int, required CardSubType) []EffectiveView {
	p := r.game.Player(responderSeat)
	if p == nil {
		return nil
	}
	var out []EffectiveView
	for _, c := range p.HandZone.Cards {
		if c.SubType == required {
			out = append(out, c)
			continue
		}
		if v := r.ConvertCard(ctx, c, responderSeat); v != nil && v.SubType == required {
			out = append(out, v)
		}
	}
	return out
}

// ConvertCard applies the first matching ICardConversionSkill active for
// ownerSeat to a physical card, or returns nil if none converts it.
func (r *RuleService) ConvertCard(ctx *ResolutionContext, physical *Card, ownerSeat int) *VirtualCard {
	for _, si := range r.game.Skills.ActiveSkillsWithRole(ownerSeat, RoleCardConversion) {
		if v := si.Impl.(ICardConversionSkill).CreateVirtualCard(physical, r.game, ownerSeat); v != nil {
			return v
		}
	}
	return nil
}

// GetRequiredResponseCount applies every active IResponseRequirementModifyingSkill
// to the base count for a response window (e.g. Wushuang raising Jink
// requirement to 2).
func (r *RuleService) GetRequiredResponseCount(ctx *ResolutionContext, win *ResponseWindowContext, base int) int {
	count := base
	for _, seat := range r.game.SeatsClockwiseFrom(win.SourceSeat, true) {
		for _, si := range r.game.Skills.ActiveSkillsWithRole(seat, RoleResponseRequirementModifying) {
			count = si.Impl.(IResponseRequirementModifyingSkill).ModifyRequiredCount(ctx, win, count)
		}
	}
	return count
}

// AssistingSeatsFor collects the seats an IResponseAssistanceSkill offers
// to supply a response on behalf of ownerSeat.
func (r *RuleService) AssistingSeatsFor(ctx *ResolutionContext, ownerSeat int) []int {
	var out []int
	for _, si := range r.game.Skills.ActiveSkillsWithRole(ownerSeat, RoleResponseAssistance) {
		out = append(out, si.Impl.(IResponseAssistanceSkill).AssistingSeats(ctx, ownerSeat)...)
	}
	return out
}

// CanUseCard reports whether sourceSeat may currently use a card from hand
// (basic phase/zone legality; skill-based locks layer on top via Locked
// skills consulted elsewhere).
func (r *RuleService) CanUseCard(ctx *ResolutionContext, sourceSeat int, card *Card) bool {
	p := r.game.Player(sourceSeat)
	if p == nil || !p.IsAlive {
		return false
	}
	return p.HandZone.Contains(card)
}
