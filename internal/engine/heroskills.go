package engine

// This file implements the concrete hero skills named in the component
// budget: Biyue, Ganglie, Jianxiong, Guicai, Wushuang, Liuli. All but
// Guicai are exercised by the scenario tests. Each is a small value type whose methods
// satisfy Skill plus whichever role interfaces it needs; SkillManager
// discovers the roles automatically via Roles().

// --- Biyue (闭月): Trigger skill. At the owner's End phase, may draw 1. ---

type BiyueSkill struct{ ownerSeat int }

func NewBiyueSkill(ownerSeat int) Skill { return &BiyueSkill{ownerSeat: ownerSeat} }

func (s *BiyueSkill) Id() string     { return "biyue" }
func (s *BiyueSkill) Name() string   { return "Biyue" }
func (s *BiyueSkill) Type() SkillType { return SkillTrigger }

func (s *BiyueSkill) TriggersOn() []EventKind { return []EventKind{PhaseStartEvent} }

func (s *BiyueSkill) OnEvent(ctx *ResolutionContext, ownerSeat int, ev Event) error {
	if ev.Phase != PhaseEnd || ev.Seat != ownerSeat {
		return nil
	}
	req := ChoiceRequest{RequestId: freshRequestId(), Seat: ownerSeat, Type: ChoiceConfirm, Key: "biyue-activate"}
	res, err := ctx.GetPlayerChoice(req)
	if err != nil {
		return err
	}
	if !res.Confirmed {
		return nil
	}
	_, err = ctx.CardMove.Draw(ctx, ownerSeat, 1)
	return err
}

// --- Ganglie (刚烈): Trigger skill. When owner takes damage, judge; on a
// non-Heart result the damage source must discard 2 cards or take 1. ---

type GangLieSkill struct{ ownerSeat int }

func NewGangLieSkill(ownerSeat int) Skill { return &GangLieSkill{ownerSeat: ownerSeat} }

func (s *GangLieSkill) Id() string      { return "ganglie" }
func (s *GangLieSkill) Name() string    { return "Ganglie" }
func (s *GangLieSkill) Type() SkillType { return SkillTrigger }

func (s *GangLieSkill) TriggersOn() []EventKind { return []EventKind{DamageResolvedEvent} }

func (s *GangLieSkill) OnEvent(ctx *ResolutionContext, ownerSeat int, ev Event) error {
	if ev.Damage == nil || ev.OtherSeat != ownerSeat || !ev.Damage.HasSource {
		return nil
	}
	sourceSeat := ev.Damage.SourceSeat
	req := JudgementRequest{RequestId: freshRequestId(), OwnerSeat: ownerSeat, Reason: JudgementReasonSkill, SourceTag: "ganglie", Rule: IsNotHeart}
	res, err := ctx.Judgement.Run(ctx, req)
	if err != nil {
		return err
	}
	if !res.Passed {
		return nil
	}
	source := ctx.Game.Player(sourceSeat)
	if source == nil {
		return nil
	}
	if source.HandSize() < 2 {
		return ctx.Stack.RunChild(&DamageResolver{Descriptor: DamageDescriptor{
			HasSource: true, SourceSeat: ownerSeat, TargetSeat: sourceSeat, Amount: 1, Type: DamageNormal, Reason: "ganglie",
		}}).err()
	}
	req2 := ChoiceRequest{
		RequestId: freshRequestId(), Seat: sourceSeat, Type: ChoiceSelectCards, Key: "ganglie-discard",
		AllowedCards: append([]*Card{}, source.HandZone.Cards...), MinCount: 2, MaxCount: 2,
	}
	res2, err := ctx.GetPlayerChoice(req2)
	if err != nil {
		return err
	}
	if !res2.Confirmed || len(res2.SelectedCards) != 2 {
		return ctx.Stack.RunChild(&DamageResolver{Descriptor: DamageDescriptor{
			HasSource: true, SourceSeat: ownerSeat, TargetSeat: sourceSeat, Amount: 1, Type: DamageNormal, Reason: "ganglie",
		}}).err()
	}
	return ctx.CardMove.Discard(ctx, res2.SelectedCards, "ganglie")
}

// err adapts a ResolutionResult to an error for use inside an event
// handler, which must return error rather than ResolutionResult.
func (r ResolutionResult) err() error {
	if r.Success {
		return nil
	}
	return NewCoreError(InvariantViolation, r.Reason)
}

// --- Jianxiong (奸雄): Trigger skill. When owner takes damage, claim the
// causing card(s) from the discard pile into hand. ---

type JianxiongSkill struct{ ownerSeat int }

func NewJianxiongSkill(ownerSeat int) Skill { return &JianxiongSkill{ownerSeat: ownerSeat} }

func (s *JianxiongSkill) Id() string      { return "jianxiong" }
func (s *JianxiongSkill) Name() string    { return "Jianxiong" }
func (s *JianxiongSkill) Type() SkillType { return SkillTrigger }

func (s *JianxiongSkill) TriggersOn() []EventKind { return []EventKind{DamageResolvedEvent} }

func (s *JianxiongSkill) OnEvent(ctx *ResolutionContext, ownerSeat int, ev Event) error {
	if ev.Damage == nil || ev.OtherSeat != ownerSeat {
		return nil
	}
	var claim []*Card
	if ev.Damage.CausingCard != nil && ctx.Game.DiscardPile.Contains(ev.Damage.CausingCard) {
		claim = append(claim, ev.Damage.CausingCard)
	}
	for _, c := range ev.Damage.CausingCards {
		if ctx.Game.DiscardPile.Contains(c) {
			claim = append(claim, c)
		}
	}
	if len(claim) == 0 {
		return nil
	}
	return ctx.CardMove.Move(ctx, claim, ZoneHand, ownerSeat, "jianxiong", PositionDefault)
}

// --- Guicai (鬼才): IJudgementModifier. Owner may redraw their own
// judgement card from the draw pile; they are asked once per judgement. ---

type GuicaiSkill struct{ ownerSeat int }

func NewGuicaiSkill(ownerSeat int) Skill { return &GuicaiSkill{ownerSeat: ownerSeat} }

func (s *GuicaiSkill) Id() string      { return "guicai" }
func (s *GuicaiSkill) Name() string    { return "Guicai" }
func (s *GuicaiSkill) Type() SkillType { return SkillLocked }

func (s *GuicaiSkill) CanModify(ctx *ResolutionContext, judgingSeat int) bool {
	return judgingSeat == s.ownerSeat
}

func (s *GuicaiSkill) GetDecision(ctx *ResolutionContext, judgingSeat int, choiceCb ChoiceCallback) *JudgementModifyDecision {
	req := ChoiceRequest{RequestId: freshRequestId(), Seat: s.ownerSeat, Type: ChoiceConfirm, Key: "guicai-redraw"}
	res := choiceCb(req)
	if !res.Confirmed {
		return nil
	}
	drawn, err := ctx.CardMove.Draw(ctx, s.ownerSeat, 1)
	if err != nil || len(drawn) == 0 {
		return nil
	}
	return &JudgementModifyDecision{ReplacementCard: drawn[0], ModifierSeat: s.ownerSeat, ModifierSource: "guicai"}
}

// --- Wushuang (无双): IResponseRequirementModifyingSkill. Raises Jink
// requirement against the owner's Slash to 2, and Slash requirement
// against the owner's Duel to 2. ---

type WushuangSkill struct{ ownerSeat int }

func NewWushuangSkill(ownerSeat int) Skill { return &WushuangSkill{ownerSeat: ownerSeat} }

func (s *WushuangSkill) Id() string      { return "wushuang" }
func (s *WushuangSkill) Name() string    { return "Wushuang" }
func (s *WushuangSkill) Type() SkillType { return SkillLocked }

func (s *WushuangSkill) ModifyRequiredCount(ctx *ResolutionContext, win *ResponseWindowContext, base int) int {
	if win.SourceSeat != s.ownerSeat {
		return base
	}
	againstSlash := win.ResponseType == Dodge && win.SourceEvent.SubType == Slash
	againstDuel := win.ResponseType == Slash && win.Key == "duel-slash"
	if (againstSlash || againstDuel) && base < 2 {
		return 2
	}
	return base
}

// --- Liuli (流离): ITargetModifyingSkill. Owner may discard 1 hand card to
// redirect an incoming Slash to a new in-range target of the owner's
// choosing. ---

type LiuliSkill struct{ ownerSeat int }

func NewLiuliSkill(ownerSeat int) Skill { return &LiuliSkill{ownerSeat: ownerSeat} }

func (s *LiuliSkill) Id() string      { return "liuli" }
func (s *LiuliSkill) Name() string    { return "Liuli" }
func (s *LiuliSkill) Type() SkillType { return SkillTrigger }

func (s *LiuliSkill) ModifyTarget(ctx *ResolutionContext, sourceSeat, currentTargetSeat int, choiceCb ChoiceCallback) (int, bool) {
	if currentTargetSeat != s.ownerSeat {
		return currentTargetSeat, false
	}
	owner := ctx.Game.Player(s.ownerSeat)
	if owner == nil || owner.HandSize() == 0 {
		return currentTargetSeat, false
	}
	confirmReq := ChoiceRequest{RequestId: freshRequestId(), Seat: s.ownerSeat, Type: ChoiceConfirm, Key: "liuli-activate"}
	confirmRes := choiceCb(confirmReq)
	if !confirmRes.Confirmed {
		return currentTargetSeat, false
	}
	costReq := ChoiceRequest{
		RequestId: freshRequestId(), Seat: s.ownerSeat, Type: ChoiceSelectCards, Key: "liuli-cost",
		AllowedCards: append([]*Card{}, owner.HandZone.Cards...), MinCount: 1, MaxCount: 1,
	}
	costRes := choiceCb(costReq)
	if !costRes.Confirmed || len(costRes.SelectedCards) != 1 {
		return currentTargetSeat, false
	}
	if err := ctx.CardMove.Discard(ctx, costRes.SelectedCards, "liuli"); err != nil {
		return currentTargetSeat, false
	}
	candidates := ctx.Rules.GetLegalTargets(ctx, nil, TargetSingleOtherInRange, s.ownerSeat, 0)
	targetReq := ChoiceRequest{
		RequestId: freshRequestId(), Seat: s.ownerSeat, Type: ChoiceSelectTargets, Key: "liuli-new-target",
		AllowedSeats: candidates, MinCount: 1, MaxCount: 1,
	}
	targetRes := choiceCb(targetReq)
	if !targetRes.Confirmed || len(targetRes.SelectedSeats) != 1 {
		return currentTargetSeat, false
	}
	newTarget := targetRes.SelectedSeats[0]
	ctx.Set(KeyLiuliNewTargetSeat, newTarget)
	return newTarget, true
}

// TriggersOn/OnEvent satisfy Skill's TriggerSkill capability with no real
// subscription: Liuli acts entirely through ITargetModifyingSkill, called
// directly by RuleService.ApplyTargetModifiers rather than the event bus.
func (s *LiuliSkill) TriggersOn() []EventKind                         { return nil }
func (s *LiuliSkill) OnEvent(*ResolutionContext, int, Event) error { return nil }
