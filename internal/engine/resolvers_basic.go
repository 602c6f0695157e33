package engine

// CardUseService is the top-level entry point for "a player uses a card
// from hand": it validates legality, discards the physical card up front
// (basic and trick cards never remain on the board the way the teacher's
// field-resident programs/traps do — see SPEC_FULL's "post-resolution
// cleanup" note), publishes CardUsedEvent, and drives the card's resolver
// to completion.
type CardUseService struct {
	game *Game
}

// NewCardUseService builds the service bound to a game.
func NewCardUseService(g *Game) *CardUseService { return &CardUseService{game: g} }

// UseCard runs one full card-use flow and returns the terminal result. A
// failure also surfaces ActionRejectedEvent (or GameAbortedEvent, for a
// fatal underlying cause) before returning, so observers see it the same
// way TurnEngine.AdvancePhase failures do.
func (s *CardUseService) UseCard(ctx *ResolutionContext, sourceSeat int, card *Card, targetSeats []int, choiceCb ChoiceCallback) ResolutionResult {
	result := s.useCard(ctx, sourceSeat, card, targetSeats, choiceCb)
	if !result.Success {
		SurfaceError(ctx, NewCoreError(IllegalAction, result.Reason))
	}
	return result
}

func (s *CardUseService) useCard(ctx *ResolutionContext, sourceSeat int, card *Card, targetSeats []int, choiceCb ChoiceCallback) ResolutionResult {
	if !ctx.Rules.CanUseCard(ctx, sourceSeat, card) {
		return Failed("card not in hand")
	}
	if err := ctx.CardMove.Discard(ctx, []*Card{card}, "use"); err != nil {
		return Failed(err.Error())
	}
	if err := ctx.Bus.Publish(ctx.Game.CurrentPlayerSeat, Event{
		Kind: CardUsedEvent, Seat: sourceSeat, Card: card, SubType: card.SubType,
	}); err != nil {
		return Failed(err.Error())
	}
	ctx.Action = ActionDescriptor{Kind: "UseCard", SourceSeat: sourceSeat, Card: card, SubType: card.SubType, TargetSeats: targetSeats}

	resolver := resolverFor(card, sourceSeat, targetSeats)
	if resolver == nil {
		return Failed("no resolver for card subtype")
	}
	return ctx.Stack.RunChild(resolver)
}

func resolverFor(card *Card, sourceSeat int, targets []int) Resolver {
	target := -1
	if len(targets) > 0 {
		target = targets[0]
	}
	switch card.SubType {
	case Slash:
		return &SlashResolver{SourceSeat: sourceSeat, TargetSeat: target, Card: card}
	case Duel:
		return &DuelResolver{SourceSeat: sourceSeat, TargetSeat: target, Card: card}
	case WuzhongShengyou:
		return &WuzhongResolver{SourceSeat: sourceSeat}
	case TaoyuanJieyi:
		return &TaoyuanResolver{SourceSeat: sourceSeat}
	case ShunshouQianyang:
		return &ShunshouResolver{SourceSeat: sourceSeat, TargetSeat: target}
	case GuoheChaiqiao:
		return &GuoheResolver{SourceSeat: sourceSeat, TargetSeat: target}
	case WanjianQifa:
		return &WanjianResolver{SourceSeat: sourceSeat, Card: card}
	case NanmanRushin:
		return &NanmanResolver{SourceSeat: sourceSeat, Card: card}
	case Lebusishu, Shandian:
		return &AttachDelayedTrickResolver{SourceSeat: sourceSeat, TargetSeat: target, Card: card}
	case Peach:
		return &PeachResolver{SourceSeat: sourceSeat}
	case Weapon, Armor, DefensiveHorse, OffensiveHorse:
		return &EquipResolver{SourceSeat: sourceSeat, Card: card}
	default:
		return nil
	}
}

// PeachResolver resolves an actively-played Peach (outside a dying
// window): the owner heals 1, capped at max health.
type PeachResolver struct{ SourceSeat int }

func (r *PeachResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	p := ctx.Game.Player(r.SourceSeat)
	if p == nil {
		return Failed("no such player")
	}
	if p.MaxHealth > 0 && p.CurrentHealth < p.MaxHealth {
		p.CurrentHealth++
	}
	return Succeeded()
}

// EquipResolver moves an equip card from the discard pile (where
// CardUseService parked it) into the owner's equipment zone, replacing any
// card of the same equip slot already there, then recalculates rules.
type EquipResolver struct {
	SourceSeat int
	Card       *Card
}

func (r *EquipResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	owner := ctx.Game.Player(r.SourceSeat)
	if owner == nil {
		return Failed("no such player")
	}
	for _, existing := range append([]*Card{}, owner.EquipmentZone.Cards...) {
		if equipSlot(existing.SubType) == equipSlot(r.Card.SubType) {
			if err := ctx.CardMove.Discard(ctx, []*Card{existing}, "equip-replaced"); err != nil {
				return Failed(err.Error())
			}
		}
	}
	if err := ctx.CardMove.Move(ctx, []*Card{r.Card}, ZoneEquipment, r.SourceSeat, "equip", PositionDefault); err != nil {
		return Failed(err.Error())
	}
	ctx.Rules.Recalculate()
	return Succeeded()
}

func equipSlot(s CardSubType) int {
	switch s {
	case Weapon:
		return 0
	case Armor:
		return 1
	case DefensiveHorse:
		return 2
	case OffensiveHorse:
		return 3
	default:
		return -1
	}
}

// SlashResolver resolves a Slash: apply target redirection, open a Jink
// window, and on failure push DamageResolver.
type SlashResolver struct {
	SourceSeat int
	TargetSeat int
	Card       EffectiveView
}

func (r *SlashResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	target := ctx.Rules.ApplyTargetModifiers(ctx, r.SourceSeat, r.TargetSeat, ctx.ChoiceCb)
	if redirect, ok := ctx.Get(KeyLiuliNewTargetSeat).(int); ok {
		target = redirect
	}

	win := ResponseWindowContext{
		Game: ctx.Game, ResponseType: Dodge, Responders: []int{target}, SourceSeat: r.SourceSeat,
		RequiredCount: 1, Key: "slash-jink",
		SourceEvent: Event{Kind: CardUsedEvent, Seat: r.SourceSeat, SubType: Slash},
	}
	result := RunResponseWindow(ctx, win)
	ctx.Set(KeyResponseWindowResult, result)
	if result.State == ResponseSuccess {
		return Succeeded()
	}
	if !ctx.Rules.RevalidateTarget(target) {
		return Succeeded()
	}

	descriptor := DamageDescriptor{
		SourceSeat: r.SourceSeat, HasSource: true, TargetSeat: target, Amount: 1,
		Type: DamageNormal, Reason: "Slash", CausingCard: asPhysical(r.Card),
	}
	return ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor})
}

func asPhysical(v EffectiveView) *Card {
	switch c := v.(type) {
	case *Card:
		return c
	case *VirtualCard:
		return c.Underlying
	default:
		return nil
	}
}

// DuelResolver resolves a Duel: alternating Slash window starting with the
// non-initiator; the first side that cannot produce a Slash takes 1 damage.
type DuelResolver struct {
	SourceSeat int
	TargetSeat int
	Card       *Card
}

func (r *DuelResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	turnSeat, otherSeat := r.TargetSeat, r.SourceSeat
	for {
		win := ResponseWindowContext{
			Game: ctx.Game, ResponseType: Slash, Responders: []int{turnSeat}, SourceSeat: r.SourceSeat,
			RequiredCount: 1, Key: "duel-slash",
		}
		result := RunResponseWindow(ctx, win)
		if result.State != ResponseSuccess {
			if !ctx.Rules.RevalidateTarget(turnSeat) {
				return Succeeded()
			}
			descriptor := DamageDescriptor{
				SourceSeat: otherSeat, HasSource: true, TargetSeat: turnSeat, Amount: 1,
				Type: DamageNormal, Reason: "Duel", CausingCard: r.Card,
			}
			return ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor})
		}
		turnSeat, otherSeat = otherSeat, turnSeat
	}
}

// WuzhongResolver: owner draws 2 cards.
type WuzhongResolver struct{ SourceSeat int }

func (r *WuzhongResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	if _, err := ctx.CardMove.Draw(ctx, r.SourceSeat, 2); err != nil {
		return Failed(err.Error())
	}
	return Succeeded()
}

// TaoyuanResolver: every alive player heals 1 (capped at max health).
type TaoyuanResolver struct{ SourceSeat int }

func (r *TaoyuanResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	for _, p := range ctx.Game.AlivePlayers() {
		if p.MaxHealth > 0 && p.CurrentHealth < p.MaxHealth {
			p.CurrentHealth++
		}
	}
	return Succeeded()
}

// ShunshouResolver: source takes one card (hand or equipment) from target.
type ShunshouResolver struct {
	SourceSeat int
	TargetSeat int
}

func (r *ShunshouResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	return takeOrDiscardOneFrom(ctx, r.SourceSeat, r.TargetSeat, true)
}

// GuoheResolver: source discards one card (hand or equipment or judgement)
// from target.
type GuoheResolver struct {
	SourceSeat int
	TargetSeat int
}

func (r *GuoheResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	return takeOrDiscardOneFrom(ctx, r.SourceSeat, r.TargetSeat, false)
}

func takeOrDiscardOneFrom(ctx *ResolutionContext, sourceSeat, targetSeat int, take bool) ResolutionResult {
	target := ctx.Game.Player(targetSeat)
	if target == nil {
		return Failed("no such target")
	}
	pool := append([]*Card{}, target.HandZone.Cards...)
	pool = append(pool, target.EquipmentZone.Cards...)
	if !take {
		pool = append(pool, target.JudgementZone.Cards...)
	}
	if len(pool) == 0 {
		return Succeeded()
	}
	req := ChoiceRequest{
		RequestId: freshRequestId(), Seat: sourceSeat, Type: ChoiceSelectCards,
		Key: "shunshou-guohe-pick", AllowedCards: pool, MinCount: 1, MaxCount: 1,
	}
	res, err := ctx.GetPlayerChoice(req)
	if err != nil || !res.Confirmed || len(res.SelectedCards) == 0 {
		return Succeeded()
	}
	card := res.SelectedCards[0]
	if take {
		return result(ctx.CardMove.Move(ctx, []*Card{card}, ZoneHand, sourceSeat, "shunshou", PositionDefault))
	}
	return result(ctx.CardMove.Discard(ctx, []*Card{card}, "guohe"))
}

func result(err error) ResolutionResult {
	if err != nil {
		return Failed(err.Error())
	}
	return Succeeded()
}

// WanjianResolver (万箭齐发): every other alive player must Jink or take 1
// damage, asked in clockwise order from the source.
type WanjianResolver struct {
	SourceSeat int
	Card       *Card
}

func (r *WanjianResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	for _, seat := range ctx.Game.SeatsClockwiseFrom(r.SourceSeat, false) {
		win := ResponseWindowContext{
			Game: ctx.Game, ResponseType: Dodge, Responders: []int{seat}, SourceSeat: r.SourceSeat,
			RequiredCount: 1, Key: "wanjian-jink",
		}
		if RunResponseWindow(ctx, win).State == ResponseSuccess {
			continue
		}
		if !ctx.Rules.RevalidateTarget(seat) {
			continue
		}
		descriptor := DamageDescriptor{SourceSeat: r.SourceSeat, HasSource: true, TargetSeat: seat, Amount: 1, Type: DamageNormal, Reason: "Wanjian", CausingCard: r.Card}
		if res := ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor}); !res.Success {
			return res
		}
	}
	return Succeeded()
}

// NanmanResolver (南蛮入侵): every other alive player must Slash or take 1
// damage.
type NanmanResolver struct {
	SourceSeat int
	Card       *Card
}

func (r *NanmanResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	for _, seat := range ctx.Game.SeatsClockwiseFrom(r.SourceSeat, false) {
		win := ResponseWindowContext{
			Game: ctx.Game, ResponseType: Slash, Responders: []int{seat}, SourceSeat: r.SourceSeat,
			RequiredCount: 1, Key: "nanman-slash",
		}
		if RunResponseWindow(ctx, win).State == ResponseSuccess {
			continue
		}
		if !ctx.Rules.RevalidateTarget(seat) {
			continue
		}
		descriptor := DamageDescriptor{SourceSeat: r.SourceSeat, HasSource: true, TargetSeat: seat, Amount: 1, Type: DamageNormal, Reason: "Nanman", CausingCard: r.Card}
		if res := ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor}); !res.Success {
			return res
		}
	}
	return Succeeded()
}

// AttachDelayedTrickResolver moves a Lebusishu/Shandian card into the
// target's judgement zone rather than the discard pile (CardUseService
// already discarded it; this relocates it).
type AttachDelayedTrickResolver struct {
	SourceSeat int
	TargetSeat int
	Card       *Card
}

func (r *AttachDelayedTrickResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	return result(ctx.CardMove.Move(ctx, []*Card{r.Card}, ZoneJudgement, r.TargetSeat, "attach-delayed-trick", PositionDefault))
}

// JudgementTrickResolver runs at the owner's Judge phase for a card sitting
// in their judgement zone: Shandian strikes the owner for 3 thunder damage
// on pass and is discarded, or moves to the next alive player's judgement
// zone on fail; Lebusishu discards the owner's whole hand on pass and is
// discarded either way.
type JudgementTrickResolver struct {
	OwnerSeat int
	Card      *Card
}

func (r *JudgementTrickResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	var rule JudgementRule
	switch r.Card.SubType {
	case Shandian:
		rule = IsSpadeTwoToNine
	case Lebusishu:
		rule = IsHeart
	default:
		return Failed("not a judgement-using card")
	}
	req := JudgementRequest{RequestId: freshRequestId(), OwnerSeat: r.OwnerSeat, Reason: JudgementReasonDelayedTrick, SourceTag: r.Card.SubType.String(), Rule: rule, AllowModify: true}
	res, err := ctx.Judgement.Run(ctx, req)
	if err != nil {
		return Failed(err.Error())
	}
	ctx.Set(KeyJudgementResult, res)

	switch r.Card.SubType {
	case Shandian:
		if res.Passed {
			if err := ctx.CardMove.Discard(ctx, []*Card{r.Card}, "shandian-strike"); err != nil {
				return Failed(err.Error())
			}
			descriptor := DamageDescriptor{HasSource: false, TargetSeat: r.OwnerSeat, Amount: 3, Type: DamageThunder, Reason: "Shandian", CausingCard: r.Card}
			return ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor})
		}
		return result(ctx.CardMove.Move(ctx, []*Card{r.Card}, ZoneJudgement, nextJudgeeSeat(ctx.Game, r.OwnerSeat), "shandian-pass", PositionDefault))
	case Lebusishu:
		if res.Passed {
			owner := ctx.Game.Player(r.OwnerSeat)
			if owner.HandSize() > 0 {
				if err := ctx.CardMove.Discard(ctx, append([]*Card{}, owner.HandZone.Cards...), "lebusishu"); err != nil {
					return Failed(err.Error())
				}
			}
		}
		return result(ctx.CardMove.Discard(ctx, []*Card{r.Card}, "lebusishu-resolved"))
	}
	return Succeeded()
}

func nextJudgeeSeat(g *Game, from int) int {
	seats := g.SeatsClockwiseFrom(from, false)
	if len(seats) == 0 {
		return from
	}
	return seats[0]
}
