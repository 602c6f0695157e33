package engine

// DamageType classifies a DamageDescriptor.
type DamageType int

const (
	DamageNormal DamageType = iota
	DamageFire
	DamageThunder
)

func (t DamageType) String() string {
	switch t {
	case DamageFire:
		return "Fire"
	case DamageThunder:
		return "Thunder"
	default:
		return "Normal"
	}
}

// DamageDescriptor is the immutable description of one hit of damage.
type DamageDescriptor struct {
	SourceSeat   int // -1 if sourceless
	HasSource    bool
	TargetSeat   int
	Amount       int
	Type         DamageType
	Reason       string
	CausingCard  *Card
	CausingCards []*Card
}

// DamageResolver applies one DamageDescriptor: publishes
// DamageAboutToApplyEvent (cancellable by a handler setting
// KeyDamageCancelled to true in ctx.Intermediate), applies the health delta, publishes
// DamageResolvedEvent then AfterDamageEvent (resolved per the Open
// Question: the two are always sequential, never interchangeable), and
// opens a dying window if health falls to or below zero.
type DamageResolver struct {
	Descriptor DamageDescriptor
}

// KeyDamageCancelled is the intermediate-results key a handler sets to true
// on ctx to cancel a DamageAboutToApplyEvent (e.g. armor, Bazhen).
const KeyDamageCancelled = "DamageCancelled"

func (r *DamageResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	d := r.Descriptor
	target := ctx.Game.Player(d.TargetSeat)
	if target == nil || !target.IsAlive {
		return Failed("damage target not alive")
	}

	ctx.Set(KeyDamageCancelled, false)
	if err := ctx.Bus.Publish(ctx.Game.CurrentPlayerSeat, Event{
		Kind: DamageAboutToApplyEvent, Seat: d.SourceSeat, OtherSeat: d.TargetSeat, Damage: &d,
	}); err != nil {
		return Failed(err.Error())
	}
	if cancelled, _ := ctx.Get(KeyDamageCancelled).(bool); cancelled {
		return Succeeded()
	}

	target.CurrentHealth -= d.Amount

	if err := ctx.Bus.Publish(ctx.Game.CurrentPlayerSeat, Event{
		Kind: DamageResolvedEvent, Seat: d.SourceSeat, OtherSeat: d.TargetSeat, Damage: &d,
	}); err != nil {
		return Failed(err.Error())
	}
	if err := ctx.Bus.Publish(ctx.Game.CurrentPlayerSeat, Event{
		Kind: AfterDamageEvent, Seat: d.SourceSeat, OtherSeat: d.TargetSeat, Damage: &d,
	}); err != nil {
		return Failed(err.Error())
	}

	if target.CurrentHealth <= 0 {
		dw := &DyingWindowResolver{TargetSeat: d.TargetSeat}
		return ctx.Stack.RunChild(dw)
	}
	return Succeeded()
}

// DyingWindowResolver asks each alive player in clockwise order (starting
// from the dying player) to supply a Peach — for themselves or another —
// until health recovers above zero or everyone has declined.
type DyingWindowResolver struct {
	TargetSeat int
}

func (r *DyingWindowResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	target := ctx.Game.Player(r.TargetSeat)
	if target == nil {
		return Failed("dying window for unknown seat")
	}
	target.DyingWindow = true
	defer func() { target.DyingWindow = false }()

	for _, seat := range ctx.Game.SeatsClockwiseFrom(r.TargetSeat, true) {
		if target.CurrentHealth > 0 {
			break
		}
		donor := ctx.Game.Player(seat)
		if donor == nil || !donor.IsAlive {
			continue
		}
		peaches := ctx.Rules.GetLegalResponses(ctx, seat, Peach)
		if len(peaches) == 0 {
			continue
		}
		allowed := make([]*Card, 0, len(peaches))
		for _, v := range peaches {
			if c, ok := v.(*Card); ok {
				allowed = append(allowed, c)
			}
		}
		req := ChoiceRequest{
			RequestId: freshRequestId(), Seat: seat, Type: ChoiceSelectCards,
			Key: "dying-window-peach", AllowedCards: allowed, MinCount: 0, MaxCount: 1,
		}
		res, err := ctx.GetPlayerChoice(req)
		if err != nil || !res.Confirmed || len(res.SelectedCards) == 0 {
			continue
		}
		card := res.SelectedCards[0]
		if err := ctx.CardMove.Discard(ctx, []*Card{card}, "peach-played"); err != nil {
			return Failed(err.Error())
		}
		if err := ctx.Bus.Publish(ctx.Game.CurrentPlayerSeat, Event{
			Kind: CardPlayedEvent, Seat: seat, Card: card, SubType: Peach,
		}); err != nil {
			return Failed(err.Error())
		}
		if target.MaxHealth > 0 && target.CurrentHealth+1 > target.MaxHealth {
			target.CurrentHealth = target.MaxHealth
		} else {
			target.CurrentHealth++
		}
	}

	if target.CurrentHealth <= 0 {
		return ctx.Stack.RunChild(&DeathResolver{Seat: r.TargetSeat})
	}
	return Succeeded()
}

// DeathResolver finalizes a player's elimination: marks them dead, detaches
// their skills, discards their zones, and checks the win condition.
type DeathResolver struct {
	Seat int
}

func (r *DeathResolver) Resolve(ctx *ResolutionContext) ResolutionResult {
	p := ctx.Game.Player(r.Seat)
	if p == nil || !p.IsAlive {
		return Failed("death of unknown or already-dead seat")
	}
	p.IsAlive = false
	ctx.Game.Skills.DetachAll(r.Seat)
	ctx.Game.Bus.UnsubscribeSeat(r.Seat)

	remaining := append(append([]*Card{}, p.HandZone.Cards...), p.EquipmentZone.Cards...)
	remaining = append(remaining, p.JudgementZone.Cards...)
	if len(remaining) > 0 {
		if err := ctx.CardMove.Discard(ctx, remaining, "death-cleanup"); err != nil {
			return Failed(err.Error())
		}
	}
	ctx.Rules.Recalculate()
	ctx.Game.CheckWinCondition()
	return Succeeded()
}
