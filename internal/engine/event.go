package engine

// EventKind identifies the shape of an Event. Every game-state-changing
// primitive publishes one of these after its mutation completes.
type EventKind int

const (
	PhaseStartEvent EventKind = iota
	PhaseEndEvent
	CardUsedEvent
	CardPlayedEvent
	CardMovedEvent
	DamageAboutToApplyEvent
	DamageResolvedEvent
	AfterDamageEvent
	JudgementPerformedEvent
	ActionRejectedEvent
	GameAbortedEvent
)

func (k EventKind) String() string {
	switch k {
	case PhaseStartEvent:
		return "PhaseStart"
	case PhaseEndEvent:
		return "PhaseEnd"
	case CardUsedEvent:
		return "CardUsed"
	case CardPlayedEvent:
		return "CardPlayed"
	case CardMovedEvent:
		return "CardMoved"
	case DamageAboutToApplyEvent:
		return "DamageAboutToApply"
	case DamageResolvedEvent:
		return "DamageResolved"
	case AfterDamageEvent:
		return "AfterDamage"
	case JudgementPerformedEvent:
		return "JudgementPerformed"
	case ActionRejectedEvent:
		return "ActionRejected"
	case GameAbortedEvent:
		return "GameAborted"
	default:
		return "Unknown"
	}
}

// JudgementPhase tags which step of the judgement procedure produced a
// JudgementPerformedEvent.
type JudgementPhase int

const (
	JudgementDrawn JudgementPhase = iota
	JudgementModified
	JudgementResolved
)

// Event is the single envelope type carried on the bus. Only the fields
// relevant to Kind are populated; the rest stay zero. This mirrors the
// flat "one struct, many optional fields" event shape the teacher's own
// log package uses, rather than a closed set of per-kind struct types.
type Event struct {
	Kind EventKind

	Seat      int // primary actor seat, where applicable
	OtherSeat int // secondary seat (e.g. response target, damage target)
	Phase     Phase

	Card    *Card
	Cards   []*Card
	SubType CardSubType

	FromZoneKind ZoneKind
	ToZoneKind   ZoneKind
	MoveReason   string

	Damage *DamageDescriptor

	JPhase  JudgementPhase
	Judgement *JudgementResult

	Reason string // ActionRejected reason code / GameAborted diagnostic

	Details map[string]any
}

// EventHandler processes a published event. Returning a non-nil error
// propagates to the publisher; the bus never swallows handler errors.
type EventHandler func(ctx *ResolutionContext, ev Event) error

type subscription struct {
	token    int
	kind     EventKind
	seat     *int
	priority int
	handler  EventHandler
}

// EventBus fans out typed events to subscribers in deterministic order.
type EventBus struct {
	subs        []*subscription
	nextToken   int
	nextPrio    int
	publishing  bool
	queue       []Event
	ctxProvider func() *ResolutionContext
}

// NewEventBus builds an empty bus. ctxProvider supplies the ResolutionContext
// handed to handlers; it may return nil outside of resolution (e.g. during
// setup) — handlers must tolerate that.
func NewEventBus(ctxProvider func() *ResolutionContext) *EventBus {
	return &EventBus{ctxProvider: ctxProvider}
}

// Subscribe registers a handler for a kind, returning a token for later
// Unsubscribe. Each call gets its own priority, so independent subscribers
// are ordered by registration order.
func (b *EventBus) Subscribe(kind EventKind, handler EventHandler) int {
	b.nextToken++
	b.nextPrio++
	b.subs = append(b.subs, &subscription{token: b.nextToken, kind: kind, priority: b.nextPrio, handler: handler})
	return b.nextToken
}

// SubscribeTagged registers a handler sharing a priority group with other
// calls that pass the same priority, tiebroken by seat distance from the
// current turn player. SkillManager uses this for every trigger-skill
// subscription, tagged with the owner seat and given a fresh priority from
// NextGroupPriority per event kind, so skills are ordered by attach order;
// the seat tiebreak orders only subscriptions that share a priority.
func (b *EventBus) SubscribeTagged(kind EventKind, seat int, priority int, handler EventHandler) int {
	b.nextToken++
	s := seat
	b.subs = append(b.subs, &subscription{token: b.nextToken, kind: kind, seat: &s, priority: priority, handler: handler})
	return b.nextToken
}

// NextGroupPriority hands out a priority value for a fresh SubscribeTagged
// batch (all subscriptions in the batch should pass the same value).
func (b *EventBus) NextGroupPriority() int {
	b.nextPrio++
	return b.nextPrio
}

// Unsubscribe removes a subscription by token. No-op if unknown.
func (b *EventBus) Unsubscribe(token int) {
	for i, s := range b.subs {
		if s.token == token {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// UnsubscribeSeat removes every subscription tagged with the given seat
// (used on player death / hero skill detach).
func (b *EventBus) UnsubscribeSeat(seat int) {
	kept := b.subs[:0]
	for _, s := range b.subs {
		if s.seat != nil && *s.seat == seat {
			continue
		}
		kept = append(kept, s)
	}
	b.subs = kept
}

// Publish dispatches ev synchronously to every matching subscriber in
// deterministic order, then drains any events enqueued by handlers (FIFO,
// non-reentrant: a Publish call made from inside a handler enqueues rather
// than dispatching inline).
func (b *EventBus) Publish(currentSeat int, ev Event) error {
	if b.publishing {
		b.queue = append(b.queue, ev)
		return nil
	}
	b.publishing = true
	err := b.dispatch(currentSeat, ev)
	for err == nil && len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		err = b.dispatch(currentSeat, next)
	}
	b.publishing = false
	b.queue = nil
	return err
}

func (b *EventBus) dispatch(currentSeat int, ev Event) error {
	matching := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == ev.Kind {
			matching = append(matching, s)
		}
	}
	var ctx *ResolutionContext
	if b.ctxProvider != nil {
		ctx = b.ctxProvider()
	}
	ringSize := 1
	if ctx != nil && ctx.Game != nil {
		ringSize = len(ctx.Game.Players)
	}
	sortSubscriptions(matching, currentSeat, ringSize)
	for _, s := range matching {
		if err := s.handler(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// sortSubscriptions orders by priority ascending, tiebroken by clockwise
// seat distance from currentSeat for subscriptions sharing a priority.
func sortSubscriptions(subs []*subscription, currentSeat, ringSize int) {
	n := len(subs)
	for i := 1; i < n; i++ {
		j := i
		for j > 0 && less(subs[j], subs[j-1], currentSeat, ringSize) {
			subs[j], subs[j-1] = subs[j-1], subs[j]
			j--
		}
	}
}

func less(a, b *subscription, currentSeat, ringSize int) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.seat == nil || b.seat == nil {
		return false
	}
	da := clockwiseDistance(currentSeat, *a.seat, ringSize)
	db := clockwiseDistance(currentSeat, *b.seat, ringSize)
	return da < db
}

// clockwiseDistance counts seats stepping forward from 'from' to 'to' in a
// ring of the given size.
func clockwiseDistance(from, to, ringSize int) int {
	if ringSize <= 0 {
		ringSize = 1
	}
	d := (to - from) % ringSize
	if d < 0 {
		d += ringSize
	}
	return d
}
