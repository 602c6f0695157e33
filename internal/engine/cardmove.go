package engine

// PositionHint controls where relocated cards land in the destination zone.
type PositionHint int

const (
	PositionDefault PositionHint = iota // back of the destination zone
	PositionTop
	PositionBottom
)

// CardMoveService is the single choke-point for card relocation. Every
// move is atomic and publishes a CardMovedEvent per card after it commits.
type CardMoveService struct {
	game *Game
}

// NewCardMoveService builds the service bound to a game.
func NewCardMoveService(g *Game) *CardMoveService { return &CardMoveService{game: g} }

func (s *CardMoveService) zoneFor(kind ZoneKind, seat int) *Zone {
	switch kind {
	case ZoneDrawPile:
		return s.game.DrawPile
	case ZoneDiscardPile:
		return s.game.DiscardPile
	default:
		p := s.game.Player(seat)
		if p == nil {
			return nil
		}
		switch kind {
		case ZoneHand:
			return p.HandZone
		case ZoneEquipment:
			return p.EquipmentZone
		case ZoneJudgement:
			return p.JudgementZone
		}
	}
	return nil
}

// currentZone finds whichever zone presently holds a card.
func (s *CardMoveService) currentZone(c *Card) *Zone {
	if s.game.DrawPile.Contains(c) {
		return s.game.DrawPile
	}
	if s.game.DiscardPile.Contains(c) {
		return s.game.DiscardPile
	}
	for _, p := range s.game.Players {
		for _, z := range []*Zone{p.HandZone, p.EquipmentZone, p.JudgementZone} {
			if z.Contains(c) {
				return z
			}
		}
	}
	return nil
}

// Move relocates cards to a destination zone kind/seat, publishing a
// CardMovedEvent per card. The source zone is found automatically — each
// card instance lives in exactly one zone, so no caller needs to track it.
func (s *CardMoveService) Move(ctx *ResolutionContext, cards []*Card, toKind ZoneKind, toSeat int, reason string, hint PositionHint) error {
	to := s.zoneFor(toKind, toSeat)
	if to == nil {
		return NewCoreError(InvariantViolation, "destination zone does not exist")
	}
	for _, c := range cards {
		from := s.currentZone(c)
		if from == nil || !from.remove(c) {
			return NewCoreError(InvariantViolation, "card not found in its expected source zone")
		}
		switch hint {
		case PositionTop:
			to.pushFront([]*Card{c})
		default:
			to.pushBack([]*Card{c})
		}
		if s.game.Rules != nil && (from.Kind == ZoneEquipment || to.Kind == ZoneEquipment) {
			s.game.Rules.Recalculate()
		}
		ev := Event{
			Kind:         CardMovedEvent,
			Card:         c,
			FromZoneKind: from.Kind,
			ToZoneKind:   to.Kind,
			MoveReason:   reason,
		}
		if from.Seat != SharedSeat {
			ev.Seat = from.Seat
		}
		if to.Seat != SharedSeat {
			ev.OtherSeat = to.Seat
		}
		if err := s.game.Bus.Publish(s.game.CurrentPlayerSeat, ev); err != nil {
			return err
		}
	}
	return nil
}

// reshuffleIfNeeded moves the discard pile into the draw pile and shuffles
// it when the draw pile cannot satisfy an upcoming draw. Returns an
// ExhaustedDeck error if both piles are empty.
func (s *CardMoveService) reshuffleIfNeeded(ctx *ResolutionContext, need int) error {
	if s.game.DrawPile.Len() >= need {
		return nil
	}
	if s.game.DiscardPile.Len() == 0 {
		return NewCoreError(ExhaustedDeck, "draw pile and discard pile both empty")
	}
	moved := s.game.DiscardPile.popFront(s.game.DiscardPile.Len())
	s.game.DrawPile.pushBack(moved)
	s.game.Shuffle(s.game.DrawPile)
	for _, c := range moved {
		if err := s.game.Bus.Publish(s.game.CurrentPlayerSeat, Event{
			Kind: CardMovedEvent, Card: c,
			FromZoneKind: ZoneDiscardPile, ToZoneKind: ZoneDrawPile,
			MoveReason: "reshuffle",
		}); err != nil {
			return err
		}
	}
	return nil
}

// Draw takes n cards off the top of the draw pile into a player's hand,
// reshuffling the discard pile in if the draw pile runs short.
func (s *CardMoveService) Draw(ctx *ResolutionContext, seat int, n int) ([]*Card, error) {
	drawn := make([]*Card, 0, n)
	for i := 0; i < n; i++ {
		if err := s.reshuffleIfNeeded(ctx, 1); err != nil {
			return drawn, err
		}
		c := s.game.DrawPile.popFront(1)
		if len(c) == 0 {
			return drawn, NewCoreError(ExhaustedDeck, "no cards left to draw")
		}
		p := s.game.Player(seat)
		p.HandZone.pushBack(c)
		drawn = append(drawn, c[0])
		if err := s.game.Bus.Publish(s.game.CurrentPlayerSeat, Event{
			Kind: CardMovedEvent, Card: c[0], OtherSeat: seat,
			FromZoneKind: ZoneDrawPile, ToZoneKind: ZoneHand, MoveReason: "draw",
		}); err != nil {
			return drawn, err
		}
	}
	return drawn, nil
}

// Discard moves cards to the discard pile from wherever they currently sit.
func (s *CardMoveService) Discard(ctx *ResolutionContext, cards []*Card, reason string) error {
	for _, c := range cards {
		if err := s.Move(ctx, []*Card{c}, ZoneDiscardPile, SharedSeat, reason, PositionDefault); err != nil {
			return err
		}
	}
	return nil
}

// PutOnTop places cards on top of a zone (for Guanxing-style effects that
// arrange the draw pile).
func (s *CardMoveService) PutOnTop(ctx *ResolutionContext, zoneKind ZoneKind, seat int, cards []*Card, reason string) error {
	for _, c := range cards {
		if err := s.Move(ctx, []*Card{c}, zoneKind, seat, reason, PositionTop); err != nil {
			return err
		}
	}
	return nil
}

// PutOnBottom places cards on the bottom of a zone.
func (s *CardMoveService) PutOnBottom(ctx *ResolutionContext, zoneKind ZoneKind, seat int, cards []*Card, reason string) error {
	for _, c := range cards {
		if err := s.Move(ctx, []*Card{c}, zoneKind, seat, reason, PositionBottom); err != nil {
			return err
		}
	}
	return nil
}

// DrawPileSize reports the current size of the draw pile, after any
// reshuffle the caller has already triggered — for Guanxing-style effects
// that cap X at the pile size.
func (s *CardMoveService) DrawPileSize() int { return s.game.DrawPile.Len() }
