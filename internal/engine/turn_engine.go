package engine

// TurnEngine drives the per-turn phase state machine.
type TurnEngine struct {
	game *Game
}

// NewTurnEngine builds the engine bound to a game.
func NewTurnEngine(g *Game) *TurnEngine { return &TurnEngine{game: g} }

// nextPhase computes the phase that follows current for the given player,
// honoring the SkipDiscardPhase flag: when set and current is Play, the
// Discard phase is skipped and the flag is cleared.
func (t *TurnEngine) nextPhase(p *Player, current Phase) Phase {
	switch current {
	case PhaseStart:
		return PhaseJudge
	case PhaseJudge:
		return PhaseDraw
	case PhaseDraw:
		return PhasePlay
	case PhasePlay:
		if p.FlagBool(FlagSkipDiscardPhase) {
			p.SetFlag(FlagSkipDiscardPhase, false)
			return PhaseEnd
		}
		return PhaseDiscard
	case PhaseDiscard:
		return PhaseEnd
	case PhaseEnd:
		return PhaseStart
	default:
		return PhaseStart
	}
}

// AdvancePhase publishes PhaseEndEvent for the current phase, computes the
// next phase (possibly skipping Discard), advances the turn player if the
// next phase is Start, clears per-turn flags for the new turn player at
// that point, and publishes PhaseStartEvent for the new phase. Any failure
// surfaces as ActionRejectedEvent or GameAbortedEvent before returning.
func (t *TurnEngine) AdvancePhase(ctx *ResolutionContext) error {
	return SurfaceError(ctx, t.advancePhase(ctx))
}

func (t *TurnEngine) advancePhase(ctx *ResolutionContext) error {
	g := t.game
	p := g.CurrentPlayer()
	if p == nil {
		return NewCoreError(InvariantViolation, "no current player")
	}
	if err := g.Bus.Publish(g.CurrentPlayerSeat, Event{Kind: PhaseEndEvent, Seat: p.Seat, Phase: g.CurrentPhase}); err != nil {
		return err
	}

	next := t.nextPhase(p, g.CurrentPhase)
	if next == PhaseStart {
		nextSeats := g.SeatsClockwiseFrom(p.Seat, false)
		if len(nextSeats) == 0 {
			g.CheckWinCondition()
			return nil
		}
		g.CurrentPlayerSeat = nextSeats[0]
		g.TurnNumber++
		g.CurrentPlayer().ClearFlags()
	}
	g.CurrentPhase = next

	if err := g.Bus.Publish(g.CurrentPlayerSeat, Event{Kind: PhaseStartEvent, Seat: g.CurrentPlayerSeat, Phase: next}); err != nil {
		return err
	}
	return t.runAutomaticPhase(ctx)
}

// runAutomaticPhase performs the built-in effect of phases that need no
// player decision beyond what skills/resolvers already push: Judge
// resolves judgement-zone cards in order, Draw draws 2.
func (t *TurnEngine) runAutomaticPhase(ctx *ResolutionContext) error {
	g := t.game
	p := g.CurrentPlayer()
	switch g.CurrentPhase {
	case PhaseJudge:
		for _, c := range append([]*Card{}, p.JudgementZone.Cards...) {
			if !p.JudgementZone.Contains(c) {
				continue // an earlier trick's resolution already moved it
			}
			res := ctx.Stack.RunChild(&JudgementTrickResolver{OwnerSeat: p.Seat, Card: c})
			if !res.Success {
				return NewCoreError(InvariantViolation, res.Reason)
			}
		}
	case PhaseDraw:
		if _, err := g.CardMove.Draw(ctx, p.Seat, 2); err != nil {
			return err
		}
	}
	return nil
}
