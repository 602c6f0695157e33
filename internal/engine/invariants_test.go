package engine

import (
	"errors"
	"testing"
)

func TestEventBusOrderingSubscriptionThenSeat(t *testing.T) {
	bus := NewEventBus(func() *ResolutionContext { return nil })
	var order []string

	bus.Subscribe(CardUsedEvent, func(ctx *ResolutionContext, ev Event) error {
		order = append(order, "first")
		return nil
	})
	bus.Subscribe(CardUsedEvent, func(ctx *ResolutionContext, ev Event) error {
		order = append(order, "second")
		return nil
	})

	if err := bus.Publish(0, Event{Kind: CardUsedEvent}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if want := []string{"first", "second"}; !equalStrings(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestEventBusSeatTiebreakFromCurrentPlayer(t *testing.T) {
	g := &Game{Players: []*Player{
		NewPlayer(0, 4), NewPlayer(1, 4), NewPlayer(2, 4), NewPlayer(3, 4),
	}}
	for _, p := range g.Players {
		p.IsAlive = true
	}
	g.Bus = NewEventBus(func() *ResolutionContext { return &ResolutionContext{Game: g} })

	var order []int
	prio := g.Bus.NextGroupPriority()
	for _, seat := range []int{3, 1, 0, 2} {
		seat := seat
		g.Bus.SubscribeTagged(JudgementPerformedEvent, seat, prio, func(ctx *ResolutionContext, ev Event) error {
			order = append(order, seat)
			return nil
		})
	}

	// current player is seat 2: clockwise order starting at 2 is 2,3,0,1
	if err := g.Bus.Publish(2, Event{Kind: JudgementPerformedEvent}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if want := []int{2, 3, 0, 1}; !equalInts(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestEventBusReentrantPublishIsFIFONotRecursive(t *testing.T) {
	bus := NewEventBus(func() *ResolutionContext { return nil })
	var order []string

	bus.Subscribe(CardUsedEvent, func(ctx *ResolutionContext, ev Event) error {
		order = append(order, "outerStart")
		bus.Publish(0, Event{Kind: CardPlayedEvent})
		order = append(order, "outerEnd")
		return nil
	})
	bus.Subscribe(CardPlayedEvent, func(ctx *ResolutionContext, ev Event) error {
		order = append(order, "inner")
		return nil
	})

	if err := bus.Publish(0, Event{Kind: CardUsedEvent}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	want := []string{"outerStart", "outerEnd", "inner"}
	if !equalStrings(order, want) {
		t.Errorf("order = %v, want %v (re-entrant publish should queue, not recurse)", order, want)
	}
}

func TestCardMoveRoundTripRestoresZones(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	c := card(1, "Slash", CardTypeBasic, Slash, Spade, 7)
	g.Player(0).HandZone.Cards = append(g.Player(0).HandZone.Cards, c)

	if err := g.CardMove.Move(ctx, []*Card{c}, ZoneDiscardPile, SharedSeat, "test", PositionTop); err != nil {
		t.Fatalf("move to discard: %v", err)
	}
	if !g.DiscardPile.Contains(c) {
		t.Fatal("card did not land in discard pile")
	}
	if err := g.CardMove.Move(ctx, []*Card{c}, ZoneHand, 0, "test", PositionTop); err != nil {
		t.Fatalf("move back to hand: %v", err)
	}
	if !g.Player(0).HandZone.Contains(c) {
		t.Fatal("card did not return to hand")
	}
	if g.DiscardPile.Contains(c) {
		t.Fatal("card still in discard pile after moving back")
	}
}

func TestJudgementNoModifyInvariant(t *testing.T) {
	judgeCard := card(1, "Spade-5", CardTypeBasic, SubTypeNone, Spade, 5)
	g := twoPlayerGame(t, []*Card{judgeCard}, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	req := JudgementRequest{OwnerSeat: 0, Rule: IsBlack, AllowRetry: false}
	res, err := g.Judgement.Run(ctx, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.OriginalCard != res.FinalCard {
		t.Errorf("OriginalCard != FinalCard with no modifiers present")
	}
	if len(res.Modifications) != 0 {
		t.Errorf("Modifications = %v, want none", res.Modifications)
	}
	if !res.Passed {
		t.Errorf("Spade-5 should satisfy IsBlack")
	}
}

func TestTotalCardCountStableAcrossMoves(t *testing.T) {
	cards := []*Card{
		card(1, "A", CardTypeBasic, Slash, Spade, 1),
		card(2, "B", CardTypeBasic, Slash, Spade, 2),
		card(3, "C", CardTypeBasic, Slash, Spade, 3),
	}
	g := twoPlayerGame(t, cards, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	before := g.TotalCardCount()
	drawn, err := g.CardMove.Draw(ctx, 0, 2)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(drawn) != 2 {
		t.Fatalf("drew %d cards, want 2", len(drawn))
	}
	if got := g.TotalCardCount(); got != before {
		t.Errorf("TotalCardCount changed across a draw: %d -> %d", before, got)
	}

	if err := g.CardMove.Discard(ctx, drawn, "test"); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if got := g.TotalCardCount(); got != before {
		t.Errorf("TotalCardCount changed across a discard: %d -> %d", before, got)
	}
}

func TestResolutionStackRunsChildrenDepthFirst(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)
	stack := NewResolutionStack(ctx)

	var order []string
	inner := ResolverFunc(func(ctx *ResolutionContext) ResolutionResult {
		order = append(order, "inner")
		return ResolutionResult{Success: true}
	})
	outer := ResolverFunc(func(ctx *ResolutionContext) ResolutionResult {
		order = append(order, "outerStart")
		stack.RunChild(inner)
		order = append(order, "outerEnd")
		return ResolutionResult{Success: true}
	})

	res := stack.RunChild(outer)
	if !res.Success {
		t.Fatalf("RunChild failed: %s", res.Reason)
	}
	want := []string{"outerStart", "inner", "outerEnd"}
	if !equalStrings(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestResponseWindowNoRespondersReturnsNoResponseWithoutAsking(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	result := RunResponseWindow(ctx, ResponseWindowContext{
		Responders:    nil,
		RequiredCount: 1,
		Key:           "unused",
	})
	if result.State != NoResponse {
		t.Errorf("state = %v, want NoResponse", result.State)
	}
	if chooser.Calls("unused") != 0 {
		t.Errorf("should not have asked anyone when there are no responders")
	}
}

func TestResponseWindowZeroRequiredSucceedsWithoutAsking(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	jink := card(1, "Jink", CardTypeBasic, Dodge, Heart, 2)
	dealHand(g, 1, jink)
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	result := RunResponseWindow(ctx, ResponseWindowContext{
		Responders:    []int{1},
		ResponseType:  Dodge,
		RequiredCount: 0,
		Key:           "unused",
	})
	if result.State != ResponseSuccess {
		t.Errorf("state = %v, want ResponseSuccess", result.State)
	}
	if result.ResponseUnitsProvided != 0 {
		t.Errorf("ResponseUnitsProvided = %d, want 0", result.ResponseUnitsProvided)
	}
	if chooser.Calls("unused") != 0 {
		t.Errorf("should not have asked anyone when RequiredCount is 0, even with a legal responder")
	}
}

func TestGetPlayerChoiceRetriesOnInvalidChoice(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	wrong := card(99, "Wrong", CardTypeBasic, Slash, Spade, 1)
	right := card(1, "Right", CardTypeBasic, Slash, Spade, 2)
	calls := 0
	cb := func(req ChoiceRequest) ChoiceResult {
		calls++
		if calls < 2 {
			return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: true, SelectedCards: []*Card{wrong}}
		}
		return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: true, SelectedCards: []*Card{right}}
	}
	ctx := NewResolutionContext(g, ActionDescriptor{}, cb, testLog{t})
	req := ChoiceRequest{RequestId: freshRequestId(), Seat: 0, Type: ChoiceSelectCards, Key: "test", AllowedCards: []*Card{right}, MinCount: 1, MaxCount: 1}

	res, err := ctx.GetPlayerChoice(req)
	if err != nil {
		t.Fatalf("GetPlayerChoice: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (the bad answer should have been retried once)", calls)
	}
	if len(res.SelectedCards) != 1 || res.SelectedCards[0].Id != right.Id {
		t.Errorf("SelectedCards = %v, want [right]", res.SelectedCards)
	}
}

func TestGetPlayerChoiceGivesUpAfterMaxRetries(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	wrong := card(99, "Wrong", CardTypeBasic, Slash, Spade, 1)
	right := card(1, "Right", CardTypeBasic, Slash, Spade, 2)
	calls := 0
	cb := func(req ChoiceRequest) ChoiceResult {
		calls++
		return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: true, SelectedCards: []*Card{wrong}}
	}
	ctx := NewResolutionContext(g, ActionDescriptor{}, cb, testLog{t})
	req := ChoiceRequest{RequestId: freshRequestId(), Seat: 0, Type: ChoiceSelectCards, Key: "test", AllowedCards: []*Card{right}, MinCount: 1, MaxCount: 1}

	_, err := ctx.GetPlayerChoice(req)
	var ce *CoreError
	if !errors.As(err, &ce) || ce.Kind != InvalidChoice {
		t.Fatalf("err = %v, want *CoreError(InvalidChoice)", err)
	}
	if calls != maxChoiceRetries+1 {
		t.Errorf("calls = %d, want %d (initial attempt plus every retry)", calls, maxChoiceRetries+1)
	}
}

func TestResponseWindowPriorityFloorFiltersCandidates(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	jink := card(1, "Jink", CardTypeBasic, Dodge, Heart, 2)
	dealHand(g, 1, jink)
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	result := RunResponseWindow(ctx, ResponseWindowContext{
		Responders:    []int{1},
		ResponseType:  Dodge,
		RequiredCount: 1,
		PriorityFloor: 1,
		Key:           "floor-test",
	})
	if result.State != NoResponse {
		t.Errorf("state = %v, want NoResponse (default-priority Jink should not clear a floor of 1)", result.State)
	}
	if chooser.Calls("floor-test") != 0 {
		t.Errorf("should not have offered a card below the priority floor")
	}
}

func TestRevalidateTargetRejectsDeadSeat(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	if !g.Rules.RevalidateTarget(1) {
		t.Fatal("alive seat should revalidate")
	}
	g.Player(1).IsAlive = false
	if g.Rules.RevalidateTarget(1) {
		t.Error("dead seat should not revalidate")
	}
	if g.Rules.RevalidateTarget(99) {
		t.Error("nonexistent seat should not revalidate")
	}
}

func TestUseCardFailurePublishesActionRejected(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	var rejected []Event
	g.Bus.Subscribe(ActionRejectedEvent, func(ctx *ResolutionContext, ev Event) error {
		rejected = append(rejected, ev)
		return nil
	})

	notInHand := card(1, "Slash", CardTypeBasic, Slash, Spade, 7)
	cus := NewCardUseService(g)
	res := cus.UseCard(ctx, 0, notInHand, nil, chooser.Callback())
	if res.Success {
		t.Fatal("using a card not in hand should fail")
	}
	if len(rejected) != 1 {
		t.Fatalf("ActionRejectedEvent published %d times, want 1", len(rejected))
	}
	if rejected[0].Reason == "" {
		t.Error("ActionRejectedEvent.Reason should carry the failure reason")
	}
}

func TestAdvancePhaseFailurePublishesGameAborted(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)
	turns := NewTurnEngine(g)

	var aborted []Event
	g.Bus.Subscribe(GameAbortedEvent, func(ctx *ResolutionContext, ev Event) error {
		aborted = append(aborted, ev)
		return nil
	})

	g.CurrentPlayerSeat = 99 // no such player: forces the InvariantViolation path
	if err := turns.AdvancePhase(ctx); err == nil {
		t.Fatal("expected an error advancing with no current player")
	}
	if len(aborted) != 1 {
		t.Fatalf("GameAbortedEvent published %d times, want 1", len(aborted))
	}
}

func TestDrawFromEmptyPilesReturnsExhaustedDeck(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	_, err := g.CardMove.Draw(ctx, 0, 1)
	var ce *CoreError
	if !errors.As(err, &ce) {
		t.Fatalf("Draw from empty piles returned %v, want a *CoreError", err)
	}
	if ce.Kind != ExhaustedDeck {
		t.Errorf("error kind = %v, want ExhaustedDeck", ce.Kind)
	}
	if ce.Kind.Fatal() {
		t.Errorf("ExhaustedDeck must be recoverable, not fatal")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
