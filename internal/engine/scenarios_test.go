package engine

import "testing"

func TestBiyueActivation(t *testing.T) {
	c1 := card(1, "Slash", CardTypeBasic, Slash, Spade, 7)
	g := twoPlayerGame(t, []*Card{c1}, "diaochan", "")
	chooser := NewScriptedChooser(t).Confirm("biyue-activate", true)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	handBefore := g.Player(0).HandSize()
	drawBefore := g.DrawPile.Len()

	if err := g.Bus.Publish(0, Event{Kind: PhaseStartEvent, Seat: 0, Phase: PhaseEnd}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got, want := g.Player(0).HandSize(), handBefore+1; got != want {
		t.Errorf("hand size = %d, want %d", got, want)
	}
	if got, want := g.DrawPile.Len(), drawBefore-1; got != want {
		t.Errorf("draw pile size = %d, want %d", got, want)
	}
	if got := chooser.Calls("biyue-activate"); got != 1 {
		t.Errorf("biyue-activate asked %d times, want 1", got)
	}
	_ = ctx
}

func TestBiyueDeclined(t *testing.T) {
	c1 := card(1, "Slash", CardTypeBasic, Slash, Spade, 7)
	g := twoPlayerGame(t, []*Card{c1}, "diaochan", "")
	chooser := NewScriptedChooser(t).Confirm("biyue-activate", false)
	newTestContext(g, ActionDescriptor{}, chooser, t)

	handBefore := g.Player(0).HandSize()
	drawBefore := g.DrawPile.Len()

	if err := g.Bus.Publish(0, Event{Kind: PhaseStartEvent, Seat: 0, Phase: PhaseEnd}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got := g.Player(0).HandSize(); got != handBefore {
		t.Errorf("hand size changed: %d -> should stay %d", got, handBefore)
	}
	if got := g.DrawPile.Len(); got != drawBefore {
		t.Errorf("draw pile size changed: %d -> should stay %d", got, drawBefore)
	}
	if got := chooser.Calls("biyue-activate"); got != 1 {
		t.Errorf("biyue-activate asked %d times, want 1", got)
	}
}

func dealHand(g *Game, seat int, cards ...*Card) {
	for _, c := range cards {
		g.DiscardPile.Cards = append(g.DiscardPile.Cards, c)
	}
	p := g.Player(seat)
	for _, c := range cards {
		idx := g.DiscardPile.IndexOf(c)
		g.DiscardPile.removeAt(idx)
		p.HandZone.Cards = append(p.HandZone.Cards, c)
	}
}

func TestGanglieSuccessDiscardsTwo(t *testing.T) {
	judgeCard := card(99, "Spade-5", CardTypeBasic, SubTypeNone, Spade, 5)
	g := twoPlayerGame(t, []*Card{judgeCard}, "", "huaxiong")
	chooser := NewScriptedChooser(t).SelectCards("ganglie-discard", "H1", "H2")
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	h1 := card(1, "H1", CardTypeBasic, Slash, Club, 3)
	h2 := card(2, "H2", CardTypeBasic, Slash, Club, 4)
	dealHand(g, 0, h1, h2)

	descriptor := DamageDescriptor{HasSource: true, SourceSeat: 0, TargetSeat: 1, Amount: 1, Type: DamageNormal, Reason: "Slash"}
	res := ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor})
	if !res.Success {
		t.Fatalf("damage resolver failed: %s", res.Reason)
	}

	if got := g.Player(0).HandSize(); got != 0 {
		t.Errorf("source hand size = %d, want 0 (both discarded)", got)
	}
	if got, want := g.Player(1).CurrentHealth, g.Player(1).MaxHealth-1; got != want {
		t.Errorf("target health = %d, want %d", got, want)
	}
}

func TestGanglieHeartFails(t *testing.T) {
	judgeCard := card(99, "Heart-5", CardTypeBasic, SubTypeNone, Heart, 5)
	g := twoPlayerGame(t, []*Card{judgeCard}, "", "huaxiong")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	h1 := card(1, "H1", CardTypeBasic, Slash, Club, 3)
	h2 := card(2, "H2", CardTypeBasic, Slash, Club, 4)
	dealHand(g, 0, h1, h2)

	descriptor := DamageDescriptor{HasSource: true, SourceSeat: 0, TargetSeat: 1, Amount: 1, Type: DamageNormal, Reason: "Slash"}
	res := ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor})
	if !res.Success {
		t.Fatalf("damage resolver failed: %s", res.Reason)
	}

	if got := g.Player(0).HandSize(); got != 2 {
		t.Errorf("source hand size = %d, want 2 (no discard on failed judgement)", got)
	}
}

func TestJianxiongClaimsCausingCard(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "caocao")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	slash := card(5, "Slash", CardTypeBasic, Slash, Spade, 9)
	g.DiscardPile.Cards = append(g.DiscardPile.Cards, slash)

	descriptor := DamageDescriptor{HasSource: true, SourceSeat: 0, TargetSeat: 1, Amount: 1, Type: DamageNormal, Reason: "Slash", CausingCard: slash}
	res := ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor})
	if !res.Success {
		t.Fatalf("damage resolver failed: %s", res.Reason)
	}
	if g.DiscardPile.Contains(slash) {
		t.Errorf("discard pile still contains the causing card")
	}
	if !g.Player(1).HandZone.Contains(slash) {
		t.Errorf("target hand does not contain the claimed card")
	}
}

func TestJianxiongClaimsMultipleCausingCards(t *testing.T) {
	g := twoPlayerGame(t, nil, "", "caocao")
	chooser := NewScriptedChooser(t)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)

	c1 := card(5, "C1", CardTypeBasic, Slash, Spade, 9)
	c2 := card(6, "C2", CardTypeBasic, Slash, Club, 9)
	g.DiscardPile.Cards = append(g.DiscardPile.Cards, c1, c2)

	descriptor := DamageDescriptor{HasSource: true, SourceSeat: 0, TargetSeat: 1, Amount: 1, Type: DamageNormal, Reason: "Slash", CausingCards: []*Card{c1, c2}}
	res := ctx.Stack.RunChild(&DamageResolver{Descriptor: descriptor})
	if !res.Success {
		t.Fatalf("damage resolver failed: %s", res.Reason)
	}
	for _, c := range []*Card{c1, c2} {
		if g.DiscardPile.Contains(c) {
			t.Errorf("discard pile still contains %s", c.Name)
		}
		if !g.Player(1).HandZone.Contains(c) {
			t.Errorf("target hand does not contain %s", c.Name)
		}
	}
}

func TestWushuangTwoJinksBlockSlash(t *testing.T) {
	g := twoPlayerGame(t, nil, "lvbu", "")
	j1 := card(1, "Jink1", CardTypeBasic, Dodge, Heart, 2)
	j2 := card(2, "Jink2", CardTypeBasic, Dodge, Diamond, 3)
	slash := card(3, "Slash", CardTypeBasic, Slash, Spade, 7)
	dealHand(g, 1, j1, j2)
	dealHand(g, 0, slash)

	chooser := NewScriptedChooser(t).SelectCards("slash-jink", "Jink1").SelectCards("slash-jink", "Jink2")
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)
	cus := NewCardUseService(g)

	healthBefore := g.Player(1).CurrentHealth
	res := cus.UseCard(ctx, 0, slash, []int{1}, chooser.Callback())
	if !res.Success {
		t.Fatalf("use card failed: %s", res.Reason)
	}
	winResult, _ := ctx.Get(KeyResponseWindowResult).(ResponseWindowResult)
	if winResult.State != ResponseSuccess {
		t.Errorf("state = %v, want ResponseSuccess", winResult.State)
	}
	if winResult.ResponseUnitsProvided != 2 {
		t.Errorf("units provided = %d, want 2", winResult.ResponseUnitsProvided)
	}
	if g.Player(1).CurrentHealth != healthBefore {
		t.Errorf("target took damage despite successful response")
	}
}

func TestWushuangOneJinkInsufficient(t *testing.T) {
	g := twoPlayerGame(t, nil, "lvbu", "")
	j1 := card(1, "Jink1", CardTypeBasic, Dodge, Heart, 2)
	slash := card(3, "Slash", CardTypeBasic, Slash, Spade, 7)
	dealHand(g, 1, j1)
	dealHand(g, 0, slash)

	chooser := NewScriptedChooser(t).SelectCards("slash-jink", "Jink1")
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)
	cus := NewCardUseService(g)

	healthBefore := g.Player(1).CurrentHealth
	res := cus.UseCard(ctx, 0, slash, []int{1}, chooser.Callback())
	if !res.Success {
		t.Fatalf("use card failed: %s", res.Reason)
	}
	winResult, _ := ctx.Get(KeyResponseWindowResult).(ResponseWindowResult)
	if winResult.State != NoResponse {
		t.Errorf("state = %v, want NoResponse", winResult.State)
	}
	if winResult.ResponseUnitsProvided != 1 {
		t.Errorf("units provided = %d, want 1", winResult.ResponseUnitsProvided)
	}
	if got, want := g.Player(1).CurrentHealth, healthBefore-1; got != want {
		t.Errorf("target health = %d, want %d", got, want)
	}
}

func threePlayerGame(t *testing.T, hero0 string) *Game {
	t.Helper()
	cfg := GameConfig{
		PlayerConfigs: []PlayerConfig{
			{Seat: 0, HeroId: hero0, MaxHealth: 4, InitialHealth: 4},
			{Seat: 1, MaxHealth: 4, InitialHealth: 4},
			{Seat: 2, MaxHealth: 4, InitialHealth: 4},
		},
		DeckConfig:    DeckConfig{},
		Seed:          1,
		SkillRegistry: DefaultSkillRegistry(),
	}
	g, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return g
}

func TestLiuliRedirect(t *testing.T) {
	g := threePlayerGame(t, "diaochan")
	slash := card(1, "Slash", CardTypeBasic, Slash, Spade, 7)
	cost := card(2, "Cost", CardTypeBasic, SubTypeNone, Club, 4)
	dealHand(g, 1, slash)
	dealHand(g, 0, cost)

	chooser := NewScriptedChooser(t).
		Confirm("liuli-activate", true).
		SelectCards("liuli-cost", "Cost").
		SelectSeats("liuli-new-target", 2)
	ctx := newTestContext(g, ActionDescriptor{}, chooser, t)
	cus := NewCardUseService(g)

	res := cus.UseCard(ctx, 1, slash, []int{0}, chooser.Callback())
	if !res.Success {
		t.Fatalf("use card failed: %s", res.Reason)
	}
	if redirect, _ := ctx.Get(KeyLiuliNewTargetSeat).(int); redirect != 2 {
		t.Errorf("redirected target = %d, want 2", redirect)
	}
	if got := g.Player(0).HandSize(); got != 0 {
		t.Errorf("owner hand size = %d, want 0 (cost paid)", got)
	}
}
