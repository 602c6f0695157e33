package engine

import "math/rand"

// Phase is a step of the per-turn state machine.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseJudge
	PhaseDraw
	PhasePlay
	PhaseDiscard
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "Start"
	case PhaseJudge:
		return "Judge"
	case PhaseDraw:
		return "Draw"
	case PhasePlay:
		return "Play"
	case PhaseDiscard:
		return "Discard"
	case PhaseEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// PlayerConfig seeds one seat at game construction.
type PlayerConfig struct {
	Seat          int
	HeroId        string
	FactionId     FactionId
	MaxHealth     int
	InitialHealth int
}

// DeckConfig names the card manifest the catalog loader produced.
type DeckConfig struct {
	Cards []*Card
	// WeaponRangeByDefId maps a weapon card's catalog DefId to the attack
	// range bonus it grants while equipped.
	WeaponRangeByDefId map[int]int
}

// GameConfig is the full input to Game.FromConfig.
type GameConfig struct {
	PlayerConfigs      []PlayerConfig
	DeckConfig         DeckConfig
	Seed               int64
	GameModeId         string
	GameVariantOptions map[string]string
	SkillRegistry      *SkillRegistry
}

// GameResult is set once the game ends.
type GameResult struct {
	Over       bool
	WinnerSeat int // -1 if drawn/no single winner
	Reason     string
}

// Game is the root aggregate: every mutable piece of state reachable from
// one running game. It never crosses goroutine boundaries; the resolution
// stack is the only thing that mutates it.
type Game struct {
	Players []*Player

	DrawPile    *Zone
	DiscardPile *Zone

	CurrentPlayerSeat int
	CurrentPhase      Phase
	TurnNumber        int

	rng *rand.Rand

	VariantOptions      map[string]string
	VariantWeaponRanges map[int]int
	SkillRegistry       *SkillRegistry

	Bus          *EventBus
	Skills       *SkillManager
	CardMove     *CardMoveService
	Judgement    *JudgementService
	Rules        *RuleService

	Result GameResult

	// activeContext is set by the resolution stack while it runs, so the
	// event bus's ctxProvider can hand handlers a live ResolutionContext.
	// Nil outside resolution (e.g. during FromConfig).
	activeContext *ResolutionContext
}

// FromConfig constructs a fully wired Game from a GameConfig: players,
// zones, deck, RNG, event bus, and the skill/rule/judgement/card-move
// services, with each player's hero skills attached.
func FromConfig(cfg GameConfig) (*Game, error) {
	if len(cfg.PlayerConfigs) < 2 {
		return nil, NewCoreError(IllegalAction, "at least two players required")
	}
	g := &Game{
		CurrentPlayerSeat: 0,
		CurrentPhase:      PhaseStart,
		TurnNumber:         1,
		VariantOptions:      cfg.GameVariantOptions,
		VariantWeaponRanges: cfg.DeckConfig.WeaponRangeByDefId,
		SkillRegistry:       cfg.SkillRegistry,
		rng:                 rand.New(rand.NewSource(cfg.Seed)),
	}
	for _, pc := range cfg.PlayerConfigs {
		p := NewPlayer(pc.Seat, pc.MaxHealth)
		p.HeroId = pc.HeroId
		p.FactionId = pc.FactionId
		if pc.InitialHealth > 0 {
			p.CurrentHealth = pc.InitialHealth
		}
		g.Players = append(g.Players, p)
	}
	g.DrawPile = NewZone(ZoneDrawPile, SharedSeat)
	g.DiscardPile = NewZone(ZoneDiscardPile, SharedSeat)
	g.DrawPile.Cards = append(g.DrawPile.Cards, cfg.DeckConfig.Cards...)
	g.Shuffle(g.DrawPile)

	g.Bus = NewEventBus(func() *ResolutionContext { return g.activeContext })
	g.CardMove = NewCardMoveService(g)
	g.Rules = NewRuleService(g)
	g.Skills = NewSkillManager(g)
	g.Judgement = NewJudgementService(g)

	if cfg.SkillRegistry != nil {
		for _, p := range g.Players {
			ids := cfg.SkillRegistry.SkillsForHero(p.HeroId)
			for _, id := range ids {
				if err := g.Skills.Attach(p.Seat, id); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// Shuffle permutes a zone's cards in place using the game's seeded RNG.
func (g *Game) Shuffle(z *Zone) {
	g.rng.Shuffle(len(z.Cards), func(i, j int) {
		z.Cards[i], z.Cards[j] = z.Cards[j], z.Cards[i]
	})
}

// Intn draws a deterministic random int in [0,n) from the game's RNG, for
// any core logic that legitimately needs randomness beyond shuffling.
func (g *Game) Intn(n int) int { return g.rng.Intn(n) }

// Player returns the player at a seat.
func (g *Game) Player(seat int) *Player {
	for _, p := range g.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player { return g.Player(g.CurrentPlayerSeat) }

// AlivePlayers returns players with IsAlive true, in seat order.
func (g *Game) AlivePlayers() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.IsAlive {
			out = append(out, p)
		}
	}
	return out
}

// SeatsClockwiseFrom returns every alive seat starting at 'from' (inclusive
// if includeFrom) walking clockwise (increasing seat, wrapping).
func (g *Game) SeatsClockwiseFrom(from int, includeFrom bool) []int {
	n := len(g.Players)
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if seat == from && !includeFrom {
			continue
		}
		if p := g.Player(seat); p != nil && p.IsAlive {
			out = append(out, seat)
		}
	}
	return out
}

// SeatDistance is the shorter arc around the live seating ring between two
// seats, counting only alive players.
func (g *Game) SeatDistance(a, b int) int {
	if a == b {
		return 0
	}
	alive := g.AlivePlayers()
	n := len(alive)
	idxA, idxB := -1, -1
	for i, p := range alive {
		if p.Seat == a {
			idxA = i
		}
		if p.Seat == b {
			idxB = i
		}
	}
	if idxA < 0 || idxB < 0 {
		return 1 << 30
	}
	fwd := (idxB - idxA + n) % n
	back := (idxA - idxB + n) % n
	if fwd < back {
		return fwd
	}
	return back
}

// CheckWinCondition evaluates whether the game has ended (fewer than two
// alive players remain) and sets Result accordingly.
func (g *Game) CheckWinCondition() bool {
	alive := g.AlivePlayers()
	if len(alive) <= 1 {
		g.Result.Over = true
		if len(alive) == 1 {
			g.Result.WinnerSeat = alive[0].Seat
			g.Result.Reason = "last player standing"
		} else {
			g.Result.WinnerSeat = -1
			g.Result.Reason = "mutual elimination"
		}
		return true
	}
	return false
}

// TotalCardCount sums cards across every zone in the game, used by tests to
// check the deck-conservation invariant.
func (g *Game) TotalCardCount() int {
	n := g.DrawPile.Len() + g.DiscardPile.Len()
	for _, p := range g.Players {
		n += p.HandZone.Len() + p.EquipmentZone.Len() + p.JudgementZone.Len()
	}
	return n
}
