package engine

// FactionId is a player's declared faction, used by faction-scoped skills
// (e.g. 护驾 offering a response on behalf of a faction-mate lord).
type FactionId int

const (
	FactionNone FactionId = iota
	Wei
	Shu
	Wu
	Qun
	Shen
)

func (f FactionId) String() string {
	switch f {
	case Wei:
		return "Wei"
	case Shu:
		return "Shu"
	case Wu:
		return "Wu"
	case Qun:
		return "Qun"
	case Shen:
		return "Shen"
	default:
		return "None"
	}
}

// Well-known flag keys used by the turn engine and built-in skills.
const (
	FlagSkipDiscardPhase = "SkipDiscardPhase"
	FlagIsLord           = "IsLord"
)

// Player is one seat at the table. Skills never hold a back-reference to a
// Player value — they address players by Seat and look the Player up
// through the Game on every call, per the arena-of-handles design.
type Player struct {
	Seat          int
	HeroId        string
	FactionId     FactionId
	MaxHealth     int
	CurrentHealth int
	IsAlive       bool
	DyingWindow   bool

	HandZone      *Zone
	EquipmentZone *Zone
	JudgementZone *Zone

	Flags map[string]any

	skills []*SkillInstance
}

// NewPlayer constructs a player at a seat with full health and empty zones.
func NewPlayer(seat int, maxHealth int) *Player {
	return &Player{
		Seat:          seat,
		MaxHealth:     maxHealth,
		CurrentHealth: maxHealth,
		IsAlive:       true,
		HandZone:      NewZone(ZoneHand, seat),
		EquipmentZone: NewZone(ZoneEquipment, seat),
		JudgementZone: NewZone(ZoneJudgement, seat),
		Flags:         make(map[string]any),
	}
}

// Flag reads a per-turn flag, defaulting to false/nil semantics for unset
// keys rather than panicking.
func (p *Player) Flag(key string) any { return p.Flags[key] }

// FlagBool reads a flag coerced to bool; unset or wrong-typed is false.
func (p *Player) FlagBool(key string) bool {
	v, _ := p.Flags[key].(bool)
	return v
}

// SetFlag stores a per-turn flag.
func (p *Player) SetFlag(key string, v any) { p.Flags[key] = v }

// ClearFlags resets all per-turn flags, called at PhaseStart(Start) for the
// new turn player.
func (p *Player) ClearFlags() { p.Flags = make(map[string]any) }

// HandSize is the number of cards the player currently holds.
func (p *Player) HandSize() int { return p.HandZone.Len() }

// Skills returns the player's currently attached skill instances.
func (p *Player) Skills() []*SkillInstance { return p.skills }
