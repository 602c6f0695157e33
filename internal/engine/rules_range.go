package engine

// RuleService is the family of pure predicates over game state, each of
// which may be modified by the skill framework through registered
// modifiers looked up live (there is no separate modifier-registration
// step; the skill manager's role index is consulted on every query).
type RuleService struct {
	game *Game

	// weaponRange / defenseDistance are the live per-seat modifiers
	// Recalculate rebuilds from equipped cards. weaponRangeByDefId maps a
	// weapon's catalog definition id to its range bonus — supplied by the
	// embedder's GameConfig, not a process-wide registry, so multiple
	// games with different catalogs can coexist.
	weaponRange         map[int]int
	defenseDistance     map[int]int
	weaponRangeByDefId  map[int]int
}

// NewRuleService builds the service bound to a game.
func NewRuleService(g *Game) *RuleService {
	return &RuleService{
		game:               g,
		weaponRange:        make(map[int]int),
		defenseDistance:    make(map[int]int),
		weaponRangeByDefId: g.VariantWeaponRanges,
	}
}

// SetWeaponRange installs the attack-range bonus a seat's equipped weapon
// grants (0 clears it).
func (r *RuleService) SetWeaponRange(seat, rng int) { r.weaponRange[seat] = rng }

// SetDefenseDistance installs the defense-distance bonus a seat's
// defensive horse grants.
func (r *RuleService) SetDefenseDistance(seat, bonus int) { r.defenseDistance[seat] = bonus }

// GetSeatDistance is the shorter arc around the live seating ring, plus
// any defense-distance modifier owned by b (increases distance from a's
// perspective), never less than 1.
func (r *RuleService) GetSeatDistance(a, b int) int {
	d := r.game.SeatDistance(a, b)
	d += r.defenseDistance[b]
	if d < 1 {
		d = 1
	}
	return d
}

// GetAttackRange is 1 plus the seat's weapon range bonus.
func (r *RuleService) GetAttackRange(seat int) int {
	return 1 + r.weaponRange[seat]
}

// CanAttack reports whether a can target b with a range-gated card,
// ignoring distance entirely when an IDistanceIgnoringSkill says so.
func (r *RuleService) CanAttack(ctx *ResolutionContext, card EffectiveView, a, b int) bool {
	if a == b {
		return false
	}
	for _, si := range r.game.Skills.ActiveSkillsWithRole(a, RoleDistanceIgnoring) {
		if si.Impl.(IDistanceIgnoringSkill).IgnoresDistance(ctx, card, a) {
			return true
		}
	}
	return r.GetSeatDistance(a, b) <= r.GetAttackRange(a)
}

// Recalculate strips and reapplies the equipment-derived modifiers (weapon
// range, defense distance). CardMoveService.Move invokes it whenever a card
// enters or leaves an equipment zone, and DeathResolver and EquipResolver
// call it too, generalizing the teacher's recalculateContinuousEffects
// pass: rather than recomputing range/distance inline at every query site,
// this walks every alive player's equipment once and rebuilds the two
// modifier maps from scratch. No skill is consulted here.
func (r *RuleService) Recalculate() {
	r.weaponRange = make(map[int]int)
	r.defenseDistance = make(map[int]int)
	for _, p := range r.game.AlivePlayers() {
		for _, c := range p.EquipmentZone.Cards {
			switch c.SubType {
			case Weapon:
				if bonus, ok := r.weaponRangeByDefId[c.DefId]; ok {
					r.weaponRange[p.Seat] = bonus
				}
			case DefensiveHorse:
				r.defenseDistance[p.Seat] = 1
			}
		}
	}
}
