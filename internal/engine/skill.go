package engine

// SkillType classifies how a skill is invoked.
type SkillType int

const (
	SkillLocked SkillType = iota
	SkillTrigger
	SkillActive
)

func (t SkillType) String() string {
	switch t {
	case SkillLocked:
		return "Locked"
	case SkillTrigger:
		return "Trigger"
	case SkillActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// Role identifies one of the optional interfaces a Skill may implement.
type Role int

const (
	RoleJudgementModifier Role = iota
	RoleCardConversion
	RoleResponseAssistance
	RoleResponseRequirementModifying
	RoleTargetFiltering
	RoleTargetModifying
	RoleDistanceIgnoring
)

// Skill is the base identity every concrete skill value implements. A
// skill additionally implements any subset of the role interfaces in this
// package (IJudgementModifier, ICardConversionSkill, ...); Roles reports
// which roles a given skill value satisfies.
type Skill interface {
	Id() string
	Name() string
	Type() SkillType
}

// Roles returns the set of roles a skill implements, used at attach time
// to populate the SkillManager's per-role index. Skills that implement no
// optional role (a plain trigger skill acting only through the event bus)
// return nil.
func Roles(s Skill) []Role {
	var roles []Role
	if _, ok := s.(IJudgementModifier); ok {
		roles = append(roles, RoleJudgementModifier)
	}
	if _, ok := s.(ICardConversionSkill); ok {
		roles = append(roles, RoleCardConversion)
	}
	if _, ok := s.(IResponseAssistanceSkill); ok {
		roles = append(roles, RoleResponseAssistance)
	}
	if _, ok := s.(IResponseRequirementModifyingSkill); ok {
		roles = append(roles, RoleResponseRequirementModifying)
	}
	if _, ok := s.(ITargetFilteringSkill); ok {
		roles = append(roles, RoleTargetFiltering)
	}
	if _, ok := s.(ITargetModifyingSkill); ok {
		roles = append(roles, RoleTargetModifying)
	}
	if _, ok := s.(IDistanceIgnoringSkill); ok {
		roles = append(roles, RoleDistanceIgnoring)
	}
	return roles
}

// ICardConversionSkill lets a skill produce a virtual card overriding a
// physical card's subtype for one use (e.g. red -> Slash).
type ICardConversionSkill interface {
	CreateVirtualCard(physical *Card, g *Game, ownerSeat int) *VirtualCard
}

// IResponseAssistanceSkill lets faction-mates supply a response card on
// behalf of the owner within a response window (e.g. Hujia).
type IResponseAssistanceSkill interface {
	AssistingSeats(ctx *ResolutionContext, ownerSeat int) []int
}

// IResponseRequirementModifyingSkill changes RequiredResponseCount for a
// response window (e.g. Wushuang).
type IResponseRequirementModifyingSkill interface {
	ModifyRequiredCount(ctx *ResolutionContext, win *ResponseWindowContext, base int) int
}

// ITargetFilteringSkill removes candidate targets from legality (e.g.
// Qianxun excluding the owner from certain cards).
type ITargetFilteringSkill interface {
	FilterTargets(ctx *ResolutionContext, card EffectiveView, sourceSeat int, candidates []int) []int
}

// ITargetModifyingSkill redirects a target at resolution time (e.g. Liuli).
type ITargetModifyingSkill interface {
	ModifyTarget(ctx *ResolutionContext, sourceSeat, currentTargetSeat int, choiceCb ChoiceCallback) (newTarget int, redirected bool)
}

// IDistanceIgnoringSkill removes the distance check for certain cards (e.g.
// Qicai for trick cards).
type IDistanceIgnoringSkill interface {
	IgnoresDistance(ctx *ResolutionContext, card EffectiveView, sourceSeat int) bool
}

// SkillFactory constructs a fresh skill instance for an owner seat.
type SkillFactory func(ownerSeat int) Skill

// SkillRegistry is the embedder-populated mapping from skill id to factory
// and from hero id to the skill ids that hero grants.
type SkillRegistry struct {
	factories map[string]SkillFactory
	heroes    map[string][]string
}

// NewSkillRegistry builds an empty registry.
func NewSkillRegistry() *SkillRegistry {
	return &SkillRegistry{factories: make(map[string]SkillFactory), heroes: make(map[string][]string)}
}

// RegisterSkill adds a skill factory under its id.
func (r *SkillRegistry) RegisterSkill(id string, factory SkillFactory) {
	r.factories[id] = factory
}

// RegisterHero declares the skill ids a hero grants at game start.
func (r *SkillRegistry) RegisterHero(heroId string, skillIds []string) {
	r.heroes[heroId] = skillIds
}

// SkillsForHero returns the skill ids configured for a hero, or nil.
func (r *SkillRegistry) SkillsForHero(heroId string) []string { return r.heroes[heroId] }

// SkillInstance is one attached skill, bound to an owner seat.
type SkillInstance struct {
	Id         string
	OwnerSeat  int
	Impl       Skill
	Roles      []Role
	busTokens  []int
	suppressed bool
}

func (si *SkillInstance) hasRole(r Role) bool {
	for _, rr := range si.Roles {
		if rr == r {
			return true
		}
	}
	return false
}

// SkillManager owns per-player attached skill instances, wires/unwires
// event subscriptions on attach/detach, and is the single point rule
// services consult for role-indexed queries.
type SkillManager struct {
	game      *Game
	instances []*SkillInstance
}

// NewSkillManager builds the manager bound to a game.
func NewSkillManager(g *Game) *SkillManager { return &SkillManager{game: g} }

// Attach instantiates skillId for ownerSeat from the game's registry,
// wires trigger subscriptions if it implements TriggerSkill, and indexes
// its roles.
func (m *SkillManager) Attach(ownerSeat int, skillId string) error {
	if m.game.SkillRegistry == nil {
		return NewCoreError(InvariantViolation, "no skill registry configured")
	}
	factory, ok := m.game.SkillRegistry.factories[skillId]
	if !ok {
		return NewCoreError(InvariantViolation, "unknown skill id: "+skillId)
	}
	impl := factory(ownerSeat)
	si := &SkillInstance{Id: skillId, OwnerSeat: ownerSeat, Impl: impl, Roles: Roles(impl)}
	if trig, ok := impl.(TriggerSkill); ok {
		for _, kind := range trig.TriggersOn() {
			prio := m.game.Bus.NextGroupPriority()
			token := m.game.Bus.SubscribeTagged(kind, ownerSeat, prio, func(ctx *ResolutionContext, ev Event) error {
				if si.suppressed || !m.isOwnerAlive(ownerSeat) {
					return nil
				}
				return trig.OnEvent(ctx, ownerSeat, ev)
			})
			si.busTokens = append(si.busTokens, token)
		}
	}
	m.instances = append(m.instances, si)
	owner := m.game.Player(ownerSeat)
	if owner != nil {
		owner.skills = append(owner.skills, si)
	}
	return nil
}

// Detach removes a skill instance (death removes hero skills, unequip
// removes equipment skills).
func (m *SkillManager) Detach(ownerSeat int, skillId string) {
	kept := m.instances[:0]
	for _, si := range m.instances {
		if si.OwnerSeat == ownerSeat && si.Id == skillId {
			for _, tok := range si.busTokens {
				m.game.Bus.Unsubscribe(tok)
			}
			continue
		}
		kept = append(kept, si)
	}
	m.instances = kept
	if owner := m.game.Player(ownerSeat); owner != nil {
		keptSkills := owner.skills[:0]
		for _, si := range owner.skills {
			if si.Id != skillId {
				keptSkills = append(keptSkills, si)
			}
		}
		owner.skills = keptSkills
	}
}

// DetachAll removes every skill owned by a seat (called on death).
func (m *SkillManager) DetachAll(ownerSeat int) {
	for _, si := range append([]*SkillInstance{}, m.instancesFor(ownerSeat)...) {
		m.Detach(ownerSeat, si.Id)
	}
}

func (m *SkillManager) instancesFor(ownerSeat int) []*SkillInstance {
	var out []*SkillInstance
	for _, si := range m.instances {
		if si.OwnerSeat == ownerSeat {
			out = append(out, si)
		}
	}
	return out
}

func (m *SkillManager) isOwnerAlive(seat int) bool {
	p := m.game.Player(seat)
	return p != nil && p.IsAlive
}

// ActiveSkills returns every attached-and-active skill instance for a seat.
func (m *SkillManager) ActiveSkills(seat int) []*SkillInstance {
	if !m.isOwnerAlive(seat) {
		return nil
	}
	var out []*SkillInstance
	for _, si := range m.instancesFor(seat) {
		if !si.suppressed {
			out = append(out, si)
		}
	}
	return out
}

// ActiveSkillsWithRole returns active skill instances for a seat that
// implement the given role.
func (m *SkillManager) ActiveSkillsWithRole(seat int, role Role) []*SkillInstance {
	var out []*SkillInstance
	for _, si := range m.ActiveSkills(seat) {
		if si.hasRole(role) {
			out = append(out, si)
		}
	}
	return out
}

// AllActiveSkillsWithRole scans every alive player for active skills
// implementing a role, in seat order starting from the given seat.
func (m *SkillManager) AllActiveSkillsWithRole(fromSeat int, role Role) []*SkillInstance {
	var out []*SkillInstance
	for _, seat := range m.game.SeatsClockwiseFrom(fromSeat, true) {
		out = append(out, m.ActiveSkillsWithRole(seat, role)...)
	}
	return out
}

// TriggerSkill is the event-bus-facing half of a Trigger-type skill.
type TriggerSkill interface {
	Skill
	TriggersOn() []EventKind
	OnEvent(ctx *ResolutionContext, ownerSeat int, ev Event) error
}
