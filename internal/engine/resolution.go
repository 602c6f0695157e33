package engine

import "errors"

// ActionDescriptor names what is being attempted: a card use, a response,
// or an active skill activation.
type ActionDescriptor struct {
	Kind       string // "UseCard", "Respond", "ActivateSkill"
	SourceSeat int
	Card       *Card
	SubType    CardSubType
	SkillId    string
	TargetSeats []int
}

// ResolutionResult is what a Resolver reports when it finishes.
type ResolutionResult struct {
	Success bool
	Reason  string
}

// Succeeded is a convenience constructor for the common case.
func Succeeded() ResolutionResult { return ResolutionResult{Success: true} }

// Failed builds a failure result with a reason.
func Failed(reason string) ResolutionResult { return ResolutionResult{Success: false, Reason: reason} }

// Resolver is one unit of the resolution stack. Resolve may mutate state
// via the context's services, push child resolvers (resolved before it is
// considered complete), and read/write ctx.Intermediate.
type Resolver interface {
	Resolve(ctx *ResolutionContext) ResolutionResult
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx *ResolutionContext) ResolutionResult

func (f ResolverFunc) Resolve(ctx *ResolutionContext) ResolutionResult { return f(ctx) }

// LogSink receives internal diagnostics distinct from the player-facing
// event bus (warnings, skipped skill failures, invariant detail).
type LogSink interface {
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	Info(msg string, kv ...any)
}

// ResolutionContext threads everything a resolver needs through the stack:
// the game, the stack itself (so a resolver can push children), every
// service, the active action descriptor, and a keyed intermediate-results
// map for cross-resolver handoff (e.g. LiuliNewTargetSeat).
type ResolutionContext struct {
	Game   *Game
	Stack  *ResolutionStack
	Action ActionDescriptor

	CardMove  *CardMoveService
	Rules     *RuleService
	Skills    *SkillManager
	Judgement *JudgementService
	Bus       *EventBus
	Log       LogSink

	ChoiceCb ChoiceCallback

	PendingDamage *DamageDescriptor

	Intermediate map[string]any
}

// maxChoiceRetries bounds how many times GetPlayerChoice re-issues the same
// request after a malformed answer, so a misbehaving callback can't hang
// resolution in an infinite loop.
const maxChoiceRetries = 3

// GetPlayerChoice is the single suspension point: it invokes the embedder's
// choice callback and validates the answer against the request. A malformed
// answer (InvalidChoice — wrong count, a card/seat/option outside what was
// offered) re-issues the identical request up to maxChoiceRetries times
// before giving up; an answer carrying a different RequestId is returned
// with its error immediately, since it signals the embedder answered a
// different request entirely.
func (ctx *ResolutionContext) GetPlayerChoice(req ChoiceRequest) (ChoiceResult, error) {
	var res ChoiceResult
	var err error
	for attempt := 0; attempt <= maxChoiceRetries; attempt++ {
		res = ctx.ChoiceCb(req)
		err = req.Validate(res)
		if err == nil {
			return res, nil
		}
		var ce *CoreError
		if !errors.As(err, &ce) || ce.Kind != InvalidChoice || res.RequestId != req.RequestId {
			return res, err
		}
	}
	return res, err
}

// Get reads an intermediate result by key.
func (ctx *ResolutionContext) Get(key string) any { return ctx.Intermediate[key] }

// Set writes an intermediate result by key.
func (ctx *ResolutionContext) Set(key string, v any) { ctx.Intermediate[key] = v }

// Well-known intermediate-result keys.
const (
	KeyJudgementRequest   = "JudgementRequest"
	KeyJudgementResult    = "JudgementResult"
	KeyLiuliNewTargetSeat = "LiuliNewTargetSeat"
	KeyResponseWindowResult = "ResponseWindowResult"
)

// ResolutionStack runs resolvers to completion against one shared
// ResolutionContext. Order of observable mutation matches a depth-first
// recursive reading: a resolver that needs children calls RunChild inline,
// so the caller's remaining logic executes only after the child (and
// everything it pushes) has fully resolved.
type ResolutionStack struct {
	ctx *ResolutionContext
}

// NewResolutionStack builds a stack bound to a context.
func NewResolutionStack(ctx *ResolutionContext) *ResolutionStack {
	s := &ResolutionStack{ctx: ctx}
	ctx.Stack = s
	return s
}

// RunChild runs a resolver to completion immediately, inline, so the
// caller's remaining logic executes only after the child (and everything
// it pushes) has fully resolved — this is how "children fully resolved
// before parent completes" is realized without a trampoline.
func (s *ResolutionStack) RunChild(r Resolver) ResolutionResult {
	return r.Resolve(s.ctx)
}

// NewResolutionContext builds a context for driving one top-level action.
func NewResolutionContext(g *Game, action ActionDescriptor, choiceCb ChoiceCallback, log LogSink) *ResolutionContext {
	ctx := &ResolutionContext{
		Game:         g,
		Action:       action,
		CardMove:     g.CardMove,
		Rules:        g.Rules,
		Skills:       g.Skills,
		Judgement:    g.Judgement,
		Bus:          g.Bus,
		Log:          log,
		ChoiceCb:     choiceCb,
		Intermediate: make(map[string]any),
	}
	NewResolutionStack(ctx)
	g.activeContext = ctx
	return ctx
}
