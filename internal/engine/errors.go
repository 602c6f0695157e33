package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a core error per the five-kind taxonomy: whether the
// game must abort or the action can simply be rejected and retried.
type ErrorKind int

const (
	// InvariantViolation means state is already corrupt (card in two
	// zones, damage to a dead player). Fatal.
	InvariantViolation ErrorKind = iota
	// IllegalAction means the player attempted something the rules forbid
	// (card not in hand, illegal target, wrong phase). Recoverable.
	IllegalAction
	// InvalidChoice means a ChoiceResult does not satisfy the constraints
	// of the ChoiceRequest it answers. Recoverable.
	InvalidChoice
	// ExhaustedDeck means no cards exist anywhere to satisfy a draw, even
	// after reshuffling the discard pile. Recoverable.
	ExhaustedDeck
	// SkillFailure means a skill modifier misbehaved (e.g. returned a
	// card the owner doesn't hold). Recoverable — log and skip it.
	SkillFailure
)

func (k ErrorKind) String() string {
	switch k {
	case InvariantViolation:
		return "InvariantViolation"
	case IllegalAction:
		return "IllegalAction"
	case InvalidChoice:
		return "InvalidChoice"
	case ExhaustedDeck:
		return "ExhaustedDeck"
	case SkillFailure:
		return "SkillFailure"
	default:
		return "Unknown"
	}
}

// Fatal reports whether this kind of error must abort the game rather than
// simply reject the triggering action.
func (k ErrorKind) Fatal() bool { return k == InvariantViolation }

// CoreError is the error type every core-visible failure wraps, so callers
// can branch on Kind with errors.As instead of string matching.
type CoreError struct {
	Kind    ErrorKind
	Reason  string
	Wrapped error
}

func (e *CoreError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *CoreError) Unwrap() error { return e.Wrapped }

// NewCoreError builds a CoreError without an underlying cause.
func NewCoreError(kind ErrorKind, reason string) *CoreError {
	return &CoreError{Kind: kind, Reason: reason}
}

// WrapCoreError builds a CoreError around an underlying cause.
func WrapCoreError(kind ErrorKind, reason string, cause error) *CoreError {
	return &CoreError{Kind: kind, Reason: reason, Wrapped: cause}
}

// SurfaceError publishes the observer-visible event a failure at a
// top-level action boundary (TurnEngine.AdvancePhase, CardUseService.UseCard)
// must produce: ActionRejectedEvent for a recoverable CoreError,
// GameAbortedEvent for one whose Kind.Fatal() or for an error that isn't a
// CoreError at all (treated as the worse case). Returns err unchanged so
// callers keep propagating it; only call this once per boundary, not at
// every intermediate return, or the same failure surfaces twice.
func SurfaceError(ctx *ResolutionContext, err error) error {
	if err == nil {
		return nil
	}
	var ce *CoreError
	fatal := true
	if errors.As(err, &ce) {
		fatal = ce.Kind.Fatal()
	}
	kind := ActionRejectedEvent
	if fatal {
		kind = GameAbortedEvent
	}
	if pubErr := ctx.Bus.Publish(ctx.Game.CurrentPlayerSeat, Event{Kind: kind, Reason: err.Error()}); pubErr != nil {
		return pubErr
	}
	return err
}
