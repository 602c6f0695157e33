package engine

import "testing"

// ScriptedChooser is a ChoiceCallback that answers from a pre-loaded
// script, matched by ChoiceRequest.Key in order. Unscripted requests get a
// safe default: decline confirms, select nothing for cards/targets/options.
// This mirrors the teacher's ScriptedController, but the engine's whole
// suspension surface is one function, so there is only one script queue.
type ScriptedChooser struct {
	t       *testing.T
	answers map[string][]func(ChoiceRequest) ChoiceResult
	pos     map[string]int
}

// NewScriptedChooser builds an empty chooser.
func NewScriptedChooser(t *testing.T) *ScriptedChooser {
	return &ScriptedChooser{t: t, answers: make(map[string][]func(ChoiceRequest) ChoiceResult), pos: make(map[string]int)}
}

// Confirm queues a yes/no answer for requests with the given key.
func (s *ScriptedChooser) Confirm(key string, yes bool) *ScriptedChooser {
	s.answers[key] = append(s.answers[key], func(req ChoiceRequest) ChoiceResult {
		return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: yes}
	})
	return s
}

// SelectCards queues a card-selection answer, picking allowed cards whose
// Name matches one of names, in AllowedCards order.
func (s *ScriptedChooser) SelectCards(key string, names ...string) *ScriptedChooser {
	s.answers[key] = append(s.answers[key], func(req ChoiceRequest) ChoiceResult {
		var picked []*Card
		for _, n := range names {
			for _, c := range req.AllowedCards {
				if c.Name == n && !containsCard(picked, c) {
					picked = append(picked, c)
					break
				}
			}
		}
		return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: len(picked) > 0, SelectedCards: picked}
	})
	return s
}

// SelectCardsById queues a card-selection answer by exact CardId.
func (s *ScriptedChooser) SelectCardsById(key string, ids ...CardId) *ScriptedChooser {
	s.answers[key] = append(s.answers[key], func(req ChoiceRequest) ChoiceResult {
		var picked []*Card
		for _, id := range ids {
			for _, c := range req.AllowedCards {
				if c.Id == id {
					picked = append(picked, c)
				}
			}
		}
		return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: len(picked) > 0, SelectedCards: picked}
	})
	return s
}

// SelectSeats queues a target-selection answer.
func (s *ScriptedChooser) SelectSeats(key string, seats ...int) *ScriptedChooser {
	s.answers[key] = append(s.answers[key], func(req ChoiceRequest) ChoiceResult {
		return ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: true, SelectedSeats: seats}
	})
	return s
}

// Decline queues a "decline/select nothing" answer regardless of type.
func (s *ScriptedChooser) Decline(key string) *ScriptedChooser {
	s.answers[key] = append(s.answers[key], func(req ChoiceRequest) ChoiceResult {
		return DeclinedChoice(req)
	})
	return s
}

// Callback returns the ChoiceCallback to pass into a ResolutionContext.
func (s *ScriptedChooser) Callback() ChoiceCallback {
	return func(req ChoiceRequest) ChoiceResult {
		queue := s.answers[req.Key]
		i := s.pos[req.Key]
		if i >= len(queue) {
			return DeclinedChoice(req)
		}
		s.pos[req.Key] = i + 1
		return queue[i](req)
	}
}

// Calls reports how many times a key has been asked so far.
func (s *ScriptedChooser) Calls(key string) int { return s.pos[key] }

// testLog is a LogSink that records to *testing.T.
type testLog struct{ t *testing.T }

func (l testLog) Info(msg string, kv ...any)  { l.t.Logf("INFO  %s %v", msg, kv) }
func (l testLog) Warn(msg string, kv ...any)  { l.t.Logf("WARN  %s %v", msg, kv) }
func (l testLog) Error(msg string, kv ...any) { l.t.Logf("ERROR %s %v", msg, kv) }

// card is a small helper to build a physical card for tests.
func card(id int, name string, ct CardType, st CardSubType, suit Suit, rank int) *Card {
	return &Card{Id: CardId(id), DefId: id, Name: name, CardType: ct, SubType: st, Suit: suit, Rank: rank}
}

// twoPlayerGame builds a minimal game with the given draw-pile cards (index
// 0 drawn first) and the given heroes, wired with DefaultSkillRegistry.
func twoPlayerGame(t *testing.T, drawPile []*Card, hero0, hero1 string) *Game {
	t.Helper()
	cfg := GameConfig{
		PlayerConfigs: []PlayerConfig{
			{Seat: 0, HeroId: hero0, MaxHealth: 4, InitialHealth: 4},
			{Seat: 1, HeroId: hero1, MaxHealth: 4, InitialHealth: 4},
		},
		DeckConfig:    DeckConfig{Cards: drawPile},
		Seed:          1,
		SkillRegistry: DefaultSkillRegistry(),
	}
	g, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	// Tests build the draw pile in the exact order they want drawn; undo
	// FromConfig's shuffle by re-seating the configured order on top.
	g.DrawPile.Cards = append([]*Card{}, drawPile...)
	return g
}

func newTestContext(g *Game, action ActionDescriptor, chooser *ScriptedChooser, t *testing.T) *ResolutionContext {
	return NewResolutionContext(g, action, chooser.Callback(), testLog{t})
}
