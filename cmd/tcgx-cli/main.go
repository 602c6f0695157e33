// Command tcgx-cli drives a local game of the core against a catalog file,
// advancing phases automatically and answering every choice request with a
// scripted-random policy. It exercises internal/engine and internal/catalog
// end to end without a network layer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/lianhua-dev/sgscore/internal/catalog"
	"github.com/lianhua-dev/sgscore/internal/corelog"
	"github.com/lianhua-dev/sgscore/internal/engine"
)

func main() {
	catalogFile := flag.String("catalog", "catalog.yaml", "path to the card/hero catalog YAML file")
	seed := flag.Int64("seed", 1, "RNG seed for shuffling and random choices")
	maxTurns := flag.Int("max-turns", 200, "safety cap on phase advances before giving up")
	heroes := flag.String("heroes", "", "comma-separated hero ids, one per seat (defaults to no hero)")
	seats := flag.Int("seats", 2, "number of seats when -heroes is empty")
	flag.Parse()

	log := corelog.NewConsole()

	deck, registry, err := catalog.Load(*catalogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
		os.Exit(1)
	}

	heroIds := splitNonEmpty(*heroes)
	n := *seats
	if len(heroIds) > 0 {
		n = len(heroIds)
	}
	if n < 2 {
		fmt.Fprintln(os.Stderr, "need at least 2 seats")
		os.Exit(1)
	}

	cfg := engine.GameConfig{
		DeckConfig:    deck,
		Seed:          *seed,
		SkillRegistry: registry,
	}
	for i := 0; i < n; i++ {
		hero := ""
		if i < len(heroIds) {
			hero = heroIds[i]
		}
		cfg.PlayerConfigs = append(cfg.PlayerConfigs, engine.PlayerConfig{
			Seat: i, HeroId: hero, MaxHealth: 4, InitialHealth: 4,
		})
	}

	g, err := engine.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build game: %v\n", err)
		os.Exit(1)
	}

	chooser := randomChooser{rng: rand.New(rand.NewSource(*seed ^ 0x5bd1e995))}
	ctx := engine.NewResolutionContext(g, engine.ActionDescriptor{}, chooser.Callback, log)
	engine.NewResolutionStack(ctx)
	turns := engine.NewTurnEngine(g)

	for i := 0; i < *maxTurns && !g.Result.Over; i++ {
		if err := turns.AdvancePhase(ctx); err != nil {
			var ce *engine.CoreError
			if errors.As(err, &ce) && !ce.Kind.Fatal() {
				log.Warn("recoverable error advancing phase", "error", err.Error())
				continue
			}
			fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
			os.Exit(1)
		}
	}

	if g.Result.Over {
		fmt.Printf("game over: seat %d wins (%s)\n", g.Result.WinnerSeat, g.Result.Reason)
		return
	}
	fmt.Println("max-turns reached without a decided game")
}

func splitNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// randomChooser answers every ChoiceRequest with a random legal answer:
// confirmations are accepted or declined at random, card selections pick
// MinCount random cards (one when MinCount is 0 and any are allowed),
// target selections pick one random seat, and option selections are
// declined. It exists so the CLI can run a full game unattended;
// an interactive front end would replace this with a real ChoiceCallback.
type randomChooser struct {
	rng *rand.Rand
}

func (r randomChooser) Callback(req engine.ChoiceRequest) engine.ChoiceResult {
	switch req.Type {
	case engine.ChoiceConfirm:
		return engine.ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: r.rng.Intn(2) == 0}
	case engine.ChoiceSelectCards:
		need := req.MinCount
		if need == 0 && len(req.AllowedCards) > 0 {
			need = 1
		}
		if need > len(req.AllowedCards) {
			return engine.DeclinedChoice(req)
		}
		picked := make([]*engine.Card, 0, need)
		idx := r.rng.Perm(len(req.AllowedCards))
		for _, i := range idx[:need] {
			picked = append(picked, req.AllowedCards[i])
		}
		return engine.ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: len(picked) > 0, SelectedCards: picked}
	case engine.ChoiceSelectTargets:
		if len(req.AllowedSeats) == 0 {
			return engine.DeclinedChoice(req)
		}
		seat := req.AllowedSeats[r.rng.Intn(len(req.AllowedSeats))]
		return engine.ChoiceResult{RequestId: req.RequestId, Seat: req.Seat, Confirmed: true, SelectedSeats: []int{seat}}
	default:
		return engine.DeclinedChoice(req)
	}
}
