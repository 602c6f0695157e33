// Package catalog loads the declarative card/hero manifest that configures
// one game: which physical cards exist, which skills each hero grants, and
// what a weapon's range bonus is. The core never reads this data itself —
// engine.FromConfig only consumes the engine.DeckConfig and
// engine.SkillRegistry values this package produces.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lianhua-dev/sgscore/internal/engine"
)

// Manifest is the top-level YAML structure: a flat card manifest and a
// hero roster, mirroring the teacher's DeckFile/DeckEntry/CardEntry shape
// but for a single shared deck plus a hero table instead of named decks.
type Manifest struct {
	Cards  []CardEntry  `yaml:"cards"`
	Heroes []HeroEntry  `yaml:"heroes"`
	Skills []SkillEntry `yaml:"skills"`
}

// CardEntry describes one physical card (or a run of identical cards via
// Count).
type CardEntry struct {
	DefId   int    `yaml:"defId"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`    // "Basic" | "Trick" | "Equip"
	SubType string `yaml:"subType"` // e.g. "Slash", "Weapon"
	Suit    string `yaml:"suit"`
	Rank    int    `yaml:"rank"`
	Count   int    `yaml:"count"`
	// Range is only meaningful for Weapon subtype entries: the attack
	// range bonus the weapon grants while equipped.
	Range int `yaml:"range"`
	// ResponsePriority sets the card's speed on the response-admission
	// ladder (engine.Card.ResponsePriority). Defaults to 0.
	ResponsePriority int `yaml:"responsePriority"`
}

// HeroEntry names a hero and the skill ids it grants.
type HeroEntry struct {
	Id     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

// SkillEntry declares that a skill id named in the manifest resolves to a
// built-in engine skill factory. The catalog does not implement skill
// logic itself — it only binds ids to the engine's registered factories,
// the same "data configures which skills attach to which hero" boundary
// spec.md §1 draws for the catalog.
type SkillEntry struct {
	Id          string `yaml:"id"`
	BuiltinName string `yaml:"builtin"`
}

var builtinFactories = map[string]engine.SkillFactory{
	"biyue":     engine.NewBiyueSkill,
	"ganglie":   engine.NewGangLieSkill,
	"jianxiong": engine.NewJianxiongSkill,
	"guicai":    engine.NewGuicaiSkill,
	"wushuang":  engine.NewWushuangSkill,
	"liuli":     engine.NewLiuliSkill,
}

var suitTable = map[string]engine.Suit{
	"Spade": engine.Spade, "Club": engine.Club, "Heart": engine.Heart, "Diamond": engine.Diamond,
}

var cardTypeTable = map[string]engine.CardType{
	"Basic": engine.CardTypeBasic, "Trick": engine.CardTypeTrick, "Equip": engine.CardTypeEquip,
}

var subTypeTable = map[string]engine.CardSubType{
	"Slash": engine.Slash, "Dodge": engine.Dodge, "Peach": engine.Peach,
	"WuzhongShengyou": engine.WuzhongShengyou, "TaoyuanJieyi": engine.TaoyuanJieyi,
	"ShunshouQianyang": engine.ShunshouQianyang, "GuoheChaiqiao": engine.GuoheChaiqiao,
	"WanjianQifa": engine.WanjianQifa, "NanmanRushin": engine.NanmanRushin, "Duel": engine.Duel,
	"Lebusishu": engine.Lebusishu, "Shandian": engine.Shandian, "Weapon": engine.Weapon,
	"Armor": engine.Armor, "DefensiveHorse": engine.DefensiveHorse, "OffensiveHorse": engine.OffensiveHorse,
}

// Load reads a YAML manifest file and builds an engine.DeckConfig plus a
// populated engine.SkillRegistry.
func Load(path string) (engine.DeckConfig, *engine.SkillRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.DeckConfig{}, nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a DeckConfig and SkillRegistry from raw YAML bytes.
func Parse(data []byte) (engine.DeckConfig, *engine.SkillRegistry, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return engine.DeckConfig{}, nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	deck := engine.DeckConfig{WeaponRangeByDefId: make(map[int]int)}
	nextId := 1
	for _, entry := range m.Cards {
		ct, ok := cardTypeTable[entry.Type]
		if !ok {
			return deck, nil, fmt.Errorf("unknown card type %q for %q", entry.Type, entry.Name)
		}
		st := subTypeTable[entry.SubType]
		suit := suitTable[entry.Suit]
		if st == engine.Weapon && entry.Range > 0 {
			deck.WeaponRangeByDefId[entry.DefId] = entry.Range
		}
		count := entry.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			deck.Cards = append(deck.Cards, &engine.Card{
				Id: engine.CardId(nextId), DefId: entry.DefId, Name: entry.Name,
				CardType: ct, SubType: st, Suit: suit, Rank: entry.Rank,
				ResponsePriority: entry.ResponsePriority,
			})
			nextId++
		}
	}

	reg := engine.NewSkillRegistry()
	for _, se := range m.Skills {
		factory, ok := builtinFactories[se.BuiltinName]
		if !ok {
			return deck, nil, fmt.Errorf("unknown builtin skill %q for id %q", se.BuiltinName, se.Id)
		}
		reg.RegisterSkill(se.Id, factory)
	}
	for _, h := range m.Heroes {
		reg.RegisterHero(h.Id, h.Skills)
	}
	return deck, reg, nil
}
