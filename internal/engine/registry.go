package engine

// DefaultSkillRegistry builds a SkillRegistry pre-populated with the
// built-in hero skills, mirroring the shape of a catalog-loaded registry so
// tests and small embedders don't need internal/catalog just to exercise
// the engine. internal/catalog builds a registry the same way from YAML
// instead of this fixed table.
func DefaultSkillRegistry() *SkillRegistry {
	r := NewSkillRegistry()
	r.RegisterSkill("biyue", NewBiyueSkill)
	r.RegisterSkill("ganglie", NewGangLieSkill)
	r.RegisterSkill("jianxiong", NewJianxiongSkill)
	r.RegisterSkill("guicai", NewGuicaiSkill)
	r.RegisterSkill("wushuang", NewWushuangSkill)
	r.RegisterSkill("liuli", NewLiuliSkill)

	r.RegisterHero("diaochan", []string{"biyue", "liuli"})
	r.RegisterHero("huaxiong", []string{"ganglie"})
	r.RegisterHero("caocao", []string{"jianxiong"})
	r.RegisterHero("guojia", []string{"guicai"})
	r.RegisterHero("lvbu", []string{"wushuang"})
	return r
}
