package engine

import (
	"testing"

	"github.com/betexcr/pokemon-sub007/internal/game"
)

func testCatalog() *game.Catalog {
	acc100 := 100
	return game.NewCatalog(
		[]game.Species{
			{Ref: "pikachu", Name: "Pikachu", Types: []game.PokemonType{game.TypeElectric},
				Stats: game.BaseStats{HP: 35, Attack: 55, Defense: 40, SpAttack: 50, SpDefense: 50, Speed: 90}},
			{Ref: "golem", Name: "Golem", Types: []game.PokemonType{game.TypeRock, game.TypeGround},
				Stats: game.BaseStats{HP: 80, Attack: 120, Defense: 130, SpAttack: 55, SpDefense: 65, Speed: 45}},
			{Ref: "charmander", Name: "Charmander", Types: []game.PokemonType{game.TypeFire},
				Stats: game.BaseStats{HP: 39, Attack: 52, Defense: 43, SpAttack: 60, SpDefense: 50, Speed: 65}},
		},
		[]game.MoveData{
			{ID: "thunderbolt", Name: "Thunderbolt", Type: game.TypeElectric, Category: game.CategorySpecial,
				Power: 90, PP: 15, StatusChance: 10, Inflicts: game.StatusParalyzed},
			{ID: "thunder-wave", Name: "Thunder Wave", Type: game.TypeElectric, Category: game.CategoryStatus,
				Accuracy: &acc100, PP: 20, StatusChance: 100, Inflicts: game.StatusParalyzed},
			{ID: "tackle", Name: "Tackle", Type: game.TypeNormal, Category: game.CategoryPhysical,
				Power: 40, PP: 35},
			{ID: "quick-attack", Name: "Quick Attack", Type: game.TypeNormal, Category: game.CategoryPhysical,
				Power: 40, PP: 30, Priority: 1},
			{ID: "swords-dance", Name: "Swords Dance", Type: game.TypeNormal, Category: game.CategoryStatus,
				PP: 20, StatChanges: []game.StatChange{{Stat: game.StatAttack, Stages: 2, Self: true}}},
			{ID: "growl", Name: "Growl", Type: game.TypeNormal, Category: game.CategoryStatus,
				Accuracy: &acc100, PP: 40, StatChanges: []game.StatChange{{Stat: game.StatAttack, Stages: -1}}},
		},
	)
}

func testPokemon(ref string, level int, cat *game.Catalog, moves ...string) game.BattlePokemon {
	s, _ := cat.Species(ref)
	p := game.BattlePokemon{
		SpeciesRef: ref,
		Level:      level,
		MaxHP:      CalculateHP(s.Stats.HP, level),
		Attack:     CalculateStat(s.Stats.Attack, level),
		Defense:    CalculateStat(s.Stats.Defense, level),
		SpAttack:   CalculateStat(s.Stats.SpAttack, level),
		SpDefense:  CalculateStat(s.Stats.SpDefense, level),
		Speed:      CalculateStat(s.Stats.Speed, level),
	}
	p.CurrentHP = p.MaxHP
	for i, id := range moves {
		m, _ := cat.Move(id)
		p.MoveIDs = append(p.MoveIDs, game.MoveSlot{SlotIndex: i, MoveID: id, PP: m.PP})
	}
	return p
}

func testBattle(cat *game.Catalog, p1, p2 game.BattlePokemon) *game.Battle {
	return &game.Battle{
		BattleUID: "b-test",
		Phase:     game.PhaseChoosing,
		Turn:      1,
		Version:   1,
		RNGSeed:   42,
		Sides: []game.BattleSide{
			{Slot: 1, PlayerUID: "u1", PlayerName: "Ash", Team: []game.BattlePokemon{p1}},
			{Slot: 2, PlayerUID: "u2", PlayerName: "Gary", Team: []game.BattlePokemon{p2}},
		},
	}
}

func TestElectricImmunityZeroEffectiveness(t *testing.T) {
	eff := GetTypeEffectiveness(game.TypeElectric, []game.PokemonType{game.TypeRock, game.TypeGround})
	if eff != 0 {
		t.Fatalf("expected 0 effectiveness for electric vs rock/ground, got %v", eff)
	}
}

func TestImmunityOverridesWeakness(t *testing.T) {
	// Ground is weak to water but flying/ground is immune to ground moves.
	eff := GetTypeEffectiveness(game.TypeGround, []game.PokemonType{game.TypeFlying, game.TypeFire})
	if eff != 0 {
		t.Fatalf("expected flying immunity to zero the product, got %v", eff)
	}
}

func TestElectricMoveDealsZeroDamageToGroundType(t *testing.T) {
	cat := testCatalog()
	pika := testPokemon("pikachu", 50, cat, "thunderbolt")
	golem := testPokemon("golem", 50, cat, "tackle")
	b := testBattle(cat, pika, golem)

	startHP := b.Sides[1].Team[0].CurrentHP
	entries := ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionPass},
	}, cat)

	if got := b.Sides[1].Team[0].CurrentHP; got != startHP {
		t.Fatalf("immune target lost HP: %d -> %d", startHP, got)
	}
	for _, e := range entries {
		if e.Type == game.LogDamageDealt && e.Damage != 0 {
			t.Fatalf("damage entry with non-zero damage against immune target: %+v", e)
		}
	}
}

func TestStatusMoveParalyzesWithoutDamage(t *testing.T) {
	cat := testCatalog()
	pika := testPokemon("pikachu", 50, cat, "thunder-wave")
	char := testPokemon("charmander", 50, cat, "tackle")
	// Make the target slower so paralysis cannot cancel its move this turn
	// before the wave lands.
	b := testBattle(cat, pika, char)

	startHP := b.Sides[1].Team[0].CurrentHP
	ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionPass},
	}, cat)

	target := &b.Sides[1].Team[0]
	if target.Status != game.StatusParalyzed {
		t.Fatalf("expected paralysis, got %q", target.Status)
	}
	if target.CurrentHP != startHP {
		t.Fatalf("status move dealt damage: %d -> %d", startHP, target.CurrentHP)
	}
}

func TestResolveTurnAdvancesTurnAndVersion(t *testing.T) {
	cat := testCatalog()
	b := testBattle(cat, testPokemon("pikachu", 50, cat, "tackle"), testPokemon("golem", 50, cat, "tackle"))

	ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionMove, Payload: 0},
	}, cat)

	if b.Turn != 2 {
		t.Fatalf("expected turn 2, got %d", b.Turn)
	}
	if b.Version != 2 {
		t.Fatalf("expected version 2, got %d", b.Version)
	}
	if b.Phase != game.PhaseChoosing {
		t.Fatalf("expected choosing phase, got %q", b.Phase)
	}
}

func TestResolveTurnDeterministicReplay(t *testing.T) {
	cat := testCatalog()
	choices := map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionMove, Payload: 0},
	}
	b1 := testBattle(cat, testPokemon("pikachu", 50, cat, "thunderbolt"), testPokemon("charmander", 50, cat, "tackle"))
	b2 := testBattle(cat, testPokemon("pikachu", 50, cat, "thunderbolt"), testPokemon("charmander", 50, cat, "tackle"))

	e1 := ResolveTurn(b1, choices, cat)
	e2 := ResolveTurn(b2, choices, cat)

	if len(e1) != len(e2) {
		t.Fatalf("replay produced %d entries vs %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i].Message != e2[i].Message || e1[i].Damage != e2[i].Damage {
			t.Fatalf("replay diverged at entry %d: %+v vs %+v", i, e1[i], e2[i])
		}
	}
	if b1.RNGCursor != b2.RNGCursor {
		t.Fatalf("rng cursors diverged: %d vs %d", b1.RNGCursor, b2.RNGCursor)
	}
}

func TestPriorityBeatsSpeed(t *testing.T) {
	cat := testCatalog()
	// Golem is far slower but quick-attack has +1 priority.
	golem := testPokemon("golem", 50, cat, "quick-attack")
	pika := testPokemon("pikachu", 50, cat, "tackle")
	b := testBattle(cat, pika, golem)
	b.Sides[1].Team[0].CurrentHP = 1
	b.Sides[0].Team[0].CurrentHP = 1

	entries := ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionMove, Payload: 0},
	}, cat)

	var firstMove string
	for _, e := range entries {
		if e.Type == game.LogMoveUsed {
			firstMove = e.Move
			break
		}
	}
	if firstMove != "Quick Attack" {
		t.Fatalf("expected priority move to act first, first move was %q", firstMove)
	}
}

func TestSelfStatRaisingMove(t *testing.T) {
	cat := testCatalog()
	pika := testPokemon("pikachu", 50, cat, "swords-dance")
	golem := testPokemon("golem", 50, cat, "tackle")
	b := testBattle(cat, pika, golem)

	entries := ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionPass},
	}, cat)

	if got := b.Sides[0].Team[0].AttackStage; got != 2 {
		t.Fatalf("expected attack stage 2 after swords dance, got %d", got)
	}
	var logged bool
	for _, e := range entries {
		if e.Type == game.LogStatChange && e.Status == string(game.StatAttack) {
			logged = true
		}
	}
	if !logged {
		t.Fatal("expected a stat_change log entry")
	}
}

func TestStatLoweringMoveHitsOpponent(t *testing.T) {
	cat := testCatalog()
	pika := testPokemon("pikachu", 50, cat, "growl")
	golem := testPokemon("golem", 50, cat, "tackle")
	b := testBattle(cat, pika, golem)

	ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionPass},
	}, cat)

	if got := b.Sides[1].Team[0].AttackStage; got != -1 {
		t.Fatalf("expected attack stage -1 after growl, got %d", got)
	}
}

func TestStatStagePinsAtSix(t *testing.T) {
	cat := testCatalog()
	pika := testPokemon("pikachu", 50, cat, "swords-dance")
	golem := testPokemon("golem", 50, cat, "tackle")
	b := testBattle(cat, pika, golem)
	b.Sides[0].Team[0].AttackStage = 6

	entries := ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionPass},
	}, cat)

	if got := b.Sides[0].Team[0].AttackStage; got != 6 {
		t.Fatalf("expected attack stage pinned at 6, got %d", got)
	}
	var pinned bool
	for _, e := range entries {
		if e.Type == game.LogStatChange && e.Message == "Pikachu's Attack won't go any higher!" {
			pinned = true
		}
	}
	if !pinned {
		t.Fatal("expected a won't-go-any-higher log entry")
	}
}

func TestStagesResetOnSwitchOut(t *testing.T) {
	cat := testCatalog()
	pika := testPokemon("pikachu", 50, cat, "tackle")
	char := testPokemon("charmander", 50, cat, "tackle")
	golem := testPokemon("golem", 50, cat, "tackle")
	char.TeamIndex = 1
	b := testBattle(cat, pika, golem)
	b.Sides[0].Team = append(b.Sides[0].Team, char)
	b.Sides[0].Team[0].AttackStage = 3
	b.Sides[0].Team[0].EvasionStage = 2

	ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionSwitch, Payload: 1},
		"u2": {PlayerUID: "u2", Action: game.ActionPass},
	}, cat)

	out := &b.Sides[0].Team[0]
	if out.AttackStage != 0 || out.EvasionStage != 0 {
		t.Fatalf("expected stages cleared on switch-out, got atk %d eva %d", out.AttackStage, out.EvasionStage)
	}
}

func TestAccuracyStageScaling(t *testing.T) {
	if got := ApplyAccuracyStage(100, 0, 6); got != 33 {
		t.Fatalf("expected 33 percent against +6 evasion, got %d", got)
	}
	if got := ApplyAccuracyStage(100, 6, 0); got != 300 {
		t.Fatalf("expected 300 percent at +6 accuracy, got %d", got)
	}
	if got := ApplyAccuracyStage(100, -3, 3); got != 33 {
		t.Fatalf("expected the net stage to clamp at -6, got %d", got)
	}
}

func TestRaisedAttackIncreasesDamage(t *testing.T) {
	cat := testCatalog()
	base := testPokemon("pikachu", 50, cat, "tackle")
	boosted := testPokemon("pikachu", 50, cat, "tackle")
	boosted.AttackStage = 2
	target := testPokemon("golem", 50, cat, "tackle")
	move, _ := cat.Move("tackle")

	baseRes := CalculateDamageDetailed(&base, &target, []game.PokemonType{game.TypeElectric},
		[]game.PokemonType{game.TypeRock, game.TypeGround}, move, NewRNG(9, 0))
	boostRes := CalculateDamageDetailed(&boosted, &target, []game.PokemonType{game.TypeElectric},
		[]game.PokemonType{game.TypeRock, game.TypeGround}, move, NewRNG(9, 0))

	if boostRes.Damage <= baseRes.Damage {
		t.Fatalf("expected +2 attack to raise damage: %d vs %d", baseRes.Damage, boostRes.Damage)
	}
}

func TestKnockoutCompletesBattle(t *testing.T) {
	cat := testCatalog()
	pika := testPokemon("pikachu", 50, cat, "tackle")
	char := testPokemon("charmander", 50, cat, "tackle")
	b := testBattle(cat, pika, char)
	b.Sides[1].Team[0].CurrentHP = 1

	ResolveTurn(b, map[string]game.ChoiceRecord{
		"u1": {PlayerUID: "u1", Action: game.ActionMove, Payload: 0},
		"u2": {PlayerUID: "u2", Action: game.ActionPass},
	}, cat)

	if b.Phase != game.PhaseComplete {
		t.Fatalf("expected complete phase, got %q", b.Phase)
	}
	if b.Winner != "u1" {
		t.Fatalf("expected u1 to win, got %q", b.Winner)
	}
	if b.EndedReason != game.EndedKnockout {
		t.Fatalf("expected knockout, got %q", b.EndedReason)
	}
}
