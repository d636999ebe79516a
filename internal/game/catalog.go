package game

// PokemonType is a canonical elemental type name. Using constants avoids
// typos and keeps chart lookups consistent.
type PokemonType string

const (
	TypeNormal   PokemonType = "normal"
	TypeFire     PokemonType = "fire"
	TypeWater    PokemonType = "water"
	TypeElectric PokemonType = "electric"
	TypeGrass    PokemonType = "grass"
	TypeIce      PokemonType = "ice"
	TypeFighting PokemonType = "fighting"
	TypePoison   PokemonType = "poison"
	TypeGround   PokemonType = "ground"
	TypeFlying   PokemonType = "flying"
	TypePsychic  PokemonType = "psychic"
	TypeBug      PokemonType = "bug"
	TypeRock     PokemonType = "rock"
	TypeGhost    PokemonType = "ghost"
	TypeDragon   PokemonType = "dragon"
	TypeDark     PokemonType = "dark"
	TypeSteel    PokemonType = "steel"
	TypeFairy    PokemonType = "fairy"
)

// MoveCategory selects the attack/defense stat pair used by the damage
// formula. Status moves deal no direct damage.
type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

// BaseStats are the species' six base values before level scaling.
type BaseStats struct {
	HP        int `json:"hp"`
	Attack    int `json:"atk"`
	Defense   int `json:"def"`
	SpAttack  int `json:"spa"`
	SpDefense int `json:"spd"`
	Speed     int `json:"spe"`
}

// Species describes one catalog entry. The catalog is loaded from the server
// config file and never persisted; battle rows freeze derived stats instead.
type Species struct {
	Ref   string        `json:"ref"`
	Name  string        `json:"name"`
	Types []PokemonType `json:"types"`
	Stats BaseStats     `json:"stats"`
}

// StatName identifies one of the stageable battle stats.
type StatName string

const (
	StatAttack    StatName = "attack"
	StatDefense   StatName = "defense"
	StatSpAttack  StatName = "sp_attack"
	StatSpDefense StatName = "sp_defense"
	StatSpeed     StatName = "speed"
	StatAccuracy  StatName = "accuracy"
	StatEvasion   StatName = "evasion"
)

// StatChange is a stage adjustment a move applies when it hits. Self targets
// the user, otherwise the opposing active Pokémon.
type StatChange struct {
	Stat   StatName `json:"stat"`
	Stages int      `json:"stages"`
	Self   bool     `json:"self"`
}

// MoveData describes one move from the config catalog.
type MoveData struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     PokemonType  `json:"type"`
	Category MoveCategory `json:"category"`
	Power    int          `json:"power"`
	// Accuracy is a percentage; nil means the move never misses.
	Accuracy *int `json:"accuracy"`
	Priority int  `json:"priority"`
	PP       int  `json:"pp"`
	// StatusChance is the percent chance to inflict Inflicts on the target.
	StatusChance int             `json:"status_chance"`
	Inflicts     StatusCondition `json:"inflicts"`
	FlinchChance int             `json:"flinch_chance"`
	// HealFraction heals the user by maxHP/HealFraction (0 = no healing).
	HealFraction int  `json:"heal_fraction"`
	HighCrit     bool `json:"high_crit"`
	// StatChanges apply after damage and secondary effects, in order.
	StatChanges []StatChange `json:"stat_changes"`
}

// Catalog bundles the species and move tables for fast lookup.
type Catalog struct {
	species map[string]Species
	moves   map[string]MoveData
}

// NewCatalog builds lookup maps from the configured lists.
func NewCatalog(species []Species, moves []MoveData) *Catalog {
	c := &Catalog{
		species: make(map[string]Species, len(species)),
		moves:   make(map[string]MoveData, len(moves)),
	}
	for _, s := range species {
		c.species[s.Ref] = s
	}
	for _, m := range moves {
		c.moves[m.ID] = m
	}
	return c
}

// Species returns the catalog entry for ref, if present.
func (c *Catalog) Species(ref string) (Species, bool) {
	s, ok := c.species[ref]
	return s, ok
}

// Move returns the catalog entry for id, if present.
func (c *Catalog) Move(id string) (MoveData, bool) {
	m, ok := c.moves[id]
	return m, ok
}
