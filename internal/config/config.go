package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/game"
)

type rawConfig struct {
	SpeciesList []game.Species  `json:"species_list"`
	MoveList    []game.MoveData `json:"move_list"`
	Server      *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Turn deadline in seconds; defaults to 30.
	TurnTimeoutSeconds int `json:"turn_timeout_seconds"`
	// Sweep interval in seconds; defaults to 5.
	SweepIntervalSeconds int `json:"sweep_interval_seconds"`
	// Timeout policy for an idle player: "pass" (default) or "forfeit".
	TimeoutPolicy string `json:"timeout_policy"`
	// Regions with an active matchmaking queue; defaults to ["global"].
	Regions []string `json:"regions"`
}

// LoadedConfig contains the species/move catalogs and the server settings.
type LoadedConfig struct {
	Species       []game.Species
	Moves         []game.MoveData
	ServerAddress string
	TurnTimeout   time.Duration
	SweepInterval time.Duration
	TimeoutPolicy string
	Regions       []string
}

var validTypes = map[game.PokemonType]struct{}{
	game.TypeNormal: {}, game.TypeFire: {}, game.TypeWater: {}, game.TypeElectric: {},
	game.TypeGrass: {}, game.TypeIce: {}, game.TypeFighting: {}, game.TypePoison: {},
	game.TypeGround: {}, game.TypeFlying: {}, game.TypePsychic: {}, game.TypeBug: {},
	game.TypeRock: {}, game.TypeGhost: {}, game.TypeDragon: {}, game.TypeDark: {},
	game.TypeSteel: {}, game.TypeFairy: {},
}

var validStats = map[game.StatName]struct{}{
	game.StatAttack: {}, game.StatDefense: {}, game.StatSpAttack: {},
	game.StatSpDefense: {}, game.StatSpeed: {}, game.StatAccuracy: {},
	game.StatEvasion: {},
}

// LoadConfig reads the configuration file at path and returns the catalogs
// and server settings. It requires the keys `species_list` and `move_list`.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.SpeciesList) == 0 {
		return nil, fmt.Errorf("config file %s: species_list is empty (provide 'species_list' array)", path)
	}
	if len(rc.MoveList) == 0 {
		return nil, fmt.Errorf("config file %s: move_list is empty (provide 'move_list' array)", path)
	}

	refSet := make(map[string]struct{}, len(rc.SpeciesList))
	for _, s := range rc.SpeciesList {
		if strings.TrimSpace(s.Ref) == "" || strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("config file %s: species entry missing 'ref' or 'name'", path)
		}
		if _, exists := refSet[s.Ref]; exists {
			return nil, fmt.Errorf("config file %s: duplicate species ref '%s'", path, s.Ref)
		}
		refSet[s.Ref] = struct{}{}
		if len(s.Types) < 1 || len(s.Types) > 2 {
			return nil, fmt.Errorf("config file %s: species '%s' must have one or two types", path, s.Ref)
		}
		for _, t := range s.Types {
			if _, ok := validTypes[t]; !ok {
				return nil, fmt.Errorf("config file %s: species '%s' has unknown type '%s'", path, s.Ref, t)
			}
		}
	}

	idSet := make(map[string]struct{}, len(rc.MoveList))
	for _, m := range rc.MoveList {
		if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("config file %s: move entry missing 'id' or 'name'", path)
		}
		if _, exists := idSet[m.ID]; exists {
			return nil, fmt.Errorf("config file %s: duplicate move id '%s'", path, m.ID)
		}
		idSet[m.ID] = struct{}{}
		if _, ok := validTypes[m.Type]; !ok {
			return nil, fmt.Errorf("config file %s: move '%s' has unknown type '%s'", path, m.ID, m.Type)
		}
		switch m.Category {
		case game.CategoryPhysical, game.CategorySpecial:
			if m.Power <= 0 {
				return nil, fmt.Errorf("config file %s: damaging move '%s' needs positive power", path, m.ID)
			}
		case game.CategoryStatus:
			if m.Power != 0 {
				return nil, fmt.Errorf("config file %s: status move '%s' must have zero power", path, m.ID)
			}
		default:
			return nil, fmt.Errorf("config file %s: move '%s' has unknown category '%s'", path, m.ID, m.Category)
		}
		if m.PP <= 0 {
			return nil, fmt.Errorf("config file %s: move '%s' needs positive pp", path, m.ID)
		}
		if m.StatusChance < 0 || m.StatusChance > 100 {
			return nil, fmt.Errorf("config file %s: move '%s' status_chance out of range", path, m.ID)
		}
		for _, sc := range m.StatChanges {
			if _, ok := validStats[sc.Stat]; !ok {
				return nil, fmt.Errorf("config file %s: move '%s' has unknown stat '%s'", path, m.ID, sc.Stat)
			}
			if sc.Stages == 0 || sc.Stages < -6 || sc.Stages > 6 {
				return nil, fmt.Errorf("config file %s: move '%s' stat change stages must be in -6..6 and non-zero", path, m.ID)
			}
		}
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	turnTimeout := 30 * time.Second
	if rc.TurnTimeoutSeconds > 0 {
		turnTimeout = time.Duration(rc.TurnTimeoutSeconds) * time.Second
	}
	sweep := 5 * time.Second
	if rc.SweepIntervalSeconds > 0 {
		sweep = time.Duration(rc.SweepIntervalSeconds) * time.Second
	}
	policy := "pass"
	if rc.TimeoutPolicy != "" {
		if rc.TimeoutPolicy != "pass" && rc.TimeoutPolicy != "forfeit" {
			return nil, fmt.Errorf("config file %s: unknown timeout_policy '%s'", path, rc.TimeoutPolicy)
		}
		policy = rc.TimeoutPolicy
	}
	regions := rc.Regions
	if len(regions) == 0 {
		regions = []string{"global"}
	}

	return &LoadedConfig{
		Species:       rc.SpeciesList,
		Moves:         rc.MoveList,
		ServerAddress: addr,
		TurnTimeout:   turnTimeout,
		SweepInterval: sweep,
		TimeoutPolicy: policy,
		Regions:       regions,
	}, nil
}
