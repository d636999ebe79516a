package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/engine"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/google/uuid"
)

// StartRepo is the minimal repository interface required by battle creation.
type StartRepo interface {
	GetUserByUID(playerUID string) (*game.User, error)
	CreateBattle(b *game.Battle) error
	AppendLogEntries(entries []game.LogEntry) error
}

var (
	ErrRosterMissing = errors.New("player has no saved team")
	ErrRosterInvalid = errors.New("saved team failed validation")
)

const (
	defaultFormat  = "singles"
	defaultRuleSet = "gen9-no-weather"
)

// StartBattle creates and persists a fresh battle between two players. Both
// players must have a valid saved roster; derived stats are frozen from the
// catalog at this point. The new battle starts at turn 1, version 1, in the
// choosing phase with a full turn deadline.
func StartBattle(repo StartRepo, catalog *game.Catalog, region, p1UID, p2UID string, turnTimeout time.Duration) (*game.Battle, error) {
	now := time.Now()
	b := &game.Battle{
		BattleUID:  uuid.NewString(),
		Format:     defaultFormat,
		RuleSet:    defaultRuleSet,
		Region:     region,
		Phase:      game.PhaseChoosing,
		Turn:       1,
		Version:    1,
		DeadlineAt: now.Add(turnTimeout),
		RNGSeed:    uuid.New().ID(),
	}

	for slot, uid := range []string{p1UID, p2UID} {
		u, err := repo.GetUserByUID(uid)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrRosterMissing, uid)
		}
		team, err := buildTeam(catalog, u.Team)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", uid, err)
		}
		b.Sides = append(b.Sides, game.BattleSide{
			Slot:       slot + 1,
			PlayerUID:  uid,
			PlayerName: u.DisplayName,
			Team:       team,
		})
	}

	if err := repo.CreateBattle(b); err != nil {
		return nil, err
	}
	_ = repo.AppendLogEntries([]game.LogEntry{{
		BattleID: b.ID,
		Turn:     1,
		Type:     game.LogBattleStart,
		Message: fmt.Sprintf("Battle started between %s and %s!",
			b.Sides[0].PlayerName, b.Sides[1].PlayerName),
	}})
	return b, nil
}

// buildTeam freezes catalog stats into battle rows for one saved roster.
func buildTeam(catalog *game.Catalog, slots []game.SavedTeamSlot) ([]game.BattlePokemon, error) {
	if len(slots) == 0 {
		return nil, ErrRosterMissing
	}
	if len(slots) > 6 {
		return nil, ErrRosterInvalid
	}
	team := make([]game.BattlePokemon, 0, len(slots))
	for i, slot := range slots {
		s, ok := catalog.Species(slot.SpeciesRef)
		if !ok {
			return nil, fmt.Errorf("%w: unknown species %q", ErrRosterInvalid, slot.SpeciesRef)
		}
		level := slot.Level
		if level < 1 || level > 100 {
			return nil, fmt.Errorf("%w: level %d out of range", ErrRosterInvalid, level)
		}
		p := game.BattlePokemon{
			TeamIndex:  i,
			SpeciesRef: slot.SpeciesRef,
			Level:      level,
			MaxHP:      engine.CalculateHP(s.Stats.HP, level),
			Attack:     engine.CalculateStat(s.Stats.Attack, level),
			Defense:    engine.CalculateStat(s.Stats.Defense, level),
			SpAttack:   engine.CalculateStat(s.Stats.SpAttack, level),
			SpDefense:  engine.CalculateStat(s.Stats.SpDefense, level),
			Speed:      engine.CalculateStat(s.Stats.Speed, level),
		}
		p.CurrentHP = p.MaxHP
		if len(slot.MoveIDs) == 0 || len(slot.MoveIDs) > 4 {
			return nil, fmt.Errorf("%w: %d moves on %s", ErrRosterInvalid, len(slot.MoveIDs), slot.SpeciesRef)
		}
		for j, id := range slot.MoveIDs {
			m, ok := catalog.Move(id)
			if !ok {
				return nil, fmt.Errorf("%w: unknown move %q", ErrRosterInvalid, id)
			}
			p.MoveIDs = append(p.MoveIDs, game.MoveSlot{SlotIndex: j, MoveID: id, PP: m.PP})
		}
		team = append(team, p)
	}
	return team, nil
}
