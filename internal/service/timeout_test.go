package service

import (
	"testing"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/game"
)

func TestHandleTimedOutBattle_BothIdleEndsWithoutWinner(t *testing.T) {
	m := newMockRepo()
	b := seedBattle(m, "t1")

	if err := HandleTimedOutBattle(m, serviceCatalog(), cloneBattle(b), 30*time.Second, PolicyPass); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.battles["t1"]
	if got.Phase != game.PhaseComplete {
		t.Fatalf("expected complete phase, got %q", got.Phase)
	}
	if got.Winner != "" {
		t.Fatalf("expected no winner, got %q", got.Winner)
	}
	if got.EndedReason != game.EndedInactivity {
		t.Fatalf("expected inactivity reason, got %q", got.EndedReason)
	}
}

func TestHandleTimedOutBattle_OneIdlePassResolvesTurn(t *testing.T) {
	m := newMockRepo()
	seedBattle(m, "t2")
	cat := serviceCatalog()

	if _, _, err := SubmitChoice(m, cat, "t2", "u1", game.ActionMove, 0, 1, 30*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := HandleTimedOutBattle(m, cat, cloneBattle(m.battles["t2"]), 30*time.Second, PolicyPass); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.battles["t2"]
	if got.Phase != game.PhaseChoosing {
		t.Fatalf("expected battle to continue, got phase %q", got.Phase)
	}
	if got.Turn != 2 || got.Version != 2 {
		t.Fatalf("expected forced resolution to advance to turn 2 version 2, got %d/%d", got.Turn, got.Version)
	}
}

func TestHandleTimedOutBattle_OneIdleForfeitPolicy(t *testing.T) {
	m := newMockRepo()
	seedBattle(m, "t3")
	cat := serviceCatalog()

	if _, _, err := SubmitChoice(m, cat, "t3", "u2", game.ActionMove, 0, 1, 30*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := HandleTimedOutBattle(m, cat, cloneBattle(m.battles["t3"]), 30*time.Second, PolicyForfeit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.battles["t3"]
	if got.Phase != game.PhaseComplete || got.Winner != "u2" {
		t.Fatalf("expected u2 to win on timeout, got phase %q winner %q", got.Phase, got.Winner)
	}
	if got.EndedReason != game.EndedTimeout {
		t.Fatalf("expected timeout reason, got %q", got.EndedReason)
	}
}

func TestHandleTimedOutBattle_AlreadyResolvedIsNoOp(t *testing.T) {
	m := newMockRepo()
	b := seedBattle(m, "t4")
	cat := serviceCatalog()

	// Resolve the turn normally first.
	if _, _, err := SubmitChoice(m, cat, "t4", "u1", game.ActionMove, 0, 1, 30*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, resolved, err := SubmitChoice(m, cat, "t4", "u2", game.ActionMove, 0, 1, 30*time.Second); err != nil || !resolved {
		t.Fatalf("setup resolution failed: resolved=%v err=%v", resolved, err)
	}

	// Hand the sweeper the stale pre-resolution snapshot.
	stale := cloneBattle(b)
	if err := HandleTimedOutBattle(m, cat, stale, 30*time.Second, PolicyPass); err != nil {
		t.Fatalf("stale sweep must be harmless: %v", err)
	}
	got := m.battles["t4"]
	if got.Turn != 2 || got.Version != 2 {
		t.Fatalf("stale sweep mutated the battle: turn %d version %d", got.Turn, got.Version)
	}
}
