package service

import (
	"sync"
	"testing"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/game"
)

func seedUser(m *mockRepo, uid, name string, withTeam bool) {
	u := &game.User{PlayerUID: uid, DisplayName: name, Rating: 1000}
	if withTeam {
		u.Team = []game.SavedTeamSlot{
			{SpeciesRef: "pikachu", Level: 50, MoveIDs: game.StringList{"tackle"}},
		}
	}
	m.users[uid] = u
}

func TestPairWaiting_PairsTwoEarliest(t *testing.T) {
	m := newMockRepo()
	seedUser(m, "u1", "Ash", true)
	seedUser(m, "u2", "Gary", true)
	seedUser(m, "u3", "Brock", true)
	base := time.Now()
	m.queue = []game.QueueEntry{
		{Region: "global", PlayerUID: "u1", JoinedAt: base},
		{Region: "global", PlayerUID: "u2", JoinedAt: base.Add(time.Second)},
		{Region: "global", PlayerUID: "u3", JoinedAt: base.Add(2 * time.Second)},
	}

	b, err := PairWaiting(m, serviceCatalog(), "global", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b == nil {
		t.Fatal("expected a battle to be created")
	}
	if b.Sides[0].PlayerUID != "u1" || b.Sides[1].PlayerUID != "u2" {
		t.Fatalf("expected earliest two paired, got %s vs %s", b.Sides[0].PlayerUID, b.Sides[1].PlayerUID)
	}
	if b.Phase != game.PhaseChoosing || b.Turn != 1 || b.Version != 1 {
		t.Fatalf("bad initial state: phase %q turn %d version %d", b.Phase, b.Turn, b.Version)
	}
	if len(m.queue) != 1 || m.queue[0].PlayerUID != "u3" {
		t.Fatalf("expected only u3 left in queue, got %+v", m.queue)
	}
}

func TestPairWaiting_SinglePlayerIsNoOp(t *testing.T) {
	m := newMockRepo()
	seedUser(m, "u1", "Ash", true)
	m.queue = []game.QueueEntry{{Region: "global", PlayerUID: "u1", JoinedAt: time.Now()}}

	b, err := PairWaiting(m, serviceCatalog(), "global", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != nil {
		t.Fatal("no battle should be created for a single waiting player")
	}
	if len(m.queue) != 1 {
		t.Fatal("single waiting player must stay queued")
	}
}

func TestPairWaiting_BrokenRosterDroppedOpponentStays(t *testing.T) {
	m := newMockRepo()
	seedUser(m, "u1", "Ash", false) // no saved team
	seedUser(m, "u2", "Gary", true)
	base := time.Now()
	m.queue = []game.QueueEntry{
		{Region: "global", PlayerUID: "u1", JoinedAt: base},
		{Region: "global", PlayerUID: "u2", JoinedAt: base.Add(time.Second)},
	}

	b, err := PairWaiting(m, serviceCatalog(), "global", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != nil {
		t.Fatal("no battle should be created when a roster is missing")
	}
	if len(m.battles) != 0 {
		t.Fatal("battle document was written despite missing roster")
	}
	if len(m.queue) != 1 || m.queue[0].PlayerUID != "u2" {
		t.Fatalf("expected u2 to remain queued, got %+v", m.queue)
	}
}

func TestPairWaiting_ConcurrentPassesPairOnce(t *testing.T) {
	m := newMockRepo()
	seedUser(m, "u1", "Ash", true)
	seedUser(m, "u2", "Gary", true)
	base := time.Now()
	m.queue = []game.QueueEntry{
		{Region: "kanto", PlayerUID: "u1", JoinedAt: base},
		{Region: "kanto", PlayerUID: "u2", JoinedAt: base.Add(time.Second)},
	}

	// A join handler and a scheduler pass can run at the same time; only one
	// of them may form the pair.
	results := make(chan *game.Battle, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := PairWaiting(m, serviceCatalog(), "kanto", 30*time.Second)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results <- b
		}()
	}
	wg.Wait()
	close(results)

	var created int
	for b := range results {
		if b != nil {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one pass to form the pair, got %d", created)
	}
	if len(m.battles) != 1 {
		t.Fatalf("expected one battle document, got %d", len(m.battles))
	}
	if len(m.queue) != 0 {
		t.Fatalf("expected both players dequeued, got %+v", m.queue)
	}
}

func TestStartBattle_InitialState(t *testing.T) {
	m := newMockRepo()
	seedUser(m, "u1", "Ash", true)
	seedUser(m, "u2", "Gary", true)

	before := time.Now()
	b, err := StartBattle(m, serviceCatalog(), "global", "u1", "u2", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Phase != game.PhaseChoosing {
		t.Fatalf("expected choosing phase, got %q", b.Phase)
	}
	if b.Turn != 1 || b.Version != 1 {
		t.Fatalf("expected turn 1 version 1, got %d/%d", b.Turn, b.Version)
	}
	if b.DeadlineAt.Before(before.Add(29 * time.Second)) {
		t.Fatalf("deadline not a full turn ahead: %v", b.DeadlineAt)
	}
	p := b.Sides[0].Team[0]
	if p.CurrentHP != p.MaxHP || p.MaxHP <= 0 {
		t.Fatalf("stats not frozen from catalog: %+v", p)
	}
	if len(m.log) != 1 || m.log[0].Type != game.LogBattleStart {
		t.Fatalf("expected battle_start log entry, got %+v", m.log)
	}
}
