package main

import (
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/betexcr/pokemon-sub007/internal/game"
	"github.com/betexcr/pokemon-sub007/internal/logging"
	"github.com/betexcr/pokemon-sub007/internal/service"
	"github.com/betexcr/pokemon-sub007/internal/storage"
	"github.com/go-co-op/gocron/v2"
)

// startSchedulers runs the timeout sweep and the periodic matchmaking pass.
// The sweep finds battles whose deadline elapsed and force-resolves them; the
// matchmaking pass pairs players who joined a queue without triggering an
// immediate match. Returns the scheduler so the caller can shut it down.
func startSchedulers(repo storage.Repository, catalog *game.Catalog, turnTimeout, sweepInterval time.Duration, policy service.TimeoutPolicy, regions []string) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			now := time.Now()
			battles, err := repo.FindTimedOutBattles(now)
			if err != nil {
				logging.Error("timeout sweep failed to list battles", err, nil)
				return
			}
			for i := range battles {
				b := &battles[i]
				if err := service.HandleTimedOutBattle(repo, catalog, b, turnTimeout, policy); err != nil {
					logging.Error("failed to force-resolve battle", err, logging.Fields{
						constants.LogFieldBattleUID: b.BattleUID,
					})
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			for _, region := range regions {
				for {
					b, err := service.PairWaiting(repo, catalog, region, turnTimeout)
					if err != nil {
						logging.Error("matchmaking pass failed", err, logging.Fields{
							constants.LogFieldRegion: region,
						})
						break
					}
					if b == nil {
						break
					}
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
