package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/config"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	env, err := config.LoadEnv(".env")
	if err != nil {
		log.Fatal("failed to load env", "err", err)
	}
	log.SetLevel(env.LogLevel)
	log.SetReportTimestamp(true)

	var q sqlc.Querier
	if env.DatabaseUrl != "" {
		q = sqlc.New(db.MustConnectToDb(env.DatabaseUrl, db.DefaultMigrationDir))
	} else {
		log.Warn("DATABASE_URL is empty; analytics disabled")
	}

	bsm := mc.NewBattleshipSessionManager()
	go bsm.CleanupPeriodically()

	rp, err := newRequestProcessor(env, bsm, q)
	if err != nil {
		log.Fatal("failed to set up request processor", "err", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	ipNet := rp.GetIpNet()
	log.Info("listening", "port", env.Port, "stage", env.Stage, "server_ip", ipNet.String())
	if err := http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", env.Port), mux); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// Wires the fleet config and the opponent seed from env into the
// game manager and the request processor.
func newRequestProcessor(env config.Env, sm mc.SessionManager, q sqlc.Querier) (api.RequestProcessor, error) {
	var rpOpts []api.RequestProcessorOption
	if env.FleetConfig != "" {
		fleetConfig, err := config.LoadFleetConfig(env.FleetConfig)
		if err != nil {
			return api.RequestProcessor{}, fmt.Errorf("failed to load fleet config %s: %w", env.FleetConfig, err)
		}
		// catches bad records at startup instead of on the first game
		if _, err := fleetConfig.PlayerPlacements(); err != nil {
			return api.RequestProcessor{}, fmt.Errorf("invalid player fleet in %s: %w", env.FleetConfig, err)
		}
		if _, err := fleetConfig.EnemyPlacements(); err != nil {
			return api.RequestProcessor{}, fmt.Errorf("invalid enemy fleet in %s: %w", env.FleetConfig, err)
		}
		rpOpts = append(rpOpts, api.WithDefaultFleet(fleetConfig))
	}

	var gmOpts []mb.GameManagerOption
	if env.RandomSeed != 0 {
		// every game replays the same opponent; meant for dev only
		gmOpts = append(gmOpts, mb.WithRandomSource(func() mb.Random {
			return mb.NewSeededRandom(env.RandomSeed)
		}))
	}

	bgm := mb.NewBattleshipGameManager(gmOpts...)
	return api.NewRequestProcessor(sm, bgm, q, rpOpts...), nil
}
