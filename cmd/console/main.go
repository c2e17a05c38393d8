package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/saeidalz13/battleship-solo/config"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const prompt = "attack (e.g. B,7)> "

func main() {
	configPath := flag.String("config", "usrData.json", "fleet file (.json, .yaml or .yml)")
	seed := flag.Int64("seed", 0, "seed for the opponent; 0 seeds from the clock")
	flag.Parse()

	fleetConfig, err := config.LoadFleetConfig(*configPath)
	if err != nil {
		log.Fatal("failed to load fleet config", "path", *configPath, "err", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Debug("opponent seeded", "seed", *seed)

	if err := run(os.Stdin, os.Stdout, fleetConfig, mb.NewSeededRandom(*seed)); err != nil {
		log.Fatal("game aborted", "err", err)
	}
}

// run plays one game reading commands from in until the game is
// over or in is exhausted. Rejected commands are reported and
// the player is asked again.
func run(in io.Reader, out io.Writer, fleetConfig config.FleetConfig, rng mb.Random) error {
	playerFleet, err := fleetConfig.PlayerPlacements()
	if err != nil {
		return err
	}
	enemyFleet, err := fleetConfig.EnemyPlacements()
	if err != nil {
		return err
	}

	bgm := mb.NewBattleshipGameManager(mb.WithRandomSource(func() mb.Random { return rng }))
	game, _, err := bgm.CreateGame(playerFleet, enemyFleet)
	if err != nil {
		return err
	}
	defer bgm.TerminateGame(game.Uuid())

	playerHits := make(map[mb.Coordinates]bool, mb.TotalShipCells)
	if err := renderBoards(out, game, playerHits); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		command := strings.TrimSpace(scanner.Text())
		if command == "" {
			continue
		}

		result, err := game.SubmitPlayerCommand(command)
		if errors.Is(err, cerr.ErrAttackRejected) {
			fmt.Fprintf(out, "rejected: %v\n", err)
			continue
		}
		if err != nil {
			return err
		}

		if result.Player.IsHit() {
			playerHits[result.Player.Coordinates] = true
		}
		writeTurn(out, result)
		if err := renderBoards(out, game, playerHits); err != nil {
			return err
		}

		if result.GameOver {
			if result.Winner == mb.WinnerPlayer {
				fmt.Fprintln(out, "game over: you sank the enemy fleet")
			} else {
				fmt.Fprintln(out, "game over: the opponent sank your fleet")
			}
			return nil
		}
	}
}

func describeShot(shot mb.Shot) string {
	if shot.SunkShip != "" {
		return fmt.Sprintf("%s %s, sunk %s", label(shot.Coordinates), shot.Outcome, shot.SunkShip)
	}
	return fmt.Sprintf("%s %s", label(shot.Coordinates), shot.Outcome)
}

func writeTurn(w io.Writer, result mb.TurnResult) {
	fmt.Fprintf(w, "you fired at %s\n", describeShot(result.Player))
	fmt.Fprintf(w, "opponent (%s) fired at %s\n", result.OpponentMode, describeShot(result.Opponent))
	fmt.Fprintf(w, "ship cells left: yours %d, enemy %d\n", result.PlayerShipCount, result.OpponentShipCount)
}
