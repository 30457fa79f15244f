package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

var gamesFlag int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Measure how many shots the computer needs to sink a fleet",
	Long: `Places a random fleet on a fresh board for every game and lets the
computer's hunt and target search fire at it until every ship is sunk.
Prints the fewest, most and average shots over all games.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&gamesFlag, "games", 100, "number of games to simulate")
	rootCmd.AddCommand(simulateCmd)
}

type simulationStats struct {
	Games      int
	TotalShots int
	MinShots   int
	MaxShots   int
}

func (s simulationStats) Average() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalShots) / float64(s.Games)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if gamesFlag <= 0 {
		return fmt.Errorf("--games must be positive, got %d", gamesFlag)
	}

	start := time.Now()
	stats, err := simulate(rules, gamesFlag, newRand())
	if err != nil {
		return err
	}

	log.Debug().
		Int("games", stats.Games).
		Dur("elapsed", time.Since(start)).
		Msg("simulation finished")

	fmt.Fprintf(cmd.OutOrStdout(),
		"games: %d\nboard: %dx%d\nshots min: %d\nshots max: %d\nshots avg: %.2f\n",
		stats.Games, rules.BoardSize, rules.BoardSize, stats.MinShots, stats.MaxShots, stats.Average(),
	)
	return nil
}

func simulate(rules mb.Rules, games int, rng *rand.Rand) (simulationStats, error) {
	var stats simulationStats

	for i := 0; i < games; i++ {
		board := mb.NewBoard(rules.BoardSize)
		if err := mb.PlaceFleetRandomly(board, rules.Fleet, rng); err != nil {
			return stats, err
		}

		shots, err := sinkFleet(board, mb.NewAdversarySearch(rng))
		if err != nil {
			return stats, err
		}

		if stats.Games == 0 || shots < stats.MinShots {
			stats.MinShots = shots
		}
		stats.MaxShots = max(stats.MaxShots, shots)
		stats.TotalShots += shots
		stats.Games++
	}
	return stats, nil
}

func sinkFleet(board *mb.Board, adversary *mb.AdversarySearch) (int, error) {
	var shots int
	for !board.AllSunk() {
		target, err := adversary.NextCoordinate(board)
		if err != nil {
			return shots, err
		}

		result, err := board.ReceiveAttack(target.X, target.Y)
		if err != nil {
			return shots, err
		}
		adversary.ObserveResult(board, target, result)
		shots++
	}
	return shots, nil
}
