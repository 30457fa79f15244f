package cli

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saeidalz13/battleship-solo/internal/config"
	"github.com/saeidalz13/battleship-solo/internal/logger"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	seedFlag  int64
	rulesFlag string
	envFlag   string

	env   *config.Env
	rules mb.Rules
)

var rootCmd = &cobra.Command{
	Use:   "battleship",
	Short: "Battleship against the computer",
	Long: `Battleship pits you against a computer opponent that hunts on a
checkerboard pattern and closes in on every ship it hits.

Play in the terminal, serve games over websocket, or benchmark the
computer's search with simulate.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("battleship version {{.Version}}\n")

	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "seed for ship placement and the computer's shots (0 picks one from the clock)")
	rootCmd.PersistentFlags().StringVar(&rulesFlag, "rules", "", "YAML rules file with board_size and fleet (overrides RULES_FILE)")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env-file", ".env", "dotenv file loaded outside the prod stage")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadSettings(cmd *cobra.Command, args []string) error {
	var err error
	env, err = config.LoadEnv(envFlag)
	if err != nil {
		return err
	}
	logger.Init(env.LogLevel, !env.IsProd())

	rulesFile := env.RulesFile
	if rulesFlag != "" {
		rulesFile = rulesFlag
	}
	rules, err = config.LoadRules(rulesFile)
	if err != nil {
		return err
	}

	log.Debug().
		Str("stage", env.Stage).
		Int("boardSize", rules.BoardSize).
		Int("fleetSize", len(rules.Fleet)).
		Msg("settings loaded")
	return nil
}

func effectiveSeed() int64 {
	if seedFlag != 0 {
		return seedFlag
	}
	return time.Now().UnixNano()
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(effectiveSeed()))
}
