package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/saeidalz13/battleship-solo/internal/render"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

var revealFlag bool

var errQuit = errors.New("player quit")

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: `Starts a game against the computer in the terminal.

Place each ship with a starting coordinate such as A5 and an orientation
(H or V), or type auto to place the rest of the fleet randomly. Type q at
any prompt to leave the game.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&revealFlag, "reveal", false, "show the computer's ships")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameManager := mb.NewBattleshipGameManager()
	if seedFlag != 0 {
		gameManager = gameManager.WithSeed(seedFlag)
	}

	game, err := gameManager.CreateGame(rules)
	if err != nil {
		return err
	}
	defer gameManager.TerminateGame(game.Uuid())

	log.Debug().Str("gameUuid", game.Uuid()).Msg("terminal game created")
	return newTerminalGame(cmd.InOrStdin(), cmd.OutOrStdout(), game, revealFlag).run()
}

type terminalGame struct {
	scanner *bufio.Scanner
	out     io.Writer
	game    *mb.Game
	reveal  bool
}

func newTerminalGame(in io.Reader, out io.Writer, game *mb.Game, reveal bool) *terminalGame {
	return &terminalGame{
		scanner: bufio.NewScanner(in),
		out:     out,
		game:    game,
		reveal:  reveal,
	}
}

func (tg *terminalGame) run() error {
	fmt.Fprintln(tg.out, "=== Welcome to Battleship ===")

	err := tg.placeFleet()
	if err == nil {
		err = tg.battle()
	}

	if errors.Is(err, errQuit) {
		fmt.Fprintln(tg.out, "\nGoodbye.")
		log.Info().Str("gameUuid", tg.game.Uuid()).Msg("player left the game")
		return nil
	}
	if err != nil {
		return err
	}

	if err := render.Boards(tg.out, tg.game.PlayerBoard(), tg.game.ComputerBoard(), true); err != nil {
		return err
	}
	log.Info().
		Str("gameUuid", tg.game.Uuid()).
		Stringer("winner", tg.game.Winner()).
		Interface("scoreboard", tg.game.Scoreboard()).
		Msg("game finished")
	return render.Summary(tg.out, tg.game.Winner(), tg.game.Scoreboard())
}

func (tg *terminalGame) placeFleet() error {
	fmt.Fprintln(tg.out, "Place your ships on the board:")
	size := tg.game.Rules().BoardSize

	for {
		spec, ok := tg.game.NextShipToPlace()
		if !ok {
			return nil
		}
		tg.printRows(render.Board(tg.game.PlayerBoard(), true))

		fmt.Fprintf(tg.out, "Place your %s (Size: %d)\n", spec.Name, spec.Length)
		line, err := tg.prompt("Enter starting coordinate (e.g., A5) or auto: ")
		if err != nil {
			return err
		}

		if strings.EqualFold(line, "auto") {
			return tg.game.AutoPlacePlayerFleet()
		}

		c, err := mb.ParseCoordinate(line, size)
		if err != nil {
			fmt.Fprintln(tg.out, "Invalid coordinate. Try again.")
			continue
		}

		line, err = tg.prompt("Enter orientation (H for horizontal, V for vertical): ")
		if err != nil {
			return err
		}
		orientation, err := mb.ParseOrientation(line)
		if err != nil {
			fmt.Fprintln(tg.out, "Invalid orientation. Try again.")
			continue
		}

		if _, err := tg.game.PlacePlayerShip(c.X, c.Y, orientation); err != nil {
			fmt.Fprintln(tg.out, "Invalid placement. Try again.")
		}
	}
}

func (tg *terminalGame) battle() error {
	fmt.Fprintln(tg.out, "\nAll ships placed. Let the battle begin!")

	for !tg.game.IsFinished() {
		if !tg.game.IsPlayerTurn() {
			if err := tg.computerTurn(); err != nil {
				return err
			}
			continue
		}

		if err := tg.playerTurn(); err != nil {
			return err
		}
	}
	return nil
}

func (tg *terminalGame) playerTurn() error {
	if err := render.Boards(tg.out, tg.game.PlayerBoard(), tg.game.ComputerBoard(), tg.reveal); err != nil {
		return err
	}
	if err := render.Scoreboard(tg.out, tg.game.Scoreboard()); err != nil {
		return err
	}

	for {
		line, err := tg.prompt("Enter coordinate to attack (e.g., B6): ")
		if err != nil {
			return err
		}

		c, err := mb.ParseCoordinate(line, tg.game.Rules().BoardSize)
		if err != nil {
			fmt.Fprintln(tg.out, "Invalid coordinate. Try again.")
			continue
		}

		report, err := tg.game.PlayerAttack(c.X, c.Y)
		switch {
		case errors.Is(err, cerr.ErrAlreadyAttacked):
			fmt.Fprintln(tg.out, "You've already attacked this coordinate. Try again.")
			continue
		case err != nil:
			return err
		}

		if !report.Result.IsHit() {
			fmt.Fprintln(tg.out, "You missed.")
			return nil
		}

		fmt.Fprintln(tg.out, "It's a hit!")
		if report.Result.Sunk {
			fmt.Fprintf(tg.out, "You sank the computer's %s!\n", report.ShipName)
		}
		return nil
	}
}

func (tg *terminalGame) computerTurn() error {
	reports, err := tg.game.ComputerTurn()
	for _, report := range reports {
		fmt.Fprintf(tg.out, "\nComputer attacks %s\n", report.Coordinates)
		if !report.Result.IsHit() {
			fmt.Fprintln(tg.out, "Computer missed.")
			continue
		}

		fmt.Fprintln(tg.out, "Computer hits your ship!")
		if report.Result.Sunk {
			fmt.Fprintf(tg.out, "Computer sank your %s!\n", report.ShipName)
		}
	}
	return err
}

// Reads one trimmed line. q or quit ends the game.
func (tg *terminalGame) prompt(text string) (string, error) {
	fmt.Fprint(tg.out, text)

	if !tg.scanner.Scan() {
		if err := tg.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}

	line := strings.TrimSpace(tg.scanner.Text())
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return "", errQuit
	}
	return line, nil
}

func (tg *terminalGame) printRows(rows []string) {
	for _, row := range rows {
		fmt.Fprintln(tg.out, row)
	}
}
