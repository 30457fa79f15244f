package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const shutdownTimeout = time.Second * 10

var migrationDirFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over websocket",
	Long: `Listens on PORT and serves one game against the computer per
websocket connection at GET /battleship.

When DATABASE_URL is set the database is migrated and the server keeps
per host counters of created games and winners.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&migrationDirFlag, "migrations", db.DefaultMigrationDir, "source URL of the database migrations")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbManager := sqlc.DbManager{}
	if env.DatabaseURL != "" {
		dbConn := db.MustConnectToDb(env.DatabaseURL, migrationDirFlag)
		defer dbConn.Close()
		dbManager = sqlc.NewDbManager(dbConn)
	} else {
		log.Warn().Msg("DATABASE_URL is not set, analytics are disabled")
	}

	sessionManager := mc.NewBattleshipSessionManager()
	gameManager := mb.NewBattleshipGameManager()
	if seedFlag != 0 {
		gameManager = gameManager.WithSeed(seedFlag)
	}
	go sessionManager.CleanupPeriodically(ctx)

	rp := api.NewRequestProcessor(sessionManager, gameManager, dbManager, rules)
	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", env.Port),
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 5,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", env.Port).
			Str("stage", env.Stage).
			Str("serverIp", rp.GetIpNet().IP.String()).
			Msg("listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// hijacked websocket connections are not tracked by Shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Int("openSessions", sessionManager.CountSessions()).Msg("server stopped")
	return nil
}
