package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-booking-client/apiclient"
	"github.com/jrsteele09/go-booking-client/internal/config"
	"github.com/jrsteele09/go-booking-client/navigation"
	"github.com/jrsteele09/go-booking-client/session"
	"github.com/jrsteele09/go-booking-client/session/filerepo"
	"github.com/jrsteele09/go-booking-client/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// app is everything a command needs
type app struct {
	cfg     config.Config
	session *session.Manager
	client  *apiclient.Client
	store   *store.Store
	nav     *navigation.Navigator
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// A missing .env file is not an error; the environment may be set directly.
	_ = godotenv.Load(config.GetEnv("BOOKING_DOTENV", ".env"))

	cfg, err := config.New()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		displayAppname(cfg.GetAppName())
		printUsage(os.Stdout)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.run(ctx, a, args[1:])
}

func newApp(cfg config.Config) (*app, error) {
	repo, err := filerepo.New(cfg.GetTokenFile(), cfg.GetStorageKey())
	if err != nil {
		return nil, fmt.Errorf("opening session storage: %w", err)
	}
	sess, err := session.Load(repo, session.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}

	clientOpts := []apiclient.ClientOption{apiclient.WithLogger(log.Logger)}
	if cfg.IsDevelopment() {
		clientOpts = append(clientOpts, apiclient.WithTracer(printTrace(os.Stderr)))
	}
	client, err := apiclient.New(cfg, sess, clientOpts...)
	if err != nil {
		return nil, err
	}

	st, err := store.New(client, sess, store.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}
	nav, err := navigation.New(st, navigation.Routes(), navigation.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, session: sess, client: client, store: st, nav: nav}, nil
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
