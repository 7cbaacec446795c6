package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"maki/commands"
	"maki/config"
	"maki/llm"
	"maki/logging"
	"maki/storage"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// flags holds the global CLI flags
type flags struct {
	ConfigPath string
	SaveFile   string
	Timezone   string
	LogLevel   string
	LogFile    string
}

func main() {
	ctx := context.Background()

	// .env is optional; it usually only carries GEMINI_API_KEY
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not read .env: %v\n", err)
	}

	var (
		logCloser func()
		cfg       *config.Config
		store     storage.Store
		llmClient llm.Client
		session   *commands.Session
	)

	f := &flags{}

	app := &cli.Command{
		Name:      "maki",
		Usage:     "Keep track of todos, deadlines and events",
		UsageText: "maki [global options] [command]",
		Description: `maki is a small task tracker for the terminal.

Run 'maki' with no arguments to start the interactive prompt; type /help there
to see the commands. Tasks are saved to a plain text file after every change.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MAKI_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to the save file (must end in .txt)",
				Sources:     cli.EnvVars("MAKI_FILE"),
				Destination: &f.SaveFile,
			},
			&cli.StringFlag{
				Name:        "timezone",
				Aliases:     []string{"tz"},
				Usage:       "display timezone, e.g. Local, UTC, Asia/Singapore or GMT+08:00",
				Sources:     cli.EnvVars("MAKI_TIMEZONE"),
				Destination: &f.Timezone,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MAKI_LOG_LEVEL"),
				Value:       "warn",
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("MAKI_LOG_FILE"),
				Destination: &f.LogFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logging.New(f.LogLevel, f.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			// Flags win over the config file
			var overrides config.Overrides
			if c.IsSet("file") {
				overrides.SaveFile = f.SaveFile
			}
			if c.IsSet("timezone") {
				overrides.Timezone = f.Timezone
			}

			cfg, err = config.Load(f.ConfigPath, overrides)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if err := cfg.EnsureSaveDir(); err != nil {
				return ctx, err
			}

			loc, err := config.ParseTimezone(cfg.Timezone)
			if err != nil {
				return ctx, fmt.Errorf("parse timezone: %w", err)
			}

			store = storage.NewTextStore(cfg.SaveFile, logging.Component("storage"))
			session = commands.NewSession(store, loc, os.Stdout)

			client, err := llm.NewGeminiClient(ctx, &llm.Config{
				Model:       cfg.LLM.Model,
				MaxTokens:   cfg.LLM.MaxTokens,
				Temperature: cfg.LLM.Temperature,
			})
			if err != nil {
				log.Info().Err(err).Msg("assistant disabled")
			} else {
				llmClient = client
				session.SetLLMClient(client)
			}

			log.Debug().
				Str("save_file", cfg.SaveFile).
				Str("timezone", loc.String()).
				Bool("assistant", llmClient != nil).
				Msg("session ready")

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if llmClient != nil {
				if err := llmClient.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close llm client")
				}
			}

			if store != nil {
				if err := store.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close store")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the task list and exit",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Println(session.Load())
					_, err := session.Execute("/list")
					return err
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'maki --help' for usage", c.Args().First())
			}
			return runREPL(ctx, cfg, session)
		},
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}
	os.Exit(exitCode)
}

func runREPL(ctx context.Context, cfg *config.Config, session *commands.Session) error {
	fmt.Println("Hello! I'm maki. What can I do for you? Type /help to see the commands.")
	fmt.Println(session.Load())

	in, err := newLineReader(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	start := time.Now()
	err = commands.Loop(ctx, in, session)
	log.Debug().Dur("elapsed", time.Since(start)).Msg("session ended")
	return err
}

// newLineReader uses readline on a terminal and plain line reads when stdin
// is piped or redirected.
func newLineReader(cfg *config.Config) (commands.LineReader, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		log.Debug().Msg("stdin is not a terminal, line editing disabled")
		return commands.NewScannerReader(os.Stdin), nil
	}

	historyFile := cfg.HistoryFile
	if historyFile == "" {
		historyFile = config.DefaultHistoryFile()
	}
	if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
		log.Warn().Err(err).Msg("line history disabled")
		historyFile = ""
	}

	return commands.NewReadline("> ", historyFile)
}
