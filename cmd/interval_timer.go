package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/cues"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/engine"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/progress"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/settings"
	"github.com/lowaak/interval-timer/interval-timer-app/internal/timerui"
)

const (
	uiLogBufferSize = 256
	// envPrefix covers the flags, e.g. INTERVAL_TIMER_LOG_FILE. Stored
	// preferences use settings.EnvPrefix.
	envPrefix = "INTERVAL_TIMER"
)

// appConfig is the resolved command line and environment configuration.
type appConfig struct {
	Day          int
	CatalogPath  string
	SettingsPath string
	LogFile      string
	// AutoAdvance is nil unless given on the command line or environment.
	AutoAdvance *bool
	List        bool
	Debug       bool
}

func defaultLogFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".interval-timer", "interval-timer.log")
}

// loadConfig parses args and overlays INTERVAL_TIMER_* environment
// variables, e.g. INTERVAL_TIMER_CATALOG or INTERVAL_TIMER_LOG_FILE.
func loadConfig(args []string) (appConfig, error) {
	flags := pflag.NewFlagSet("interval-timer", pflag.ContinueOnError)
	flags.Int("day", 0, "day (1-7) to load on startup; overrides the saved day")
	flags.String("catalog", "", "workout catalog file (.yaml or .toml); defaults to the built-in week")
	flags.String("settings", settings.DefaultPath(), "settings file")
	flags.String("log-file", defaultLogFile(), "log file")
	flags.Bool("auto-advance", true, "move to the next exercise automatically; overrides the saved setting")
	flags.Bool("list", false, "print the workout catalog and exit")
	flags.Bool("debug", false, "include source locations in log lines")
	if err := flags.Parse(args); err != nil {
		return appConfig{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return appConfig{}, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := appConfig{
		Day:          v.GetInt("day"),
		CatalogPath:  v.GetString("catalog"),
		SettingsPath: v.GetString("settings"),
		LogFile:      v.GetString("log-file"),
		List:         v.GetBool("list"),
		Debug:        v.GetBool("debug"),
	}
	if _, fromEnv := os.LookupEnv(envPrefix + "_AUTO_ADVANCE"); fromEnv || flags.Changed("auto-advance") {
		autoAdvance := v.GetBool("auto-advance")
		cfg.AutoAdvance = &autoAdvance
	}
	if cfg.Day < 0 || cfg.Day > 7 {
		return appConfig{}, fmt.Errorf("--day must be between 1 and 7, got %d", cfg.Day)
	}
	return cfg, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

// printCatalog writes a plain listing of every day in the catalog.
func printCatalog(w io.Writer, c *catalog.Catalog) {
	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	for _, wo := range c.Workouts() {
		heading.Fprintf(w, "Day %d: %s", wo.DayNumber, wo.Name)
		fmt.Fprintf(w, "  %s, %.0f min, %d exercises\n", wo.Focus, wo.DurationMinutes, wo.ExerciseCount())
		for i := range wo.Phases {
			p := &wo.Phases[i]
			fmt.Fprintf(w, "  - %s (%.0f min", p.Name, p.DurationMinutes)
			if rounds := p.Rounds(); rounds > 1 {
				fmt.Fprintf(w, ", %d rounds", rounds)
			}
			fmt.Fprint(w, ")")
			if p.Optional {
				dim.Fprint(w, " optional")
			}
			fmt.Fprintln(w)
			for j := 0; j < len(p.Exercises)/p.Rounds(); j++ {
				ex := p.Exercises[j]
				dim.Fprintf(w, "      %s  %s\n", progress.FormatClock(ex.DurationSeconds), ex.Name)
			}
		}
		fmt.Fprintln(w)
	}
}

func newLogger(cfg appConfig, uiLogChan chan<- string) *log.Logger {
	fileLogger := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
	}
	flags := log.LstdFlags
	if cfg.Debug {
		flags |= log.Lmicroseconds | log.Lshortfile
	}
	return log.New(io.MultiWriter(fileLogger, timerui.NewLogChannelWriter(uiLogChan)), "", flags)
}

func run(args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	if cfg.List {
		printCatalog(os.Stdout, cat)
		return nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("interval-timer needs an interactive terminal (use --list for plain output)")
	}

	uiLogChan := make(chan string, uiLogBufferSize)
	logger := newLogger(cfg, uiLogChan)
	logger.Printf("Starting interval-timer with %d workouts", cat.Len())

	store := settings.NewStore(cfg.SettingsPath, logger)
	state, err := store.Load()
	if err != nil {
		logger.Printf("Settings: using defaults: %v", err)
	}
	if cfg.Day != 0 {
		state.SelectedDay = cfg.Day
	}
	if cfg.AutoAdvance != nil {
		state.Settings.AutoAdvance = *cfg.AutoAdvance
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	app := tview.NewApplication().SetScreen(screen)

	eng := engine.New(engine.Config{
		Catalog:     cat,
		Logger:      logger,
		AutoAdvance: state.Settings.AutoAdvance,
	})
	player := cues.NewPlayer(
		cues.NewLogSpeaker(logger),
		cues.NewTerminalBeeper(screen, logger),
		state.Settings,
		logger,
	)
	model := timerui.NewUIModel(logger, uiLogChan, state.Settings)
	controller := timerui.NewUIController(timerui.NewUIControllerArg{
		Model:   model,
		Engine:  eng,
		Store:   store,
		Player:  player,
		Logger:  logger,
		Initial: state,
	})
	view := timerui.NewBaseUIView(timerui.NewBaseUIViewArg{
		UIViewImpl:   timerui.NewCursesUIView(logger, app),
		UIModel:      model,
		UIController: controller,
		Catalog:      cat,
		Logger:       logger,
	})

	runErr := view.Run()

	view.Shutdown()
	controller.Shutdown()
	model.Shutdown()
	logger.Printf("Exited")

	if runErr != nil {
		return fmt.Errorf("run UI: %w", runErr)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "interval-timer:", err)
		os.Exit(1)
	}
}
