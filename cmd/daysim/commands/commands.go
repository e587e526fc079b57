package commands

import (
	"context"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/daysim/internal/conventions"
	"github.com/slok/daysim/internal/log"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	// StoreSQLite keeps lessons and day results in the SQLite database.
	StoreSQLite = "sqlite"
	// StoreJSON keeps lessons in a JSON file, day results are not kept.
	StoreJSON = "json"
	// StoreMemory keeps everything in memory for the command duration.
	StoreMemory = "memory"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DataDir    string
	Store      string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").Envar("DAYSIM_NO_LOG").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	app.Flag("data-dir", "Directory where lessons and day results are stored.").Envar("DAYSIM_DATA_DIR").Default(defaultDataDir).StringVar(&c.DataDir)
	app.Flag("store", "Storage backend for lessons and results.").Default(StoreSQLite).EnumVar(&c.Store, StoreSQLite, StoreJSON, StoreMemory)

	return c
}
