package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed configuration
	FeedsDir    string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing delimited and RSS feed files"`
	CatalogFile string `long:"catalog-file" env:"CATALOG_FILE" description:"YAML file with tag categories (built-in catalog when empty)"`
	Delimiter   string `long:"delimiter" env:"DELIMITER" default:"|" description:"Field delimiter of delimited feed files (one character)"`

	// Storage configuration
	DBDSN string `long:"db-dsn" env:"DB_DSN" default:"file:billcomb?mode=memory&cache=shared" description:"SQLite data source name"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://bills.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for feed loading"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Feed reload interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses the given command line arguments on top of the
// environment and stores the result as the global configuration.
// It returns nil, nil when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	delimiter, err := parseDelimiter(raw.Delimiter)
	if err != nil {
		return nil, err
	}

	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", raw.WorkerCount)
	}

	cfg := &Cfg{
		FeedsDir:          raw.FeedsDir,
		CatalogFile:       raw.CatalogFile,
		Delimiter:         delimiter,
		DBDSN:             raw.DBDSN,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func parseDelimiter(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be exactly one character, got '%s'", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\n' || r == '\r' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter '%s' is not allowed", s)
	}
	return r, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
