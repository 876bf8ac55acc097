package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/models"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	ErrNoSource           = errors.New("ballot source required (use -i, -d or -election)")
	ErrMultipleSources    = errors.New("only one of -i, -d and -election may be given")
	ErrCandidatesRequired = errors.New("candidate count required (use -n or CANDIDATES env)")
	ErrMethodRequired     = errors.New("method required (use -m or METHOD env)")
)

type Config struct {
	InputFile  string
	DuelFile   string
	OutputFile string
	Method     string
	Candidates int

	DatabaseURL  string
	DatabaseType string
	ElectionID   string
	ImportName   string

	Format   string
	LogLevel slog.Level
	EnvFile  string
}

// DuelMode reports whether the ballots come as a pre-built duel tally
func (c Config) DuelMode() bool {
	return c.DuelFile != ""
}

// NeedsCandidates reports whether the candidate count still has to be asked
// for. Stored elections know their own candidates.
func (c Config) NeedsCandidates() bool {
	return c.Candidates <= 0 && c.ElectionID == ""
}

// ParseFlags reads flags, falls back to the environment (and an optional
// .env file) and validates the result. A missing candidate count is not an
// error here; see NeedsCandidates.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	fs := flag.NewFlagSet("quickly-tally", flag.ContinueOnError)

	// Ballot sources
	fs.StringVar(&cfg.InputFile, "i", "", "Ballot CSV file")
	fs.StringVar(&cfg.DuelFile, "d", "", "Pre-computed duel CSV file")
	fs.StringVar(&cfg.ElectionID, "election", "", "Stored election ID")

	// Tabulation
	fs.StringVar(&cfg.Method, "m", "", "Method: uni1, uni2, cm, cp, cs, jm or all")
	fs.IntVar(&cfg.Candidates, "n", 0, "Number of candidates")

	// Output
	fs.StringVar(&cfg.OutputFile, "o", "", "Write the JSON report to this file")
	fs.StringVar(&cfg.Format, "format", "", "Stdout format: text or json")
	fs.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	// Ballot store
	fs.StringVar(&cfg.DatabaseURL, "db", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "db-type", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.ImportName, "import", "", "Store the ballots of -i under this election name")

	fs.StringVar(&cfg.EnvFile, "env", ".env", "Environment file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Candidates == 0 {
		if s := os.Getenv("CANDIDATES"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid CANDIDATES env variable")
			}
			cfg.Candidates = n
		}
	}
	if cfg.Candidates < 0 {
		return Config{}, fmt.Errorf("candidate count must be positive, got %d", cfg.Candidates)
	}
	if cfg.Method == "" {
		cfg.Method = os.Getenv("METHOD")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = db.TypeSQLite
		}
	}
	if cfg.ElectionID == "" {
		cfg.ElectionID = os.Getenv("ELECTION_ID")
	}
	if cfg.Format == "" {
		cfg.Format = os.Getenv("OUTPUT_FORMAT")
		if cfg.Format == "" {
			cfg.Format = FormatText
		}
	}
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}

	// Validation
	if cfg.Method == "" {
		return Config{}, ErrMethodRequired
	}
	method, err := models.ParseMethod(cfg.Method)
	if err != nil {
		return Config{}, err
	}
	cfg.Method = method

	if err := checkSources(cfg); err != nil {
		return Config{}, err
	}

	if cfg.Format != FormatText && cfg.Format != FormatJSON {
		return Config{}, fmt.Errorf("invalid output format %q (want text or json)", cfg.Format)
	}
	if cfg.DatabaseType != db.TypeSQLite && cfg.DatabaseType != db.TypePostgres {
		return Config{}, fmt.Errorf("%w: %q", db.ErrUnsupportedType, cfg.DatabaseType)
	}

	cfg.LogLevel, err = ParseLogLevel(logLevel)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func checkSources(cfg Config) error {
	sources := 0
	for _, s := range []string{cfg.InputFile, cfg.DuelFile, cfg.ElectionID} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		return ErrNoSource
	case sources > 1:
		return ErrMultipleSources
	}

	if cfg.ElectionID != "" && cfg.DatabaseURL == "" {
		return errors.New("database URL required to load an election (use -db or DATABASE_URL env)")
	}
	if cfg.ImportName != "" {
		if cfg.InputFile == "" {
			return errors.New("-import needs a ballot file (-i)")
		}
		if cfg.DatabaseURL == "" {
			return errors.New("database URL required to import (use -db or DATABASE_URL env)")
		}
	}
	return nil
}

// ParseLogLevel maps debug/info/warn/error to a slog level; empty means info
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// loadEnvFile loads variables without overriding the real environment
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

type VerifyConfig struct {
	InputFile string
	Key       string
	LastName  string
	FirstName string
}

// Missing lists the receipt fields that were not given on the command line
func (c VerifyConfig) Missing() []string {
	var missing []string
	if c.Key == "" {
		missing = append(missing, "key")
	}
	if c.LastName == "" {
		missing = append(missing, "last")
	}
	if c.FirstName == "" {
		missing = append(missing, "first")
	}
	return missing
}

// ParseVerifyFlags parses the arguments of the verify subcommand
func ParseVerifyFlags(args []string) (VerifyConfig, error) {
	var cfg VerifyConfig

	fs := flag.NewFlagSet("quickly-tally verify", flag.ContinueOnError)

	fs.StringVar(&cfg.InputFile, "i", "", "Receipt file")
	fs.StringVar(&cfg.Key, "key", "", "Private key printed on the receipt")
	fs.StringVar(&cfg.LastName, "last", "", "Last name")
	fs.StringVar(&cfg.FirstName, "first", "", "First name")

	if err := fs.Parse(args); err != nil {
		return VerifyConfig{}, err
	}

	if cfg.InputFile == "" {
		return VerifyConfig{}, errors.New("receipt file required (use -i)")
	}
	return cfg, nil
}
