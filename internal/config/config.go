package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"

const (
	LedgerDriverSqlite   = "sqlite"
	LedgerDriverPostgres = "postgres"
	LedgerDriverNone     = "none"
)

var config *Config

// Config holds every value the binaries read from the environment. Internal
// packages never read env themselves; cmd/* maps these fields into the
// explicit option structs of each component.
type Config struct {
	AppEnv   string `env:"APP_ENV,default=dev"`
	AppName  string `env:"APP_NAME,default=transaction_eda"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	DataFile  string `env:"DATA_FILE,default=large_transactions.parquet"`
	OutputDir string `env:"OUTPUT_DIR,default=eda_report_duckdb"`

	GeneratorRows      int   `env:"GENERATOR_ROWS,default=10000000"`
	GeneratorBatchSize int   `env:"GENERATOR_BATCH_SIZE,default=100000"`
	GeneratorSeed      int64 `env:"GENERATOR_SEED,default=0"`

	ReportTopCategories int     `env:"REPORT_TOP_CATEGORIES,default=20"`
	ReportIncludeSample bool    `env:"REPORT_INCLUDE_SAMPLE,default=false"`
	ReportSamplePercent float64 `env:"REPORT_SAMPLE_PERCENT,default=0.01"`

	LedgerDriver     string `env:"LEDGER_DRIVER,default=sqlite"`
	LedgerSqlitePath string `env:"LEDGER_SQLITE_PATH"`

	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME"`

	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASS"`
	RedisDatabase   int    `env:"REDIS_DATABASE,default=0"`
	RedisKeyPrefix  string `env:"REDIS_KEY_PREFIX,default=eda:"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS,default=3600"`

	PromNamespace string `env:"PROM_NAMESPACE,default=eda"`
	MetricsDir    string `env:"METRICS_DIR"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// Set installs c as the process configuration. Tests use it instead of Load.
func Set(c *Config) {
	config = c
}

func (c *Config) Validate() error {
	switch c.LedgerDriver {
	case LedgerDriverSqlite, LedgerDriverPostgres, LedgerDriverNone:
	default:
		return errors.Errorf("unknown LEDGER_DRIVER %q", c.LedgerDriver)
	}
	if c.GeneratorRows < 0 {
		return errors.New("GENERATOR_ROWS must not be negative")
	}
	if c.ReportTopCategories <= 0 {
		return errors.New("REPORT_TOP_CATEGORIES must be positive")
	}
	if c.ReportSamplePercent <= 0 || c.ReportSamplePercent > 100 {
		return errors.New("REPORT_SAMPLE_PERCENT must be in (0, 100]")
	}
	return nil
}

// SqlitePath is the ledger database file, next to the report output unless
// LEDGER_SQLITE_PATH overrides it.
func (c *Config) SqlitePath() string {
	if c.LedgerSqlitePath != "" {
		return c.LedgerSqlitePath
	}
	return filepath.Join(c.OutputDir, "report_runs.db")
}

// MetricsPath is the textfile a binary writes its metrics to. Each binary
// gets its own file so runs do not overwrite each other.
func (c *Config) MetricsPath(binary string) string {
	dir := c.MetricsDir
	if dir == "" {
		dir = c.OutputDir
	}
	return filepath.Join(dir, binary+".prom")
}

// EnvPathFromArgs returns the value of a --env=path argument, or .env when it
// exists in the working directory, or "" when neither is present.
func EnvPathFromArgs(args []string) string {
	for _, v := range args {
		if strings.HasPrefix(v, "--env=") {
			p := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(p); err != nil {
				logger.Error("failed to open the passed env file", "path", p, "error", err)
				return ""
			}
			return p
		}
	}
	if _, err := os.Stat(".env"); err != nil {
		return ""
	}
	return ".env"
}
