package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla el comportamiento del scanner.
type ScannerConfig struct {
	IntervalSeconds int     `yaml:"interval_seconds"`
	MinProfit       float64 `yaml:"min_profit"`      // umbral mínimo de profit (fracción, 0.001 = 0.1%)
	Concurrency     int     `yaml:"concurrency"`     // fetches de order books en paralelo
	MinVolume       float64 `yaml:"min_volume"`      // volumen mínimo en USDC para considerar un mercado
	MarketLimit     int     `yaml:"market_limit"`    // máximo de mercados a pedir a Gamma
	TimeoutSeconds  int     `yaml:"timeout_seconds"` // timeout por request HTTP
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
	WSBase    string `yaml:"ws_base"`
}

// StorageConfig controla dónde se persiste el histórico.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, ":memory:", o "" para desactivar
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el YAML no existe se usan los defaults; las variables de entorno
// sobreescriben ambos.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// Sin archivo de config: defaults + env
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// RequestTimeout devuelve el timeout por request como time.Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Scanner.TimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v, ok := envFloat("MIN_PROFIT_THRESHOLD"); ok {
		cfg.Scanner.MinProfit = v
	}
	if v, ok := envFloat("MIN_VOLUME"); ok {
		cfg.Scanner.MinVolume = v
	}
	if v, ok := envInt("MARKET_LIMIT"); ok {
		cfg.Scanner.MarketLimit = v
	}
	if v, ok := envInt("REQUEST_TIMEOUT"); ok {
		cfg.Scanner.TimeoutSeconds = v
	}
	if v, ok := envInt("BATCH_SIZE"); ok {
		cfg.Scanner.Concurrency = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 30
	}
	if cfg.Scanner.MinProfit <= 0 {
		cfg.Scanner.MinProfit = 0.001
	}
	if cfg.Scanner.Concurrency <= 0 {
		cfg.Scanner.Concurrency = 20
	}
	if cfg.Scanner.MinVolume <= 0 {
		cfg.Scanner.MinVolume = 10000
	}
	if cfg.Scanner.MarketLimit <= 0 {
		cfg.Scanner.MarketLimit = 100
	}
	if cfg.Scanner.TimeoutSeconds <= 0 {
		cfg.Scanner.TimeoutSeconds = 15
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.WSBase == "" {
		cfg.API.WSBase = "wss://ws-subscriptions-clob.polymarket.com/ws/market"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
