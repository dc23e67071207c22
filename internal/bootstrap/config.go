package bootstrap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	apperrors "goreview/internal/errors"
)

type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	RedisUrl           string `mapstructure:"REDIS_URL"`
	MongoUri           string `mapstructure:"MONGO_URI"`
	IsLocalCors        bool   `mapstructure:"LOCAL_CORS"`
	KatagoPath         string `mapstructure:"KATAGO_PATH"`
	KatagoModel        string `mapstructure:"KATAGO_MODEL"`
	GameAnalysisConfig string `mapstructure:"GAME_ANALYSIS_CONFIG"`
	TurnAnalysisConfig string `mapstructure:"TURN_ANALYSIS_CONFIG"`
	MovesPerTurn       int    `mapstructure:"MOVES_PER_TURN"`
	PVMaxLength        int    `mapstructure:"PV_MAX_LENGTH"`
	ClassThresholds    string `mapstructure:"CLASS_THRESHOLDS"`
	PageLimitArchive   int    `mapstructure:"PAGE_LIMIT_ARCHIVE"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = ":8080"
	}
	if cfg.KatagoPath == "" {
		cfg.KatagoPath = "./katago"
	}
	if cfg.MovesPerTurn == 0 {
		cfg.MovesPerTurn = 3
	}
	if cfg.PVMaxLength == 0 {
		cfg.PVMaxLength = 10
	}
	if cfg.PageLimitArchive == 0 {
		cfg.PageLimitArchive = 20
	}
}

// Thresholds разбирает таблицу порогов классификации из конфига.
// Значения в очках, строго по возрастанию: EXCELLENT/GOOD/INACCURACY/MISTAKE/BLUNDER.
func (c *Config) Thresholds() ([]float64, error) {
	if c.ClassThresholds == "" {
		return []float64{0.5, 1.5, 3.0, 6.0}, nil
	}

	parts := strings.Split(c.ClassThresholds, ",")
	thresholds := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: CLASS_THRESHOLDS %q", apperrors.ErrConfiguration, c.ClassThresholds)
		}
		thresholds = append(thresholds, v)
	}
	return thresholds, nil
}
