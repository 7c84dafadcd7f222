package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"quant_terminal/internal/config"
)

const (
	apiKeyEnvName          = "GEMINI_API_KEY"
	modelEnvName           = "GEMINI_MODEL"
	analysisTimeoutEnvName = "ANALYSIS_TIMEOUT"
	demoDelayEnvName       = "ANALYSIS_DEMO_DELAY"
	rateLimitEnvName       = "ANALYSIS_RATE_PER_MINUTE"
	rateBurstEnvName       = "ANALYSIS_RATE_BURST"

	defaultModel           = "gemini-2.5-flash"
	defaultAnalysisTimeout = 60 * time.Second
	defaultDemoDelay       = 2 * time.Second
	defaultRatePerMinute   = 10
	defaultRateBurst       = 2
)

type analysisConfig struct {
	apiKey        string
	model         string
	timeout       time.Duration
	demoDelay     time.Duration
	ratePerMinute float64
	burst         int
}

// NewAnalysisConfig - конфигурация внешнего анализа.
// Пустой ключ допустим: тогда работает только демо-анализ.
func NewAnalysisConfig() (config.AnalysisConfig, error) {
	cfg := &analysisConfig{
		apiKey:        os.Getenv(apiKeyEnvName),
		model:         os.Getenv(modelEnvName),
		timeout:       defaultAnalysisTimeout,
		demoDelay:     defaultDemoDelay,
		ratePerMinute: defaultRatePerMinute,
		burst:         defaultRateBurst,
	}
	if len(cfg.model) == 0 {
		cfg.model = defaultModel
	}

	if v := os.Getenv(analysisTimeoutEnvName); len(v) != 0 {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid analysis timeout: %w", err)
		}
		cfg.timeout = d
	}

	if v := os.Getenv(demoDelayEnvName); len(v) != 0 {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid demo delay: %w", err)
		}
		cfg.demoDelay = d
	}

	if v := os.Getenv(rateLimitEnvName); len(v) != 0 {
		rpm, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid analysis rate: %w", err)
		}
		cfg.ratePerMinute = rpm
	}

	if v := os.Getenv(rateBurstEnvName); len(v) != 0 {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid analysis burst: %w", err)
		}
		cfg.burst = burst
	}

	return cfg, nil
}

func (a *analysisConfig) APIKey() string {
	return a.apiKey
}

func (a *analysisConfig) Model() string {
	return a.model
}

func (a *analysisConfig) Timeout() time.Duration {
	return a.timeout
}

func (a *analysisConfig) DemoDelay() time.Duration {
	return a.demoDelay
}

func (a *analysisConfig) RequestsPerMinute() float64 {
	return a.ratePerMinute
}

func (a *analysisConfig) Burst() int {
	return a.burst
}
