package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents service configuration for dp-covid-area-stats
type Config struct {
	BindAddr                   string        `envconfig:"BIND_ADDR"`
	GracefulShutdownTimeout    time.Duration `envconfig:"GRACEFUL_SHUTDOWN_TIMEOUT"`
	HealthCheckInterval        time.Duration `envconfig:"HEALTHCHECK_INTERVAL"`
	HealthCheckCriticalTimeout time.Duration `envconfig:"HEALTHCHECK_CRITICAL_TIMEOUT"`
	DefaultRequestTimeout      time.Duration `envconfig:"DEFAULT_REQUEST_TIMEOUT"`
	UKCasesURL                 string        `envconfig:"UK_CASES_URL"`
	ScotlandCasesURL           string        `envconfig:"SCOTLAND_CASES_URL"`
	DefaultAreaType            string        `envconfig:"DEFAULT_AREA_TYPE"`
}

// AreaTypeToken is the placeholder in UKCasesURL that is substituted with
// the requested area type (utla or ltla) before the dataset is fetched.
const AreaTypeToken = "{area_type}"

var cfg *Config

// Get returns the default config with any modifications through environment
// variables
func Get() (*Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	cfg = &Config{
		BindAddr:                   ":28100",
		GracefulShutdownTimeout:    5 * time.Second,
		HealthCheckInterval:        30 * time.Second,
		HealthCheckCriticalTimeout: 90 * time.Second,
		DefaultRequestTimeout:      10 * time.Second,
		UKCasesURL:                 "https://api.coronavirus.data.gov.uk/v2/data?areaType=" + AreaTypeToken + "&metric=cumCasesBySpecimenDate&metric=newCasesBySpecimenDate&metric=cumCasesBySpecimenDateRate&format=csv",
		ScotlandCasesURL:           "https://raw.githubusercontent.com/DataScienceScotland/COVID-19-Management-Information/master/export/health-boards/cumulative-cases.csv",
		DefaultAreaType:            "utla",
	}

	return cfg, envconfig.Process("", cfg)
}
