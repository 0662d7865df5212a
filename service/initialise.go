package service

import (
	"fmt"
	"net/http"

	"github.com/ONSdigital/dp-covid-area-stats/config"
	"github.com/ONSdigital/dp-covid-area-stats/fetcher"
	"github.com/ONSdigital/dp-healthcheck/healthcheck"
	dphttp "github.com/ONSdigital/dp-net/v2/http"
)

// GetHTTPServer creates an http server and sets the Server
var GetHTTPServer = func(bindAddr string, router http.Handler) HTTPServer {
	s := dphttp.NewServer(bindAddr, router)
	s.HandleOSSignals = false
	return s
}

// GetCSVClient creates the CSV fetch client. Retries are disabled: the
// upstream downloads are complete snapshots and a failed fetch is reported
// to the caller rather than retried.
var GetCSVClient = func(cfg *config.Config) *fetcher.Client {
	httpClient := dphttp.NewClient()
	httpClient.SetMaxRetries(0)
	httpClient.SetTimeout(cfg.DefaultRequestTimeout)
	return fetcher.NewClient(httpClient)
}

// GetHealthCheck creates a healthcheck with versionInfo
var GetHealthCheck = func(cfg *config.Config, buildTime, gitCommit, version string) (HealthChecker, error) {
	versionInfo, err := healthcheck.NewVersionInfo(buildTime, gitCommit, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get version info: %w", err)
	}

	hc := healthcheck.New(
		versionInfo,
		cfg.HealthCheckCriticalTimeout,
		cfg.HealthCheckInterval,
	)
	return &hc, nil
}
