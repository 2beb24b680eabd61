package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// APIBaseURL is the backend's REST base, e.g. "http://192.168.1.167:5000".
	APIBaseURL string
	// RealtimeURL is the websocket endpoint for the event channel.
	RealtimeURL string
	Timezone    *time.Location
	// DatabasePath is the offline cache location. Empty disables caching.
	DatabasePath string
	// RefreshSpec is the cron spec for periodic window re-fetches.
	RefreshSpec string

	// CalDAV import source; all three empty disables import.
	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVPath     string
}

func Load() (*Config, error) {
	apiBase := os.Getenv("GRIDCAL_API_URL")
	if apiBase == "" {
		return nil, fmt.Errorf("GRIDCAL_API_URL is required")
	}

	realtimeURL := os.Getenv("GRIDCAL_REALTIME_URL")
	if realtimeURL == "" {
		return nil, fmt.Errorf("GRIDCAL_REALTIME_URL is required")
	}

	tzName := os.Getenv("GRIDCAL_TIMEZONE")
	if tzName == "" {
		tzName = "Local"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid GRIDCAL_TIMEZONE: %w", err)
	}

	dbPath := os.Getenv("GRIDCAL_DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/gridcal.db"
	}

	refreshSpec := os.Getenv("GRIDCAL_REFRESH_CRON")
	if refreshSpec == "" {
		refreshSpec = "*/5 * * * *"
	}

	return &Config{
		APIBaseURL:     apiBase,
		RealtimeURL:    realtimeURL,
		Timezone:       tz,
		DatabasePath:   dbPath,
		RefreshSpec:    refreshSpec,
		CalDAVURL:      os.Getenv("GRIDCAL_CALDAV_URL"),
		CalDAVUsername: os.Getenv("GRIDCAL_CALDAV_USERNAME"),
		CalDAVPassword: os.Getenv("GRIDCAL_CALDAV_PASSWORD"),
		CalDAVPath:     os.Getenv("GRIDCAL_CALDAV_PATH"),
	}, nil
}
