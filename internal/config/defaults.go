package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel          = "info"
	DefaultJSONLog           = false
	DefaultLogFileMaxSizeMB  = 10
	DefaultLogFileMaxBackups = 3
	DefaultUserAgent         = ""
	DefaultNavigationTimeout = 60 * time.Second
	DefaultBrowserHeadless   = false
	DefaultCredentialsPath   = "./lk_credentials.json"
	DefaultSaveFormat        = "csv"

	DefaultWaitBetweenPages = 5 * time.Second
	DefaultWaitAfterLoad    = 3 * time.Second
	DefaultWaitAfterScroll  = 3 * time.Second
	DefaultReadyTimeout     = 0

	// One page every ten seconds keeps well above the fixed waits
	DefaultPagesPerMinute = 6
	DefaultRateBurst      = 1

	DefaultVisitPageLoad = 3 * time.Second
	DefaultVisitMinWait  = 4 * time.Second
	DefaultVisitMaxWait  = 7 * time.Second

	DefaultRecruiterBackupDir = "./lkr_data"
	DefaultSalesNavBackupDir  = "./lksn_data"
	DefaultOutDir             = "."
)

// Environment variables read by Load
const (
	EnvUserAgent   = "LEADCRAWL_USER_AGENT"
	EnvProxy       = "LEADCRAWL_PROXY"
	EnvChromePath  = "LEADCRAWL_CHROME_PATH"
	EnvCredentials = "LEADCRAWL_CREDENTIALS"
)
