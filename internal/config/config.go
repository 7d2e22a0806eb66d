package config

import (
	"flag"
	"os"
	"strconv"
)

type ServerConfig struct {
	Address         string
	StoreInterval   int
	FileStoragePath string
	Restore         bool
	DatabaseDSN     string
	AuditFile       string
	AuditURL        string
}

func NewServerConfig() (*ServerConfig, error) {
	config := &ServerConfig{
		Address:         DefaultAddress,
		StoreInterval:   DefaultStoreInterval,
		FileStoragePath: DefaultStoragePath,
		Restore:         false,
		DatabaseDSN:     "",
		AuditFile:       "",
		AuditURL:        "",
	}

	address := flag.String("a", config.Address, "address to listen on")
	storeInterval := flag.Int("i", config.StoreInterval, "snapshot interval in seconds, 0 means write on every ingest")
	fileStoragePath := flag.String("f", config.FileStoragePath, "path to snapshot file")
	restoreFlag := flag.Bool("r", config.Restore, "bool flag, restore users and metrics from snapshot file on start")
	databaseDSN := flag.String("d", config.DatabaseDSN, "database dsn, in-memory storage when empty")
	auditFile := flag.String("audit-file", config.AuditFile, "file to append ingest audit events to")
	auditURL := flag.String("audit-url", config.AuditURL, "url to post ingest audit events to")
	flag.Parse()

	envVars := map[string]*string{
		"ADDRESS":           address,
		"FILE_STORAGE_PATH": fileStoragePath,
		"DATABASE_DSN":      databaseDSN,
		"AUDIT_FILE":        auditFile,
		"AUDIT_URL":         auditURL,
	}

	for envVar, flag := range envVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*flag = envValue
		}
	}

	if envStoreInterval := os.Getenv("STORE_INTERVAL"); envStoreInterval != "" {
		interval, err := strconv.Atoi(envStoreInterval)
		if err != nil {
			return nil, err
		}
		*storeInterval = interval
	}

	if envRestoreFlag := os.Getenv("RESTORE"); envRestoreFlag != "" {
		restore, err := strconv.ParseBool(envRestoreFlag)
		if err != nil {
			return nil, err
		}
		*restoreFlag = restore
	}

	config.Address = *address
	config.StoreInterval = *storeInterval
	config.FileStoragePath = *fileStoragePath
	config.Restore = *restoreFlag
	config.DatabaseDSN = *databaseDSN
	config.AuditFile = *auditFile
	config.AuditURL = *auditURL

	return config, nil
}

type DashboardConfig struct {
	Address     string
	Timeout     int
	User        string
	Team        string
	Interactive bool
}

func NewDashboardConfig() (*DashboardConfig, error) {
	config := &DashboardConfig{
		Address: DefaultAddress,
		Timeout: DefaultClientTimeout,
	}

	address := flag.String("a", config.Address, "address of the dashboard server")
	timeout := flag.Int("timeout", config.Timeout, "request timeout in seconds")
	user := flag.String("u", "", "render the dashboard of this user alias")
	team := flag.String("t", "", "render the team dashboard of this manager alias")
	interactive := flag.Bool("i", false, "interactive mode, read aliases from stdin")
	flag.Parse()

	if envValue := os.Getenv("ADDRESS"); envValue != "" {
		*address = envValue
	}

	if envTimeout := os.Getenv("CLIENT_TIMEOUT"); envTimeout != "" {
		value, err := strconv.Atoi(envTimeout)
		if err != nil {
			return nil, err
		}
		*timeout = value
	}

	config.Address = *address
	config.Timeout = *timeout
	config.User = *user
	config.Team = *team
	config.Interactive = *interactive

	return config, nil
}

type LoaderConfig struct {
	Address   string
	File      string
	BatchSize int
	RateLimit int
}

func NewLoaderConfig() (*LoaderConfig, error) {
	config := &LoaderConfig{
		Address:   DefaultAddress,
		File:      "./records.json",
		BatchSize: 100,
		RateLimit: DefaultRateLimit,
	}

	address := flag.String("a", config.Address, "address of the dashboard server")
	file := flag.String("f", config.File, "path to the records file to load")
	batchSize := flag.Int("b", config.BatchSize, "number of records per ingest request")
	rateLimit := flag.Int("l", config.RateLimit, "number of concurrent upload workers")
	flag.Parse()

	envIntVars := map[string]*int{
		"BATCH_SIZE": batchSize,
		"RATE_LIMIT": rateLimit,
	}

	envStrVars := map[string]*string{
		"ADDRESS":      address,
		"RECORDS_FILE": file,
	}

	for envVar, flag := range envIntVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			value, err := strconv.Atoi(envValue)
			if err != nil {
				return nil, err
			}
			*flag = value
		}
	}

	for envVar, flag := range envStrVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*flag = envValue
		}
	}

	config.Address = *address
	config.File = *file
	config.BatchSize = *batchSize
	config.RateLimit = *rateLimit

	return config, nil
}
