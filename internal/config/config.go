package config

import (
	"log"
	"os"
)

type Config struct {
	Port       string
	DBDSN      string // empty means the remote store is not configured
	LocalStore string
	LogFile    string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	// No default DSN: without DB_DSN the app runs in demo mode against the
	// local snapshot store only.
	dsn := os.Getenv("DB_DSN")
	local := os.Getenv("LOCAL_STORE")
	if local == "" {
		local = "./kiosco.local.json"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./kiosco.log"
	}

	cfg := Config{Port: port, DBDSN: dsn, LocalStore: local, LogFile: logFile}
	mode := "remote"
	if cfg.DBDSN == "" {
		mode = "demo"
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOCAL_STORE=%s LOG_FILE=%s mode=%s",
		cfg.Port, cfg.DBDSN, cfg.LocalStore, cfg.LogFile, mode)
	return cfg
}
