package auth

import "os"

// Config carries the service binary settings. Values come from the
// environment with defaults matching the development setup; components
// receive them through constructors instead of reading env themselves.
type Config struct {
	ListenAddr string
	// StorePath is the flat JSON record file, used when DatabaseDSN is unset.
	StorePath string
	// DatabaseDSN selects the SQLite store when non-empty.
	DatabaseDSN string
	Debug       bool

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
}

// ConfigFromEnv loads the service configuration from the environment.
func ConfigFromEnv() Config {
	cfg := Config{
		ListenAddr:   getenv("LISTEN_ADDR", ":8000"),
		StorePath:    getenv("USER_DB_PATH", "users.json"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		Debug:        os.Getenv("DEBUG") != "",
		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("EMAIL_USER"),
		SMTPPassword: os.Getenv("EMAIL_PASSWORD"),
		SMTPFrom:     os.Getenv("EMAIL_USER"),
	}
	return cfg
}

// SMTPConfigured reports whether outbound mail credentials are present.
func (c Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
