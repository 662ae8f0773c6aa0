package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// AnalyticsConfig holds every threshold used by the attendance engine.
	AnalyticsConfig struct {
		CriticalAt             float64
		MonitorAt              float64
		FollowUpAt             float64
		HighAbsenceAt          float64
		TrendDiffThreshold     float64
		MinConsecutiveAbsences int
		MinAbsenceRate         float64
		CountPresent           bool
		CountLate              bool
		CountLeave             bool
		UncheckedBreaksRun     bool
		MalformedAsUnchecked   bool
		UnspecifiedLabel       string
		CollationLocale        string
	}

	NotifyConfig struct {
		Schedule       string // cron spec; empty disables the periodic digest
		MinConsecutive int
	}

	Config struct {
		Debug            bool
		TestMode         bool
		AppName          string
		Env              string
		Build            string
		WorkDir          string
		RollbarToken     string
		SendgridApiKey   string
		FrontendBaseURL  string
		defaultFromEmail string

		Server    ServerConfig
		Database  DatabaseConfig
		Analytics AnalyticsConfig
		Notify    NotifyConfig
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: "noreply@localhost"}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

// NewConfig loads the configuration from the environment (and config/.env.<env> if it exists).
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "Mahudhurio")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "Mahudhurio <noreply@localhost>")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")

	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "mahudhurio")
	v.SetDefault("database.user", "mahudhurio")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("analytics.criticalAt", 40.0)
	v.SetDefault("analytics.monitorAt", 20.0)
	v.SetDefault("analytics.followUpAt", 10.0)
	v.SetDefault("analytics.highAbsenceAt", 20.0)
	v.SetDefault("analytics.trendDiffThreshold", 5.0)
	v.SetDefault("analytics.minConsecutiveAbsences", 3)
	v.SetDefault("analytics.minAbsenceRate", 10.0)
	v.SetDefault("analytics.countPresent", true)
	v.SetDefault("analytics.countLate", true)
	v.SetDefault("analytics.countLeave", false)
	v.SetDefault("analytics.uncheckedBreaksRun", false)
	v.SetDefault("analytics.malformedAsUnchecked", false)
	v.SetDefault("analytics.unspecifiedLabel", "unspecified")
	v.SetDefault("analytics.collationLocale", "th")

	v.SetDefault("notify.schedule", "")
	v.SetDefault("notify.minConsecutive", 3)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		WorkDir:          wd,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Analytics: AnalyticsConfig{
			CriticalAt:             v.GetFloat64("analytics.criticalAt"),
			MonitorAt:              v.GetFloat64("analytics.monitorAt"),
			FollowUpAt:             v.GetFloat64("analytics.followUpAt"),
			HighAbsenceAt:          v.GetFloat64("analytics.highAbsenceAt"),
			TrendDiffThreshold:     v.GetFloat64("analytics.trendDiffThreshold"),
			MinConsecutiveAbsences: v.GetInt("analytics.minConsecutiveAbsences"),
			MinAbsenceRate:         v.GetFloat64("analytics.minAbsenceRate"),
			CountPresent:           v.GetBool("analytics.countPresent"),
			CountLate:              v.GetBool("analytics.countLate"),
			CountLeave:             v.GetBool("analytics.countLeave"),
			UncheckedBreaksRun:     v.GetBool("analytics.uncheckedBreaksRun"),
			MalformedAsUnchecked:   v.GetBool("analytics.malformedAsUnchecked"),
			UnspecifiedLabel:       v.GetString("analytics.unspecifiedLabel"),
			CollationLocale:        v.GetString("analytics.collationLocale"),
		},
		Notify: NotifyConfig{
			Schedule:       v.GetString("notify.schedule"),
			MinConsecutive: v.GetInt("notify.minConsecutive"),
		},
	}
}
