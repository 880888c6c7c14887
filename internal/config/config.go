package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Seed     SeedConfig
	Store    StoreConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LoginRateLimit int // attempts per minute
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	DemoData      bool
}

type StoreConfig struct {
	Location    *time.Location
	SearchLimit int
}

// DSN returns the connection string, preferring DATABASE_URL when set
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	if c.Schema != "" && c.Schema != "public" {
		q.Set("search_path", c.Schema)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// RedisEnabled reports whether a Redis host was configured
func (c RedisConfig) RedisEnabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func Load() *Config {
	// Populate the process environment so every consumer sees .env values
	_ = godotenv.Load()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("LOGIN_RATE_LIMIT", 10)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 720)
	viper.SetDefault("SEED_ADMIN_USERNAME", "admin")
	viper.SetDefault("SEED_ADMIN_PASSWORD", "adminpass")
	viper.SetDefault("SEED_DEMO_DATA", false)
	viper.SetDefault("STORE_TIMEZONE", "Local")
	viper.SetDefault("SEARCH_LIMIT", 20)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	loc, err := time.LoadLocation(viper.GetString("STORE_TIMEZONE"))
	if err != nil {
		log.Printf("Warning: unknown STORE_TIMEZONE %q, using Local: %v", viper.GetString("STORE_TIMEZONE"), err)
		loc = time.Local
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			LoginRateLimit: viper.GetInt("LOGIN_RATE_LIMIT"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Seed: SeedConfig{
			AdminUsername: viper.GetString("SEED_ADMIN_USERNAME"),
			AdminPassword: viper.GetString("SEED_ADMIN_PASSWORD"),
			DemoData:      viper.GetBool("SEED_DEMO_DATA"),
		},
		Store: StoreConfig{
			Location:    loc,
			SearchLimit: viper.GetInt("SEARCH_LIMIT"),
		},
	}
}
