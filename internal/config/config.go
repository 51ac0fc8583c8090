package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultJWTSecret    = "laily_secret_key_change_in_production"
	DefaultPromoMessage = "10년의 감사, 단 10일간의 특별한 혜택"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"5000"`
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	MongoURI        string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDB         string        `envconfig:"MONGODB_DATABASE" default:"laily"`
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"laily_secret_key_change_in_production"`
	JWTExpiresIn    time.Duration `envconfig:"JWT_EXPIRES_IN" default:"168h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`
	PromoMessage    string        `envconfig:"PROMO_DEFAULT_MESSAGE" default:"10년의 감사, 단 10일간의 특별한 혜택"`
	CORSOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig lee el .env local (si existe) y luego las variables de entorno.
func LoadConfig() (*Config, error) {
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesDefaultSecret indica si el secreto JWT sigue siendo el valor de desarrollo
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}
