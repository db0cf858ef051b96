package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DefaultCookieName = "AGGY_session"
	DefaultIssuer     = "aggy_web"
)

// Config собирается один раз при старте процесса и передается по ссылке
// всем компонентам, которым он нужен.
type Config struct {
	Env     string   `validate:"oneof=local dev prod"`
	Server  Server   `validate:"required"`
	Logger  Logger   `validate:"required"`
	Aggy    Upstream `validate:"required"`
	Epigram Upstream `validate:"required"`
	Session Session  `validate:"required"`
	Limits  Limits   `validate:"required"`
	Client  Client   `validate:"required"`
}

type Server struct {
	RunAddress string `validate:"required"`
	// TrustProxy разрешает брать адрес клиента из X-Forwarded-For и
	// X-Real-IP. Включать только за прокси, который их перезаписывает.
	TrustProxy bool
}

// Logger.LogLevel переопределяет уровень, выбранный по окружению. Пустое
// значение - уровень окружения.
type Logger struct {
	LogLevel string `validate:"omitempty,oneof=debug info warn error"`
}

// Upstream описывает один из вышестоящих сервисов (aggy или epigram).
type Upstream struct {
	BaseURL       string        `validate:"required,url"`
	ServiceSecret string        `validate:"required"`
	Timeout       time.Duration `validate:"gt=0"`
}

type Session struct {
	Secret     string `validate:"required"`
	CookieName string `validate:"required"`
	Issuer     string `validate:"required"`
}

// Limits ограничивает частоту попыток входа и регистрации с одного IP.
type Limits struct {
	LoginRate  float64 `validate:"gt=0"`
	LoginBurst int     `validate:"gt=0"`
}

// Client содержит настройки терминального клиента aggyctl.
type Client struct {
	DBPath    string `validate:"required"`
	UserAgent string `validate:"required"`
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// Load читает .env (если есть) и переменные окружения через viper и
// валидирует результат. Пустой секрет или базовый URL считаются ошибкой.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Env:    v.GetString("app_env"),
		Server: Server{
			RunAddress: v.GetString("run_address"),
			TrustProxy: v.GetBool("trust_proxy"),
		},
		Logger: Logger{LogLevel: v.GetString("log_level")},
		Aggy: Upstream{
			BaseURL:       v.GetString("aggy_base_url"),
			ServiceSecret: v.GetString("aggy_service_secret"),
			Timeout:       v.GetDuration("upstream_timeout"),
		},
		Epigram: Upstream{
			BaseURL:       v.GetString("epigram_base_url"),
			ServiceSecret: v.GetString("epigram_service_secret"),
			Timeout:       v.GetDuration("upstream_timeout"),
		},
		Session: Session{
			Secret:     v.GetString("session_secret"),
			CookieName: v.GetString("session_cookie"),
			Issuer:     v.GetString("session_issuer"),
		},
		Limits: Limits{
			LoginRate:  v.GetFloat64("login_rate"),
			LoginBurst: v.GetInt("login_burst"),
		},
		Client: Client{
			DBPath:    v.GetString("client_db_path"),
			UserAgent: v.GetString("client_user_agent"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad завершает процесс, если конфигурацию собрать не удалось.
func MustLoad() *Config {
	cfg, err := Load(nil)
	if err != nil {
		log.Fatalln(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":8080")
	v.SetDefault("trust_proxy", false)
	v.SetDefault("log_level", "")
	v.SetDefault("upstream_timeout", 10*time.Second)
	v.SetDefault("session_cookie", DefaultCookieName)
	v.SetDefault("session_issuer", DefaultIssuer)
	v.SetDefault("login_rate", 0.2)
	v.SetDefault("login_burst", 5)
	v.SetDefault("client_db_path", "aggyctl.db")
	v.SetDefault("client_user_agent", "aggyctl/1.0")
}
