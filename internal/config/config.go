package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Intake     IntakeConfig     `mapstructure:"intake"`
	Reviewers  ReviewersConfig  `mapstructure:"reviewers"`
	Registry   RegistryConfig   `mapstructure:"registry"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Statistics StatisticsConfig `mapstructure:"statistics"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	Debug       bool   `mapstructure:"debug"`
	PollTimeout int    `mapstructure:"poll_timeout"` // секунды
}

// IntakeConfig - вопросы анкеты и ссылки на каналы для принятых
type IntakeConfig struct {
	Questions    []string `mapstructure:"questions"`
	ChannelLinks []string `mapstructure:"channel_links"`
}

type ReviewersConfig struct {
	IDs     []int64       `mapstructure:"ids"`
	Require RequireConfig `mapstructure:"require"`
}

// RequireConfig задаёт, какие кнопки админ-панели доступны только проверяющим
type RequireConfig struct {
	ShowStatistics   bool `mapstructure:"show_statistics"`
	SendBroadcast    bool `mapstructure:"send_broadcast"`
	ShowApplications bool `mapstructure:"show_applications"`
}

type RegistryConfig struct {
	AllowIDOverwrite bool `mapstructure:"allow_id_overwrite"`
}

type StorageConfig struct {
	Driver   string         `mapstructure:"driver"` // sqlite, postgres, redis или supabase
	DSN      string         `mapstructure:"dsn"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type SupabaseConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

type StatisticsConfig struct {
	DigestSchedule string `mapstructure:"digest_schedule"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

var drivers = map[string]bool{
	"sqlite":   true,
	"postgres": true,
	"redis":    true,
	"supabase": true,
}

// LoadConfig читает .env (если есть), затем config.yaml и переменные окружения.
// Пустой path означает поиск config.yaml в текущей директории и в ./configs.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("intake.questions", []string{})
	v.SetDefault("intake.channel_links", []string{})
	v.SetDefault("reviewers.ids", []int64{})
	v.SetDefault("reviewers.require.show_statistics", true)
	v.SetDefault("reviewers.require.send_broadcast", true)
	v.SetDefault("reviewers.require.show_applications", true)
	v.SetDefault("registry.allow_id_overwrite", false)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "users.db")
	v.SetDefault("storage.redis.address", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key", "intake:users")
	v.SetDefault("storage.supabase.url", "")
	v.SetDefault("storage.supabase.key", "")
	v.SetDefault("statistics.digest_schedule", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.listen_addr", "")
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram.token is required")
	}
	if !drivers[c.Storage.Driver] {
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "supabase" && (c.Storage.Supabase.URL == "" || c.Storage.Supabase.Key == "") {
		return errors.New("storage.supabase.url and storage.supabase.key are required")
	}
	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = 60
	}
	return nil
}
