package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Redis        Redis        `mapstructure:",squash"`
	CRM          CRM          `mapstructure:",squash"`
	Meta         Meta         `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Webhook      Webhook      `mapstructure:",squash"`
	Attribution  Attribution  `mapstructure:",squash"`
	SaleSync     SaleSync     `mapstructure:",squash"`
	DeliverySync DeliverySync `mapstructure:",squash"`
	Metrics      Metrics      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"cors_allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"server_shutdown_timeout"`
}

type Database struct {
	DSN           string `mapstructure:"-"`
	Driver        string `mapstructure:"database_driver"`
	Password      string `mapstructure:"database_password"`
	URL           string `mapstructure:"database_url"`
	User          string `mapstructure:"database_user"`
	RunMigrations bool   `mapstructure:"database_run_migrations"`

	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

// UsesMemory indica que o ledger roda em memória (desenvolvimento local)
func (d Database) UsesMemory() bool {
	return d.Driver == "memory"
}

type Redis struct {
	URL              string        `mapstructure:"redis_url"`
	Enabled          bool          `mapstructure:"redis_enabled"`
	ProcessedSaleTTL time.Duration `mapstructure:"redis_processed_sale_ttl"`
}

type CRM struct {
	URL     string        `mapstructure:"crm_url"`
	APIKey  string        `mapstructure:"crm_api_key"`
	Timeout time.Duration `mapstructure:"crm_timeout"`
}

// Meta é a Graph API usada para ler impressões, cliques e investimento dos anúncios
type Meta struct {
	URL         string        `mapstructure:"meta_url"`
	AccessToken string        `mapstructure:"meta_access_token"`
	Timeout     time.Duration `mapstructure:"meta_timeout"`
	MaxPages    int           `mapstructure:"meta_max_pages"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Webhook struct {
	Secret string `mapstructure:"webhook_secret"`
}

type Attribution struct {
	LedgerTimeout time.Duration `mapstructure:"attribution_ledger_timeout"`
	AuditTimeout  time.Duration `mapstructure:"attribution_audit_timeout"`
}

type SaleSync struct {
	CronSchedule        string `mapstructure:"sale_sync_cron"`
	LookbackDays        int    `mapstructure:"sale_sync_lookback_days"`
	RequestDelaySeconds int    `mapstructure:"sale_sync_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"sale_sync_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"sale_sync_enabled"`
}

type DeliverySync struct {
	CronSchedule        string `mapstructure:"delivery_sync_cron"`
	LookbackDays        int    `mapstructure:"delivery_sync_lookback_days"`
	RequestDelaySeconds int    `mapstructure:"delivery_sync_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"delivery_sync_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"delivery_sync_enabled"`
}

type Metrics struct {
	Namespace string `mapstructure:"metrics_namespace"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173,https://app.dgflow.com.br")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dgflow?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_RUN_MIGRATIONS", true)
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_PROCESSED_SALE_TTL", "72h") // janela típica de reentrega dos webhooks

	viper.SetDefault("CRM_URL", "http://localhost:54321/rest/v1")
	viper.SetDefault("CRM_API_KEY", "")
	viper.SetDefault("CRM_TIMEOUT", "30s")

	viper.SetDefault("META_URL", "https://graph.facebook.com/v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "")
	viper.SetDefault("META_TIMEOUT", "30s")
	viper.SetDefault("META_MAX_PAGES", 20)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("WEBHOOK_SECRET", DefaultWebhookSecret)

	viper.SetDefault("ATTRIBUTION_LEDGER_TIMEOUT", "5s")
	viper.SetDefault("ATTRIBUTION_AUDIT_TIMEOUT", "2s")

	viper.SetDefault("SALE_SYNC_CRON", "0 */1 * * *") // A cada hora
	viper.SetDefault("SALE_SYNC_LOOKBACK_DAYS", 2)    // Reprocessa os últimos 2 dias
	viper.SetDefault("SALE_SYNC_REQUEST_DELAY_SECONDS", 1)
	viper.SetDefault("SALE_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("SALE_SYNC_ENABLED", false)

	viper.SetDefault("DELIVERY_SYNC_CRON", "30 5 * * *") // Todos os dias às 05:30 UTC
	viper.SetDefault("DELIVERY_SYNC_LOOKBACK_DAYS", 3)   // A Meta ainda ajusta os números dos últimos dias
	viper.SetDefault("DELIVERY_SYNC_REQUEST_DELAY_SECONDS", 2)
	viper.SetDefault("DELIVERY_SYNC_MAX_CONCURRENT_JOBS", 2)
	viper.SetDefault("DELIVERY_SYNC_ENABLED", false)

	viper.SetDefault("METRICS_NAMESPACE", "dgflow_attribution")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultWebhookSecret só serve para desenvolvimento local
const DefaultWebhookSecret = "your_webhook_secret"

// Validate rejeita combinações que deixariam a reconciliação sem limites de
// tempo ou o webhook de vendas sem assinatura
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Webhook.Secret) == "" {
		return fmt.Errorf("config: WEBHOOK_SECRET é obrigatório")
	}
	if c.Webhook.Secret == DefaultWebhookSecret && !log.IsDevelopment() {
		logrus.Warn("config: WEBHOOK_SECRET com o valor padrão fora de desenvolvimento; qualquer um pode assinar vendas")
	}
	if c.Attribution.LedgerTimeout <= 0 {
		return fmt.Errorf("config: ATTRIBUTION_LEDGER_TIMEOUT deve ser positivo")
	}
	if c.Attribution.AuditTimeout <= 0 {
		return fmt.Errorf("config: ATTRIBUTION_AUDIT_TIMEOUT deve ser positivo")
	}
	if c.SaleSync.Enabled && c.SaleSync.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("config: SALE_SYNC_MAX_CONCURRENT_JOBS deve ser positivo")
	}
	if c.DeliverySync.Enabled && c.Meta.AccessToken == "" {
		return fmt.Errorf("config: META_ACCESS_TOKEN é obrigatório com DELIVERY_SYNC_ENABLED")
	}
	if c.Database.Driver != "postgres" && !c.Database.UsesMemory() {
		return fmt.Errorf("config: DATABASE_DRIVER desconhecido: %s", c.Database.Driver)
	}
	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
