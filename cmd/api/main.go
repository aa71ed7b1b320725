package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/cache"
	"github.com/dgflow/attribution-api/infrastructure/database/postgres"
	"github.com/dgflow/attribution-api/infrastructure/integrator/crm"
	"github.com/dgflow/attribution-api/infrastructure/integrator/crm/crmclient"
	"github.com/dgflow/attribution-api/infrastructure/integrator/meta"
	"github.com/dgflow/attribution-api/infrastructure/integrator/meta/metaclient"
	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/infrastructure/repository/memory"
	"github.com/dgflow/attribution-api/internal/api"
	"github.com/dgflow/attribution-api/internal/api/handler"
	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/metrics"
	"github.com/dgflow/attribution-api/internal/scheduler"
	"github.com/dgflow/attribution-api/internal/usecases/attributing"
	"github.com/dgflow/attribution-api/internal/usecases/authenticating"
	"github.com/dgflow/attribution-api/internal/usecases/insighting"
	"github.com/sirupsen/logrus"
)

type repositories struct {
	adMetrics repository.AdMetricRepository
	audit     repository.AttributionAuditRepository
	clients   repository.ClientRepository
	ping      handler.LedgerPinger
	close     func()
}

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := newRepositories(ctx, cfg)
	defer repos.close()

	appMetrics := metrics.NewMetrics(cfg.Metrics.Namespace)

	// Sem redis o motor consulta apenas o ledger; a interface precisa ser nil sem tipo
	var processed cache.ProcessedSaleCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.ProcessedSaleTTL)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao configurar o Redis")
		}
		if err := redisCache.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Redis indisponível, seguindo apenas com o ledger")
		}
		defer redisCache.Close()
		processed = redisCache
		logrus.Info("Cache de vendas processadas habilitado")
	}

	reconciler := attributing.NewService(repos.adMetrics, repos.audit, repos.clients, processed, appMetrics, cfg)
	insighter := insighting.NewService(repos.clients, repos.adMetrics, repos.audit)
	authenticator := authenticating.NewService(cfg)

	crmIntegrator := crm.New(crmclient.NewClient(cfg))

	saleSyncService := scheduler.NewSaleSyncService(
		repos.clients,
		crmIntegrator,
		reconciler,
		appMetrics,
		cfg,
	)

	metaIntegrator := meta.New(metaclient.NewClient(cfg))

	deliverySyncService := scheduler.NewDeliverySyncService(
		repos.clients,
		repos.adMetrics,
		metaIntegrator,
		appMetrics,
		cfg,
	)

	if err := saleSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de vendas")
	} else {
		logrus.Info("Agendador de sincronização de vendas iniciado com sucesso")
	}

	if err := deliverySyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de entrega do Meta")
	} else {
		logrus.Info("Agendador de sincronização de entrega do Meta iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Reconciler:     reconciler,
		Insighter:      insighter,
		TokenValidator: authenticator,
		CronJobs: handler.CronJobServices{
			Sales:      saleSyncService,
			Deliveries: deliverySyncService,
		},
		MetricsHandler: appMetrics.Handler(),
		LedgerPing:     repos.ping,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// newRepositories escolhe entre o ledger em memória e o PostgreSQL
func newRepositories(ctx context.Context, cfg *config.Config) *repositories {
	if cfg.Database.UsesMemory() {
		logrus.Warn("Usando ledger em memória; os dados não sobrevivem ao reinício")
		return &repositories{
			adMetrics: memory.NewAdMetricStore(),
			audit:     memory.NewAuditStore(),
			clients:   memory.NewClientStore(),
			close:     func() {},
		}
	}

	conn := pgconn(ctx, cfg.Database)

	if cfg.Database.RunMigrations {
		if err := postgres.ApplyMigrations(ctx, conn); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
		logrus.Info("Migrações aplicadas com sucesso")
	}

	return &repositories{
		adMetrics: repository.NewAdMetricRepository(conn),
		audit:     repository.NewAttributionAuditRepository(conn),
		clients:   repository.NewClientRepository(conn),
		ping:      conn.Ping,
		close: func() {
			conn.Close()
		},
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
