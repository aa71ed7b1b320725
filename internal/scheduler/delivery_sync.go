package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/integrator/meta"
	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/metrics"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// DeliverySyncConfig representa a configuração do agendador de entrega dos anúncios
type DeliverySyncConfig struct {
	CronSchedule        string
	LookbackDays        int
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// DeliverySummary resume uma execução da sincronização de entrega
type DeliverySummary struct {
	Clients    int `json:"clients"`
	Deliveries int `json:"deliveries"`
	Upserted   int `json:"upserted"`
	Errors     int `json:"errors"`
}

// DeliverySyncService grava impressões, cliques e investimento dos anúncios do Meta no ledger.
// Conversões e receita continuam sendo responsabilidade exclusiva da reconciliação de vendas.
type DeliverySyncService struct {
	scheduler           *gocron.Scheduler
	config              DeliverySyncConfig
	clientRepo          repository.ClientRepository
	adMetricRepo        repository.AdMetricRepository
	metaService         meta.MetaIntegrator
	metrics             *metrics.Metrics
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSummary         *DeliverySummary
	now                 func() time.Time
}

func NewDeliverySyncService(
	clientRepo repository.ClientRepository,
	adMetricRepo repository.AdMetricRepository,
	metaService meta.MetaIntegrator,
	m *metrics.Metrics,
	appConfig *config.Config,
) *DeliverySyncService {
	syncConfig := DeliverySyncConfig{
		CronSchedule:        appConfig.DeliverySync.CronSchedule,
		LookbackDays:        appConfig.DeliverySync.LookbackDays,
		RequestDelaySeconds: appConfig.DeliverySync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.DeliverySync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.DeliverySync.Enabled,
	}
	if syncConfig.MaxConcurrentJobs <= 0 {
		syncConfig.MaxConcurrentJobs = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"lookback_days":         syncConfig.LookbackDays,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   syncConfig.MaxConcurrentJobs,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de entrega do Meta carregada")

	return &DeliverySyncService{
		scheduler:    gocron.NewScheduler(time.UTC),
		config:       syncConfig,
		clientRepo:   clientRepo,
		adMetricRepo: adMetricRepo,
		metaService:  metaService,
		metrics:      m,
		now:          time.Now,
	}
}

// Start inicia o agendador
func (s *DeliverySyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de entrega do Meta desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de entrega do Meta")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllDeliveries(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de entrega do Meta: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de entrega do Meta")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllDeliveries busca a entrega dos últimos dias de todos os clientes ativos com conta Meta
func (s *DeliverySyncService) syncAllDeliveries(ctx context.Context) *DeliverySummary {
	if !s.acquire() {
		logrus.Info("Sincronização de entrega do Meta já em andamento, ignorando")
		return nil
	}
	defer s.release()

	return s.runDeliveries(ctx)
}

// runDeliveries executa a sincronização; quem chama já detém o controle de execução
func (s *DeliverySyncService) runDeliveries(ctx context.Context) *DeliverySummary {
	startTime := s.now()
	s.syncMutex.Lock()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	clients, err := s.clientRepo.ListClients(ctx, []domain.ClientStatus{domain.ClientStatusActive})
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar lista de clientes para sincronização de entrega")
		s.metrics.ObserveDeliverySync("error")
		return nil
	}

	withAccount := make([]*domain.Client, 0, len(clients))
	for _, client := range clients {
		if client.MetaAdAccountID != nil && *client.MetaAdAccountID != "" {
			withAccount = append(withAccount, client)
		}
	}

	summary := &DeliverySummary{}
	if len(withAccount) == 0 {
		logrus.Info("Nenhum cliente com conta Meta para sincronização de entrega")
		s.finish(summary)
		return summary
	}

	// A Meta fecha o dia com atraso: começa de ontem e vai para trás
	end := domain.Day(startTime).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(s.config.LookbackDays - 1))
	if s.config.LookbackDays <= 0 {
		start = end
	}

	logrus.WithFields(logrus.Fields{
		"clients":    len(withAccount),
		"start_date": start.Format(time.DateOnly),
		"end_date":   end.Format(time.DateOnly),
	}).Info("Período para sincronização de entrega do Meta")

	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, client := range withAccount {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(c *domain.Client) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			fetched, upserted, err := s.processClient(ctx, c, start, end)

			mu.Lock()
			defer mu.Unlock()
			summary.Clients++
			summary.Deliveries += fetched
			summary.Upserted += upserted
			if err != nil {
				summary.Errors++
			}
		}(client)
	}

	wg.Wait()

	logrus.WithFields(logrus.Fields{
		"duration":   time.Since(startTime).String(),
		"clients":    summary.Clients,
		"deliveries": summary.Deliveries,
		"upserted":   summary.Upserted,
		"errors":     summary.Errors,
	}).Info("Sincronização de entrega do Meta concluída")

	s.finish(summary)
	return summary
}

func (s *DeliverySyncService) processClient(ctx context.Context, client *domain.Client, start, end time.Time) (int, int, error) {
	logger := logrus.WithFields(logrus.Fields{
		"client_id":     client.ID,
		"client_name":   client.DisplayName(),
		"ad_account_id": *client.MetaAdAccountID,
	})

	deliveries, err := s.metaService.GetAdDeliveries(ctx, *client.MetaAdAccountID, start, end)
	if err != nil {
		logger.WithError(err).Error("Erro ao obter entrega dos anúncios do Meta")
		return 0, 0, err
	}

	upserted := 0
	var lastErr error
	for _, delivery := range deliveries {
		err := s.adMetricRepo.UpsertDelivery(ctx, delivery.Key(client.ID), delivery.Impressions, delivery.Clicks, delivery.Spend)
		if err != nil {
			lastErr = err
			logger.WithError(err).WithField("ad_id", delivery.AdReferenceID).Error("Erro ao gravar entrega no ledger")
			continue
		}
		upserted++
	}

	logger.WithFields(logrus.Fields{
		"deliveries": len(deliveries),
		"upserted":   upserted,
	}).Info("Entrega dos anúncios do cliente sincronizada")

	// Aguardar antes do próximo cliente para evitar sobrecarga na API
	time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)

	return len(deliveries), upserted, lastErr
}

func (s *DeliverySyncService) acquire() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	return true
}

func (s *DeliverySyncService) release() {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false
}

func (s *DeliverySyncService) finish(summary *DeliverySummary) {
	result := "success"
	if summary.Errors > 0 {
		result = "partial"
	}
	s.metrics.ObserveDeliverySync(result)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.lastSyncCompletedAt = s.now()
	s.lastSummary = summary
}

// TriggerManualSync inicia manualmente uma sincronização; retorna false se já houver uma em andamento
func (s *DeliverySyncService) TriggerManualSync() bool {
	if !s.acquire() {
		logrus.Info("Sincronização de entrega do Meta já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual de entrega do Meta")
	go func() {
		defer s.release()
		s.runDeliveries(context.Background())
	}()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *DeliverySyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_summary":      s.lastSummary,
	}
}
