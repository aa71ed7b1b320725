package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/integrator/crm"
	crmdomain "github.com/dgflow/attribution-api/infrastructure/integrator/crm/domain"
	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/metrics"
	"github.com/dgflow/attribution-api/internal/usecases/attributing"
	"github.com/dgflow/attribution-api/pkg/utils"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// SaleSyncConfig representa a configuração do agendador de sincronização de vendas
type SaleSyncConfig struct {
	CronSchedule        string
	LookbackDays        int
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// SyncSummary resume uma execução da sincronização
type SyncSummary struct {
	Clients    int `json:"clients"`
	Sales      int `json:"sales"`
	Applied    int `json:"applied"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
	Invalid    int `json:"invalid"`
	Errors     int `json:"errors"`
}

func (s *SyncSummary) add(batch *attributing.BatchResult) {
	s.Sales += len(batch.Results) + batch.Invalid
	s.Applied += batch.Applied
	s.Skipped += batch.Skipped
	s.Duplicates += batch.Duplicates
	s.Failed += batch.Failed
	s.Invalid += batch.Invalid
}

// SaleSyncService busca periodicamente as vendas do CRM e as envia para a reconciliação.
// Reprocessar o mesmo período é seguro: vendas já aplicadas retornam como duplicadas.
type SaleSyncService struct {
	scheduler           *gocron.Scheduler
	config              SaleSyncConfig
	clientRepo          repository.ClientRepository
	crmService          crm.CRMIntegrator
	reconciler          attributing.Reconciler
	metrics             *metrics.Metrics
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSummary         *SyncSummary
	now                 func() time.Time
}

// NewSaleSyncService cria uma nova instância do serviço de sincronização de vendas
func NewSaleSyncService(
	clientRepo repository.ClientRepository,
	crmService crm.CRMIntegrator,
	reconciler attributing.Reconciler,
	m *metrics.Metrics,
	appConfig *config.Config,
) *SaleSyncService {
	syncConfig := SaleSyncConfig{
		CronSchedule:        appConfig.SaleSync.CronSchedule,
		LookbackDays:        appConfig.SaleSync.LookbackDays,
		RequestDelaySeconds: appConfig.SaleSync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.SaleSync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.SaleSync.Enabled,
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
	}).Info("Configuração do agendador de vendas carregada")

	return &SaleSyncService{
		scheduler:  gocron.NewScheduler(time.UTC),
		config:     syncConfig,
		clientRepo: clientRepo,
		crmService: crmService,
		reconciler: reconciler,
		metrics:    m,
		now:        time.Now,
	}
}

// Start inicia o agendador
func (s *SaleSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de vendas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de vendas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllSales(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de vendas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de vendas")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllSales sincroniza o cadastro de clientes e reconcilia as vendas de todos os clientes ativos
func (s *SaleSyncService) syncAllSales(ctx context.Context) *SyncSummary {
	if !s.acquire() {
		logrus.Info("Sincronização de vendas já em andamento, ignorando")
		return nil
	}
	defer s.release()

	return s.runSales(ctx)
}

// runSales executa a sincronização; quem chama já detém o controle de execução
func (s *SaleSyncService) runSales(ctx context.Context) *SyncSummary {
	startTime := s.now()
	summary := &SyncSummary{}

	s.syncMutex.Lock()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	if err := s.SyncClients(ctx); err != nil {
		// segue com o cadastro local
		logrus.WithError(err).Warn("Erro ao sincronizar clientes do CRM")
		summary.Errors++
	}

	clients, err := s.clientRepo.ListClients(ctx, []domain.ClientStatus{domain.ClientStatusActive})
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar lista de clientes para sincronização de vendas")
		s.metrics.ObserveSaleSync("error")
		return nil
	}

	if len(clients) == 0 {
		logrus.Info("Nenhum cliente ativo encontrado para sincronização de vendas")
		s.finish(summary)
		return summary
	}

	startDate, endDate := utils.DateRange(startTime, s.config.LookbackDays)
	logrus.WithFields(logrus.Fields{
		"days":       s.config.LookbackDays,
		"start_date": startDate.Format(time.DateOnly),
		"end_date":   endDate.Format(time.DateOnly),
	}).Info("Período para sincronização de vendas")

	s.processClients(ctx, clients, startDate, endDate, summary)

	logrus.WithFields(logrus.Fields{
		"duration":   time.Since(startTime).String(),
		"clients":    summary.Clients,
		"sales":      summary.Sales,
		"applied":    summary.Applied,
		"duplicates": summary.Duplicates,
		"failed":     summary.Failed,
	}).Info("Sincronização de vendas concluída")

	s.finish(summary)
	return summary
}

// SyncClients atualiza o cadastro local de clientes a partir do CRM
func (s *SaleSyncService) SyncClients(ctx context.Context) error {
	clients, err := s.crmService.ListClients(ctx)
	if err != nil {
		return err
	}

	if err := s.clientRepo.SaveOrUpdate(ctx, clients); err != nil {
		return fmt.Errorf("erro ao salvar clientes: %w", err)
	}

	logrus.WithField("clients", len(clients)).Info("Cadastro de clientes sincronizado com o CRM")
	return nil
}

// processClients processa os clientes em paralelo, limitado por MaxConcurrentJobs
func (s *SaleSyncService) processClients(ctx context.Context, clients []*domain.Client, startDate, endDate time.Time, summary *SyncSummary) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, client := range clients {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(c *domain.Client) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			batch, err := s.processClient(ctx, c, startDate, endDate)

			mu.Lock()
			defer mu.Unlock()
			summary.Clients++
			if err != nil {
				summary.Errors++
				return
			}
			summary.add(batch)
		}(client)
	}

	wg.Wait()
}

func (s *SaleSyncService) processClient(ctx context.Context, client *domain.Client, startDate, endDate time.Time) (*attributing.BatchResult, error) {
	logger := logrus.WithFields(logrus.Fields{
		"client_id":   client.ID,
		"client_name": client.DisplayName(),
		"start_date":  startDate.Format(time.DateOnly),
		"end_date":    endDate.Format(time.DateOnly),
	})

	crmClientID := client.ID
	if client.CRMTenantID != nil && *client.CRMTenantID != "" {
		crmClientID = *client.CRMTenantID
	}

	events, err := s.crmService.GetSalesByClient(ctx, crmdomain.GetSalesParams{
		ClientID:  crmClientID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		logger.WithError(err).Error("Erro ao obter vendas do CRM para cliente")
		return nil, err
	}

	for _, event := range events {
		event.ClientID = client.ID
	}

	batch := s.reconciler.ReconcileBatch(ctx, events)

	logger.WithFields(logrus.Fields{
		"sales":      len(events),
		"applied":    batch.Applied,
		"duplicates": batch.Duplicates,
		"failed":     batch.Failed,
	}).Info("Vendas do cliente reconciliadas")

	// Aguardar antes do próximo cliente para evitar sobrecarga na API
	time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)

	return batch, nil
}

func (s *SaleSyncService) acquire() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	return true
}

func (s *SaleSyncService) release() {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false
}

func (s *SaleSyncService) finish(summary *SyncSummary) {
	result := "success"
	if summary.Failed > 0 || summary.Errors > 0 {
		result = "partial"
	}
	s.metrics.ObserveSaleSync(result)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.lastSyncCompletedAt = s.now()
	s.lastSummary = summary
}

// TriggerManualSync inicia manualmente uma sincronização; retorna false se já houver uma em andamento
func (s *SaleSyncService) TriggerManualSync() bool {
	if !s.acquire() {
		logrus.Info("Sincronização de vendas já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual de vendas")
	go func() {
		defer s.release()
		s.runSales(context.Background())
	}()
	return true
}

// TriggerClientSync atualiza o cadastro de clientes imediatamente
func (s *SaleSyncService) TriggerClientSync(ctx context.Context) error {
	return s.SyncClients(ctx)
}

// GetStatus retorna o status atual do agendador
func (s *SaleSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_summary":      s.lastSummary,
	}
}
