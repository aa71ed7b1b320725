package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgflow/attribution-api/internal/api/handler"
	"github.com/dgflow/attribution-api/internal/api/handler/router"
	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/usecases/attributing"
	"github.com/dgflow/attribution-api/internal/usecases/authenticating"
	"github.com/dgflow/attribution-api/internal/usecases/insighting"
	"github.com/dgflow/attribution-api/pkg/middleware"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

const defaultShutdownTimeout = 15 * time.Second

// Services agrupa as dependências expostas pela API HTTP
type Services struct {
	Reconciler     attributing.Reconciler
	Insighter      insighting.Insighter
	TokenValidator authenticating.TokenValidator
	CronJobs       handler.CronJobServices
	MetricsHandler http.Handler
	LedgerPing     handler.LedgerPinger
}

func New(config *config.Config, services Services) (*Server, error) {
	if services.Reconciler == nil || services.Insighter == nil || services.TokenValidator == nil {
		return nil, fmt.Errorf("serviços obrigatórios não informados")
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.LedgerPing)...),
		router.WithRoutes(handler.Metrics(services.MetricsHandler)...),
		router.WithRoutes(handler.SalesWebhook(services.Reconciler, config.Webhook.Secret)...),
		router.WithRoutes(handler.Insights(services.Insighter)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.TokenValidator),
	}

	shutdownTimeout := config.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	srv := &Server{
		shutdownTimeout: shutdownTimeout,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler retorna a cadeia HTTP completa (middlewares + rotas)
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run bloqueia até SIGINT/SIGTERM, cancelamento de ctx ou falha do listener.
// Nos dois primeiros casos faz o desligamento gracioso.
func (s Server) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err, ok := <-serveErr:
		if ok {
			logrus.WithError(err).Error("Servidor HTTP parou com erro")
			return err
		}
		return nil
	case sig := <-signals:
		logrus.WithField("signal", sig.String()).Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", s.shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	return nil
}

// Shutdown para de aceitar conexões e aguarda as requisições em andamento,
// inclusive webhooks no meio da reconciliação
func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
