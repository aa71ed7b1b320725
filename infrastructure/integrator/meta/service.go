package meta

import (
	"context"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/integrator/meta/metaclient"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type MetaIntegrator interface {
	// GetAdDeliveries retorna impressões, cliques e investimento por anúncio e dia, com start e end inclusivos
	GetAdDeliveries(ctx context.Context, accountID string, start, end time.Time) ([]*domain.AdDelivery, error)
}

type metaIntegrator struct {
	client metaclient.Client
}

func New(client metaclient.Client) MetaIntegrator {
	return &metaIntegrator{
		client: client,
	}
}

func (s *metaIntegrator) GetAdDeliveries(ctx context.Context, accountID string, start, end time.Time) ([]*domain.AdDelivery, error) {
	insights, err := s.client.GetAdInsights(ctx, metaclient.AdInsightsParams{
		AccountID: accountID,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar insights da conta %s", accountID)
	}

	deliveries := make([]*domain.AdDelivery, 0, len(insights))
	for i := range insights {
		delivery, err := insights[i].ToDelivery()
		if err != nil {
			// uma linha malformada não invalida o restante da conta
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"ad_id":      insights[i].AdID,
				"error":      err.Error(),
			}).Warn("insights: linha do Meta ignorada")
			continue
		}
		deliveries = append(deliveries, delivery)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"rows":       len(insights),
		"deliveries": len(deliveries),
	}).Debug("insights: entregas do Meta convertidas")

	return deliveries, nil
}
