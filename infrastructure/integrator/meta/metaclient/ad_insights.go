package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	metadomain "github.com/dgflow/attribution-api/infrastructure/integrator/meta/domain"
	"github.com/sirupsen/logrus"
)

const (
	adInsightFields = "account_id,ad_id,ad_name,campaign_id,campaign_name,impressions,clicks,spend"
	pageLimit       = 500
)

type AdInsightsParams struct {
	AccountID string
	Start     time.Time
	End       time.Time
}

type ResponseAdInsights struct {
	Data   []metadomain.AdInsight `json:"data"`
	Paging metadomain.Paging      `json:"paging"`
}

// GetAdInsights retorna os insights diários por anúncio da conta, seguindo a paginação
func (c *MetaClient) GetAdInsights(ctx context.Context, params AdInsightsParams) ([]metadomain.AdInsight, error) {
	next := c.adInsightsURL(params)
	insights := make([]metadomain.AdInsight, 0)

	for page := 0; next != ""; page++ {
		if c.config.MaxPages > 0 && page >= c.config.MaxPages {
			logrus.WithFields(logrus.Fields{
				"account_id": params.AccountID,
				"pages":      page,
			}).Warn("Limite de páginas de insights do Meta atingido")
			break
		}

		var response ResponseAdInsights
		if err := c.get(ctx, next, &response); err != nil {
			return nil, err
		}

		insights = append(insights, response.Data...)
		next = response.Paging.Next
	}

	return insights, nil
}

func (c *MetaClient) adInsightsURL(params AdInsightsParams) string {
	accountID := params.AccountID
	if !strings.HasPrefix(accountID, "act_") {
		accountID = "act_" + accountID
	}

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", params.Start.Format(time.DateOnly), params.End.Format(time.DateOnly))

	query := url.Values{}
	query.Set("level", "ad")
	query.Set("time_increment", "1")
	query.Set("fields", adInsightFields)
	query.Set("time_range", timeRange)
	query.Set("limit", strconv.Itoa(pageLimit))
	query.Set("access_token", c.config.AccessToken)

	return fmt.Sprintf("%s/%s/insights?%s", strings.TrimRight(c.config.URL, "/"), accountID, query.Encode())
}
