package metadomain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/shopspring/decimal"
)

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// AdInsight é uma linha de insights no nível de anúncio com time_increment=1.
// A Graph API devolve os números como texto.
type AdInsight struct {
	AccountID    string `json:"account_id"`
	AdID         string `json:"ad_id"`
	AdName       string `json:"ad_name"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Clicks       string `json:"clicks"`
	DateStart    string `json:"date_start"`
	DateStop     string `json:"date_stop"`
	Impressions  string `json:"impressions"`
	Spend        string `json:"spend"`
}

// ToDelivery converte a linha da Graph API nos números de entrega do ledger
func (a *AdInsight) ToDelivery() (*domain.AdDelivery, error) {
	if a.AdID == "" {
		return nil, fmt.Errorf("insight sem ad_id")
	}

	date, err := time.Parse(time.DateOnly, a.DateStart)
	if err != nil {
		return nil, fmt.Errorf("date_start inválido %q: %w", a.DateStart, err)
	}

	impressions, err := parseCount(a.Impressions)
	if err != nil {
		return nil, fmt.Errorf("impressions inválido %q: %w", a.Impressions, err)
	}

	clicks, err := parseCount(a.Clicks)
	if err != nil {
		return nil, fmt.Errorf("clicks inválido %q: %w", a.Clicks, err)
	}

	spend := decimal.Zero
	if a.Spend != "" {
		spend, err = decimal.NewFromString(a.Spend)
		if err != nil {
			return nil, fmt.Errorf("spend inválido %q: %w", a.Spend, err)
		}
	}

	return &domain.AdDelivery{
		Platform:      domain.PlatformMeta,
		AdReferenceID: a.AdID,
		Date:          date,
		Impressions:   impressions,
		Clicks:        clicks,
		Spend:         spend,
	}, nil
}

func parseCount(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
