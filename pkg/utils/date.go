package utils

import (
	"fmt"
	"time"
)

// ParseDate interpreta datas no formato AAAA-MM-DD; texto vazio retorna nil
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, fmt.Errorf("data inválida %q, use o formato AAAA-MM-DD", dateStr)
	}

	return &date, nil
}

// DateRange retorna o intervalo padrão de lookbackDays dias terminando hoje (UTC)
func DateRange(now time.Time, lookbackDays int) (time.Time, time.Time) {
	y, m, d := now.UTC().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -lookbackDays), end
}
