package domain

import (
	"fmt"
	"strings"
)

// Platform identifica a plataforma de anúncios à qual uma venda é atribuída
type Platform string

const (
	PlatformMeta    Platform = "meta"
	PlatformGoogle  Platform = "google"
	PlatformOrganic Platform = "organic"
)

var platforms = []Platform{PlatformMeta, PlatformGoogle, PlatformOrganic}

func (p Platform) String() string {
	return string(p)
}

// IsValid informa se p é uma das plataformas conhecidas
func (p Platform) IsValid() bool {
	for _, known := range platforms {
		if p == known {
			return true
		}
	}
	return false
}

// IsPaid informa se a plataforma representa tráfego pago
func (p Platform) IsPaid() bool {
	return p == PlatformMeta || p == PlatformGoogle
}

// ParsePlatform converte um texto livre (ex.: filtro de query string) em Platform
func ParsePlatform(value string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(value)))
	if !p.IsValid() {
		return "", fmt.Errorf("plataforma inválida: %q", value)
	}
	return p, nil
}
