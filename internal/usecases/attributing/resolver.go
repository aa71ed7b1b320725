package attributing

import (
	"strings"

	"github.com/dgflow/attribution-api/internal/domain"
)

// ResolvePlatform identifica a plataforma de origem pelo utm_source.
// Entrada ausente ou desconhecida resulta em Organic, nunca em erro.
func ResolvePlatform(utmSource *string) domain.Platform {
	if utmSource == nil {
		return domain.PlatformOrganic
	}

	source := strings.ToLower(*utmSource)

	switch {
	case strings.Contains(source, "facebook"), strings.Contains(source, "instagram"):
		return domain.PlatformMeta
	case strings.Contains(source, "google"):
		return domain.PlatformGoogle
	default:
		return domain.PlatformOrganic
	}
}
