package attributing

import "strings"

// ExtractAdReference retorna utm_content quando preenchido, senão utm_term, senão nil
func ExtractAdReference(utmContent, utmTerm *string) *string {
	if ref := nonEmpty(utmContent); ref != nil {
		return ref
	}
	return nonEmpty(utmTerm)
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
