package llm

import (
	"strings"

	"go.uber.org/zap"
)

// minAPIKeyLength es el sanity check mínimo sobre la credencial.
const minAPIKeyLength = 8

// AcquireFunc entrega un cliente del colaborador remoto o reporta que no
// hay ninguno disponible. Se evalúa fresco en cada llamada: no hay
// singleton ni ciclo de vida de conexión que conservar.
type AcquireFunc func() (Client, bool)

// TryAcquire es la verificación pura de disponibilidad: credencial
// ausente o demasiado corta significa "colaborador no disponible",
// nunca un error.
func TryAcquire(baseURL, apiKey string, logger *zap.Logger) (Client, bool) {
	key := strings.TrimSpace(apiKey)
	if len(key) < minAPIKeyLength {
		return nil, false
	}
	return NewGeminiClient(baseURL, key, logger), true
}

// AcquireFromConfig fija los parámetros de conexión y deja la decisión de
// disponibilidad para el momento de cada llamada.
func AcquireFromConfig(baseURL, apiKey string, logger *zap.Logger) AcquireFunc {
	return func() (Client, bool) {
		return TryAcquire(baseURL, apiKey, logger)
	}
}
