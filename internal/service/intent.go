package service

import (
	"strings"

	"sage-llm/internal/domain"
)

// intentRule asigna un tag de mensaje a un conjunto de keywords. La tabla
// es ordenada y explícita para que sea testeable y reemplazable; es una
// heurística gruesa, no NLP.
type intentRule struct {
	tag      domain.MessageType
	keywords []string
}

var intentRules = []intentRule{
	{
		tag: domain.MessageTypeLeadCapture,
		keywords: []string{
			"membership", "join", "access", "email", "sage",
			"apply", "subscribe", "sign up", "newsletter",
		},
	},
}

// ClassifyIntent evalúa la tabla de reglas en orden sobre el texto
// concatenado de input y respuesta. Sin match devuelve el tag de texto
// plano.
func ClassifyIntent(text string) domain.MessageType {
	lowered := strings.ToLower(text)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.tag
			}
		}
	}
	return domain.MessageTypeText
}

// DetectLeadIntent reporta si el texto dispara el affordance de captura
// de leads en el UI.
func DetectLeadIntent(text string) bool {
	return ClassifyIntent(text) == domain.MessageTypeLeadCapture
}
