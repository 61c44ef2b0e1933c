package service

import (
	"strings"

	"sage-llm/internal/domain"
)

// Constantes que el responder local incrusta en sus respuestas. Los tests
// verifican que aparezcan verbatim.
const (
	NewsletterURL  = "https://healthandtravels.beehiiv.com"
	DNSCNAMETarget = "custom.beehiiv.com"
	DNSARecordIP   = "76.76.21.21"
)

// fallbackRule es una regla de keyword -> respuesta enlatada. El orden de
// evaluación importa: la primera que matchea gana, y la genérica va al
// final.
type fallbackRule struct {
	keywords []string
	text     string
	sources  []domain.Source
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"sedona", "red rock", "vortex", "arizona"},
		text: "Sedona is where I send travelers who need the desert to do the healing. " +
			"Day one: sunrise at Airport Mesa vortex, then a slow breakfast in Uptown. " +
			"Day two: Boynton Canyon hike before the heat, sound-bath session in the afternoon. " +
			"Day three: Cathedral Rock at golden hour, journaling by Oak Creek. " +
			"The full Sedona dossier lives in the newsletter archive.",
		sources: []domain.Source{{URI: NewsletterURL, Title: "Health & Travels Dispatch"}},
	},
	{
		keywords: []string{"set up", "setup", "subdomain", "dns", "cname", "domain"},
		text: "To point your subdomain at the newsletter, add a CNAME record with value " +
			DNSCNAMETarget + " for the subdomain host, and an A record pointing the apex at " +
			DNSARecordIP + ". Propagation usually lands within an hour.",
	},
	{
		keywords: nil, // regla genérica, siempre matchea
		text: "Sage here, standing by on the local buffer. Ask me about a destination, " +
			"a wellness reset, or how to plug into the Health & Travels dispatch.",
		sources: []domain.Source{{URI: NewsletterURL, Title: "Health & Travels Dispatch"}},
	},
}

// SimulateLocalResponse es el responder determinista usado cuando el
// colaborador remoto no está disponible o falla. Función pura del input:
// mismo texto, misma respuesta.
func SimulateLocalResponse(input string) domain.ChatResult {
	lowered := strings.ToLower(input)

	for _, rule := range fallbackRules {
		if !matchesAny(lowered, rule.keywords) {
			continue
		}
		sources := make([]domain.Source, len(rule.sources))
		copy(sources, rule.sources)
		return domain.ChatResult{
			Text:        rule.text,
			Sources:     sources,
			TriggerLead: false,
			IsLocal:     true,
		}
	}

	// Inalcanzable mientras la regla genérica exista, pero el contrato de
	// texto no-vacío se mantiene igual.
	return domain.ChatResult{Text: fallbackRules[len(fallbackRules)-1].text, IsLocal: true}
}

func matchesAny(lowered string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
