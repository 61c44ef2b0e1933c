package service

import (
	"reflect"
	"strings"
	"testing"
)

func TestSimulateLocalResponse_Deterministic(t *testing.T) {
	inputs := []string{"Tell me about Sedona", "how do I set up my subdomain?", "anything else"}
	for _, input := range inputs {
		first := SimulateLocalResponse(input)
		second := SimulateLocalResponse(input)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("responder not deterministic for %q: %+v vs %+v", input, first, second)
		}
	}
}

func TestSimulateLocalResponse_Sedona(t *testing.T) {
	result := SimulateLocalResponse("Tell me about Sedona")

	if !result.IsLocal {
		t.Fatalf("expected IsLocal true")
	}
	if result.TriggerLead {
		t.Fatalf("fallback never triggers lead capture")
	}
	if !strings.Contains(result.Text, "Sedona") {
		t.Fatalf("expected Sedona itinerary snippet, got %q", result.Text)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("expected exactly one source, got %d", len(result.Sources))
	}
	if result.Sources[0].URI != "https://healthandtravels.beehiiv.com" {
		t.Fatalf("unexpected source uri: %q", result.Sources[0].URI)
	}
}

func TestSimulateLocalResponse_SetupContainsDNSConstants(t *testing.T) {
	result := SimulateLocalResponse("How do I set up my subdomain?")

	if !strings.Contains(result.Text, DNSCNAMETarget) {
		t.Fatalf("expected CNAME target %q verbatim, got %q", DNSCNAMETarget, result.Text)
	}
	if !strings.Contains(result.Text, DNSARecordIP) {
		t.Fatalf("expected A record IP %q verbatim, got %q", DNSARecordIP, result.Text)
	}
}

func TestSimulateLocalResponse_GenericFallback(t *testing.T) {
	result := SimulateLocalResponse("completely unrelated question")

	if strings.TrimSpace(result.Text) == "" {
		t.Fatalf("fallback text must never be empty")
	}
	if !strings.Contains(result.Text, "standing by") {
		t.Fatalf("expected generic standing-by message, got %q", result.Text)
	}
	if len(result.Sources) != 1 || result.Sources[0].URI != NewsletterURL {
		t.Fatalf("expected newsletter citation, got %+v", result.Sources)
	}
}

func TestSimulateLocalResponse_OrderMatters(t *testing.T) {
	// "sedona" y "setup" en el mismo input: gana la regla de destino por
	// ir primera en la tabla.
	result := SimulateLocalResponse("setup a sedona trip")
	if !strings.Contains(result.Text, "Sedona") {
		t.Fatalf("expected destination rule to win, got %q", result.Text)
	}
}
