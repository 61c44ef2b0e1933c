package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"sage-llm/internal/domain"
)

// GeminiClient implementa Client contra la API REST de generativelanguage.
type GeminiClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewGeminiClient construye un cliente HTTP apuntando a la API de Gemini.
func NewGeminiClient(baseURL, apiKey string, logger *zap.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGroundingChunk struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web,omitempty"`
}

type geminiCandidate struct {
	Content           geminiContent `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
	} `json:"groundingMetadata,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateContent arma el turn list y consulta :generateContent.
// Solo se consulta el primer candidato de la respuesta.
func (c *GeminiClient) GenerateContent(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	body := geminiRequest{
		Contents: make([]geminiContent, 0, len(req.Turns)),
	}
	for _, turn := range req.Turns {
		body.Contents = append(body.Contents, geminiContent{
			Role:  wireRole(turn.Role),
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}
	if req.EnableSearch {
		body.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}

	var resp geminiResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	if err := c.post(ctx, url, body, &resp); err != nil {
		return GenerateResult{}, err
	}
	if resp.Error != nil {
		return GenerateResult{}, fmt.Errorf("llm api error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		return GenerateResult{}, fmt.Errorf("llm empty response: no candidates")
	}

	candidate := resp.Candidates[0]
	return GenerateResult{
		Text:    joinTextParts(candidate.Content),
		Sources: extractSources(candidate),
	}, nil
}

// GenerateJSON pide al modelo JSON estrictamente conforme al schema y lo
// parsea directo en out. Sin heurísticas de reparación: si el payload no es
// JSON válido, la operación falla.
func (c *GeminiClient) GenerateJSON(ctx context.Context, model, prompt string, schema Schema, out any) error {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   &schema,
		},
	}

	var resp geminiResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	if err := c.post(ctx, url, body, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("llm api error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("llm empty response: no candidates")
	}

	text := joinTextParts(resp.Candidates[0].Content)
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("llm empty response: no text")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("parse structured response: %w", err)
	}
	return nil
}

// GenerateImage devuelve el payload base64 de la primera imagen generada.
func (c *GeminiClient) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}

	var resp geminiResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	if err := c.post(ctx, url, body, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("llm api error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("llm empty response: no candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData.Data, nil
		}
	}
	return "", fmt.Errorf("llm response without image payload")
}

type videoOperationResponse struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response *struct {
		GenerateVideoResponse *struct {
			GeneratedSamples []struct {
				Video *struct {
					URI string `json:"uri"`
				} `json:"video,omitempty"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse,omitempty"`
	} `json:"response,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StartVideo lanza una operación de larga duración y devuelve su nombre.
func (c *GeminiClient) StartVideo(ctx context.Context, model, prompt string) (string, error) {
	body := map[string]any{
		"instances": []map[string]any{{"prompt": prompt}},
	}

	var resp videoOperationResponse
	url := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, model)
	if err := c.post(ctx, url, body, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("llm api error: %s", resp.Error.Message)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("llm response without operation name")
	}
	return resp.Name, nil
}

// PollVideo consulta el estado de una operación de video.
func (c *GeminiClient) PollVideo(ctx context.Context, operationName string) (VideoOperation, error) {
	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, operationName, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return VideoOperation{}, fmt.Errorf("create request: %w", err)
	}

	var resp videoOperationResponse
	if err := c.do(httpReq, &resp); err != nil {
		return VideoOperation{}, err
	}
	if resp.Error != nil {
		return VideoOperation{}, fmt.Errorf("llm api error: %s", resp.Error.Message)
	}

	op := VideoOperation{Name: resp.Name, Done: resp.Done}
	if resp.Response != nil && resp.Response.GenerateVideoResponse != nil {
		for _, sample := range resp.Response.GenerateVideoResponse.GeneratedSamples {
			if sample.Video != nil && sample.Video.URI != "" {
				op.VideoURI = sample.Video.URI
				break
			}
		}
	}
	return op, nil
}

func (c *GeminiClient) post(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, out)
}

func (c *GeminiClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("llm error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return fmt.Errorf("llm http error: status=%d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// wireRole traduce el rol lógico al alias que espera la API remota.
// El alias "model" no sale de este paquete.
func wireRole(role domain.Role) string {
	if role == domain.RoleUser {
		return "user"
	}
	return "model"
}

func joinTextParts(content geminiContent) string {
	var sb strings.Builder
	for _, part := range content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// extractSources preserva el orden en que la API devolvió las citas y no
// deduplica. Chunks sin bloque web se descartan.
func extractSources(candidate geminiCandidate) []domain.Source {
	if candidate.GroundingMetadata == nil {
		return nil
	}
	var sources []domain.Source
	for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		sources = append(sources, domain.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
