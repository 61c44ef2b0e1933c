package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
// GeminiAPIKey no es required: su ausencia significa modo fallback local,
// nunca un error de arranque.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`

	ChatModel   string `env:"CHAT_MODEL" envDefault:"gemini-2.5-flash"`
	TriageModel string `env:"TRIAGE_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel  string `env:"IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	VideoModel  string `env:"VIDEO_MODEL" envDefault:"veo-3.1-generate-preview"`

	VoiceModel    string `env:"VOICE_MODEL" envDefault:"gemini-2.5-flash-native-audio-preview"`
	VoiceEndpoint string `env:"VOICE_ENDPOINT" envDefault:"wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"`

	VideoPollSeconds     int `env:"VIDEO_POLL_SECONDS" envDefault:"10"`
	VideoPollMaxAttempts int `env:"VIDEO_POLL_MAX_ATTEMPTS" envDefault:"30"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	LeadAlertTo  string `env:"LEAD_ALERT_TO"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
