package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventKind clasifica lo que llega del colaborador de audio.
type EventKind string

const (
	EventAudio        EventKind = "audio"
	EventInterrupted  EventKind = "interrupted"
	EventTurnComplete EventKind = "turn_complete"
	EventClosed       EventKind = "closed"
)

// Event es un evento entrante ya decodificado. Audio solo está poblado
// para EventAudio; Err solo para EventClosed con cierre anormal.
type Event struct {
	Kind  EventKind
	Audio []byte
	Err   error
}

// Session es la sesión duplex contra el colaborador de audio en vivo:
// chunks PCM salientes por SendAudio, eventos entrantes por Events.
type Session struct {
	conn      *websocket.Conn
	connMu    sync.Mutex
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

type setupMessage struct {
	Setup struct {
		Model string `json:"model"`
	} `json:"setup"`
}

type realtimeInputMessage struct {
	RealtimeInput struct {
		Audio struct {
			Data     string `json:"data"`
			MimeType string `json:"mimeType"`
		} `json:"audio"`
	} `json:"realtimeInput"`
}

type serverMessage struct {
	ServerContent *struct {
		ModelTurn *struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"modelTurn,omitempty"`
		Interrupted  bool `json:"interrupted,omitempty"`
		TurnComplete bool `json:"turnComplete,omitempty"`
	} `json:"serverContent,omitempty"`
}

// Dial abre la sesión, envía el setup con el modelo y arranca el consumo
// de eventos entrantes. El caller debe drenar Events hasta EventClosed.
func Dial(ctx context.Context, endpoint, apiKey, model string, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	url := endpoint
	if strings.TrimSpace(apiKey) != "" {
		url = fmt.Sprintf("%s?key=%s", endpoint, apiKey)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial voice collaborator: %w", err)
	}

	var setup setupMessage
	setup.Setup.Model = "models/" + model
	if err := conn.WriteJSON(setup); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send voice setup: %w", err)
	}

	s := &Session{
		conn:   conn,
		events: make(chan Event, 32),
		done:   make(chan struct{}),
		logger: logger,
	}
	go s.readLoop()
	return s, nil
}

// SendAudio envía un chunk PCM 16kHz codificado en base64.
func (s *Session) SendAudio(pcm []byte) error {
	var msg realtimeInputMessage
	msg.RealtimeInput.Audio.Data = EncodeChunk(pcm)
	msg.RealtimeInput.Audio.MimeType = fmt.Sprintf("audio/pcm;rate=%d", InputSampleRate)

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send audio chunk: %w", err)
	}
	return nil
}

// Events entrega los eventos entrantes en orden de llegada.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Close cierra la sesión; readLoop emitirá EventClosed al terminar.
// Es seguro llamarlo más de una vez y desde varias goroutines.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Session) readLoop() {
	defer close(s.events)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				s.emit(Event{Kind: EventClosed})
			default:
				s.logger.Warn("voice session read failed", zap.Error(err))
				s.emit(Event{Kind: EventClosed, Err: err})
			}
			return
		}

		for _, event := range ParseServerPayload(payload) {
			if !s.emit(event) {
				return
			}
		}
	}
}

// emit entrega un evento sin quedarse bloqueado para siempre: si la sesión
// se cierra mientras el consumidor dejó de drenar, abandona el envío.
func (s *Session) emit(event Event) bool {
	select {
	case s.events <- event:
		return true
	case <-s.done:
		return false
	}
}

// ParseServerPayload decodifica un mensaje del colaborador en cero o más
// eventos. La señal interrupted se emite antes que cualquier audio del
// mismo mensaje para que el scheduler descarte lo pendiente primero.
func ParseServerPayload(payload []byte) []Event {
	var msg serverMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil
	}
	if msg.ServerContent == nil {
		return nil
	}

	var events []Event
	if msg.ServerContent.Interrupted {
		events = append(events, Event{Kind: EventInterrupted})
	}
	if msg.ServerContent.ModelTurn != nil {
		for _, part := range msg.ServerContent.ModelTurn.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			pcm, err := DecodeChunk(part.InlineData.Data)
			if err != nil {
				continue
			}
			events = append(events, Event{Kind: EventAudio, Audio: pcm})
		}
	}
	if msg.ServerContent.TurnComplete {
		events = append(events, Event{Kind: EventTurnComplete})
	}
	return events
}
