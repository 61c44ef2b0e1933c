package voice

import (
	"encoding/base64"
	"fmt"
)

// Tasas fijas del colaborador de audio: PCM 16-bit mono en ambos sentidos.
const (
	InputSampleRate  = 16000
	OutputSampleRate = 24000

	bytesPerSample = 2
)

// EncodeChunk codifica un chunk PCM saliente a base64 para el wire.
func EncodeChunk(pcm []byte) string {
	return base64.StdEncoding.EncodeToString(pcm)
}

// DecodeChunk decodifica un chunk base64 entrante a PCM crudo.
func DecodeChunk(data string) ([]byte, error) {
	pcm, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode audio chunk: %w", err)
	}
	return pcm, nil
}

// BufferSeconds es la duración de un buffer PCM a la tasa dada.
func BufferSeconds(pcm []byte, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(len(pcm)/bytesPerSample) / float64(sampleRate)
}
