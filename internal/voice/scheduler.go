package voice

import "sync"

// BufferHandle es un buffer ya entregado al reproductor que todavía puede
// detenerse antes de sonar.
type BufferHandle interface {
	Stop()
}

// Player abstrae la salida de audio: un reloj monotónico en segundos y la
// capacidad de programar un buffer PCM en un instante de ese reloj. Los
// device APIs reales quedan fuera de este paquete.
type Player interface {
	Now() float64
	PlayAt(pcm []byte, start float64) BufferHandle
}

// Scheduler programa buffers decodificados espalda con espalda sobre el
// reloj del reproductor, sin huecos ni solapes. Es una arena plana de
// handles pendientes con un cursor nextStart, no un grafo.
type Scheduler struct {
	mu         sync.Mutex
	player     Player
	sampleRate int
	nextStart  float64
	pending    map[int]BufferHandle
	seq        int
}

func NewScheduler(player Player, sampleRate int) *Scheduler {
	if sampleRate <= 0 {
		sampleRate = OutputSampleRate
	}
	return &Scheduler{
		player:     player,
		sampleRate: sampleRate,
		pending:    make(map[int]BufferHandle),
	}
}

// Enqueue programa un buffer a continuación del último y devuelve el id
// con el que liberar el handle cuando termine de sonar.
func (s *Scheduler) Enqueue(pcm []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now := s.player.Now(); s.nextStart < now {
		s.nextStart = now
	}

	handle := s.player.PlayAt(pcm, s.nextStart)
	s.nextStart += BufferSeconds(pcm, s.sampleRate)

	id := s.seq
	s.seq++
	s.pending[id] = handle
	return id
}

// Release descarta el handle de un buffer que ya terminó de reproducirse.
func (s *Scheduler) Release(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Interrupt atiende la señal "interrupted" del colaborador: detiene y
// descarta todo buffer programado pero no reproducido, y devuelve el
// cursor a cero para que el siguiente buffer arranque en el origen del
// reloj.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, handle := range s.pending {
		handle.Stop()
		delete(s.pending, id)
	}
	s.nextStart = 0
}

// PendingCount expone cuántos buffers siguen programados.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// NextStart expone el cursor de programación actual.
func (s *Scheduler) NextStart() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextStart
}
