package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported o ResponseWriter não suporta flush incremental
var ErrStreamingUnsupported = errors.New("streaming não suportado pela conexão")

// Sink é para onde o driver de lote envia eventos de progresso. O stream HTTP
// implementa Sink; o worker assíncrono usa NopSink.
type Sink interface {
	Send(eventType string, data interface{}) error
}

// NopSink descarta eventos (lotes processados em background, sem ouvinte)
type NopSink struct{}

func (NopSink) Send(string, interface{}) error { return nil }

// Emitter escreve eventos como frames `data: <json>\n\n` com flush imediato.
// É usado por uma única goroutine produtora por requisição.
type Emitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEmitter prepara os headers do stream e valida o suporte a flush
func NewEmitter(w http.ResponseWriter) (*Emitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &Emitter{w: w, flusher: flusher}, nil
}

// Send serializa e envia um evento; cada evento vira exatamente um frame
func (e *Emitter) Send(eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}
