package chat

import "context"

// Generator produce una respuesta libre para un prompt (LLM u otro backend).
// El asistente solo lo usa como fallback cuando ninguna regla local matchea.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
