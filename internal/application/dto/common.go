package dto

// Tamaños de página del historial de movimientos.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// PageRequest ?limit=&offset= de los listados del libro.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage completa lo que el cliente no envió; se llama antes de validar.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse eco de la página servida.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de todas las respuestas de error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
