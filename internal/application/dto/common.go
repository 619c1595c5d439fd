package dto

// ErrorResponse cuerpo de error HTTP. Ref identifica la línea que hizo fallar un lote.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Ref     string            `json:"ref,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
