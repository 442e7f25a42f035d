// Package apierror define el sobre de error que devuelven todos los endpoints.
// Los detalles internos (errores de SQL, stack traces) nunca viajan al
// cliente; lo que llega es siempre uno de estos dos cuerpos.
package apierror

// APIError es la respuesta de error simple: un mensaje legible para el operador.
type APIError struct {
	Detail string `json:"detail"`
}

// New arma el sobre para un mensaje dado.
func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError acompaña los 422: mensaje general más el detalle por campo.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

// NewValidation construye la respuesta a partir de los campos rechazados por
// el validador.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
