package dto

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required"`
	Documento *string `json:"documento"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ActualizarClienteRequest struct {
	Nombre    string  `json:"nombre"`
	Documento *string `json:"documento"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ClienteResponse struct {
	ID                string  `json:"id"`
	Nombre            string  `json:"nombre"`
	Documento         *string `json:"documento,omitempty"`
	Telefono          *string `json:"telefono,omitempty"`
	Email             *string `json:"email,omitempty"`
	Direccion         *string `json:"direccion,omitempty"`
	EsConsumidorFinal bool    `json:"es_consumidor_final"`
	Activo            bool    `json:"activo"`
}
