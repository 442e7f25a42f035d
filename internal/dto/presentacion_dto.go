package dto

import "github.com/shopspring/decimal"

type CrearPresentacionRequest struct {
	Nombre                  string          `json:"nombre"                    validate:"required"`
	UnidadesPorPresentacion int             `json:"unidades_por_presentacion" validate:"required,min=1"`
	Precio                  decimal.Decimal `json:"precio"                    validate:"required,gt=0"`
}

type ActualizarPresentacionRequest struct {
	Nombre string           `json:"nombre"`
	Precio *decimal.Decimal `json:"precio" validate:"omitempty,gt=0"`
}

type PresentacionResponse struct {
	ID                      string          `json:"id"`
	ProductoID              string          `json:"producto_id"`
	Nombre                  string          `json:"nombre"`
	UnidadesPorPresentacion int             `json:"unidades_por_presentacion"`
	Precio                  decimal.Decimal `json:"precio"`
	Activa                  bool            `json:"activa"`
}
