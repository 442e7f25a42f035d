package handler

// mappers.go — conversión model → DTO de respuesta. Los handlers nunca
// devuelven modelos GORM crudos.

import (
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
)

func toProductoResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:           p.ID.String(),
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Categoria:    p.Categoria,
		PrecioVenta:  p.PrecioVenta,
		UltimoCosto:  p.UltimoCosto,
		StockActual:  p.StockActual,
		StockMinimo:  p.StockMinimo,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
	}
	for i := range p.Presentaciones {
		resp.Presentaciones = append(resp.Presentaciones, toPresentacionResponse(&p.Presentaciones[i]))
	}
	return resp
}

func toPresentacionResponse(p *model.Presentacion) dto.PresentacionResponse {
	return dto.PresentacionResponse{
		ID:                      p.ID.String(),
		ProductoID:              p.ProductoID.String(),
		Nombre:                  p.Nombre,
		UnidadesPorPresentacion: p.UnidadesPorPresentacion,
		Precio:                  p.Precio,
		Activa:                  p.Activa,
	}
}

func toVentaResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:              v.ID.String(),
		NumeroFactura:   v.NumeroFactura,
		Subtotal:        v.Subtotal,
		Descuento:       v.Descuento,
		Total:           v.Total,
		MetodoPago:      v.MetodoPago,
		MontoRecibido:   v.MontoRecibido,
		Anulada:         v.Anulada,
		MotivoAnulacion: v.MotivoAnulacion,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		resp.ClienteID = &id
	}
	if v.MontoRecibido != nil {
		vuelto := v.MontoRecibido.Sub(v.Total)
		resp.Vuelto = &vuelto
	}
	for i := range v.Items {
		item := &v.Items[i]
		itemResp := dto.ItemVentaResponse{
			Cantidad:                item.Cantidad,
			UnidadesPorPresentacion: item.UnidadesPorPresentacion,
			PrecioUnitario:          item.PrecioUnitario,
			Subtotal:                item.Subtotal,
		}
		if item.Producto != nil {
			itemResp.Producto = item.Producto.Nombre
		}
		if item.Presentacion != nil {
			itemResp.Presentacion = &item.Presentacion.Nombre
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}

func toMovimientoResponse(m *model.MovimientoStock) dto.MovimientoStockResponse {
	resp := dto.MovimientoStockResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.Producto != nil {
		resp.Producto = m.Producto.Nombre
	}
	if m.VentaID != nil {
		id := m.VentaID.String()
		resp.VentaID = &id
	}
	return resp
}

func toClienteResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:                c.ID.String(),
		Nombre:            c.Nombre,
		Documento:         c.Documento,
		Telefono:          c.Telefono,
		Email:             c.Email,
		Direccion:         c.Direccion,
		EsConsumidorFinal: c.EsConsumidorFinal,
		Activo:            c.Activo,
	}
}

func toCategoriaResponse(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}

func toHistorialCostoResponse(h *model.HistorialCosto) dto.HistorialCostoResponse {
	return dto.HistorialCostoResponse{
		ID:            h.ID.String(),
		ProductoID:    h.ProductoID.String(),
		CostoUnitario: h.CostoUnitario,
		CreatedAt:     h.CreatedAt.Format(time.RFC3339),
	}
}
