// Package metrics expone contadores Prometheus del negocio, servidos en
// GET /metrics por promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VentasTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_ventas_total",
		Help: "Ventas confirmadas, por método de pago.",
	}, []string{"metodo_pago"})

	AnulacionesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_anulaciones_total",
		Help: "Ventas anuladas.",
	})

	VentasRechazadasStock = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_ventas_rechazadas_stock_total",
		Help: "Commits de venta rechazados por stock insuficiente.",
	})

	TicketsEncolados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_tickets_encolados_total",
		Help: "Trabajos de generación de ticket encolados.",
	})

	TicketsFallidos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_tickets_fallidos_total",
		Help: "Tickets que agotaron los reintentos y fueron a la DLQ.",
	})
)
