package dto

// StatsResponse salida de GET /api/estadisticas.
type StatsResponse struct {
	TotalProducts    int64 `json:"totalProductos"`
	TotalUsers       int64 `json:"totalUsuarios"`
	ActiveProducts   int64 `json:"productosActivos"`
	ActiveUsers      int64 `json:"usuariosActivos"`
	LowStockProducts int64 `json:"productosBajoStock"`
}
