package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pactumsuite/internal/apierror"
	"pactumsuite/internal/dto"
	"pactumsuite/internal/infra"
	"pactumsuite/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type FacturasHandler struct {
	svc     service.FacturaService
	empresa string
}

func NewFacturasHandler(svc service.FacturaService, empresa string) *FacturasHandler {
	return &FacturasHandler{svc: svc, empresa: empresa}
}

func (h *FacturasHandler) Crear(c *gin.Context) {
	usuarioID, ok := claimsUserID(c)
	if !ok {
		return
	}
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FacturasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FacturasHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Filtrar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) SiguienteConsecutivo(c *gin.Context) {
	anio, ok := anioQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.SiguienteConsecutivo(c.Request.Context(), anio)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar streams every invoice matching the filter as an xlsx workbook.
func (h *FacturasHandler) Exportar(c *gin.Context) {
	var filter dto.FacturaFilter
	if !bindQuery(c, &filter) {
		return
	}
	facturas, sumas, err := h.svc.Exportar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	nombre := fmt.Sprintf("facturas_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Status(http.StatusOK)
	if err := infra.ExportarFacturasXLSX(c.Writer, facturas, sumas); err != nil {
		// headers are already out; only the log can report it
		log.Error().Err(err).Msg("export xlsx failed")
	}
}

// PDF renders the invoice on demand from its current state.
func (h *FacturasHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	f, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	nombre := fmt.Sprintf("factura_%d_%s.pdf", f.NumConsecutivo, f.Fecha)
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+nombre+`"`)
	c.Status(http.StatusOK)
	if err := infra.EscribirFacturaPDF(c.Writer, h.empresa, f); err != nil {
		log.Error().Err(err).Str("factura_id", f.ID).Msg("pdf render failed")
	}
}

// anioQuery reads ?anio=, defaulting to the current year.
func anioQuery(c *gin.Context) (int, bool) {
	raw := c.Query("anio")
	if raw == "" {
		return time.Now().UTC().Year(), true
	}
	anio, err := strconv.Atoi(raw)
	if err != nil || anio < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("anio invalido"))
		return 0, false
	}
	return anio, true
}
