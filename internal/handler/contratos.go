package handler

import (
	"net/http"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/service"

	"github.com/gin-gonic/gin"
)

type ContratosHandler struct{ svc service.ContratoService }

func NewContratosHandler(svc service.ContratoService) *ContratosHandler {
	return &ContratosHandler{svc: svc}
}

func (h *ContratosHandler) Crear(c *gin.Context) {
	var req dto.CrearContratoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ContratosHandler) Listar(c *gin.Context) {
	var filter dto.ContratoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContratosHandler) Obtener(c *gin.Context) {
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

func (h *ContratosHandler) CrearTrabajador(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CrearTrabajadorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTrabajador(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ContratosHandler) SiguienteConsecutivo(c *gin.Context) {
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

func (h *ContratosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarContratoRequest
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

func (h *ContratosHandler) Eliminar(c *gin.Context) {
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

func (h *ContratosHandler) ProximosAVencer(c *gin.Context) {
	resp, err := h.svc.ProximosAVencer(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
