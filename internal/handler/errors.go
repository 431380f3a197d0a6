package handler

import (
	"errors"
	"net/http"

	"pactumsuite/internal/apierror"
	"pactumsuite/internal/middleware"
	"pactumsuite/internal/repository"
	"pactumsuite/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// responderError maps service errors to HTTP responses. Anything it does not
// recognise is logged and answered with a generic 500.
func responderError(c *gin.Context, err error) {
	var verr *service.ValidacionError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, apierror.NewValidationList(verr.Errores))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrReferenciaNoEncontrada),
		errors.Is(err, service.ErrConsecutivoDuplicado),
		errors.Is(err, service.ErrFechaFueraDeOrden),
		errors.Is(err, service.ErrStockInsuficiente),
		errors.Is(err, service.ErrCampoInmutable):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredencialesInvalidas),
		errors.Is(err, service.ErrTokenInvalido):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrEnUso):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, repository.ErrDuplicado):
		c.JSON(http.StatusConflict, apierror.New("El registro ya existe"))
	case errors.Is(err, repository.ErrReferenciaInvalida):
		c.JSON(http.StatusBadRequest, apierror.New("Referencia invalida"))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("internal error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
