package handler

import (
	"net/http"

	"catalogo/internal/apierror"
	"catalogo/internal/dto"
	"catalogo/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgCategoriaCrearIncompleto      = "Datos incompletos. El nombre es obligatorio."
	msgCategoriaActualizarIncompleto = "Datos incompletos: 'id' y 'nombre' son obligatorios."
	msgCategoriaEliminarIncompleto   = "ID no proporcionado."
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Crear godoc
// @Summary  Crear categoría
// @Tags     categorias
// @Accept   json
// @Produce  json
// @Param    body body     dto.CrearCategoriaRequest true "Categoría"
// @Success  201  {object} dto.Respuesta
// @Failure  400  {object} apierror.APIError
// @Failure  503  {object} apierror.APIError
// @Router   /categorias/create [post]
func (h *CategoriasHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if err := bindAndValidate(c, &req, msgCategoriaCrearIncompleto); err != nil {
		fail(c, err)
		return
	}
	id, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Respuesta{Success: true, Message: "Categoría creada exitosamente.", ID: &id})
}

// Listar godoc
// @Summary  Listar categorías con su total de productos
// @Tags     categorias
// @Produce  json
// @Success  200 {object} dto.Respuesta{data=[]dto.CategoriaResponse}
// @Failure  500 {object} apierror.APIError
// @Router   /categorias/read [get]
func (h *CategoriasHandler) Listar(c *gin.Context) {
	list, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	resp := dto.Respuesta{Success: true, Data: list}
	if len(list) == 0 {
		resp.Message = "No se encontraron categorías."
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary  Obtener una categoría
// @Tags     categorias
// @Produce  json
// @Param    id  query    int true "ID de la categoría"
// @Success  200 {object} dto.Respuesta{data=dto.CategoriaResponse}
// @Failure  404 {object} apierror.APIError
// @Router   /categorias/read_one [get]
func (h *CategoriasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		fail(c, apierror.NoEncontrado("Categoría no encontrada."))
		return
	}
	cat, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Respuesta{Success: true, Data: cat})
}

// Actualizar godoc
// @Summary  Reemplazar una categoría
// @Tags     categorias
// @Accept   json
// @Produce  json
// @Param    body body     dto.ActualizarCategoriaRequest true "Categoría"
// @Success  200  {object} dto.Respuesta
// @Failure  400  {object} apierror.APIError
// @Failure  503  {object} apierror.APIError
// @Router   /categorias/update [post]
// @Router   /categorias/update [put]
func (h *CategoriasHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarCategoriaRequest
	if err := bindAndValidate(c, &req, msgCategoriaActualizarIncompleto); err != nil {
		fail(c, err)
		return
	}
	filas, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "Categoría actualizada exitosamente."
	if filas == 0 {
		msg = "No se realizaron cambios (la categoría no existe o los datos son iguales)."
	}
	c.JSON(http.StatusOK, dto.Respuesta{Success: true, Message: msg})
}

// Eliminar godoc
// @Summary  Eliminar una categoría sin productos
// @Tags     categorias
// @Accept   json
// @Produce  json
// @Param    body body     dto.EliminarRequest true "ID"
// @Success  200  {object} dto.Respuesta
// @Failure  400  {object} apierror.APIError
// @Failure  404  {object} apierror.APIError
// @Failure  503  {object} apierror.APIError
// @Router   /categorias/delete [post]
// @Router   /categorias/delete [delete]
func (h *CategoriasHandler) Eliminar(c *gin.Context) {
	id, err := bindEliminar(c, msgCategoriaEliminarIncompleto)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Respuesta{Success: true, Message: "Categoría eliminada exitosamente."})
}
