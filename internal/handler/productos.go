package handler

import (
	"net/http"
	"strconv"
	"strings"

	"catalogo/internal/apierror"
	"catalogo/internal/dto"
	"catalogo/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgProductoCrearIncompleto      = "Datos incompletos: 'nombre' y 'categoria_id' son obligatorios."
	msgProductoActualizarIncompleto = "Datos incompletos: ID, nombre y categoría son obligatorios."
	msgProductoEliminarIncompleto   = "El campo 'id' es obligatorio para eliminar un producto."
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary  Crear producto
// @Tags     productos
// @Accept   json
// @Produce  json
// @Param    body body     dto.CrearProductoRequest true "Producto"
// @Success  201  {object} dto.Respuesta
// @Failure  400  {object} apierror.APIError
// @Failure  503  {object} apierror.APIError
// @Router   /productos/create [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if err := bindAndValidate(c, &req, msgProductoCrearIncompleto); err != nil {
		fail(c, err)
		return
	}
	id, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Respuesta{Success: true, Message: "Producto creado correctamente.", ID: &id})
}

// Listar godoc
// @Summary  Listar productos
// @Tags     productos
// @Produce  json
// @Param    categoria_id query    int false "Filtrar por categoría"
// @Success  200          {object} dto.Respuesta{data=[]dto.ProductoResponse}
// @Failure  500          {object} apierror.APIError
// @Router   /productos/read [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), parseFiltro(c))
	if err != nil {
		fail(c, err)
		return
	}
	body := dto.Respuesta{Success: true, Data: resp}
	if len(resp) == 0 {
		body.Message = "No se encontraron productos."
	}
	c.JSON(http.StatusOK, body)
}

// parseFiltro reads ?categoria_id=. Empty or "0" means no filter; a value
// that is not an integer filters on 0, which matches no category.
func parseFiltro(c *gin.Context) dto.ProductoFilter {
	raw := strings.TrimSpace(c.Query("categoria_id"))
	if raw == "" || raw == "0" {
		return dto.ProductoFilter{}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		id = 0
	}
	return dto.ProductoFilter{CategoriaID: &id}
}

// ObtenerPorID godoc
// @Summary  Obtener un producto
// @Tags     productos
// @Produce  json
// @Param    id  query    int true "ID del producto"
// @Success  200 {object} dto.Respuesta{data=dto.ProductoResponse}
// @Failure  404 {object} apierror.APIError
// @Router   /productos/read_one [get]
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		fail(c, apierror.NoEncontrado("Producto no encontrado."))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Respuesta{Success: true, Data: resp})
}

// Actualizar godoc
// @Summary  Reemplazar un producto
// @Tags     productos
// @Accept   json
// @Produce  json
// @Param    body body     dto.ActualizarProductoRequest true "Producto"
// @Success  200  {object} dto.Respuesta
// @Failure  400  {object} apierror.APIError
// @Failure  503  {object} apierror.APIError
// @Router   /productos/update [post]
// @Router   /productos/update [put]
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarProductoRequest
	if err := bindAndValidate(c, &req, msgProductoActualizarIncompleto); err != nil {
		fail(c, err)
		return
	}
	filas, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "Producto actualizado correctamente."
	if filas == 0 {
		msg = "No se realizaron cambios (verifica si los datos son iguales)."
	}
	c.JSON(http.StatusOK, dto.Respuesta{Success: true, Message: msg})
}

// Eliminar godoc
// @Summary  Eliminar un producto
// @Tags     productos
// @Accept   json
// @Produce  json
// @Param    body body     dto.EliminarRequest true "ID"
// @Success  200  {object} dto.Respuesta
// @Failure  400  {object} apierror.APIError
// @Failure  404  {object} apierror.APIError
// @Router   /productos/delete [post]
// @Router   /productos/delete [delete]
func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, err := bindEliminar(c, msgProductoEliminarIncompleto)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Respuesta{Success: true, Message: "Producto eliminado exitosamente."})
}
