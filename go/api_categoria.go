package instrumentosserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
)

// CategoryAPI wires catalog categories.
type CategoryAPI struct {
	service catalogports.Service
}

func NewCategoryAPI(service catalogports.Service) CategoryAPI {
	return CategoryAPI{service: service}
}

// Get /api/categoria
func (api *CategoryAPI) ListCategories(c *gin.Context) {
	list, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainCategories(list))
}

// Get /api/categoria/:id
func (api *CategoryAPI) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := api.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainCategory(category))
}

// Post /api/categoria
func (api *CategoryAPI) CreateCategory(c *gin.Context) {
	var payload cataloghttpmapper.Category
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateCategory(c.Request.Context(), cataloghttpmapper.ToDomainCategory(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainCategory(created))
}

// Put /api/categoria/:id
func (api *CategoryAPI) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cataloghttpmapper.Category
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.UpdateCategory(c.Request.Context(), id, cataloghttpmapper.ToDomainCategory(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainCategory(updated))
}

// Delete /api/categoria/:id
func (api *CategoryAPI) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
