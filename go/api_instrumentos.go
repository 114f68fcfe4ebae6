package instrumentosserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	reportsdomain "github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
	reportsports "github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

// InstrumentAPI wires the catalog instruments and their product sheets.
type InstrumentAPI struct {
	service catalogports.Service
	reports reportsports.Service
}

func NewInstrumentAPI(service catalogports.Service, reports reportsports.Service) InstrumentAPI {
	return InstrumentAPI{service: service, reports: reports}
}

// Get /api/instrumentos
func (api *InstrumentAPI) ListInstruments(c *gin.Context) {
	list, err := api.service.ListInstruments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainInstruments(list))
}

// Get /api/instrumentos/:id
func (api *InstrumentAPI) GetInstrument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	instrument, err := api.service.GetInstrument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainInstrument(instrument))
}

// Post /api/instrumentos
func (api *InstrumentAPI) CreateInstrument(c *gin.Context) {
	var payload cataloghttpmapper.Instrument
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	instrument, err := cataloghttpmapper.ToDomainInstrument(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateInstrument(c.Request.Context(), instrument)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainInstrument(created))
}

// Put /api/instrumentos/:id
func (api *InstrumentAPI) UpdateInstrument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cataloghttpmapper.Instrument
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	instrument, err := cataloghttpmapper.ToDomainInstrument(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.UpdateInstrument(c.Request.Context(), id, instrument)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainInstrument(updated))
}

// Delete /api/instrumentos/:id
func (api *InstrumentAPI) DeleteInstrument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteInstrument(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/instrumentos/:id/pdf
// Downloads the product sheet
func (api *InstrumentAPI) DownloadInstrumentSheet(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	doc, err := api.reports.InstrumentSheet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc)
}

func sendDocument(c *gin.Context, doc *reportsdomain.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}
