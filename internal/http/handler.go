package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/dealership-contracts/internal/http/middleware"
	"github.com/nurpe/dealership-contracts/internal/model"
	"github.com/nurpe/dealership-contracts/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	dashboard *service.DashboardService
	documents *service.DocumentService
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, dashboard *service.DashboardService, documents *service.DocumentService, log zerolog.Logger) *Handler {
	return &Handler{
		contracts: contracts,
		dashboard: dashboard,
		documents: documents,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/cars", h.listAvailableCars)
	protected.GET("/contracts/customers", h.listCustomers)
	protected.GET("/contracts/users", h.listUsers)
	protected.GET("/contracts/:id", h.getContract)
	protected.PATCH("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)
	protected.GET("/contracts/:id/pdf", h.exportContractPDF)

	protected.GET("/dashboard", h.getDashboard)
	protected.GET("/dashboard/export", h.exportDashboard)

	protected.POST("/contract-documents", h.registerDocument)
	protected.GET("/contract-documents", h.listDocuments)
	protected.GET("/contract-documents/:id", h.getDocument)
}

type meetingRequest struct {
	Date   string   `json:"date" binding:"required"`
	Alarms []string `json:"alarms"`
}

type createContractRequest struct {
	CarID      string           `json:"carId" binding:"required"`
	CustomerID string           `json:"customerId" binding:"required"`
	Meetings   []meetingRequest `json:"meetings"`
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	carID, err := uuid.Parse(strings.TrimSpace(req.CarID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid carId"})
		return
	}
	customerID, err := uuid.Parse(strings.TrimSpace(req.CustomerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerId"})
		return
	}
	meetings, err := parseMeetings(req.Meetings)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting date"})
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), principal.UserID, service.CreateContractInput{
		CarID:      carID,
		CustomerID: customerID,
		Meetings:   meetings,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

type updateContractRequest struct {
	UserID         *string           `json:"userId"`
	CustomerID     *string           `json:"customerId"`
	CarID          *string           `json:"carId"`
	Status         *string           `json:"status"`
	ContractPrice  *int64            `json:"contractPrice"`
	ResolutionDate *string           `json:"resolutionDate"`
	Meetings       *[]meetingRequest `json:"meetings"`
	DocumentIDs    *[]string         `json:"contractDocumentIds"`
}

func (h *Handler) updateContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateContractInput{
		ContractPrice: req.ContractPrice,
	}
	if req.UserID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.UserID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		input.UserID = &id
	}
	if req.CustomerID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.CustomerID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerId"})
			return
		}
		input.CustomerID = &id
	}
	if req.CarID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.CarID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid carId"})
			return
		}
		input.CarID = &id
	}
	if req.Status != nil {
		status := model.ContractStatus(strings.TrimSpace(*req.Status))
		input.Status = &status
	}
	if req.ResolutionDate != nil {
		date, err := parseDate(*req.ResolutionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resolutionDate"})
			return
		}
		input.ResolutionDate = &date
	}
	if req.Meetings != nil {
		meetings, err := parseMeetings(*req.Meetings)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting date"})
			return
		}
		input.Meetings = &meetings
	}
	if req.DocumentIDs != nil {
		ids := make([]uuid.UUID, 0, len(*req.DocumentIDs))
		for _, raw := range *req.DocumentIDs {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractDocumentIds"})
				return
			}
			ids = append(ids, id)
		}
		input.DocumentIDs = &ids
	}

	contract, err := h.contracts.Update(c.Request.Context(), contractID, principal.UserID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) deleteContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), contractID, principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	buckets, err := h.contracts.List(
		c.Request.Context(),
		principal.UserID,
		strings.TrimSpace(c.Query("searchBy")),
		strings.TrimSpace(c.Query("keyword")),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), contractID, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) exportContractPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	fileName, content, err := h.contracts.ExportPDF(c.Request.Context(), contractID, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) listAvailableCars(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	cars, err := h.contracts.ListAvailableCars(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *Handler) listCustomers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	customers, err := h.contracts.ListCustomers(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) listUsers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	users, err := h.contracts.ListUsers(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) getDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	dashboard, err := h.dashboard.Get(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) exportDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	fileName, content, err := h.dashboard.ExportExcel(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

type registerDocumentRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

func (h *Handler) registerDocument(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req registerDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.documents.Register(c.Request.Context(), req.FileName)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) listDocuments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	result, err := h.documents.List(
		c.Request.Context(),
		principal.UserID,
		page,
		pageSize,
		strings.TrimSpace(c.Query("keyword")),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getDocument(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), docID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseMeetings(reqs []meetingRequest) ([]service.MeetingInput, error) {
	meetings := make([]service.MeetingInput, 0, len(reqs))
	for _, req := range reqs {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, service.MeetingInput{
			Date:   date,
			Alarms: req.Alarms,
		})
	}
	return meetings, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
