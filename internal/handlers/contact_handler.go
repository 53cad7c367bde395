package handlers

import (
	"net/http"

	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ContactHandler - анонимная телефонная книга (/contacts)
type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// RegisterRoutes регистрирует маршруты /contacts
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts")
	{
		contacts.GET("", h.List)
		contacts.GET("/:id", h.Get)
		contacts.POST("", h.Create)
		contacts.PUT("/:id", h.Update)
		contacts.DELETE("/:id", h.Delete)
		contacts.PATCH("/:id/favorite", h.UpdateFavorite)
	}
}

func (h *ContactHandler) List(c *gin.Context) {
	var query dto.ContactListQuery
	if !h.Bind_Query(c, &query) {
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), "", query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contactService.Get(c.Request.Context(), "", c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.ContactRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.Add(c.Request.Context(), "", &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ContactResponse{
		Success: true,
		Message: "Contact created",
		Data:    contact,
	})
}

func (h *ContactHandler) Update(c *gin.Context) {
	var req dto.ContactRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	_, changes, err := h.contactService.Update(c.Request.Context(), "", c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContactUpdateResponse{
		Success:       true,
		Message:       "Contact updated",
		UpdatedFields: changes,
	})
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactService.Remove(c.Request.Context(), "", c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Contact deleted"})
}

func (h *ContactHandler) UpdateFavorite(c *gin.Context) {
	var req dto.FavoriteRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.UpdateFavorite(c.Request.Context(), "", c.Param("id"), req.Favorite)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContactResponse{
		Success: true,
		Data:    contact,
	})
}
