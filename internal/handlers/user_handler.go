package handlers

import (
	"net/http"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	accountService services.AccountService
	avatarService  services.AvatarService
}

func NewUserHandler(base *BaseHandler, accountService services.AccountService, avatarService services.AvatarService) *UserHandler {
	return &UserHandler{
		BaseHandler:    base,
		accountService: accountService,
		avatarService:  avatarService,
	}
}

// RegisterRoutes регистрирует маршруты /users.
// authMW защищает маршруты сессии, limitMW ограничивает signup/login.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, limitMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/signup", limitMW, h.Signup)
		users.POST("/login", limitMW, h.Login)
		users.GET("/verify/:verificationToken", h.Verify)
		users.POST("/verify", h.ResendVerification)
	}

	protected := users.Group("")
	protected.Use(authMW)
	{
		protected.GET("/logout", h.Logout)
		protected.GET("/current", h.Current)
		protected.DELETE("/current", h.DeleteCurrent)
		protected.PATCH("/subscription", h.UpdateSubscription)
		protected.PATCH("/avatars", h.UpdateAvatar)
		protected.POST("/contacts", h.AddContact)
		protected.GET("/contacts", h.ListContacts)
	}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	account, resent, err := h.accountService.Signup(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if resent {
		status = http.StatusOK
	}
	c.JSON(status, dto.SignupResponse{User: dto.NewUserResponse(account)})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	resp, err := h.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Logout(c *gin.Context) {
	account, ok := h.CurrentAccount(c)
	if !ok {
		return
	}

	if err := h.accountService.Logout(c.Request.Context(), account.ID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Current(c *gin.Context) {
	account, ok := h.CurrentAccount(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(account))
}

func (h *UserHandler) DeleteCurrent(c *gin.Context) {
	account, ok := h.CurrentAccount(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), account.ID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UpdateSubscription(c *gin.Context) {
	account, ok := h.CurrentAccount(c)
	if !ok {
		return
	}

	var req dto.SubscriptionRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	updated, err := h.accountService.UpdateSubscription(c.Request.Context(), account.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(updated))
}

func (h *UserHandler) Verify(c *gin.Context) {
	if err := h.accountService.VerifyEmail(c.Request.Context(), c.Param("verificationToken")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification successful"})
}

func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	if err := h.accountService.ResendVerification(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification email sent"})
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	account, ok := h.CurrentAccount(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "Avatar file missing", "error", err.Error())
		apperrors.HandleError(c, apperrors.ErrAvatarUpload)
		return
	}

	avatarURL, err := h.avatarService.UpdateAvatar(c.Request.Context(), account, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvatarResponse{AvatarURL: avatarURL})
}

func (h *UserHandler) AddContact(c *gin.Context) {
	account, ok := h.CurrentAccount(c)
	if !ok {
		return
	}

	var req dto.ContactRequest
	if !h.Bind_JSON(c, &req) {
		return
	}

	contact, err := h.accountService.AddOwnedContact(c.Request.Context(), account.ID, &req)
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

func (h *UserHandler) ListContacts(c *gin.Context) {
	account, ok := h.CurrentAccount(c)
	if !ok {
		return
	}

	var query dto.ContactListQuery
	if !h.Bind_Query(c, &query) {
		return
	}

	contacts, err := h.accountService.ListOwnedContacts(c.Request.Context(), account.ID, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}
