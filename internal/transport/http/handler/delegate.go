package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docbase/internal/app"
	"docbase/internal/transport/http/response"
)

type DelegateHandler struct {
	resolver        *app.Resolver
	delegateService *app.DelegateService
}

type CreateDelegateRequest struct {
	Email       string   `json:"email" binding:"required,email,max=128"`
	DisplayName string   `json:"display_name" binding:"max=128"`
	Permissions []string `json:"permissions"`
}

type UpdateDelegateRequest struct {
	DisplayName *string  `json:"display_name"`
	Permissions []string `json:"permissions"`
	Active      *bool    `json:"active"`
}

func NewDelegateHandler(resolver *app.Resolver, delegateService *app.DelegateService) *DelegateHandler {
	return &DelegateHandler{
		resolver:        resolver,
		delegateService: delegateService,
	}
}

func (h *DelegateHandler) List(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	delegates, err := h.delegateService.List(ectx)
	if err != nil {
		respondServiceError(c, err, "list delegates failed")
		return
	}
	response.OK(c, delegates)
}

func (h *DelegateHandler) Create(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	var req CreateDelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	delegate, err := h.delegateService.Create(ectx, app.CreateDelegateInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondServiceError(c, err, "create delegate failed")
		return
	}
	response.OK(c, delegate)
}

func (h *DelegateHandler) Update(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	delegateID, err := parseUintParam(c, "id")
	if err != nil || delegateID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid delegate id")
		return
	}

	var req UpdateDelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	delegate, err := h.delegateService.Update(ectx, delegateID, app.UpdateDelegateInput{
		DisplayName: req.DisplayName,
		Permissions: req.Permissions,
		Active:      req.Active,
	})
	if err != nil {
		respondServiceError(c, err, "update delegate failed")
		return
	}
	response.OK(c, delegate)
}

func (h *DelegateHandler) Delete(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	delegateID, err := parseUintParam(c, "id")
	if err != nil || delegateID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid delegate id")
		return
	}

	if err := h.delegateService.Delete(ectx, delegateID); err != nil {
		respondServiceError(c, err, "delete delegate failed")
		return
	}
	response.OK(c, gin.H{"deleted_delegate_id": delegateID})
}
