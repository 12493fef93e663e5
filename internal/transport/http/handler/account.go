package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docbase/internal/app"
	"docbase/internal/transport/http/response"
)

type AccountHandler struct {
	resolver       *app.Resolver
	accountService *app.AccountService
}

type SaveSettingsRequest struct {
	AccountType string `json:"account_type" binding:"required"`
}

type CreateCredentialRequest struct {
	Name          string `json:"name" binding:"required,max=128"`
	DatasetHandle string `json:"dataset_handle" binding:"required,max=128"`
	APIKey        string `json:"api_key" binding:"required,max=255"`
	MaxDocuments  *int   `json:"max_documents"`
}

func NewAccountHandler(resolver *app.Resolver, accountService *app.AccountService) *AccountHandler {
	return &AccountHandler{
		resolver:       resolver,
		accountService: accountService,
	}
}

func (h *AccountHandler) GetSettings(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	account, err := h.accountService.GetSettings(ectx)
	if err != nil {
		respondServiceError(c, err, "load settings failed")
		return
	}
	response.OK(c, account)
}

func (h *AccountHandler) SaveSettings(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	account, err := h.accountService.SaveSettings(ectx, req.AccountType)
	if err != nil {
		respondServiceError(c, err, "save settings failed")
		return
	}
	response.OK(c, account)
}

func (h *AccountHandler) ListCredentials(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	creds, err := h.accountService.ListCredentials(ectx)
	if err != nil {
		respondServiceError(c, err, "list credentials failed")
		return
	}
	response.OK(c, creds)
}

func (h *AccountHandler) CreateCredential(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	var req CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	cred, err := h.accountService.CreateCredential(ectx, app.CreateCredentialInput{
		Name:          req.Name,
		DatasetHandle: req.DatasetHandle,
		APIKey:        req.APIKey,
		MaxDocuments:  req.MaxDocuments,
	})
	if err != nil {
		respondServiceError(c, err, "create credential failed")
		return
	}
	response.OK(c, cred)
}

func (h *AccountHandler) DeleteCredential(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	credentialID, err := parseUintParam(c, "id")
	if err != nil || credentialID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid credential id")
		return
	}

	if err := h.accountService.DeleteCredential(ectx, credentialID); err != nil {
		respondServiceError(c, err, "delete credential failed")
		return
	}
	response.OK(c, gin.H{"deleted_credential_id": credentialID})
}
