package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docbase/internal/app"
	"docbase/internal/transport/http/response"
)

type DocumentHandler struct {
	resolver        *app.Resolver
	documentService *app.DocumentService
}

func NewDocumentHandler(resolver *app.Resolver, documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		resolver:        resolver,
		documentService: documentService,
	}
}

func (h *DocumentHandler) List(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	credentialID := parseUintQuery(c, "credential_id")
	if credentialID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing credential_id")
		return
	}

	docs, err := h.documentService.List(ectx, credentialID)
	if err != nil {
		respondServiceError(c, err, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Quota(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	credentialID := parseUintQuery(c, "credential_id")
	if credentialID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing credential_id")
		return
	}

	status, err := h.documentService.Quota(c.Request.Context(), ectx, credentialID)
	if err != nil {
		respondServiceError(c, err, "quota check failed")
		return
	}
	response.OK(c, status)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	ectx, ok := resolveEffective(c, h.resolver)
	if !ok {
		return
	}

	documentID, err := parseUintParam(c, "id")
	if err != nil || documentID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), ectx, documentID); err != nil {
		respondServiceError(c, err, "delete document failed")
		return
	}
	response.OK(c, gin.H{"deleted_document_id": documentID})
}

func parseUintQuery(c *gin.Context, key string) uint {
	s := c.Query(key)
	if s == "" {
		return 0
	}
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}
