package handler

import (
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"team-chat/internal/storage"
	"team-chat/internal/transport/httpdto"
)

// FileHandler proxies locally stored attachment content. When the s3 driver
// is active, attachments carry direct public URLs and this endpoint reports
// unavailable.
type FileHandler struct {
	store storage.AttachmentStore
}

func NewFileHandler(store storage.AttachmentStore) *FileHandler {
	return &FileHandler{store: store}
}

func (h *FileHandler) Get(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat id", "INVALID_REQUEST"))
		return
	}
	fileName := c.Param("fileName")

	file, err := h.store.Load(c.Request.Context(), chatID, fileName)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
		return
	}

	contentType := mimetype.Detect(data).String()
	c.Header("Content-Disposition", `inline; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, data)
}
