package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"team-chat/internal/domain/message"
	"team-chat/internal/services"
	"team-chat/internal/storage"
	"team-chat/internal/transport/httpdto"
	"team-chat/pkg/logger"
)

type MessageHandler struct {
	service *services.MessageService
	store   storage.AttachmentStore
	log     *logger.Logger
}

func NewMessageHandler(service *services.MessageService, store storage.AttachmentStore, log *logger.Logger) *MessageHandler {
	return &MessageHandler{service: service, store: store, log: log}
}

// Send handles multipart message creation: an optional text part plus zero
// or more attachment file parts. Files are stored first; a storage failure
// aborts the request and may leave already written files behind.
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	chatID, err := uuid.Parse(c.PostForm("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chatId", "INVALID_REQUEST"))
		return
	}
	content := c.PostForm("content")

	var fileHeaders []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		fileHeaders = form.File["attachments"]
	}

	attachments, err := h.storeFiles(c, chatID, userID, fileHeaders)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), chatID, content, attachments, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.InfofCtx(c.Request.Context(), "user %s sent message %s to chat %s", userID, msg.ID, chatID)
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

func (h *MessageHandler) storeFiles(c *gin.Context, chatID, userID uuid.UUID, fileHeaders []*multipart.FileHeader) ([]message.Attachment, error) {
	if len(fileHeaders) == 0 {
		return nil, nil
	}

	uploads := make([]storage.FileUpload, 0, len(fileHeaders))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range fileHeaders {
		file, err := fh.Open()
		if err != nil {
			return nil, err
		}
		opened = append(opened, file)
		uploads = append(uploads, storage.FileUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      file,
		})
	}

	return h.store.Store(c.Request.Context(), chatID, userID, uploads)
}

func (h *MessageHandler) ListChat(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid chat id", "INVALID_REQUEST"))
		return
	}
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	items, err := h.service.GetChatMessages(c.Request.Context(), chatID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"messages": httpdto.FromMessages(items)}))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	if err := h.service.DeleteMessageByID(c.Request.Context(), messageID, userID); err != nil {
		respondError(c, err)
		return
	}

	h.log.InfofCtx(c.Request.Context(), "user %s deleted message %s", userID, messageID)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
