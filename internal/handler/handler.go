package handler

import (
	"context"
	"time"

	"attendance-report/internal/config"
	"attendance-report/internal/service"
	"attendance-report/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// reportTimeout bounds one /report request.
const reportTimeout = 2 * time.Minute

type Handler struct {
	client            *telegram.Client
	userService       *service.UserService
	reportService     *service.ReportService
	attachmentService *service.AttachmentService
	config            *config.Config
	logger            *logrus.Logger
}

func NewHandler(
	client *telegram.Client,
	userService *service.UserService,
	reportService *service.ReportService,
	attachmentService *service.AttachmentService,
	cfg *config.Config,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		client:            client,
		userService:       userService,
		reportService:     reportService,
		attachmentService: attachmentService,
		config:            cfg,
		logger:            logger,
	}
}

// HandleUpdates processes updates until the channel is closed or ctx is done.
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From != nil {
		h.logger.Infof("[%s] %s", message.From.UserName, message.Text)
	}

	if !message.IsCommand() {
		h.send(message.Chat.ID, "Use /help para ver los comandos disponibles.")
		return
	}

	h.handleCommand(ctx, message)
}

func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.client.Bot.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}
