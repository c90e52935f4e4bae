package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"attendance-report/internal/attendance"
	"attendance-report/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(ctx, message)
	case "help":
		h.sendHelpMessage(message)
	case "timezone":
		h.setTimezone(ctx, message, args)
	case "report":
		h.sendReport(ctx, message, args)
	case "reports":
		h.listReports(ctx, message, args)
	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.send(message.Chat.ID, "❌ Comando desconocido. Use /help para ver la lista de comandos.")
}

func (h *Handler) sendStartMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	var username, firstName string
	if message.From != nil {
		username, firstName = message.From.UserName, message.From.FirstName
	}
	if _, err := h.userService.Register(ctx, chatID, username, firstName); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to register user")
		h.send(chatID, "❌ Error al registrar el usuario: "+err.Error())
		return
	}

	h.send(chatID, fmt.Sprintf("👋 Hola, %s. Este bot genera el informe mensual de asistencia.\n\nUse /help para ver los comandos.", firstName))
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Comandos disponibles:

/start - Registrarse
/help - Esta ayuda
/timezone <zona> - Zona horaria de sus informes (por ejemplo America/Asuncion)

👑 Administradores:
/report <empresa> [año mes] - Informe de asistencia en Excel
/reports <empresa> - Últimos informes generados`

	h.send(message.Chat.ID, text)
}

func (h *Handler) setTimezone(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	name := strings.TrimSpace(args)

	user, err := h.userService.SetTimezone(ctx, chatID, name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTimezone) {
			h.send(chatID, "❌ Zona horaria desconocida: "+name)
			return
		}
		h.send(chatID, "❌ Error: "+err.Error()+"\nUse /start para registrarse.")
		return
	}

	if user.Timezone == "" {
		h.send(chatID, "✅ Zona horaria eliminada. Se usará la de la empresa.")
		return
	}
	h.send(chatID, "✅ Zona horaria: "+user.Timezone)
}

// requireAdmin answers non-admins and reports whether the caller may proceed.
func (h *Handler) requireAdmin(ctx context.Context, chatID int64) bool {
	if h.config.BaseAdminChatID != 0 && chatID == h.config.BaseAdminChatID {
		return true
	}

	isAdmin, err := h.userService.IsAdmin(ctx, chatID)
	if err != nil {
		h.send(chatID, "❌ Error al verificar permisos: "+err.Error())
		return false
	}
	if !isAdmin {
		h.send(chatID, "❌ Acceso denegado. Este comando es solo para administradores.")
		return false
	}
	return true
}

func (h *Handler) sendReport(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	companyID, year, month, err := parseReportArgs(args, time.Now())
	if err != nil {
		h.send(chatID, "❌ "+err.Error()+"\nUso: /report <empresa> [año mes]")
		return
	}

	user, err := h.userService.Register(ctx, chatID, "", "")
	if err != nil {
		h.send(chatID, "❌ Error: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	log := h.logger.WithFields(logrus.Fields{
		"chat_id":    chatID,
		"company_id": companyID,
		"year":       year,
		"month":      month,
	})
	log.Info("Report requested from bot")

	result, err := h.reportService.Export(ctx, service.ReportRequest{
		CompanyID:    companyID,
		Year:         year,
		Month:        month,
		ActingUserID: user.ID,
	})
	if err != nil {
		h.send(chatID, reportErrorText(err))
		if !isUserError(err) {
			log.WithError(err).Error("Failed to export report")
		}
		return
	}

	_, file, err := h.attachmentService.Open(ctx, result.Attachment.ID)
	if err != nil {
		log.WithError(err).Error("Failed to open stored report")
		h.send(chatID, "❌ No se pudo leer el informe generado.")
		return
	}
	defer file.Close()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{
		Name:   result.Attachment.Name,
		Reader: file,
	})
	doc.Caption = fmt.Sprintf("📊 %s\n%d empleados", result.Attachment.Name, len(result.Report.Rows))
	if _, err := h.client.Bot.Send(doc); err != nil {
		log.WithError(err).Error("Failed to send report document")
		h.send(chatID, "❌ No se pudo enviar el archivo. Descárguelo en: "+result.URL)
	}
}

func (h *Handler) listReports(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	companyID, err := strconv.ParseUint(strings.TrimSpace(args), 10, 64)
	if err != nil || companyID == 0 {
		h.send(chatID, "❌ Uso: /reports <empresa>")
		return
	}

	attachments, err := h.attachmentService.ListByCompany(ctx, uint(companyID), 10)
	if err != nil {
		h.send(chatID, "❌ Error al obtener los informes: "+err.Error())
		return
	}
	if len(attachments) == 0 {
		h.send(chatID, "📭 No hay informes generados para esta empresa.")
		return
	}

	var b strings.Builder
	b.WriteString("📁 Últimos informes:\n")
	for i := range attachments {
		fmt.Fprintf(&b, "\n%s\n%s\n", attachments[i].Name, h.attachmentService.URL(&attachments[i]))
	}
	h.send(chatID, b.String())
}

// parseReportArgs reads "<company> [year month]". The period defaults to the
// previous month relative to now.
func parseReportArgs(args string, now time.Time) (companyID uint, year, month int, err error) {
	fields := strings.Fields(args)
	if len(fields) != 1 && len(fields) != 3 {
		return 0, 0, 0, errors.New("argumentos inválidos")
	}

	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || id == 0 {
		return 0, 0, 0, fmt.Errorf("empresa inválida: %s", fields[0])
	}

	if len(fields) == 1 {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return uint(id), prev.Year(), int(prev.Month()), nil
	}

	year, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("año inválido: %s", fields[1])
	}
	month, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("mes inválido: %s", fields[2])
	}
	if _, err := attendance.NewMonth(year, month); err != nil {
		return 0, 0, 0, fmt.Errorf("período inválido: %d-%d", year, month)
	}
	return uint(id), year, month, nil
}

func isUserError(err error) bool {
	return errors.Is(err, service.ErrNoActiveEmployees) ||
		errors.Is(err, service.ErrCompanyNotFound) ||
		errors.Is(err, service.ErrInvalidPeriod)
}

func reportErrorText(err error) string {
	var noEmployees *service.NoActiveEmployeesError
	switch {
	case errors.As(err, &noEmployees):
		return "⚠️ " + noEmployees.Error()
	case errors.Is(err, service.ErrCompanyNotFound):
		return "❌ Empresa no encontrada."
	case errors.Is(err, service.ErrInvalidPeriod):
		return "❌ Período inválido."
	default:
		return "❌ Error al generar el informe."
	}
}
