package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleReschedule обрабатывает команду /reschedule <номер занятия> ДД.ММ.ГГГГ ЧЧ:ММ
func (h *Handlers) HandleReschedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	loc := h.messages.Location(user.Timezone)
	args, err := parseRescheduleArgs(update.Message.Text, loc)
	if err != nil {
		h.sendUsageError(ctx, b, update.Message.Chat.ID, err, "/reschedule <номер занятия> 21.10.2026 16:00")
		return
	}

	req, err := h.rescheduleService.SubmitRequest(ctx, user.ID, args.LessonID, args.Start)
	if err != nil {
		h.sendServiceError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"📨 Заявка #%d отправлена учителю.\nНовое время: %s",
		req.ID,
		formatting.FormatDateTime(req.ProposedStart.In(loc)),
	))
}
