package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBecomeTeacher обрабатывает команду /becometeacher
func (h *Handlers) HandleBecomeTeacher(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	if user.IsTeacher {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Вы уже являетесь учителем!\n\nИспользуйте:\n/myschedule - Расписание\n/lesson - Добавить занятие")
		return
	}

	if err := h.userService.MakeTeacher(ctx, user.TelegramID); err != nil {
		h.sendServiceError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "🎓 Теперь вы учитель!\n\n"+
		"Добавляйте занятия командой /lesson ДД.ММ.ГГГГ ЧЧ:ММ <минуты> [ученик]. "+
		"Бот не даст поставить два занятия на одно время.")
}

// HandleMySchedule обрабатывает команду /myschedule
func (h *Handlers) HandleMySchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTeacher(ctx, b, update)
	if !ok {
		return
	}

	// Расписание на следующие 7 дней
	now := time.Now()
	lessons, err := h.lessonService.GetTeacherSchedule(ctx, user.ID, now, now.AddDate(0, 0, 7))
	if err != nil {
		h.logger.Error("Failed to get teacher schedule", zap.Int64("teacher_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить расписание.")
		return
	}

	if len(lessons) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🗓 На ближайшие 7 дней занятий нет.\n\nДобавить: /lesson ДД.ММ.ГГГГ ЧЧ:ММ <минуты> [ученик]")
		return
	}

	loc := h.messages.Location(user.Timezone)
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 Расписание на 7 дней (%d %s):\n\n", len(lessons), formatting.PluralizeLessons(len(lessons)))
	for _, lesson := range lessons {
		fmt.Fprintf(&sb, "#%d %s\n", lesson.ID, formatting.FormatLessonLine(lesson, loc))
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleCreateLesson обрабатывает команду /lesson ДД.ММ.ГГГГ ЧЧ:ММ <минуты> [student_id]
func (h *Handlers) HandleCreateLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTeacher(ctx, b, update)
	if !ok {
		return
	}

	loc := h.messages.Location(user.Timezone)
	args, err := parseLessonArgs(update.Message.Text, loc)
	if err != nil {
		h.sendUsageError(ctx, b, update.Message.Chat.ID, err, "/lesson 20.10.2026 14:00 60 [номер ученика]")
		return
	}

	lesson, err := h.lessonService.CreateLesson(ctx, service.CreateLessonInput{
		TeacherID:       user.ID,
		StudentID:       args.StudentID,
		StartTime:       args.Start,
		DurationMinutes: args.DurationMinutes,
	})
	if err != nil {
		h.sendServiceError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      "✅ Занятие добавлено\n\n" + formatting.FormatLessonInfo(lesson, loc),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", update.Message.Chat.ID), zap.Error(err))
	}
}

// HandleApprove обрабатывает команду /approve <номер заявки>
func (h *Handlers) HandleApprove(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTeacher(ctx, b, update)
	if !ok {
		return
	}

	requestID, err := parseIDArg(update.Message.Text)
	if err != nil {
		h.sendUsageError(ctx, b, update.Message.Chat.ID, err, "/approve <номер заявки>")
		return
	}

	lesson, err := h.rescheduleService.ApproveRequest(ctx, user.ID, requestID)
	if err != nil {
		h.sendServiceError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Занятие перенесено:\n"+formatting.FormatLessonLine(lesson, h.messages.Location(user.Timezone)))
}

// HandleReject обрабатывает команду /reject <номер заявки>
func (h *Handlers) HandleReject(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTeacher(ctx, b, update)
	if !ok {
		return
	}

	requestID, err := parseIDArg(update.Message.Text)
	if err != nil {
		h.sendUsageError(ctx, b, update.Message.Chat.ID, err, "/reject <номер заявки>")
		return
	}

	if err := h.rescheduleService.RejectRequest(ctx, user.ID, requestID); err != nil {
		h.sendServiceError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "🚫 Заявка на перенос отклонена.")
}

// sendUsageError подсказывает формат команды
func (h *Handlers) sendUsageError(ctx context.Context, b *bot.Bot, chatID int64, err error, usage string) {
	if errors.Is(err, errUsage) {
		h.sendError(ctx, b, chatID, "ℹ️ Формат команды:\n"+usage)
		return
	}
	h.sendError(ctx, b, chatID, "❌ Ошибка: "+err.Error()+"\n\nФормат: "+usage)
}
