package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/start - Начать работу с ботом\n" +
	"/timezone Europe/Moscow - Указать свой часовой пояс\n" +
	"/reschedule <номер> ДД.ММ.ГГГГ ЧЧ:ММ - Попросить перенести занятие\n" +
	"/help - Показать эту справку\n\n" +
	"Для учителей:\n" +
	"/becometeacher - Зарегистрироваться как учитель\n" +
	"/myschedule - Расписание на 7 дней\n" +
	"/lesson ДД.ММ.ГГГГ ЧЧ:ММ <минуты> [ученик] - Добавить занятие\n" +
	"/approve <номер заявки> - Одобрить перенос\n" +
	"/reject <номер заявки> - Отклонить перенос"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пользователя
	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)

	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Ваш номер ученика: %d. Сообщите его учителю, чтобы он добавил вас в расписание.\n\n%s",
		registeredUser.FirstName,
		registeredUser.ID,
		helpText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleTimezone обрабатывает команду /timezone <IANA-зона>
func (h *Handlers) HandleTimezone(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		current := user.Timezone
		if current == "" {
			current = "не указан, используется " + h.messages.Location("").String()
		}
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"🕐 Часовой пояс: "+current+"\n\nИзменить: /timezone Europe/Moscow")
		return
	}

	if err := h.userService.SetTimezone(ctx, user.TelegramID, strings.TrimSpace(args[0])); err != nil {
		h.sendServiceError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Часовой пояс сохранён: "+args[0])
}
