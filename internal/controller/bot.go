package controller

import (
	"context"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_scheduler/internal/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService handlers.UserService,
	lessonService handlers.LessonService,
	rescheduleService handlers.RescheduleService,
	messages *formatting.ConflictFormatter,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: handlers.NewHandlers(userService, lessonService, rescheduleService, messages, logger),
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timezone", bot.MatchTypePrefix, c.handlers.HandleTimezone)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reschedule", bot.MatchTypePrefix, c.handlers.HandleReschedule)

	// Команды для учителей
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/becometeacher", bot.MatchTypeExact, c.handlers.HandleBecomeTeacher)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myschedule", bot.MatchTypeExact, c.handlers.HandleMySchedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/lesson", bot.MatchTypePrefix, c.handlers.HandleCreateLesson)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/approve", bot.MatchTypePrefix, c.handlers.HandleApprove)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reject", bot.MatchTypePrefix, c.handlers.HandleReject)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "timezone", Description: "🕐 Часовой пояс"},
		{Command: "reschedule", Description: "🔁 Попросить перенести занятие"},
		{Command: "becometeacher", Description: "🎓 Стать учителем"},
		{Command: "myschedule", Description: "🗓 Моё расписание (учитель)"},
		{Command: "lesson", Description: "➕ Добавить занятие (учитель)"},
		{Command: "approve", Description: "✅ Одобрить перенос (учитель)"},
		{Command: "reject", Description: "🚫 Отклонить перенос (учитель)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
