package bot

import (
	"context"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/domain"
	"github.com/Poco-dev/todo-bot/internal/botstate"
	"github.com/Poco-dev/todo-bot/repository"
	taskUC "github.com/Poco-dev/todo-bot/usecase/task"
)

const failureReply = "❌ Something went wrong, please try again."

// Service is the Telegram front-end. It translates chat messages into task
// service calls and formats results back into chat replies.
type Service struct {
	api      *tgbot.Bot
	tasks    *taskUC.UseCase
	presence repository.PresenceRepository
	state    *botstate.Store
	links    *LinkBuilder
	logger   *zap.Logger
}

func New(token string, tasks *taskUC.UseCase, presence repository.PresenceRepository, state *botstate.Store, links *LinkBuilder, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		tasks:    tasks,
		presence: presence,
		state:    state,
		links:    links,
		logger:   logger,
	}

	api, err := tgbot.New(token, s.pollingOptions()...)
	if err != nil {
		return nil, err
	}
	s.api = api

	api.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, s.onStart)
	api.RegisterHandler(tgbot.HandlerTypeMessageText, "/list", tgbot.MatchTypePrefix, s.onList)
	api.RegisterHandler(tgbot.HandlerTypeMessageText, "/stats", tgbot.MatchTypePrefix, s.onStats)
	api.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypePrefix, s.onHelp)

	return s, nil
}

// pollingOptions assembles the update-polling configuration. A persisted
// offset primes the poller past updates that were handled before a restart.
func (s *Service) pollingOptions() []tgbot.Option {
	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(s.onMessage),
		tgbot.WithMiddlewares(s.trackUpdates),
	}
	if offset := s.storedOffset(); offset > 0 {
		opts = append(opts, tgbot.WithInitialOffset(offset))
	}
	return opts
}

// Run polls for updates until the context is canceled.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("telegram bot started")
	s.api.Start(ctx)
	s.logger.Info("telegram bot stopped")
}

// trackUpdates persists the polling position and touches sender presence.
// A panicking handler must never take the front-end down with it.
func (s *Service) trackUpdates(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("bot handler panicked", zap.Any("panic", r), zap.Int64("update_id", update.ID))
			}
			if err := s.state.SetOffset(update.ID + 1); err != nil {
				s.logger.Warn("failed to persist update offset", zap.Error(err))
			}
		}()

		if owner, ok := sender(update); ok {
			s.touchPresence(ctx, owner)
		}

		next(ctx, b, update)
	}
}

func (s *Service) onStart(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	owner, ok := sender(update)
	if !ok {
		return
	}
	s.reply(ctx, update, "📝 Welcome to Todo List Bot!\n\nTap the button below to open your task list:", s.launchKeyboard(owner))
}

func (s *Service) onList(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	owner, ok := sender(update)
	if !ok {
		return
	}

	tasks, err := s.tasks.List(ctx, owner.ID)
	if err != nil {
		s.logger.Error("list tasks failed", zap.Int64("owner", owner.ID), zap.Error(err))
		s.reply(ctx, update, failureReply, nil)
		return
	}
	s.reply(ctx, update, formatTaskList(tasks), s.launchKeyboard(owner))
}

func (s *Service) onStats(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	owner, ok := sender(update)
	if !ok {
		return
	}

	stats, err := s.tasks.Summarize(ctx, owner.ID)
	if err != nil {
		s.logger.Error("summarize failed", zap.Int64("owner", owner.ID), zap.Error(err))
		s.reply(ctx, update, failureReply, nil)
		return
	}
	s.reply(ctx, update, formatStats(stats), nil)
}

func (s *Service) onHelp(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	s.reply(ctx, update, helpText, nil)
}

// onMessage treats any non-command text verbatim as a new task.
func (s *Service) onMessage(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	owner, ok := sender(update)
	if !ok {
		return
	}
	text := update.Message.Text
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	task, err := s.tasks.Add(ctx, owner, text)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) {
			s.reply(ctx, update, "⚠️ "+err.Error(), nil)
			return
		}
		s.logger.Error("add task failed", zap.Int64("owner", owner.ID), zap.Error(err))
		s.reply(ctx, update, failureReply, nil)
		return
	}
	s.reply(ctx, update, formatAdded(task), s.launchKeyboard(owner))
}

func (s *Service) reply(ctx context.Context, update *models.Update, text string, markup models.ReplyMarkup) {
	if update.Message == nil {
		return
	}
	_, err := s.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		s.logger.Warn("send message failed", zap.Int64("chat", update.Message.Chat.ID), zap.Error(err))
	}
}

func (s *Service) launchKeyboard(owner domain.Identity) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{{
			Text:   "📋 Open Todo List",
			WebApp: &models.WebAppInfo{URL: s.links.Build(owner)},
		}}},
	}
}

func (s *Service) touchPresence(ctx context.Context, owner domain.Identity) {
	if s.presence == nil {
		return
	}
	touchCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.presence.Touch(touchCtx, owner); err != nil {
		s.logger.Debug("presence touch failed", zap.Int64("owner", owner.ID), zap.Error(err))
	}
}

func (s *Service) storedOffset() int64 {
	if s.state == nil {
		return 0
	}
	offset, err := s.state.Offset()
	if err != nil {
		s.logger.Warn("failed to read update offset", zap.Error(err))
		return 0
	}
	return offset
}

func sender(update *models.Update) (domain.Identity, bool) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return domain.Identity{}, false
	}
	from := update.Message.From
	username := from.Username
	if username == "" {
		username = from.FirstName
	}
	return domain.Identity{ID: from.ID, Username: username}, true
}
