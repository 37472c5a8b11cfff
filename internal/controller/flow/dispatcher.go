package flow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/controller/callbackdata"
	"github.com/Freeeeeet/lesson_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_bot/internal/i18n"
	"github.com/Freeeeeet/lesson_bot/internal/model"
	"go.uber.org/zap"
)

const (
	CommandStart       = "start"
	CommandHelp        = "help"
	CommandAppointment = "appointment"
	CommandEvents      = "events"
	CommandLocale      = "locale"
	CommandCancel      = "cancel"
)

// Config параметры диалога записи
type Config struct {
	StartHour       int
	EndHour         int
	Location        *time.Location
	DefaultLocale   model.Locale
	AccessorTimeout time.Duration
	// Now источник текущего времени, по умолчанию time.Now
	Now func() time.Time
}

// Dispatcher ведёт пользователя по шагам записи: дата, время, периодичность.
// Состояние диалога хранится только в callback data и в черновике занятия,
// поэтому между событиями диспетчер ничего не помнит.
type Dispatcher struct {
	lessons   LessonAccessor
	users     UserAccessor
	transport Transport
	steps     *keyboard.Steps
	registry  *callbackdata.Registry
	tr        i18n.Translator
	cfg       Config
	logger    *zap.Logger
}

func NewDispatcher(
	lessons LessonAccessor,
	users UserAccessor,
	transport Transport,
	steps *keyboard.Steps,
	registry *callbackdata.Registry,
	tr i18n.Translator,
	cfg Config,
	logger *zap.Logger,
) *Dispatcher {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if !cfg.DefaultLocale.IsValid() {
		cfg.DefaultLocale = model.DefaultLocale
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Dispatcher{
		lessons:   lessons,
		users:     users,
		transport: transport,
		steps:     steps,
		registry:  registry,
		tr:        tr,
		cfg:       cfg,
		logger:    logger,
	}
}

// Commands команды меню бота на языке locale
func (d *Dispatcher) Commands(locale model.Locale) []Command {
	names := []string{CommandStart, CommandAppointment, CommandEvents, CommandCancel, CommandLocale, CommandHelp}
	commands := make([]Command, 0, len(names))
	for _, name := range names {
		commands = append(commands, Command{
			Name:        name,
			Description: d.tr.Translate(locale, "command."+name, nil),
		})
	}
	return commands
}

// SetupCommands регистрирует меню команд для каждого языка и меню
// по умолчанию для клиентов на остальных языках
func (d *Dispatcher) SetupCommands(ctx context.Context) error {
	for _, locale := range model.Locales() {
		if err := d.transport.SetCommands(ctx, locale, d.Commands(locale)); err != nil {
			return err
		}
	}
	return d.transport.SetCommands(ctx, "", d.Commands(d.cfg.DefaultLocale))
}

// HandleMessage обрабатывает текстовое сообщение. Всё, кроме команд, игнорируется.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) {
	command, ok := parseCommand(msg.Text)
	if !ok {
		return
	}

	d.logger.Info("Command received",
		zap.Int64("user_id", msg.UserID),
		zap.String("command", command))

	locale := d.locale(ctx, msg.UserID, msg.LanguageCode)

	var (
		reply Reply
		err   error
	)
	switch command {
	case CommandStart:
		reply, err = d.start(ctx, msg, locale)
	case CommandAppointment:
		reply, err = d.appointment(ctx, msg, locale)
	case CommandEvents:
		reply, err = d.events(ctx, msg.UserID, locale, 0)
	case CommandLocale:
		reply, err = d.chooseLocale(locale)
	case CommandCancel:
		reply, err = d.cancelDraft(ctx, msg.UserID, locale)
	default:
		reply = d.text(locale, "message.help", nil)
	}

	if err != nil {
		reply, err = d.rerender(ctx, msg.UserID, locale, err)
		if err != nil {
			d.logger.Error("Failed to handle command",
				zap.Int64("user_id", msg.UserID),
				zap.String("command", command),
				zap.Error(err))
			d.send(ctx, msg.ChatID, d.text(locale, "message.error", nil))
			return
		}
	}
	d.send(ctx, msg.ChatID, reply)
}

// HandleCallback обрабатывает нажатие кнопки. Нажатое сообщение удаляется
// только когда следующий шаг готов; при ошибке хранилища клавиатура остаётся,
// чтобы кнопку можно было нажать ещё раз.
func (d *Dispatcher) HandleCallback(ctx context.Context, ev CallbackEvent) {
	locale := d.locale(ctx, ev.UserID, ev.LanguageCode)

	action, err := d.registry.Decode(ev.Token)
	if err != nil {
		d.logger.Warn("Invalid callback data",
			zap.Int64("user_id", ev.UserID),
			zap.String("data", ev.Token),
			zap.String("kind", d.registry.Classify(ev.Token).String()),
			zap.Error(err))
		d.send(ctx, ev.ChatID, d.text(locale, "message.use_buttons", nil))
		return
	}

	d.logger.Info("Callback received",
		zap.Int64("user_id", ev.UserID),
		zap.String("kind", action.Kind().String()),
		zap.String("data", ev.Token))

	reply, err := d.route(ctx, ev, action, &locale)
	if err != nil {
		reply, err = d.rerender(ctx, ev.UserID, locale, err)
		if err != nil {
			d.logger.Error("Failed to handle callback",
				zap.Int64("user_id", ev.UserID),
				zap.String("kind", action.Kind().String()),
				zap.Error(err))
			d.send(ctx, ev.ChatID, d.text(locale, "message.error", nil))
			return
		}
	}

	if err := d.transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		d.logger.Warn("Failed to delete message",
			zap.Int64("chat_id", ev.ChatID),
			zap.Int("message_id", ev.MessageID),
			zap.Error(err))
	}
	d.send(ctx, ev.ChatID, reply)
}

// route выбирает переход по виду действия. Смена языка меняет locale,
// чтобы ответ пришёл уже на новом языке.
func (d *Dispatcher) route(ctx context.Context, ev CallbackEvent, action callbackdata.Action, locale *model.Locale) (Reply, error) {
	switch a := action.(type) {
	case callbackdata.SelectDate:
		return d.selectDate(ctx, ev.UserID, a.Date, *locale)
	case callbackdata.NextDates:
		return d.dates(a.Date.AddDate(0, 0, d.steps.Window()), *locale)
	case callbackdata.PreviousDates:
		return d.dates(a.Date.AddDate(0, 0, -d.steps.Window()), *locale)
	case callbackdata.SelectTime:
		return d.selectTime(ctx, ev.UserID, a.Hour, *locale)
	case callbackdata.SelectPeriod:
		return d.selectPeriod(ctx, ev.UserID, a.Period, *locale)
	case callbackdata.OpenLesson:
		return d.openLesson(ctx, ev.UserID, a, *locale)
	case callbackdata.ApplyAction:
		return d.applyAction(ctx, ev.UserID, a, *locale)
	case callbackdata.LessonsPage:
		return d.events(ctx, ev.UserID, *locale, a.Page)
	case callbackdata.SelectLocale:
		if err := d.setLocale(ctx, ev.UserID, a.Locale); err != nil {
			return Reply{}, err
		}
		*locale = a.Locale
		return d.text(a.Locale, "message.locale_set", nil), nil
	default:
		return Reply{}, stale(StepMenu, "unsupported action "+action.Kind().String())
	}
}

// rerender перерисовывает шаг после устаревшего нажатия.
// Остальные ошибки возвращаются без изменений.
func (d *Dispatcher) rerender(ctx context.Context, userID int64, locale model.Locale, err error) (Reply, error) {
	var staleErr *StaleStateError
	if !errors.As(err, &staleErr) {
		return Reply{}, err
	}

	d.logger.Info("Stale callback",
		zap.Int64("user_id", userID),
		zap.String("step", string(staleErr.Step)),
		zap.String("reason", staleErr.Reason))

	switch staleErr.Step {
	case StepDate:
		reply, err := d.dates(d.today(), locale)
		return d.prefix(locale, "message.date_past", reply), err
	case StepTime:
		reply, err := d.times(ctx, staleErr.Date, locale)
		return d.prefix(locale, "message.slot_taken", reply), err
	case StepLessons:
		reply, err := d.events(ctx, userID, locale, 0)
		return d.prefix(locale, "message.lesson_gone", reply), err
	default:
		return d.text(locale, "message.stale", nil), nil
	}
}

// locale язык пользователя: сохранённый выбор, иначе язык клиента Telegram,
// иначе язык бота по умолчанию
func (d *Dispatcher) locale(ctx context.Context, userID int64, languageCode string) model.Locale {
	locale, err := call(ctx, d.cfg.AccessorTimeout, "get locale", func(ctx context.Context) (model.Locale, error) {
		return d.users.GetLocale(ctx, userID)
	})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		d.logger.Warn("Failed to get user locale", zap.Int64("user_id", userID), zap.Error(err))
	}
	if err == nil && locale.IsValid() {
		return locale
	}
	if locale, ok := i18n.MatchLocale(languageCode); ok {
		return locale
	}
	return d.cfg.DefaultLocale
}

func (d *Dispatcher) setLocale(ctx context.Context, userID int64, locale model.Locale) error {
	return exec(ctx, d.cfg.AccessorTimeout, "set locale", func(ctx context.Context) error {
		return d.users.SetLocale(ctx, userID, locale)
	})
}

// today сегодняшняя дата в часовом поясе бота
func (d *Dispatcher) today() time.Time {
	return model.TruncateDay(d.cfg.Now().In(d.cfg.Location))
}

func (d *Dispatcher) text(locale model.Locale, key string, params i18n.Params) Reply {
	return Reply{Text: d.tr.Translate(locale, key, params)}
}

func (d *Dispatcher) prefix(locale model.Locale, key string, reply Reply) Reply {
	reply.Text = d.tr.Translate(locale, key, nil) + "\n\n" + reply.Text
	return reply
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, reply Reply) {
	if err := d.transport.SendMessage(ctx, chatID, reply.Text, reply.Keyboard); err != nil {
		d.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// parseCommand выделяет имя команды из "/name@bot args"
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name, _, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}
