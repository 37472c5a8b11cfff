package flow

import (
	"context"

	"github.com/Freeeeeet/lesson_bot/internal/i18n"
	"github.com/Freeeeeet/lesson_bot/internal/model"
)

// start регистрирует пользователя и приветствует его
func (d *Dispatcher) start(ctx context.Context, msg Message, locale model.Locale) (Reply, error) {
	err := exec(ctx, d.cfg.AccessorTimeout, "register user", func(ctx context.Context) error {
		_, err := d.users.RegisterUser(ctx, msg.UserID, msg.Username, msg.FirstName, msg.LastName, msg.LanguageCode)
		return err
	})
	if err != nil {
		return Reply{}, err
	}

	name := msg.FirstName
	if name == "" {
		name = msg.Username
	}
	return d.text(locale, "message.start", i18n.Params{"name": name}), nil
}

func (d *Dispatcher) chooseLocale(locale model.Locale) (Reply, error) {
	kb, err := d.steps.Locales()
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: d.tr.Translate(locale, "message.choose_locale", nil), Keyboard: kb}, nil
}
