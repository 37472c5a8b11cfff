package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterUser(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store, zap.NewNop())
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, 42, "anna", "Anna", "", "en")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	user, err = svc.RegisterUser(ctx, 42, "anna_k", "Anna", "K", "en")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID, "existing user is updated")
	assert.Equal(t, "anna_k", user.Username)
}

func TestLocale(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetLocale(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, svc.SetLocale(ctx, 42, model.LocaleEN))
	locale, err := svc.GetLocale(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, model.LocaleEN, locale)

	// повторная регистрация не сбрасывает выбранный язык
	_, err = svc.RegisterUser(ctx, 42, "anna", "Anna", "", "ru")
	require.NoError(t, err)
	locale, err = svc.GetLocale(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, model.LocaleEN, locale)

	assert.Error(t, svc.SetLocale(ctx, 42, model.Locale("de")))
}
