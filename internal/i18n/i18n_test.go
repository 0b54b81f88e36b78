// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"os"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
)

func TestInit_Idempotent(t *testing.T) {
	require.NoError(t, i18n.Init())
	require.NoError(t, i18n.Init())
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	en := i18n.WithLocale(context.Background(), language.English)
	de := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "Card added successfully!", i18n.T(en, "flash_card_added"))
	assert.Equal(t, "Karte erfolgreich hinzugefügt!", i18n.T(de, "flash_card_added"))
	assert.Equal(t, "NFC codes generated successfully", i18n.T(en, "flash_codes_generated_profile"))
}

func TestT_DefaultsToEnglish(t *testing.T) {
	require.NoError(t, i18n.Init())

	assert.Equal(t, "Invalid code", i18n.T(context.Background(), "flash_invalid_code"))
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "no_such_key", i18n.T(ctx, "no_such_key"))
}

func TestTData(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Welcome, jane", i18n.TData(ctx, "dashboard_greeting", map[string]any{"Name": "jane"}))
}

func TestTPlural(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "1 code", i18n.TPlural(ctx, "codes_count", 1))
	assert.Equal(t, "10 codes", i18n.TPlural(ctx, "codes_count", 10))
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header   string
		expected language.Tag
	}{
		{"de-DE,de;q=0.9,en;q=0.8", language.German},
		{"en-US,en;q=0.9", language.English},
		{"fr-FR", language.English},
		{"", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.MatchLanguage(tt.header))
		})
	}
}

func TestTranslations_SameKeys(t *testing.T) {
	load := func(path string) []string {
		var messages map[string]any
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, toml.Unmarshal(raw, &messages))
		return lo.Keys(messages)
	}

	en := load("translations/active.en.toml")
	de := load("translations/active.de.toml")

	assert.ElementsMatch(t, en, de)
}

func TestTData_FieldMax(t *testing.T) {
	require.NoError(t, i18n.Init())
	de := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "Zu lang (höchstens 200 Zeichen)", i18n.TData(de, "field_max", map[string]any{"Max": "200"}))
}
