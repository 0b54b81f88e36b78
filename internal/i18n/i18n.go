// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package i18n translates notifications and page labels.
package i18n

import (
	"context"
	"embed"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translationFS embed.FS

var (
	bundle   *i18n.Bundle
	initOnce sync.Once
	initErr  error
)

var supported = []language.Tag{language.English, language.German}

type localizerKey struct{}

// Init loads the embedded translations. Safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
		for _, file := range []string{"translations/active.en.toml", "translations/active.de.toml"} {
			if _, err := b.LoadMessageFileFS(translationFS, file); err != nil {
				initErr = err
				return
			}
		}
		bundle = b
	})
	return initErr
}

// WithLocale stores a localizer for lang in ctx.
func WithLocale(ctx context.Context, lang language.Tag) context.Context {
	if bundle == nil {
		return ctx
	}
	return context.WithValue(ctx, localizerKey{}, i18n.NewLocalizer(bundle, lang.String()))
}

// T translates id, falling back to the id itself.
func T(ctx context.Context, id string) string {
	return TData(ctx, id, nil)
}

// TData translates id with template data.
func TData(ctx context.Context, id string, data map[string]any) string {
	l := localizer(ctx)
	if l == nil {
		return id
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

// TPlural translates id choosing the plural form for count.
func TPlural(ctx context.Context, id string, count int) string {
	l := localizer(ctx)
	if l == nil {
		return id
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		return id
	}
	return msg
}

// MatchLanguage picks the best supported language for an Accept-Language value.
func MatchLanguage(acceptLanguage string) language.Tag {
	tag, _ := language.MatchStrings(language.NewMatcher(supported), acceptLanguage)
	base, _ := tag.Base()
	return language.Make(base.String())
}

func localizer(ctx context.Context) *i18n.Localizer {
	if l, ok := ctx.Value(localizerKey{}).(*i18n.Localizer); ok {
		return l
	}
	if bundle == nil {
		return nil
	}
	return i18n.NewLocalizer(bundle, language.English.String())
}
