package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	mu          sync.RWMutex
	bundle      *goi18n.Bundle
	defaultLang = language.English
	once        sync.Once
)

type localizerKey struct{}

// Init builds the message bundle from the embedded locale files.
// Calling it is optional; the first lookup initializes with English as default.
func Init(defaultLanguage string) error {
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		tag = language.English
	}
	b, err := newBundle(tag)
	if err != nil {
		return err
	}
	mu.Lock()
	bundle, defaultLang = b, tag
	mu.Unlock()
	once.Do(func() {})
	return nil
}

func newBundle(tag language.Tag) (*goi18n.Bundle, error) {
	b := goi18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := b.LoadMessageFileFS(localeFS, "locales/"+e.Name()); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func getBundle() *goi18n.Bundle {
	once.Do(func() {
		b, err := newBundle(language.English)
		if err != nil {
			panic("i18n: embedded locales are invalid: " + err.Error())
		}
		mu.Lock()
		bundle = b
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return bundle
}

// NewLocalizer returns a localizer for the given Accept-Language values.
func NewLocalizer(langs ...string) *goi18n.Localizer {
	b := getBundle()
	mu.RLock()
	fallback := defaultLang.String()
	mu.RUnlock()
	return goi18n.NewLocalizer(b, append(langs, fallback)...)
}

func WithLocalizer(ctx context.Context, l *goi18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

// Middleware stores a localizer built from the Accept-Language header in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := NewLocalizer(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(WithLocalizer(r.Context(), l)))
	})
}

// Localize renders messageID with data for the request language.
// fallback is used as the template when the message is unknown.
func Localize(ctx context.Context, messageID string, data map[string]interface{}, fallback string) string {
	if messageID == "" {
		return fallback
	}
	l, ok := ctx.Value(localizerKey{}).(*goi18n.Localizer)
	if !ok {
		l = NewLocalizer()
	}
	msg, _ := l.Localize(&goi18n.LocalizeConfig{
		DefaultMessage: &goi18n.Message{ID: messageID, Other: fallback},
		TemplateData:   data,
	})
	if msg == "" {
		return fallback
	}
	return msg
}
