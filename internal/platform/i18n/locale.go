package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

type ctxKey struct{}

// WithLocale stores the request locale in the context.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// LocaleFromContext returns the request locale, or DefaultLocale when none
// was stored.
func LocaleFromContext(ctx context.Context) language.Tag {
	if ctx == nil {
		return DefaultLocale
	}

	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}

	return DefaultLocale
}

// Resolver picks the best supported locale for an Accept-Language header.
type Resolver struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
}

// NewResolver creates a resolver. fallback is returned for absent,
// unparseable or unsupported preferences and is always supported.
func NewResolver(fallback language.Tag, supported ...language.Tag) *Resolver {
	tags := []language.Tag{fallback}
	for _, t := range supported {
		if !containsTag(tags, t) {
			tags = append(tags, t)
		}
	}

	return &Resolver{
		fallback:  fallback,
		supported: tags,
		matcher:   language.NewMatcher(tags),
	}
}

// ParseLocales parses configured locale strings, ignoring duplicates.
func ParseLocales(values []string) ([]language.Tag, error) {
	tags := make([]language.Tag, 0, len(values))
	for _, v := range values {
		tag, err := language.Parse(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}

		if !containsTag(tags, tag) {
			tags = append(tags, tag)
		}
	}

	return tags, nil
}

// Resolve returns the supported locale that best matches header.
func (r *Resolver) Resolve(header string) language.Tag {
	if strings.TrimSpace(header) == "" {
		return r.fallback
	}

	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return r.fallback
	}

	_, idx, confidence := r.matcher.Match(prefs...)
	if confidence == language.No {
		return r.fallback
	}

	return r.supported[idx]
}

// Fallback returns the locale used when nothing matches.
func (r *Resolver) Fallback() language.Tag {
	return r.fallback
}

// Supported returns the locales the resolver can answer with.
func (r *Resolver) Supported() []language.Tag {
	out := make([]language.Tag, len(r.supported))
	copy(out, r.supported)

	return out
}

func containsTag(tags []language.Tag, tag language.Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}

	return false
}
