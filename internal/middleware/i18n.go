package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// SupportedLocales are the display locales for formatted amounts. The first
// entry is the default.
var SupportedLocales = []language.Tag{
	language.English,
	language.Indonesian,
	language.German,
	language.French,
	language.Japanese,
}

var localeMatcher = language.NewMatcher(SupportedLocales)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores the display locale, and the caller's country when known, in the
// request context.
func I18N(fallback language.Tag, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, fallback, country)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			w.Header().Set("Content-Language", locale.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback language.Tag, country string) language.Tag {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		if tag, err := language.Parse(v); err == nil {
			if t, ok := matchLocale(tag); ok {
				return t
			}
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(tags) > 0 {
		if t, ok := matchLocale(tags...); ok {
			return t
		}
	}
	if country != "" {
		if region, err := language.ParseRegion(country); err == nil {
			if tag, err := language.Compose(region); err == nil {
				if base, conf := tag.Base(); conf != language.No {
					if t, ok := matchLocale(language.Make(base.String())); ok {
						return t
					}
				}
			}
		}
	}
	if fallback != language.Und {
		return fallback
	}
	return SupportedLocales[0]
}

func matchLocale(tags ...language.Tag) (language.Tag, bool) {
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return SupportedLocales[idx], true
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the display locale, English when unset.
func LocaleFromContext(ctx context.Context) language.Tag {
	if v, ok := ctx.Value(LocaleKey).(language.Tag); ok {
		return v
	}
	return SupportedLocales[0]
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the given request.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}
