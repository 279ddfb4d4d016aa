// Package language renders localized user-facing messages for the closed set
// of authentication error kinds.
//
// The engine itself operates on error kinds, never on message strings; this
// package is only consulted when an error crosses the boundary toward a
// human. Unknown locales fall back to the configured default, unknown keys
// fall back to the key itself so a missing translation is visible instead of
// fatal.
package language

import (
	"fmt"

	"golang.org/x/text/language"
)

// Catalog resolves message keys against per-locale message tables.
//
// Catalog instances are intended to be configured during initialization and
// then treated as immutable.
type Catalog struct {
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
	messages map[language.Tag]map[string]string
}

// NewCatalog builds a catalog with the built-in message tables. defaultLocale
// selects the fallback table; an empty or unparsable value falls back to
// English.
func NewCatalog(defaultLocale string) *Catalog {
	fallback := language.English
	if defaultLocale != "" {
		if tag, err := language.Parse(defaultLocale); err == nil {
			fallback = tag
		}
	}

	tags := make([]language.Tag, 0, len(builtinMessages)+1)
	tags = append(tags, fallback)
	for tag := range builtinMessages {
		if tag != fallback {
			tags = append(tags, tag)
		}
	}

	return &Catalog{
		fallback: fallback,
		tags:     tags,
		matcher:  language.NewMatcher(tags),
		messages: builtinMessages,
	}
}

// Message renders the message for key in the closest supported locale.
// args are substituted positionally; nil args are replaced with an empty
// string before formatting.
func (c *Catalog) Message(key, locale string, args ...any) string {
	table := c.tableFor(locale)

	format, ok := table[key]
	if !ok {
		if fbTable, fbOK := c.messages[c.fallback]; fbOK {
			format, ok = fbTable[key]
		}
	}
	if !ok {
		return key
	}

	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, cleanArgs(args)...)
}

// Locale normalizes a caller-supplied locale to the closest supported tag,
// falling back to the default locale.
func (c *Catalog) Locale(locale string) string {
	if locale == "" {
		return c.fallback.String()
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return c.fallback.String()
	}
	_, idx, _ := c.matcher.Match(tag)
	return c.tags[idx].String()
}

func (c *Catalog) tableFor(locale string) map[string]string {
	table := c.messages[c.fallback]
	if locale == "" {
		return table
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return table
	}

	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return table
	}
	if t, ok := c.messages[c.tags[idx]]; ok {
		return t
	}
	return table
}

// cleanArgs replaces nil parameters so %v never renders "<nil>" into a
// user-facing message.
func cleanArgs(args []any) []any {
	cleaned := make([]any, len(args))
	for i, a := range args {
		if a == nil {
			cleaned[i] = ""
			continue
		}
		cleaned[i] = a
	}
	return cleaned
}

var builtinMessages = map[language.Tag]map[string]string{
	language.English: {
		"auth.bad.credentials":   "invalid username or password",
		"auth.not.authenticated": "no authenticated user in this request",
		"token.not.found":        "token not found",
		"token.expired":          "token has expired",
		"token.save.failed":      "could not persist the session token",
		"token.delete.failed":    "could not remove the session token",
		"user.not.found":         "user account no longer exists",
		"user.not.found.named":   "user account %v no longer exists",
		"engine.not.ready":       "authentication engine is not fully configured",
	},
	language.Spanish: {
		"auth.bad.credentials":   "usuario o contraseña inválidos",
		"auth.not.authenticated": "no hay usuario autenticado en esta solicitud",
		"token.not.found":        "token no encontrado",
		"token.expired":          "el token ha expirado",
		"token.save.failed":      "no se pudo guardar el token de sesión",
		"token.delete.failed":    "no se pudo eliminar el token de sesión",
		"user.not.found":         "la cuenta de usuario ya no existe",
		"user.not.found.named":   "la cuenta de usuario %v ya no existe",
		"engine.not.ready":       "el motor de autenticación no está configurado",
	},
}
