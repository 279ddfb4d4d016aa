package language

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageEnglishDefault(t *testing.T) {
	c := NewCatalog("en")

	require.Equal(t, "token not found", c.Message("token.not.found", "en"))
	require.Equal(t, "token not found", c.Message("token.not.found", ""))
}

func TestMessageSpanish(t *testing.T) {
	c := NewCatalog("en")

	require.Equal(t, "token no encontrado", c.Message("token.not.found", "es"))
	require.Equal(t, "token no encontrado", c.Message("token.not.found", "es-PE"))
}

func TestMessageUnknownLocaleFallsBack(t *testing.T) {
	c := NewCatalog("en")

	require.Equal(t, "token has expired", c.Message("token.expired", "zz-ZZ"))
	require.Equal(t, "token has expired", c.Message("token.expired", "!!bad!!"))
}

func TestMessageUnknownKeyReturnsKey(t *testing.T) {
	c := NewCatalog("en")

	require.Equal(t, "no.such.key", c.Message("no.such.key", "en"))
}

func TestMessageSpanishDefault(t *testing.T) {
	c := NewCatalog("es")

	require.Equal(t, "usuario o contraseña inválidos", c.Message("auth.bad.credentials", ""))
}

func TestLocaleNormalization(t *testing.T) {
	c := NewCatalog("en")

	require.Equal(t, "en", c.Locale(""))
	require.Equal(t, "en", c.Locale("not-a-locale!!"))
	require.Equal(t, "es", c.Locale("es-MX"))
}

func TestMessageParameters(t *testing.T) {
	c := NewCatalog("en")

	require.Equal(t, "user account alice no longer exists",
		c.Message("user.not.found.named", "en", "alice"))
	require.Equal(t, "user account  no longer exists",
		c.Message("user.not.found.named", "en", nil))
}
