// Package i18n translates the service's user-facing error messages.
// Fare calculation output itself is always rendered in the ticketing
// character set and is never translated; only the HTTP error envelope is.
package i18n

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale is the locale used when the caller states no preference.
const DefaultLocale = "en"

// AcceptLanguageHeader carries the caller's language preference.
const AcceptLanguageHeader = "Accept-Language"

// Translation keys for the HTTP error envelope.
const (
	ErrKeyInvalidRequestBody  = "error.invalid_request_body"
	ErrKeyInternalError       = "error.internal_error"
	ErrKeyRateLimitExceeded   = "error.rate_limit_exceeded"
	ErrKeyValidationFarePaths = "error.validation.fare_paths"
	ErrKeyDisplayOverflow     = "error.display_overflow"
	ErrKeyInvalidToken        = "error.invalid_token"
	ErrKeyTokenRequired       = "error.token_required"
)

// catalog maps locale -> key -> message. English is the complete set;
// other locales fall back to it per key.
var catalog = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequestBody:  "Invalid request body",
		ErrKeyInternalError:       "An unexpected error occurred",
		ErrKeyRateLimitExceeded:   "Too many pricing requests, please try again later",
		ErrKeyValidationFarePaths: "fare_paths: at least one priced fare path is required",
		ErrKeyDisplayOverflow:     "Fare amount exceeds the display field length",
		ErrKeyInvalidToken:        "Invalid or expired token",
		ErrKeyTokenRequired:       "Authentication token is required",
	},
	"es": {
		ErrKeyInvalidRequestBody:  "Cuerpo de la solicitud no válido",
		ErrKeyInternalError:       "Se produjo un error inesperado",
		ErrKeyRateLimitExceeded:   "Demasiadas solicitudes de tarificación, inténtelo más tarde",
		ErrKeyValidationFarePaths: "fare_paths: se requiere al menos un fare path tarificado",
		ErrKeyDisplayOverflow:     "El importe de la tarifa excede la longitud del campo",
		ErrKeyInvalidToken:        "Token no válido o caducado",
		ErrKeyTokenRequired:       "Se requiere token de autenticación",
	},
	"pt": {
		ErrKeyInvalidRequestBody:  "Corpo da requisição inválido",
		ErrKeyInternalError:       "Ocorreu um erro inesperado",
		ErrKeyRateLimitExceeded:   "Muitas requisições de precificação, tente novamente mais tarde",
		ErrKeyValidationFarePaths: "fare_paths: pelo menos um fare path precificado é obrigatório",
		ErrKeyDisplayOverflow:     "Valor da tarifa excede o comprimento do campo de exibição",
		ErrKeyInvalidToken:        "Token inválido ou expirado",
		ErrKeyTokenRequired:       "Token de autenticação é obrigatório",
	},
}

// Translator resolves message keys against the catalog.
type Translator struct{}

var defaultTranslator Translator

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	return &defaultTranslator
}

// Translate returns the message for key in the given locale. Unknown
// locales and untranslated keys fall back to English; an unknown key
// comes back verbatim so the error code is still visible to the caller.
func (Translator) Translate(key, locale string) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// GetLocale picks the first supported language from the request's
// Accept-Language header. Tags arrive in preference order, so the first
// supported base language wins; region subtags are ignored.
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		if i := strings.IndexByte(tag, '-'); i > 0 {
			tag = tag[:i]
		}
		tag = strings.ToLower(strings.TrimSpace(tag))
		if _, ok := catalog[tag]; ok {
			return tag
		}
	}
	return DefaultLocale
}
