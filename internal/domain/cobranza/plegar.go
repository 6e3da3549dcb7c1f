package cobranza

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// quitaDiacriticos descompone a NFD, elimina las marcas combinantes y
// recompone a NFC ("í" -> "i").
var quitaDiacriticos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// plegar normaliza un texto para comparaciones de catálogo: minúsculas y sin
// acentos. Si la transformación falla (entrada no UTF-8), cae a minúsculas.
func plegar(s string) string {
	plano, _, err := transform.String(quitaDiacriticos, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(plano)
}
