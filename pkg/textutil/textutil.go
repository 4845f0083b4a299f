// Package textutil normaliza textos de usuario: códigos cortos sin acentos y
// lectura de archivos heredados en ISO-8859-1.
package textutil

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxCodeLength largo máximo de un código generado.
const MaxCodeLength = 10

// StripAccents elimina diacríticos: "Lácteos Ñuble" -> "Lacteos Nuble".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Code genera un código corto en mayúsculas ASCII a partir de un nombre.
// Con varias palabras toma iniciales y completa con la primera palabra;
// "Distribuidora Central Ltda." -> "DCL".
func Code(name string) string {
	clean := strings.ToUpper(StripAccents(name))
	words := strings.FieldsFunc(clean, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		return truncate(words[0], MaxCodeLength)
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteByte(w[0])
	}
	code := b.String()
	if len(code) < 3 {
		code += words[0][1:]
	}
	return truncate(code, MaxCodeLength)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// NewReader envuelve r decodificando desde charset (ISO-8859-1/latin1/windows-1252).
// Cualquier otro valor devuelve r sin cambios (UTF-8).
func NewReader(r io.Reader, charset string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return r
	}
}
