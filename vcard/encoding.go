package vcard

import (
	"io"
	"mime/quotedprintable"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// text returns the property value with its transfer encoding and charset
// undone. vCard backslash escapes are left for unescape.
func (p property) text() string {
	v := p.value
	if p.quotedPrintable {
		v = decodeQuotedPrintable(v)
	}
	if p.charset != "" {
		v = decodeCharset(v, p.charset)
	}
	return v
}

// decodeQuotedPrintable decodes a vCard 2.1 QUOTED-PRINTABLE value whose soft
// line breaks have already been joined. Undecodable input is returned as is.
func decodeQuotedPrintable(s string) string {
	if strings.IndexByte(s, '=') < 0 {
		return s
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(s)))
	if err != nil {
		return s
	}
	return string(decoded)
}

// decodeCharset converts s from the named IANA charset to UTF-8. Unknown
// charsets and undecodable input leave s unchanged.
func decodeCharset(s, charset string) string {
	if strings.EqualFold(charset, "UTF-8") || strings.EqualFold(charset, "US-ASCII") {
		return s
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return s
	}
	decoded, err := enc.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}
