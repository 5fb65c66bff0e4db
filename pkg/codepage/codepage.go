// Package codepage maps the host's active ANSI code page to a text encoding
// and performs strict conversions between it and UTF-8.
//
// The configuration file and the marker files are stored in the legacy
// encoding the shell expects. The encoding is detected once per session.
package codepage

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// DefaultFallback is used when detection fails or yields an unmapped page
const DefaultFallback = "gbk"

// Encoding is a named legacy text encoding
type Encoding struct {
	Name     string
	CodePage uint32
	enc      encoding.Encoding
}

var table = []Encoding{
	{Name: "gbk", CodePage: 936, enc: simplifiedchinese.GBK},
	{Name: "utf-8", CodePage: 65001, enc: unicode.UTF8},
	{Name: "cp1252", CodePage: 1252, enc: charmap.Windows1252},
	{Name: "big5", CodePage: 950, enc: traditionalchinese.Big5},
	{Name: "shift_jis", CodePage: 932, enc: japanese.ShiftJIS},
	// x/text's EUC-KR is the WHATWG table, which is CP949 with the UHC
	// extension
	{Name: "cp949", CodePage: 949, enc: korean.EUCKR},
	{Name: "cp1251", CodePage: 1251, enc: charmap.Windows1251},
	{Name: "cp1250", CodePage: 1250, enc: charmap.Windows1250},
	{Name: "cp1253", CodePage: 1253, enc: charmap.Windows1253},
	{Name: "cp1254", CodePage: 1254, enc: charmap.Windows1254},
	{Name: "cp1255", CodePage: 1255, enc: charmap.Windows1255},
	{Name: "cp1256", CodePage: 1256, enc: charmap.Windows1256},
	{Name: "cp1257", CodePage: 1257, enc: charmap.Windows1257},
	{Name: "cp1258", CodePage: 1258, enc: charmap.Windows1258},
	{Name: "cp874", CodePage: 874, enc: charmap.Windows874},
}

var aliases = map[string]string{
	"utf8":      "utf-8",
	"cp936":     "gbk",
	"cp65001":   "utf-8",
	"cp950":     "big5",
	"cp932":     "shift_jis",
	"sjis":      "shift_jis",
	"shift-jis": "shift_jis",
	"euc-kr":    "cp949",

	"windows-1252": "cp1252",
	"windows-1251": "cp1251",
	"windows-1250": "cp1250",
	"windows-1253": "cp1253",
	"windows-1254": "cp1254",
	"windows-1255": "cp1255",
	"windows-1256": "cp1256",
	"windows-1257": "cp1257",
	"windows-1258": "cp1258",
	"windows-874":  "cp874",
}

// ForCodePage returns the encoding registered for a Windows code page
func ForCodePage(cp uint32) (Encoding, bool) {
	for _, e := range table {
		if e.CodePage == cp {
			return e, true
		}
	}
	return Encoding{}, false
}

// Lookup finds an encoding by name, case-insensitively
func Lookup(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	for _, e := range table {
		if e.Name == key {
			return e, nil
		}
	}
	return Encoding{}, errors.Newf(errors.ErrSettingsValid, "unknown encoding %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the supported encoding names
func Names() []string {
	names := make([]string, 0, len(table))
	for _, e := range table {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Detect resolves the session encoding. acp reports the active code page;
// any failure or an unmapped page falls back to the named fallback.
func Detect(acp func() (uint32, error), fallback string) Encoding {
	if acp != nil {
		if cp, err := acp(); err == nil {
			if e, ok := ForCodePage(cp); ok {
				return e
			}
		}
	}
	if e, err := Lookup(fallback); err == nil {
		return e
	}
	e, _ := Lookup(DefaultFallback)
	return e
}

// String implements fmt.Stringer
func (e Encoding) String() string {
	if e.CodePage == 0 {
		return e.Name
	}
	return fmt.Sprintf("%s (code page %d)", e.Name, e.CodePage)
}

// Decode converts encoded bytes to a UTF-8 string. Bytes that are invalid in
// the encoding are an error rather than being replaced.
func (e Encoding) Decode(data []byte) (string, error) {
	if e.enc == nil {
		return "", errors.New(errors.ErrInternal, "encoding not initialised")
	}
	out, err := e.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigEncoding, "text is not valid %s", e.Name)
	}
	if containsReplacement(out, data) {
		return "", errors.Newf(errors.ErrConfigEncoding, "text is not valid %s", e.Name).
			WithDetail("encoding", e.Name)
	}
	return strings.TrimPrefix(string(out), "\ufeff"), nil
}

// Encode converts a UTF-8 string to the encoding. Characters the encoding
// cannot represent are an error.
func (e Encoding) Encode(s string) ([]byte, error) {
	if e.enc == nil {
		return nil, errors.New(errors.ErrInternal, "encoding not initialised")
	}
	out, err := e.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigEncoding, "text cannot be represented in %s", e.Name)
	}
	return out, nil
}

// containsReplacement reports a U+FFFD in the output that the input did not
// already carry as a literal UTF-8 sequence.
func containsReplacement(out, in []byte) bool {
	r := string(utf8.RuneError)
	return strings.Count(string(out), r) > strings.Count(string(in), r)
}
