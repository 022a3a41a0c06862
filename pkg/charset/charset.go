// Package charset registers named character set codecs and decodes or
// encodes byte strings through them. Codecs are backed by
// golang.org/x/text/encoding; UTF forms come from the standard library
// behavior of x/text's unicode encodings.
package charset

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Codec is one registered character set: an encoding plus its display
// description.
type Codec struct {
	Name        string
	Description string
	enc         encoding.Encoding
}

// Registry holds the named codecs. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewRegistry creates a registry preloaded with the standard codecs.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec)}
	for _, c := range standardCodecs() {
		r.codecs[c.Name] = c
	}
	return r
}

// Register adds or replaces a codec.
func (r *Registry) Register(name, description string, enc encoding.Encoding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[name] = Codec{Name: name, Description: description, enc: enc}
}

// Names returns the registered codec names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a codec by name.
func (r *Registry) Lookup(name string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[name]
	if !ok {
		return Codec{}, fmt.Errorf("unknown character set: %s", name)
	}
	return c, nil
}

// Decode interprets raw bytes as text in the named character set and
// returns the UTF-8 result.
func (r *Registry) Decode(name string, data []byte) (string, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", name, err)
	}
	return string(out), nil
}

// Encode converts UTF-8 text into the named character set's bytes.
// Characters the set cannot represent are an error, not a substitution.
func (r *Registry) Encode(name, text string) ([]byte, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", name, err)
	}
	return out, nil
}

// DecodeAll decodes the same bytes through every registered codec,
// keyed by codec name. Codecs that reject the input map to an empty
// string rather than failing the whole report.
func (r *Registry) DecodeAll(data []byte) map[string]string {
	results := make(map[string]string)
	for _, name := range r.Names() {
		out, err := r.Decode(name, data)
		if err != nil {
			out = ""
		}
		results[name] = out
	}
	return results
}

// EncodeAll encodes the same text through every registered codec,
// keyed by codec name. Codecs that cannot represent the text map to
// nil.
func (r *Registry) EncodeAll(text string) map[string][]byte {
	results := make(map[string][]byte)
	for _, name := range r.Names() {
		out, err := r.Encode(name, text)
		if err != nil {
			out = nil
		}
		results[name] = out
	}
	return results
}

func standardCodecs() []Codec {
	return []Codec{
		{"big5", "Big5, traditional Chinese", traditionalchinese.Big5},
		{"cp437", "IBM code page 437, original DOS", charmap.CodePage437},
		{"cp850", "IBM code page 850, western European DOS", charmap.CodePage850},
		{"cp1252", "Windows code page 1252, western European", charmap.Windows1252},
		{"euc_jp", "EUC-JP, Japanese", japanese.EUCJP},
		{"euc_kr", "EUC-KR, Korean", korean.EUCKR},
		{"gb18030", "GB 18030, simplified Chinese", simplifiedchinese.GB18030},
		{"gbk", "GBK, simplified Chinese", simplifiedchinese.GBK},
		{"iso8859_1", "ISO 8859-1, Latin-1", charmap.ISO8859_1},
		{"iso8859_2", "ISO 8859-2, central European", charmap.ISO8859_2},
		{"iso8859_5", "ISO 8859-5, Cyrillic", charmap.ISO8859_5},
		{"iso8859_7", "ISO 8859-7, Greek", charmap.ISO8859_7},
		{"iso8859_15", "ISO 8859-15, Latin-9", charmap.ISO8859_15},
		{"koi8_r", "KOI8-R, Russian Cyrillic", charmap.KOI8R},
		{"mac_roman", "Macintosh Roman", charmap.Macintosh},
		{"shift_jis", "Shift JIS, Japanese", japanese.ShiftJIS},
		{"utf_8", "UTF-8", unicode.UTF8},
		{"utf_16_be", "UTF-16, big endian, no BOM", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
		{"utf_16_le", "UTF-16, little endian, no BOM", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	}
}
