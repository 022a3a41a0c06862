package unidata

// Conjoining Jamo arithmetic from the Unicode standard, section 3.12.
const (
	hangulSBase = 0xAC00
	hangulLBase = 0x1100
	hangulVBase = 0x1161
	hangulTBase = 0x11A7
	hangulLast  = 0xD7A3

	hangulVCount = 21
	hangulTCount = 28
	hangulNCount = hangulVCount * hangulTCount
)

// IsHangulSyllable reports whether r is a precomposed Hangul syllable.
func IsHangulSyllable(r rune) bool {
	return r >= hangulSBase && r <= hangulLast
}

// DecomposeHangul decomposes a precomposed Hangul syllable into its
// leading consonant, vowel, and trailing consonant Jamo. The trailing
// Jamo is the T base itself when the syllable has no trailing consonant.
func DecomposeHangul(s rune) (l, v, t rune) {
	sIndex := s - hangulSBase
	l = hangulLBase + sIndex/hangulNCount
	v = hangulVBase + (sIndex%hangulNCount)/hangulTCount
	t = hangulTBase + sIndex%hangulTCount
	return l, v, t
}

// HangulName synthesizes the name suffix for a Hangul syllable by
// concatenating the Jamo short names of its decomposition. The full
// character name is "HANGUL SYLLABLE " followed by this value. The 11,172
// syllable names are derived arithmetically rather than stored.
func (c *Cache) HangulName(s rune) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hangulName(s)
}

func (c *Cache) hangulName(s rune) (string, error) {
	jamo, err := c.singleValue("jsn")
	if err != nil {
		return "", err
	}
	l, v, t := DecomposeHangul(s)
	name := jamo.get(l) + jamo.get(v)
	// t at the T base means no trailing consonant; the base itself has no
	// Jamo short name.
	if t > hangulTBase {
		name += jamo.get(t)
	}
	return name, nil
}
