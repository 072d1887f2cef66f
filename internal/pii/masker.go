package pii

import (
	"regexp"
	"strings"
)

// Placeholder vocabulary. The query normalizer strips exactly these tokens,
// so the two lists must stay in sync with keywords.pii_placeholders.
const (
	PlaceholderEmail   = "[이메일]"
	PlaceholderPhone   = "[전화번호]"
	PlaceholderRRN     = "[주민등록번호]"
	PlaceholderAccount = "[계좌번호]"
)

// Detection order matters: the resident registration number pattern is a
// subset of generic digit-group patterns and must run first.
var patterns = []struct {
	placeholder string
	re          *regexp.Regexp
}{
	{PlaceholderEmail, regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)},
	{PlaceholderRRN, regexp.MustCompile(`\b\d{6}-[1-4]\d{6}\b`)},
	{PlaceholderPhone, regexp.MustCompile(`\b01[016789]-?\d{3,4}-?\d{4}\b`)},
	{PlaceholderAccount, regexp.MustCompile(`\b\d{3,6}-\d{2,6}-\d{4,8}\b`)},
}

// Masker is the default regex-based Boundary. One instance serves one
// request; masked originals are kept so the outgoing answer can be restored.
type Masker struct {
	originals map[string][]string // placeholder -> originals in match order
}

// MaskerFactory builds default maskers.
type MaskerFactory struct{}

// New implements Factory.
func (MaskerFactory) New() Boundary {
	return &Masker{originals: make(map[string][]string)}
}

// Mask implements Boundary.
func (m *Masker) Mask(text string) (string, bool) {
	detected := false
	out := text
	for _, p := range patterns {
		out = p.re.ReplaceAllStringFunc(out, func(match string) string {
			detected = true
			m.originals[p.placeholder] = append(m.originals[p.placeholder], match)
			return p.placeholder
		})
	}
	return out, detected
}

// Unmask implements Boundary. Placeholders are restored in the order their
// originals were captured; leftovers pass through untouched.
func (m *Masker) Unmask(text string) string {
	out := text
	for placeholder, originals := range m.originals {
		for _, original := range originals {
			if !strings.Contains(out, placeholder) {
				break
			}
			out = strings.Replace(out, placeholder, original, 1)
		}
	}
	return out
}
