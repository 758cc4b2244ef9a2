package keyword

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// marketingPattern is one named tag. The table is ordered, each entry is
// matched independently, and a name may carry several tags at once.
type marketingPattern struct {
	Name string
	re   *regexp.Regexp
}

// Marketing tag table. 올영픽 (the house promotion) and PICK (a
// collaboration marker) are deliberately separate tags.
var marketingPatterns = []marketingPattern{
	{"올영픽", regexp.MustCompile(`올영픽|올리브영\s*픽`)},
	{"PICK", regexp.MustCompile(`(?i)\bPICK\b`)},
	{"특가", regexp.MustCompile(`특가|핫딜|세일|할인`)},
	{"세트", regexp.MustCompile(`세트|패키지|트리오|듀오|키트|킷($|[^가-힣A-Za-z0-9])`)},
	{"기획", regexp.MustCompile(`기획`)},
	{"1+1", regexp.MustCompile(`(^|\s)1\+1(\s|$)`)},
	{"증정", regexp.MustCompile(`증정|사은품`)},
	{"한정", regexp.MustCompile(`한정|리미티드`)},
	// RE2's \b is ASCII-only, so the 뉴 boundaries are spelled out: not
	// after 리 (리뉴얼) and not before another word char (뉴트로지나).
	{"NEW", regexp.MustCompile(`(?i)\bNEW\b|(^|[^리])뉴($|[^가-힣A-Za-z0-9])`)},
}

var (
	housePickPattern = regexp.MustCompile(`올영픽|올리브영\s*픽`)
	promoterPattern  = regexp.MustCompile(`([가-힣A-Za-z0-9.&/_-]+)\s*(?:픽|[Pp]ick)($|[^A-Za-z0-9])`)
	promoterCleanup  = regexp.MustCompile(`[\[\](),.|·]`)
)

// promoterDenylist holds generic house terms that look like promoter
// names in front of 픽/Pick but are not people.
var promoterDenylist = map[string]struct{}{
	"올영":   {},
	"올리브영": {},
	"월올영":  {},
	"원픽":   {},
}

// DefaultIngredients is the built-in fallback ingredient word list.
var DefaultIngredients = []string{
	"히알루론산", "세라마이드", "나이아신아마이드", "레티놀", "펩타이드", "콜라겐",
	"비타민C", "BHA", "AHA", "PHA", "판테놀", "센텔라", "마데카소사이드",
}

// LoadIngredients reads an ingredient word list, one keyword per line,
// blank lines and # comments skipped. An empty path or an unreadable or
// empty file falls back to DefaultIngredients; the error (if any) is
// returned so callers can log it.
func LoadIngredients(path string) ([]string, error) {
	if path == "" {
		return DefaultIngredients, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultIngredients, fmt.Errorf("read ingredient list %s: %w", path, err)
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if len(words) == 0 {
		return DefaultIngredients, nil
	}
	return words, nil
}

// ExtractPromoter pulls a promoter (influencer) name out of a listing
// title: the name-like token immediately preceding a 픽/Pick marker,
// excluding house terms. Lines that are the house promotion itself
// (올영픽) never yield a promoter. Returns "" when there is none.
func ExtractPromoter(name string) string {
	if name == "" || housePickPattern.MatchString(name) {
		return ""
	}
	m := promoterPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	cand := strings.TrimSpace(promoterCleanup.ReplaceAllString(m[1], ""))
	if cand == "" {
		return ""
	}
	if _, excluded := promoterDenylist[cand]; excluded {
		return ""
	}
	// 원픽 backtracks into 원 + the 픽 marker, so re-check with the
	// marker attached.
	if _, excluded := promoterDenylist[cand+"픽"]; excluded {
		return ""
	}
	return cand
}
