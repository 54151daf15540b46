package moderation

import "strings"

var defaultWords = []string{
	// Russian
	"дурак", "долбаеб", "долбоеб", "придурок", "идиот", "дебил", "тупой", "тупая", "тупое",
	"хуй", "хуя", "хуе", "пизда", "пизде", "ебан", "ебать", "ебал", "ебану", "ебанный",
	"ебанная", "сука", "суки", "бля", "блядь", "блять", "бляд", "мудак", "мудаки", "гандон",
	"пидор", "пидорас", "гомик", "педик", "лох", "лошара", "кретин", "мразь", "мрази", "гад",
	"гады", "сволочь", "сволочи", "ублюдок", "ублюдки",
	// English
	"fuck", "fucking", "fucked", "shit", "shitting", "asshole", "bitch", "bastard", "damn",
	"dammit", "crap", "piss", "pissed", "dick", "cock", "pussy", "whore", "slut", "retard",
	"retarded", "stupid", "idiot", "moron", "dumb", "dumbass",
}

const mask = "***"

// Filter checks player names and chat lines against a fixed word list.
type Filter struct {
	words map[string]struct{}
}

func NewFilter(words ...string) *Filter {
	f := &Filter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		f.words[strings.ToLower(w)] = struct{}{}
	}
	return f
}

func DefaultFilter() *Filter {
	return NewFilter(defaultWords...)
}

// IsOffensive reports whether any word of text contains a listed word,
// which also catches names glued together like "bigfuckfan".
func (f *Filter) IsOffensive(text string) bool {
	for _, token := range tokens(strings.ToLower(text)) {
		for w := range f.words {
			if strings.Contains(token.text, w) {
				return true
			}
		}
	}
	return false
}

// Redact masks listed words that stand on their own; the rest of text,
// punctuation and spacing included, is kept as is.
func (f *Filter) Redact(text string) string {
	var b strings.Builder
	last := 0
	for _, token := range tokens(text) {
		if _, bad := f.words[strings.ToLower(token.text)]; !bad {
			continue
		}
		b.WriteString(text[last:token.start])
		b.WriteString(mask)
		last = token.start + len(token.text)
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

type token struct {
	start int
	text  string
}

// tokens splits text into runs of Latin or Cyrillic letters and digits.
func tokens(text string) []token {
	var out []token
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, token{start: start, text: text[start:i]})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, token{start: start, text: text[start:]})
	}
	return out
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я', r == 'ё', r == 'Ё':
		return true
	}
	return false
}
