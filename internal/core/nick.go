package core

import (
	"regexp"
	"strconv"
)

var (
	nonWordRE    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// SanitizeNick strips every character that is not a word character or
// whitespace, then removes the whitespace. The result may be empty.
func SanitizeNick(requested string) string {
	s := nonWordRE.ReplaceAllString(requested, "")
	return whitespaceRE.ReplaceAllString(s, "")
}

// AllocateNick turns a requested nickname into one not present in
// taken. If the sanitized base collides it probes base+"1", base+"2",
// and so on, returning the first free candidate.
func AllocateNick(requested string, taken map[string]struct{}) string {
	base := SanitizeNick(requested)
	nick := base
	for i := 1; ; i++ {
		if _, exists := taken[nick]; !exists {
			return nick
		}
		nick = base + strconv.Itoa(i)
	}
}
