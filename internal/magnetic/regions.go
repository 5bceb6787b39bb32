package magnetic

import (
	"regexp"
	"strconv"
	"strings"
)

// Region describes one entry of the X-RAS region catalog.
type Region struct {
	Code  string
	Name  string
	Alias string
	Geo   string
}

var (
	reglistRe = regexp.MustCompile(`(?s)var\s+reglist\s*=\s*\[(.*?)\]\s*;`)

	jsString = `"((?:[^"\\]|\\.)*)"`
	sep      = `\s*,\s*`
	tupleRe  = regexp.MustCompile(`\[\s*` + jsString + sep + jsString + sep + jsString + sep + jsString + `\s*\]`)
)

// ParseRegions extracts the region catalog from the regions script. The script
// embeds one list literal `var reglist = [["CODE","name","alias","geo"], ...];`.
// Tuples that are not exactly four double-quoted strings, have an empty code, or
// contain undecodable escapes are skipped. Without the list literal the result is empty.
func ParseRegions(script string) map[string]Region {
	res := make(map[string]Region)
	body, ok := reglistBody(script)
	if !ok {
		return res
	}
	for _, m := range tupleRe.FindAllStringSubmatch(body, -1) {
		fields := make([]string, 4)
		valid := true
		for i := range fields {
			s, err := unquoteJS(m[i+1])
			if err != nil {
				valid = false
				break
			}
			fields[i] = s
		}
		code := strings.TrimSpace(fields[0])
		if !valid || code == "" {
			continue
		}
		res[code] = Region{Code: code, Name: fields[1], Alias: fields[2], Geo: fields[3]}
	}
	return res
}

// reglistBody returns the text between `var reglist = [` and the first `];`.
// Malformed tuples inside the list do not affect where it ends.
func reglistBody(script string) (string, bool) {
	m := reglistRe.FindStringSubmatch(script)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// unquoteJS decodes the body of a double-quoted JS string literal.
func unquoteJS(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw) + 2)
	b.WriteByte('"')
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			next := raw[i+1]
			if next == '\'' || next == '/' {
				b.WriteByte(next)
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i++
			continue
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return strconv.Unquote(b.String())
}
