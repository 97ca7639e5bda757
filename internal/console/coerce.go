package console

import (
	"math"
	"strconv"
	"strings"
)

// Coerce turns raw command text into a typed value. Precedence: quoted
// text loses its quotes, then True and False become booleans, then base-10
// integers, then finite floats. Anything else stays text.
func Coerce(text string) any {
	if inner, ok := unquote(text); ok {
		return inner
	}
	switch text {
	case "True":
		return true
	case "False":
		return false
	}
	if i, err := strconv.Atoi(text); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return text
}

// paramValue reads the value half of a create parameter. Double-quoted
// text has underscores turned into spaces and \" unescaped. Unquoted
// values must coerce to a number or boolean; ok is false otherwise.
func paramValue(text string) (any, bool) {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		s := text[1 : len(text)-1]
		s = strings.ReplaceAll(s, `\"`, `"`)
		return strings.ReplaceAll(s, "_", " "), true
	}
	v := Coerce(text)
	if _, isText := v.(string); isText {
		return nil, false
	}
	return v, true
}

// unquote strips one pair of matching single or double quotes.
func unquote(text string) (string, bool) {
	if len(text) < 2 {
		return text, false
	}
	first, last := text[0], text[len(text)-1]
	if (first == '"' || first == '\'') && first == last {
		return text[1 : len(text)-1], true
	}
	return text, false
}

// bare returns text without surrounding quotes. Kind names, ids and
// attribute names may arrive quoted from dot syntax.
func bare(text string) string {
	s, _ := unquote(text)
	return s
}
