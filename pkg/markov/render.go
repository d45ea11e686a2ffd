package markov

// prejoiner is a learned token that glues itself to the following token, as in "$5".
const prejoiner = "$"

// renderWord returns the fragment for cur in word-level output. EOS renders
// as nothing and turns the separator before the next word into a newline.
func renderWord(a *Alphabet, prev, cur Token) string {
	if IsStructural(cur) {
		return ""
	}
	text := a.mustTranslate(cur)
	if prev == EOS {
		return "\n" + text
	}
	if tightJoin(prev, cur, text) {
		return text
	}
	if !IsSpecial(prev) && a.mustTranslate(prev) == prejoiner {
		return text
	}
	return " " + text
}

func tightJoin(prev, cur Token, text string) bool {
	switch {
	case prev == BOS, prev == Quote, prev == Hyphen:
		return true
	case cur == Unquote, cur == Hyphen:
		return true
	}
	return !IsSpecial(cur) && len(text) == 1 && isTerminalPunct(rune(text[0]))
}

// renderChar returns the fragment for cur in character-level output.
func renderChar(a *Alphabet, prev, cur Token) string {
	if IsStructural(cur) {
		return ""
	}
	text := a.mustTranslate(cur)
	if prev == EOS {
		return "\n" + text
	}
	return text
}
