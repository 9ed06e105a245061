// SPDX-License-Identifier: MPL-2.0

package pattern

// contains reports whether every path matched by the child segments is also
// matched by the parent segments. A parent "**" absorbs any run of child
// segments, child "**" included. A child "**" can only be absorbed by a
// parent "**".
func contains(child, parent []string) bool {
	// memo[i][j]: 0 unknown, 1 true, 2 false.
	memo := make([][]uint8, len(child)+1)
	for i := range memo {
		memo[i] = make([]uint8, len(parent)+1)
	}

	var match func(i, j int) bool
	match = func(i, j int) bool {
		if memo[i][j] != 0 {
			return memo[i][j] == 1
		}
		ok := matchSegments(child, parent, i, j, match)
		if ok {
			memo[i][j] = 1
		} else {
			memo[i][j] = 2
		}
		return ok
	}
	return match(0, 0)
}

func matchSegments(child, parent []string, i, j int, next func(i, j int) bool) bool {
	if j == len(parent) {
		return i == len(child)
	}
	if parent[j] == Recursive {
		for k := i; k <= len(child); k++ {
			if next(k, j+1) {
				return true
			}
		}
		return false
	}
	if i == len(child) || child[i] == Recursive {
		return false
	}
	return segmentContains(child[i], parent[j]) && next(i+1, j+1)
}

// segmentContains reports whether every name matched by the child segment is
// matched by the parent segment. Within a segment a parent '*' absorbs any
// child tokens, child wildcards included; a parent '?' absorbs one child
// literal, '?' or character class; anything else must match literally. A
// child brace group can only be absorbed by a parent '*'.
func segmentContains(child, parent string) bool {
	if parent == "*" {
		return true
	}
	if isOpaque(parent) {
		return child == parent
	}

	c := tokenize(child)
	p := []rune(parent)

	// memo[i][j]: 0 unknown, 1 true, 2 false.
	memo := make([][]uint8, len(c)+1)
	for i := range memo {
		memo[i] = make([]uint8, len(p)+1)
	}

	var match func(i, j int) bool
	match = func(i, j int) bool {
		if memo[i][j] != 0 {
			return memo[i][j] == 1
		}
		var ok bool
		switch {
		case j == len(p):
			ok = i == len(c)
		case p[j] == '*':
			for k := i; k <= len(c) && !ok; k++ {
				ok = match(k, j+1)
			}
		case i == len(c):
			ok = false
		case p[j] == '?':
			ok = c[i].kind != tokenStar && c[i].kind != tokenAlt && match(i+1, j+1)
		default:
			ok = c[i].kind == tokenLiteral && c[i].r == p[j] && match(i+1, j+1)
		}
		if ok {
			memo[i][j] = 1
		} else {
			memo[i][j] = 2
		}
		return ok
	}
	return match(0, 0)
}

type tokenKind uint8

const (
	tokenLiteral tokenKind = iota
	// tokenAny is '?': exactly one character.
	tokenAny
	// tokenStar is '*': any run of characters.
	tokenStar
	// tokenClass is a bracket expression: exactly one character.
	tokenClass
	// tokenAlt is a brace group: a run of unknown length.
	tokenAlt
)

type token struct {
	kind tokenKind
	r    rune
}

// tokenize splits a segment into single-character tokens, folding each
// bracket expression and each (possibly nested) brace group into one token.
// An unclosed '[' or '{' is kept as a literal.
func tokenize(seg string) []token {
	rs := []rune(seg)
	out := make([]token, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '*':
			out = append(out, token{kind: tokenStar})
		case '?':
			out = append(out, token{kind: tokenAny})
		case '[':
			if end := closeBracket(rs, i); end > 0 {
				out = append(out, token{kind: tokenClass})
				i = end
				continue
			}
			out = append(out, token{kind: tokenLiteral, r: rs[i]})
		case '{':
			if end := closeBrace(rs, i); end > 0 {
				out = append(out, token{kind: tokenAlt})
				i = end
				continue
			}
			out = append(out, token{kind: tokenLiteral, r: rs[i]})
		default:
			out = append(out, token{kind: tokenLiteral, r: rs[i]})
		}
	}
	return out
}

// closeBracket returns the index of the ']' closing the class opened at
// open, or -1. A ']' directly after "[" or "[!" / "[^" is a member.
func closeBracket(rs []rune, open int) int {
	i := open + 1
	if i < len(rs) && (rs[i] == '!' || rs[i] == '^') {
		i++
	}
	if i < len(rs) && rs[i] == ']' {
		i++
	}
	for ; i < len(rs); i++ {
		if rs[i] == ']' {
			return i
		}
	}
	return -1
}

// closeBrace returns the index of the '}' closing the group opened at open,
// or -1.
func closeBrace(rs []rune, open int) int {
	depth := 0
	for i := open; i < len(rs); i++ {
		switch rs[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
