package parser

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInteger
	tokDecimal
	tokName
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
)

var tokenNames = [...]string{
	tokEOF:      "end of input",
	tokInteger:  "integer",
	tokDecimal:  "decimal",
	tokName:     "name",
	tokPlus:     `"+"`,
	tokMinus:    `"-"`,
	tokStar:     `"*"`,
	tokSlash:    `"/"`,
	tokCaret:    `"^"`,
	tokLParen:   `"("`,
	tokRParen:   `")"`,
	tokLBracket: `"["`,
	tokRBracket: `"]"`,
	tokComma:    `","`,
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	pos  int
}

var punctuation = map[rune]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'−': tokMinus,
	'*': tokStar,
	'×': tokStar,
	'/': tokSlash,
	'÷': tokSlash,
	'^': tokCaret,
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBracket,
	']': tokRBracket,
	',': tokComma,
}

// lex splits input into tokens, ending with tokEOF.
func lex(input string) ([]token, error) {
	var toks []token
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return nil, errorf(ErrUnexpectedCharacter, i, "invalid UTF-8")
		case unicode.IsSpace(r):
			i += size
		case isDigit(r) || (r == '.' && i+1 < len(input) && isDigit(rune(input[i+1]))):
			tok, err := lexNumber(input, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i += len(tok.text)
		case unicode.IsLetter(r) || r == '_':
			j := i + size
			for j < len(input) {
				r, size := utf8.DecodeRuneInString(input[j:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				j += size
			}
			toks = append(toks, token{kind: tokName, text: input[i:j], pos: i})
			i = j
		default:
			kind, ok := punctuation[r]
			if !ok {
				return nil, errorf(ErrUnexpectedCharacter, i, "unexpected character %q", r)
			}
			toks = append(toks, token{kind: kind, text: input[i : i+size], pos: i})
			i += size
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)}), nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func digitsFrom(s string, i int) int {
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return i
}

// lexNumber reads 12, 1.5, .5 or 1.5E-3. Only a fraction part or an
// exponent makes a decimal.
func lexNumber(input string, start int) (token, error) {
	kind := tokInteger
	i := digitsFrom(input, start)
	if i < len(input) && input[i] == '.' {
		kind = tokDecimal
		i = digitsFrom(input, i+1)
	}
	if i < len(input) && (input[i] == 'E' || input[i] == 'e') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		end := digitsFrom(input, j)
		if end == j {
			return token{}, errorf(ErrInvalidNumber, start, "missing exponent digits in %q", input[start:end])
		}
		kind = tokDecimal
		i = end
	}
	return token{kind: kind, text: input[start:i], pos: start}, nil
}
