package store

import (
	"fmt"
	"regexp"
	"strings"
)

type tokenType int
type parserstate int

const (
	tTypeHost tokenType = iota
	tTypeGroup
	tTypeHostRegexp
)

const (
	stateWait parserstate = iota
	stateReadHost
	stateReadGroup
	stateReadHostBracePattern
	stateReadRegexp
)

type token struct {
	Type         tokenType
	Value        string
	RegexpFilter *regexp.Regexp
	Exclude      bool
}

var (
	hostSymbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-_{}"
)

func newToken() *token {
	ct := new(token)
	ct.RegexpFilter = nil
	return ct
}

// parseExpression splits a host expression like
// "%ATL/^R/,-RATL01.mycompany.com,sw{01..03}.lab" into tokens
func parseExpression(expr []rune) ([]*token, error) {
	ct := newToken()
	res := make([]*token, 0)
	state := stateWait
	re := ""
	last := false
	for i := 0; i < len(expr); i++ {
		sym := expr[i]
		last = i == len(expr)-1
		switch state {
		case stateWait:
			if sym == '-' {
				ct.Exclude = true
				continue
			}

			if sym == '%' {
				state = stateReadGroup
				ct.Type = tTypeGroup
				continue
			}

			if sym == '/' || sym == '~' {
				state = stateReadRegexp
				ct.Type = tTypeHostRegexp
				re = ""
				if sym == '~' {
					// ~regexp runs till the end of the token
					state = stateReadHost
				}
				continue
			}

			if strings.ContainsRune(hostSymbols, sym) {
				state = stateReadHost
				ct.Type = tTypeHost
				ct.Value += string(sym)
				if sym == '{' {
					state = stateReadHostBracePattern
				} else if last {
					res = append(res, ct)
					ct = newToken()
					state = stateWait
				}
				continue
			}

			return nil, fmt.Errorf("invalid symbol %s, expected -, %%, / or a hostname at position %d", string(sym), i)

		case stateReadGroup:
			if sym == '/' {
				state = stateReadRegexp
				re = ""
				continue
			}

			if sym == ',' || last {
				if last && sym != ',' {
					ct.Value += string(sym)
				}

				if ct.Value == "" {
					return nil, fmt.Errorf("empty group name at position %d", i)
				}
				res = append(res, ct)
				ct = newToken()
				state = stateWait
				continue
			}

			ct.Value += string(sym)

		case stateReadRegexp:
			if sym == '\\' && !last && expr[i+1] == '/' {
				// screened slash
				re += "/"
				i++
				continue
			}

			if sym == '/' {
				compiled, err := regexp.Compile(re)
				if err != nil {
					return nil, fmt.Errorf("error compiling regexp at %d: %s", i, err)
				}
				ct.RegexpFilter = compiled

				res = append(res, ct)
				ct = newToken()
				state = stateWait
				// regexp should stop with '/EOL' or with '/,'
				// however stateWait doesn't expect a comma, so
				// we skip it:
				if !last && expr[i+1] == ',' {
					i++
				}
				continue
			}
			re += string(sym)

		case stateReadHost:
			if ct.Type == tTypeHostRegexp {
				if sym == ',' || last {
					if last && sym != ',' {
						re += string(sym)
					}
					compiled, err := regexp.Compile(re)
					if err != nil {
						return nil, fmt.Errorf("error compiling regexp at %d: %s", i, err)
					}
					ct.RegexpFilter = compiled
					res = append(res, ct)
					ct = newToken()
					state = stateWait
					continue
				}
				re += string(sym)
				continue
			}

			if sym == '{' {
				state = stateReadHostBracePattern
			}

			if sym == ',' || last {
				if last && sym != ',' {
					ct.Value += string(sym)
				}
				res = append(res, ct)
				ct = newToken()
				state = stateWait
				continue
			}

			ct.Value += string(sym)

		case stateReadHostBracePattern:
			if sym == '{' {
				return nil, fmt.Errorf("nested patterns are not allowed (at %d)", i)
			}
			if sym == '}' {
				state = stateReadHost
				if last {
					ct.Value += string(sym)
					res = append(res, ct)
					ct = newToken()
					state = stateWait
					continue
				}
			}
			ct.Value += string(sym)
		}
	}

	if state == stateReadHostBracePattern || state == stateReadRegexp {
		return nil, fmt.Errorf("unexpected end of expression")
	}

	if state != stateWait || ct.Exclude {
		return nil, fmt.Errorf("unexpected end of expression")
	}

	return res, nil
}
