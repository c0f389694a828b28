package trading

import (
	"strings"

	"github.com/pkg/errors"
)

// Environment selects the live or paper trading host.
type Environment int

const (
	Live Environment = iota + 1
	Paper
)

const (
	LiveBaseURL  = "https://api.alpaca.markets"
	PaperBaseURL = "https://paper-api.alpaca.markets"
)

var environmentNames = map[Environment]string{
	Live:  "live",
	Paper: "paper",
}

// BaseURL returns the trading API host for e. Unknown values resolve to
// paper so a zero Environment never places live orders.
func (e Environment) BaseURL() string {
	if e == Live {
		return LiveBaseURL
	}
	return PaperBaseURL
}

func (e Environment) String() string {
	if s, ok := environmentNames[e]; ok {
		return s
	}
	return "unknown"
}

func (e Environment) MarshalText() ([]byte, error) {
	return marshalEnum(environmentNames, "environment", e)
}

func (e *Environment) UnmarshalText(text []byte) error {
	v, err := ParseEnvironment(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseEnvironment accepts "live" or "paper" in any case.
func ParseEnvironment(s string) (Environment, error) {
	return parseEnum(environmentNames, "environment", strings.ToLower(strings.TrimSpace(s)))
}

func marshalEnum[E comparable](names map[E]string, kind string, e E) ([]byte, error) {
	if s, ok := names[e]; ok {
		return []byte(s), nil
	}
	return nil, errors.Errorf("invalid %s %v", kind, e)
}

func parseEnum[E comparable](names map[E]string, kind, s string) (E, error) {
	for e, name := range names {
		if name == s {
			return e, nil
		}
	}
	var zero E
	return zero, errors.Errorf("unknown %s %q", kind, s)
}
