package matcher

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"net/netip"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/praetorian-inc/sift/pkg/types"
)

// verifier refines a regex candidate. text is the extraction; group is the
// rule's named capture, empty when the rule has none or it did not
// participate in the match.
type verifier func(text, group string) bool

// minSecretEntropy is the Shannon entropy, in bits per character, an
// assigned value must reach before it is reported as a secret.
const minSecretEntropy = 3.0

var verifiers = map[types.Type]verifier{
	types.TypeUUID:   verifyUUID,
	types.TypeIPv6:   verifyIPv6,
	types.TypeHex:    verifyHex,
	types.TypeBase64: verifyBase64,
	types.TypeSecret: verifySecret,
	types.TypeJWT:    verifyJWT,
	types.TypeJSON:   verifyJSON,
}

func verifyUUID(text, _ string) bool {
	_, err := uuid.Parse(text)
	return err == nil
}

func verifyIPv6(text, _ string) bool {
	addr, err := netip.ParseAddr(text)
	if err != nil || !addr.Is6() {
		return false
	}
	if text == "::1" {
		return true
	}
	groups := 0
	for _, g := range strings.Split(text, ":") {
		if g != "" {
			groups++
		}
	}
	return groups >= 2
}

func verifyHex(text, _ string) bool {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return true
	}
	return strings.ContainsAny(text, "0123456789") &&
		strings.ContainsAny(text, "abcdefABCDEF")
}

func verifyBase64(text, _ string) bool {
	if _, err := base64.StdEncoding.DecodeString(text); err != nil {
		return false
	}
	return strings.ContainsAny(text, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
		strings.ContainsAny(text, "abcdefghijklmnopqrstuvwxyz") &&
		strings.ContainsAny(text, "0123456789+/=")
}

func verifySecret(_, group string) bool {
	if group == "" {
		return true
	}
	return shannonEntropy(group) >= minSecretEntropy
}

func verifyJWT(text, _ string) bool {
	header, _, ok := strings.Cut(text, ".")
	if !ok {
		return false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(header, "="))
	if err != nil {
		return false
	}
	return json.Valid(decoded)
}

var jsonKey = regexp.MustCompile(`"(?:[^"\\]|\\.)*"\s*:`)

func verifyJSON(text, _ string) bool {
	if json.Valid([]byte(text)) {
		return true
	}
	return balancedJSON(text) && jsonKey.MatchString(text)
}

// balancedJSON reports whether braces and brackets outside string literals
// nest correctly.
func balancedJSON(s string) bool {
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if (open == '{') != (c == '}') {
				return false
			}
		}
	}
	return !inString && len(stack) == 0
}

// shannonEntropy returns the entropy of s in bits per character.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := make(map[rune]int)
	n := 0
	for _, r := range s {
		counts[r]++
		n++
	}
	var h float64
	for _, c := range counts {
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}
