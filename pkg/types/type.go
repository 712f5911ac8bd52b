package types

// Type identifies one classification category.
// The set is closed: every value is declared below in canonical order, and
// canonical order is the order used for classification and reporting.
type Type uint8

const (
	TypeURL Type = iota
	TypeEmail
	TypeIPv4
	TypeIPv6
	TypeMACAddress
	TypeUUID
	TypeSemVer
	TypeTimestamp
	TypeGitHash
	TypeHex
	TypeBase64
	TypeMD5
	TypeSHA1
	TypeSHA256
	TypeSHA512
	TypeSSHKey
	TypeSecret
	TypeJWT
	TypeJSON
	TypeXML
	TypeSQLQuery
	TypePythonTraceback
	TypeJavaStackTrace
	TypeJavaScriptError
	TypeGoPanic
	TypeRustPanic
	TypeCppException
	TypeCppRTTI
	TypeCppTemplate

	numTypes
)

// Category is a coarse family used when listing types.
type Category string

const (
	CategoryNetwork    Category = "network"
	CategoryIdentifier Category = "identifier"
	CategoryTime       Category = "time"
	CategoryEncoding   Category = "encoding"
	CategoryHash       Category = "hash"
	CategorySecurity   Category = "security"
	CategoryData       Category = "data"
	CategoryError      Category = "error"
)

type typeInfo struct {
	name     string
	category Category
}

var typeTable = [numTypes]typeInfo{
	TypeURL:             {"url", CategoryNetwork},
	TypeEmail:           {"email", CategoryNetwork},
	TypeIPv4:            {"ipv4", CategoryNetwork},
	TypeIPv6:            {"ipv6", CategoryNetwork},
	TypeMACAddress:      {"mac-address", CategoryIdentifier},
	TypeUUID:            {"uuid", CategoryIdentifier},
	TypeSemVer:          {"sem-ver", CategoryIdentifier},
	TypeTimestamp:       {"timestamp", CategoryTime},
	TypeGitHash:         {"git-hash", CategoryIdentifier},
	TypeHex:             {"hex", CategoryEncoding},
	TypeBase64:          {"base64", CategoryEncoding},
	TypeMD5:             {"md5", CategoryHash},
	TypeSHA1:            {"sha1", CategoryHash},
	TypeSHA256:          {"sha256", CategoryHash},
	TypeSHA512:          {"sha512", CategoryHash},
	TypeSSHKey:          {"ssh-key", CategorySecurity},
	TypeSecret:          {"secret", CategorySecurity},
	TypeJWT:             {"jwt", CategorySecurity},
	TypeJSON:            {"json", CategoryData},
	TypeXML:             {"xml", CategoryData},
	TypeSQLQuery:        {"sql-query", CategoryData},
	TypePythonTraceback: {"python-traceback", CategoryError},
	TypeJavaStackTrace:  {"java-stack-trace", CategoryError},
	TypeJavaScriptError: {"javascript-error", CategoryError},
	TypeGoPanic:         {"go-panic", CategoryError},
	TypeRustPanic:       {"rust-panic", CategoryError},
	TypeCppException:    {"cpp-exception", CategoryError},
	TypeCppRTTI:         {"cpp-rtti", CategoryError},
	TypeCppTemplate:     {"cpp-template", CategoryError},
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, numTypes)
	for t := Type(0); t < numTypes; t++ {
		m[typeTable[t].name] = t
	}
	return m
}()

// String returns the canonical name, e.g. "sha256".
func (t Type) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return typeTable[t].name
}

// Category returns the family the type belongs to.
func (t Type) Category() Category {
	if !t.Valid() {
		return ""
	}
	return typeTable[t].category
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	return t < numTypes
}

// MarshalText encodes the type by name so JSON reports stay readable.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseType looks up a type by its canonical name. Lookup is exact and
// case-sensitive.
func ParseType(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

// AllTypes returns every type in canonical order.
func AllTypes() []Type {
	out := make([]Type, 0, numTypes)
	for t := Type(0); t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

// NumTypes is the size of the closed type set.
func NumTypes() int {
	return int(numTypes)
}
