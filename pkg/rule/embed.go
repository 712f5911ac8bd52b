package rule

import "embed"

// builtinRulesFS embeds the built-in rules directory.
// Contains exactly one recognizer per classification type.
//
//go:embed rules/*.yml
var builtinRulesFS embed.FS
