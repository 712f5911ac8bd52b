package matcher

import (
	"testing"

	"github.com/praetorian-inc/sift/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExamples(t *testing.T) {
	ipv4 := func(pattern string, keywords, examples, negatives []string) *types.Rule {
		return &types.Rule{
			Type: types.TypeIPv4, ID: "ipv4", Name: "IPv4", Pattern: pattern,
			Keywords: keywords, Examples: examples, NegativeExamples: negatives,
		}
	}

	tests := []struct {
		name    string
		rule    *types.Rule
		wantErr string
	}{
		{
			name: "consistent",
			rule: ipv4(`\b10\.\d+\.\d+\.\d+\b`, []string{"10."}, []string{"from 10.0.0.1"}, []string{"from 8.8.8.8"}),
		},
		{
			name:    "example rejected by pattern",
			rule:    ipv4(`zzz`, nil, []string{"10.0.0.1"}, []string{"zzz"}),
			wantErr: `example "10.0.0.1" does not match`,
		},
		{
			name:    "negative example accepted",
			rule:    ipv4(`zzz`, nil, nil, []string{"zzz"}),
			wantErr: `negative example "zzz" matches`,
		},
		{
			name:    "example missing every keyword",
			rule:    ipv4(`\b10\.\d+\.\d+\.\d+\b`, []string{"addr"}, []string{"from 10.0.0.1"}, nil),
			wantErr: `example "from 10.0.0.1" does not match`,
		},
		{
			name:    "invalid pattern",
			rule:    ipv4(`(unclosed`, nil, nil, nil),
			wantErr: "rule ipv4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExamples(tt.rule)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateExamples_Verifier(t *testing.T) {
	r := &types.Rule{
		Type: types.TypeUUID, ID: "uuid", Name: "UUID",
		Pattern:          `[0-9a-z]{8}-[0-9a-z]{4}-[0-9a-z]{4}-[0-9a-z]{4}-[0-9a-z]{12}`,
		Examples:         []string{"123e4567-e89b-12d3-a456-426614174000"},
		NegativeExamples: []string{"zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"},
	}
	assert.NoError(t, ValidateExamples(r))
}
