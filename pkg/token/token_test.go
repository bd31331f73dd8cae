package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t", ""},
		{"trims whitespace", "  crm:sales:deal:read  ", "crm:sales:deal:read"},
		{"hyphens to underscores", "crm:sales:deal-stage:read", "crm:sales:deal_stage:read"},
		{"legacy alias", "dashboard:view", "crm:dashboard:panel:view"},
		{"legacy alias after hyphen rewrite", "audit-log:view", "crm:admin:audit:read"},
		{"non-alias passes through", "crm:sales:deal:read", "crm:sales:deal:read"},
		{"no partial alias substitution", "dashboard:view:extra", "dashboard:view:extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"read",
		"dashboard:view",
		"audit-log:view",
		"  customers:read ",
		"crm:sales:deal:tenant:read",
		"crm:sales:deal-stage:own:update",
		"not a token at all",
	}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "normalize not idempotent for %q", s)
	}
}

func TestParse_SegmentDispatch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Token
	}{
		{
			name:     "single segment short form",
			input:    "read",
			expected: Token{Original: "read", Short: "read"},
		},
		{
			name:     "two segments",
			input:    "sales:read",
			expected: Token{Original: "sales:read", Domain: "sales", Action: "read"},
		},
		{
			name:     "three segments",
			input:    "crm:sales:read",
			expected: Token{Original: "crm:sales:read", App: "crm", Domain: "sales", Action: "read"},
		},
		{
			name:  "four segments has no scope",
			input: "crm:sales:deal:read",
			expected: Token{
				Original: "crm:sales:deal:read",
				App:      "crm", Domain: "sales", Resource: "deal", Action: "read",
			},
		},
		{
			name:  "five segments",
			input: "crm:sales:deal:tenant:read",
			expected: Token{
				Original: "crm:sales:deal:tenant:read",
				App:      "crm", Domain: "sales", Resource: "deal", Scope: "tenant", Action: "read",
			},
		},
		{
			name:  "six segments joins middle scope segments",
			input: "crm:sales:deal:team:emea:read",
			expected: Token{
				Original: "crm:sales:deal:team:emea:read",
				App:      "crm", Domain: "sales", Resource: "deal", Scope: "team:emea", Action: "read",
			},
		},
		{
			name:  "empty segments are discarded",
			input: "crm::sales:read",
			expected: Token{
				Original: "crm::sales:read",
				App:      "crm", Domain: "sales", Action: "read",
			},
		},
		{
			name:  "alias resolved before dispatch",
			input: "dashboard:view",
			expected: Token{
				Original: "crm:dashboard:panel:view",
				App:      "crm", Domain: "dashboard", Resource: "panel", Action: "view",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := Parse(tt.input)
			require.NotNil(t, tok)
			assert.Equal(t, tt.expected, *tok)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"", "   ", ":", ":::", " : : "} {
		assert.Nil(t, Parse(input), "expected nil token for %q", input)
	}
}

func TestParse_ReparseStable(t *testing.T) {
	for _, input := range []string{"dashboard:view", "crm:sales:deal:own:read", "read"} {
		first := Parse(input)
		require.NotNil(t, first)
		second := Parse(first.Original)
		require.NotNil(t, second)
		assert.Equal(t, first, second)
	}
}

func TestScopeRank(t *testing.T) {
	own, ok := ScopeRank(ScopeOwn)
	require.True(t, ok)
	team, _ := ScopeRank(ScopeTeam)
	org, _ := ScopeRank(ScopeOrg)
	tenant, _ := ScopeRank(ScopeTenant)
	global, _ := ScopeRank(ScopeGlobal)

	assert.True(t, own < team && team < org && org < tenant && tenant < global)

	_, ok = ScopeRank("department")
	assert.False(t, ok)
	_, ok = ScopeRank("")
	assert.False(t, ok)
}
