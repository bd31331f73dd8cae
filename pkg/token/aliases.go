package token

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// builtinAliases maps legacy permission spellings to their canonical
// replacements. The grammar evolved over several releases and these exact
// strings are still emitted by older role exports, so the table is a closed,
// hand-maintained set of whole-string rewrites. No pattern matching, no
// partial substitution.
//
// Keys and values are in post-hyphen-rewrite form. A replacement must never
// itself appear as a key, otherwise normalization would not be idempotent.
var builtinAliases = map[string]string{
	"dashboard:view":  "crm:dashboard:panel:view",
	"customers:read":  "crm:customer:record:read",
	"customers:write": "crm:customer:record:update",
	"sales:manage":    "crm:sales:pipeline:manage",
	"contracts:read":  "crm:contract:record:read",
	"tickets:assign":  "crm:ticket:queue:assign",
	"reports:export":  "crm:report:builder:export",
	"user_management": "crm:admin:user:manage",
	"system_settings": "crm:admin:settings:manage",
	"audit_log:view":  "crm:admin:audit:read",
}

// AliasTable is a legacy-alias rewrite table: the built-in entries plus any
// overlay loaded from a versioned data file. Adding an alias is a data change,
// not a change to the matching algorithm.
type AliasTable struct {
	mu      sync.RWMutex
	entries map[string]string
}

// defaultAliases backs the package-level Normalize and Parse. It starts with
// the built-in entries; LoadAliasFile can merge a deployment overlay on top.
var defaultAliases = NewAliasTable()

// LoadAliasFile merges an overlay file into the table backing the
// package-level Normalize and Parse.
func LoadAliasFile(path string) error {
	return defaultAliases.LoadFile(path)
}

// NewAliasTable returns a table seeded with the built-in legacy aliases.
func NewAliasTable() *AliasTable {
	entries := make(map[string]string, len(builtinAliases))
	for k, v := range builtinAliases {
		entries[k] = v
	}
	return &AliasTable{entries: entries}
}

// Resolve looks up the canonical replacement for an exact legacy spelling.
func (t *AliasTable) Resolve(s string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	canonical, ok := t.entries[s]
	return canonical, ok
}

// Len returns the number of alias entries in the table.
func (t *AliasTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// LoadFile merges alias entries from a YAML file of the form
//
//	legacy:spelling: canonical:replacement:string
//
// on top of the built-in table, replacing any previously loaded overlay.
// Entries are validated before the table is swapped: keys and values are
// normalized (trimmed, hyphens rewritten) and a replacement may not itself be
// an alias key, which would break normalization idempotence. On any
// validation error the existing table is left untouched.
func (t *AliasTable) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read alias file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	merged := make(map[string]string, len(builtinAliases)+len(raw))
	for k, v := range builtinAliases {
		merged[k] = v
	}
	for k, v := range raw {
		key := strings.ReplaceAll(strings.TrimSpace(k), "-", "_")
		value := strings.ReplaceAll(strings.TrimSpace(v), "-", "_")
		if key == "" || value == "" {
			return fmt.Errorf("alias file %s: empty key or value in entry %q", path, k)
		}
		if key == value {
			return fmt.Errorf("alias file %s: alias %q maps to itself", path, key)
		}
		merged[key] = value
	}

	// A replacement that is itself rewritten would make normalization
	// non-idempotent; reject the whole file rather than chain rewrites.
	for key, value := range merged {
		if _, clash := merged[value]; clash {
			return fmt.Errorf("alias file %s: replacement %q for alias %q is itself an alias key", path, value, key)
		}
	}

	t.mu.Lock()
	t.entries = merged
	t.mu.Unlock()
	return nil
}
