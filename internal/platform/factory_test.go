package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/ledger"
)

type nullSource struct{}

func (nullSource) OpenItems(context.Context, core.Query) ([]core.Item, error) { return nil, nil }
func (nullSource) Mentions(context.Context) ([]core.Mention, error)           { return nil, nil }
func (nullSource) ItemState(context.Context, string) (core.ItemState, error) {
	return core.StateOpen, nil
}

func testConfig() *Config {
	cfg := &Config{Repo: "acme/api", Operator: "mat", GeneralCap: 10}
	cfg.Vault.Path = "/tmp/vault"
	cfg.Vault.TodoFile = "todos.md"
	cfg.Teams.Integration = TeamRule{Slug: "acme/integrations-engineers", TitleTokens: []string{"INT-"}}
	cfg.Teams.Platform = TeamRule{Slug: "acme/platform", TitlePatterns: []string{`(?i)^hotfix\b`}}
	cfg.Teams.Backend = TeamRule{Slug: "acme/backend"}
	return cfg
}

func TestNewWiresEngine(t *testing.T) {
	cfg := testConfig()
	eng, err := New(cfg, WithSource(nullSource{}), WithLedgerStore(&ledger.MemStore{}))
	require.NoError(t, err)

	assert.Equal(t, "mat", eng.Operator)
	assert.Equal(t, 10, eng.GeneralCap)
	assert.Nil(t, eng.Notifier) // no ntfy topic configured
	assert.NotNil(t, eng.Updater)
	assert.NotNil(t, eng.Renderer)
}

func TestRuleSetsOrderedByPriority(t *testing.T) {
	cfg := testConfig()
	rules := cfg.ruleSets(map[string]struct{}{"u": {}})

	require.Len(t, rules, 4)
	assert.Equal(t, core.CategoryIntegration, rules[0].Category)
	assert.Equal(t, core.CategoryPlatform, rules[1].Category)
	assert.Equal(t, core.CategoryFollowUp, rules[2].Category)
	assert.Equal(t, core.CategoryGeneral, rules[3].Category)
}

func TestRuleSetsMatchConfiguredTeams(t *testing.T) {
	cfg := testConfig()
	rules := cfg.ruleSets(nil)

	item := core.Item{
		Title: "INT-9 add retries", Author: "alice",
		URL: "https://github.com/acme/api/pull/1",
	}
	assert.True(t, rules[0].Matches(item))

	item = core.Item{
		Title: "misc", Author: "carol",
		URL: "https://github.com/acme/api/pull/2",
		ReviewRequests: []core.ReviewRequest{
			{Kind: core.RequestTeam, ID: "acme/backend"},
		},
	}
	assert.False(t, rules[0].Matches(item))
	assert.True(t, rules[3].Matches(item))

	item = core.Item{
		Title: "Hotfix rollback migration", Author: "erin",
		URL: "https://github.com/acme/api/pull/3",
	}
	assert.True(t, rules[1].Matches(item))
	assert.False(t, rules[0].Matches(item))
}
