package platform

import (
	"regexp"

	"github.com/mgreten/revq/pkg/classify"
	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/engine"
	"github.com/mgreten/revq/pkg/enrich"
	"github.com/mgreten/revq/pkg/gh"
	"github.com/mgreten/revq/pkg/git"
	"github.com/mgreten/revq/pkg/ledger"
	"github.com/mgreten/revq/pkg/notify"
	"github.com/mgreten/revq/pkg/vault"
)

// New builds a ready-to-run Engine from configuration. Options override
// the default adapters, which lets tests swap out every side effect.
func New(cfg *Config, opts ...Option) (*engine.Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	source := o.source
	if source == nil {
		source = gh.NewClient(cfg.Repo, o.logger)
	}

	notifier := o.notifier
	if notifier == nil && cfg.Ntfy.Topic != "" {
		client := notify.NewClient(cfg.Ntfy.Server, cfg.Ntfy.Topic, o.logger)
		notifier = client
	}

	enricher := o.enricher
	if enricher == nil && cfg.Enrich.Command != "" {
		runner := enrich.NewRunner(cfg.Enrich.Command, cfg.Vault.ReviewDir, o.logger)
		if cfg.Enrich.Threshold > 0 {
			runner.Threshold = cfg.Enrich.Threshold
		}
		enricher = runner
	}

	store := o.ledgerStore
	if store == nil {
		store = ledger.NewFileStore(cfg.LedgerPath)
	}

	updater := vault.NewUpdater(cfg.TodoPath(), o.logger)
	if cfg.Vault.Marker != "" {
		updater.Marker = cfg.Vault.Marker
	}

	eng := &engine.Engine{
		Git:        git.NewClient(cfg.Vault.Path, o.logger),
		Operator:   cfg.Operator,
		Source:     source,
		Notifier:   notifier,
		Ledger:     ledger.New(store, o.logger),
		Updater:    updater,
		Renderer:   &vault.Renderer{Enricher: enricher, Logger: o.logger},
		Rules:      cfg.ruleSets,
		GeneralCap: cfg.GeneralCap,
		Logger:     o.logger,
		Now:        o.now,
	}
	return eng, nil
}

// ruleSets translates the configured teams into the ranked tiers. Order
// is the priority order; the first matching tier wins.
func (c *Config) ruleSets(mentionURLs map[string]struct{}) []classify.RuleSet {
	return []classify.RuleSet{
		{
			Category: core.CategoryIntegration,
			Any:      teamMatchers(c.Teams.Integration),
		},
		{
			Category: core.CategoryPlatform,
			Any:      teamMatchers(c.Teams.Platform),
		},
		{
			Category: core.CategoryFollowUp,
			Any:      []classify.Matcher{classify.URLIn{URLs: mentionURLs}},
		},
		{
			Category: core.CategoryGeneral,
			Any: []classify.Matcher{
				classify.TeamRequested{Slug: c.Teams.Backend.Slug},
				classify.ReviewerNamed{Login: c.Operator},
			},
		},
	}
}

func teamMatchers(rule TeamRule) []classify.Matcher {
	var matchers []classify.Matcher
	if rule.Slug != "" {
		matchers = append(matchers, classify.TeamRequested{Slug: rule.Slug})
	}
	if len(rule.TitleTokens) > 0 {
		matchers = append(matchers, classify.TitleToken{Tokens: rule.TitleTokens})
	}
	for _, p := range rule.TitlePatterns {
		// Patterns are compile-checked by Config.Validate.
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		matchers = append(matchers, classify.TitlePattern{Pattern: re})
	}
	if len(rule.Members) > 0 {
		matchers = append(matchers, classify.AuthorIn{Members: rule.Members})
	}
	return matchers
}
