package revq_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mgreten/revq"
	"github.com/mgreten/revq/pkg/core"
	"github.com/mgreten/revq/pkg/ledger"
)

type emptySource struct{}

func (emptySource) OpenItems(context.Context, core.Query) ([]core.Item, error) { return nil, nil }
func (emptySource) Mentions(context.Context) ([]core.Mention, error)           { return nil, nil }
func (emptySource) ItemState(context.Context, string) (core.ItemState, error) {
	return core.StateOpen, nil
}

// Example_basic runs one reconciliation pass against a throwaway vault.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "revq-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	doc := "# Todos\n\n## Active\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "todos.md"), []byte(doc), 0644); err != nil {
		log.Fatal(err)
	}

	cfg := &revq.Config{Repo: "acme/api", Operator: "mat"}
	cfg.Vault.Path = tmpDir
	cfg.Vault.TodoFile = "todos.md"
	cfg.LedgerPath = filepath.Join(tmpDir, "ledger.json")

	eng, err := revq.New(cfg,
		revq.WithSource(emptySource{}),
		revq.WithLedgerStore(&ledger.MemStore{}),
	)
	if err != nil {
		log.Fatal(err)
	}

	summary, err := eng.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(summary)
	// Output: 0 new (none), 0 cancelled, 0 re-stamped, 0 notified
}
