package requests

import (
	"os"
	"strings"
	"testing"
)

// The Postgres repository and the migration must agree on column names; a
// drift here only surfaces at runtime as undefined_column errors, which the
// in-memory repository cannot catch.
func TestMigrationDefinesRepositoryColumns(t *testing.T) {
	ddl, err := os.ReadFile("../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	start := strings.Index(string(ddl), "CREATE TABLE IF NOT EXISTS wallet_requests")
	if start < 0 {
		t.Fatal("migration does not create wallet_requests")
	}
	block := string(ddl)[start:]
	if end := strings.Index(block, ";"); end > 0 {
		block = block[:end]
	}

	for _, column := range strings.Split(requestColumns, ", ") {
		if !strings.Contains(block, column) {
			t.Errorf("wallet_requests DDL is missing column %q used by the repository", column)
		}
	}
	// MarkProcessed and Reopen also touch updated_at.
	if !strings.Contains(block, "updated_at") {
		t.Error("wallet_requests DDL is missing column \"updated_at\"")
	}
}
