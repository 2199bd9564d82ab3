package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected exactly one %s migration", suffix)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestMigrationsContainConstraints(t *testing.T) {
	cases := map[string][]string{
		"create_products": {
			"CREATE TABLE IF NOT EXISTS products",
			"CHECK (stock >= 0)",
			"discount_price numeric(12,2) NULL",
			"DROP TABLE IF EXISTS products",
		},
		"create_carts": {
			"CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_user_id ON carts (user_id)",
			"CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_items_cart_product ON cart_items (cart_id, product_id)",
			"CHECK (quantity > 0)",
		},
		"create_orders": {
			"CREATE TYPE order_status AS ENUM ('pending', 'processing', 'shipped', 'delivered', 'cancelled', 'refunded')",
			"CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_reference ON orders (reference)",
			"CHECK (total_price >= 0)",
			"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
			"DROP TYPE IF EXISTS order_status",
		},
		"create_outbox_events": {
			"WHERE published_at IS NULL",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}

// Customers live in the identity service, so owner columns must not be
// foreign keys into users.
func TestOwnerColumnsAreWeakReferences(t *testing.T) {
	for _, suffix := range []string{"create_carts", "create_orders"} {
		content := readMigration(t, suffix)
		require.Contains(t, content, "user_id uuid NOT NULL,", suffix)
		require.NotContains(t, content, "REFERENCES users", suffix)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Order Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_order_notes.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))

	empty := t.TempDir()
	require.Error(t, migrate.ValidateDir(empty))
}
