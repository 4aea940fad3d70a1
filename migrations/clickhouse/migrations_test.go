package clickhouse_test

import (
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
)

// TestClickhouseMigrations проверяет, что SQL-миграции для ClickHouse выполняются корректно
func TestClickhouseMigrations(t *testing.T) {
	dsn := os.Getenv("CLICKHOUSE_TEST_DSN")
	if dsn == "" {
		t.Skip("CLICKHOUSE_TEST_DSN env var not set; skipping ClickHouse migration tests")
	}

	db, err := sql.Open("clickhouse", dsn)
	require.NoError(t, err, "ошибка при открытии соединения с ClickHouse")
	defer func() {
		require.NoError(t, db.Close(), "ошибка при закрытии соединения с ClickHouse")
	}()

	drv, err := clickhouse.WithInstance(db, &clickhouse.Config{})
	require.NoError(t, err, "failed to create ClickHouse migrate driver")
	m, err := migrate.NewWithDatabaseInstance("file://.", "clickhouse", drv)
	require.NoError(t, err, "failed to create ClickHouse migrate instance")
	// сначала откатываем всё
	_ = m.Down()
	require.NoError(t, m.Up(), "failed to apply ClickHouse migrations")

	var existsTable int
	err = db.QueryRow(
		"SELECT count() FROM system.tables WHERE database=currentDatabase() AND name='change_events'",
	).Scan(&existsTable)
	require.NoError(t, err)
	require.Equal(t, 1, existsTable, "change_events должна существовать после migrate Up")

	// ------------------------- структура таблицы -------------------------
	expected := map[string]string{
		"Resource":  "LowCardinality(String)",
		"Action":    "LowCardinality(String)",
		"Key":       "String",
		"EventTime": "DateTime",
	}
	rows, err := db.Query(
		"SELECT name, type FROM system.columns WHERE database = currentDatabase() AND table = 'change_events'",
	)
	require.NoError(t, err)
	found := make(map[string]string)
	for rows.Next() {
		var name, ctype string
		require.NoError(t, rows.Scan(&name, &ctype))
		found[name] = ctype
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	require.Equal(t, expected, found)

	var engine string
	err = db.QueryRow(
		"SELECT engine FROM system.tables WHERE database=currentDatabase() AND name='change_events'",
	).Scan(&engine)
	require.NoError(t, err)
	require.Equal(t, "MergeTree", engine)

	// ------------------------- пакетная вставка как в консьюмере -------------------------
	tx, err := db.Begin()
	require.NoError(t, err)
	stmt, err := tx.Prepare("INSERT INTO change_events (Resource, Action, Key, EventTime) VALUES (?, ?, ?, ?)")
	require.NoError(t, err)
	_, err = stmt.Exec("tickets", "insert", "42", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	var n int
	require.NoError(t, db.QueryRow("SELECT count() FROM change_events WHERE Resource='tickets'").Scan(&n))
	require.Equal(t, 1, n)

	// ------------------------- откат -------------------------
	require.NoError(t, m.Down(), "failed to rollback ClickHouse migrations")
	err = db.QueryRow(
		"SELECT count() FROM system.tables WHERE database=currentDatabase() AND name='change_events'",
	).Scan(&existsTable)
	require.NoError(t, err)
	require.Equal(t, 0, existsTable, "change_events должна быть удалена после migrate Down")
}
