package testutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/localnerve/usersdb/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	queries []string
	failOn  int
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	r.queries = append(r.queries, query)
	if r.failOn > 0 && len(r.queries) == r.failOn {
		return nil, errors.New("syntax error")
	}
	return nil, nil
}

func TestExcludeComment(t *testing.T) {
	cases := map[string]string{
		"SELECT 1; -- trailing":            "SELECT 1; ",
		"-- whole line":                    "",
		"SELECT '--not a comment' -- real": "SELECT '--not a comment' ",
		`SELECT "a--b"`:                    `SELECT "a--b"`,
		"SELECT 'it''s' -- x":              "SELECT 'it''s' ",
		"SELECT 5 - 3":                     "SELECT 5 - 3",
	}
	for in, want := range cases {
		assert.Equal(t, want, excludeComment(in), in)
	}
}

func TestExecuteSQLSplitsStatements(t *testing.T) {
	rec := &recordingExecer{}
	script := "-- header; with a semicolon\nCREATE TABLE a (\n  id INT\n);\n\nINSERT INTO a VALUES (1); -- one\n"

	require.NoError(t, ExecuteSQL(context.Background(), rec, script))
	assert.Equal(t, []string{"CREATE TABLE a (   id INT )", "INSERT INTO a VALUES (1)"}, rec.queries)
}

func TestExecuteSQLReportsStatement(t *testing.T) {
	rec := &recordingExecer{failOn: 2}
	err := ExecuteSQL(context.Background(), rec, "SELECT 1; SELECT oops; SELECT 3;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SELECT oops")
	assert.Len(t, rec.queries, 2)
}

func TestInitScriptsParse(t *testing.T) {
	rec := &recordingExecer{}
	require.NoError(t, ExecuteSQL(context.Background(), rec, data.InitdbMariaDBTables))
	require.Len(t, rec.queries, 4)
	for i, table := range []string{"roles", "users", "user_roles", "preferences"} {
		assert.Contains(t, rec.queries[i], "CREATE TABLE IF NOT EXISTS "+table+" (")
	}

	rec = &recordingExecer{}
	require.NoError(t, ExecuteSQL(context.Background(), rec, data.InitdbMariaDBPrivileges))
	assert.Len(t, rec.queries, 5)
	assert.Equal(t, "FLUSH PRIVILEGES", rec.queries[4])
}
