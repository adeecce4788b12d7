package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/convexpg/internal/infer"
	"github.com/roach88/convexpg/internal/schema"
)

func usersSchema() *schema.TableSchema {
	return &schema.TableSchema{
		Name: "users",
		Columns: []schema.Column{
			{Name: "_id", SourceField: "_id", Type: infer.TypeVarcharID},
			{Name: "createdAt", SourceField: "createdAt", Type: infer.TypeBigint},
			{Name: "score", SourceField: "score", Type: infer.TypeDoublePrecision},
			{Name: "tags", SourceField: "tags", Type: infer.TypeJSONB},
		},
	}
}

func TestDDL_BasicTable(t *testing.T) {
	want := `CREATE TABLE IF NOT EXISTS "users" (
  "_id" VARCHAR(50),
  "createdAt" BIGINT,
  "score" DOUBLE PRECISION,
  "tags" JSONB
);
`
	assert.Equal(t, want, DDL(usersSchema()))
}

func TestDDL_Idempotent(t *testing.T) {
	ts := usersSchema()
	assert.Equal(t, DDL(ts), DDL(ts))
}

func TestDDL_ComponentTableIsSchemaQualified(t *testing.T) {
	ts := &schema.TableSchema{
		Component: "auth",
		Name:      "users",
		Columns: []schema.Column{
			{Name: "_id", SourceField: "_id", Type: infer.TypeVarcharID},
		},
	}

	got := DDL(ts)
	assert.Contains(t, got, `CREATE TABLE IF NOT EXISTS "auth"."users" (`)

	// A component table never collides with a same-named top-level table.
	top := &schema.TableSchema{Name: "users", Columns: ts.Columns}
	assert.NotEqual(t, TableName(ts), TableName(top))
}

func TestDDL_PrimaryKey(t *testing.T) {
	ts := &schema.TableSchema{
		Name:       "users",
		PrimaryKey: "id",
		Columns: []schema.Column{
			{Name: "id", SourceField: "_id", Type: infer.TypeVarcharID},
			{Name: "name", SourceField: "name", Type: infer.TypeText},
		},
	}

	assert.Contains(t, DDL(ts), `"id" VARCHAR(50) PRIMARY KEY,`)
	assert.NotContains(t, DDL(ts), `"name" TEXT PRIMARY KEY`)
}

func TestComponentDDL(t *testing.T) {
	assert.Equal(t, "CREATE SCHEMA IF NOT EXISTS \"auth\";\n", ComponentDDL("auth"))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, QuoteIdent("users"))
	assert.Equal(t, `"order"`, QuoteIdent("order")) // reserved word
	assert.Equal(t, `"mixedCase"`, QuoteIdent("mixedCase"))
	assert.Equal(t, `"we""ird"`, QuoteIdent(`we"ird`))
}
