package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect"
)

func TestDatabase(t *testing.T) {
	tests := []struct {
		name    string
		db      *Database
		dialect dialect.Dialect
		want    string
	}{
		{
			name:    "create mysql",
			db:      CreateDatabase("db_prod"),
			dialect: dialect.MySQL,
			want:    "CREATE DATABASE IF NOT EXISTS db_prod CHARACTER SET utf8mb4 COLLATE utf8mb4_0900_ai_ci;",
		},
		{
			name:    "create mysql options",
			db:      CreateDatabase("db_prod").Charset("latin1").Encryption(true),
			dialect: dialect.MySQL,
			want:    "CREATE DATABASE IF NOT EXISTS db_prod CHARACTER SET latin1 ENCRYPTION 'Y';",
		},
		{
			name:    "create postgres",
			db:      CreateDatabase("db_prod").Charset("UTF8"),
			dialect: dialect.Postgres,
			want:    "CREATE DATABASE db_prod ENCODING 'UTF8';",
		},
		{
			name:    "create sqlite",
			db:      CreateDatabase("db_prod"),
			dialect: dialect.SQLite,
			want:    "CREATE DATABASE db_prod;",
		},
		{
			name:    "create sqlserver",
			db:      CreateDatabase("db_prod"),
			dialect: dialect.SQLServer,
			want:    "IF DB_ID(N'db_prod') IS NULL CREATE DATABASE db_prod;",
		},
		{
			name:    "alter",
			db:      AlterDatabase("db_prod").Encryption(true).ReadOnly(true),
			dialect: dialect.MySQL,
			want:    "ALTER DATABASE db_prod ENCRYPTION 'Y' READ ONLY 1;",
		},
		{
			name:    "alter charset",
			db:      AlterDatabase("db_prod").Charset("utf8mb4").Collation("utf8mb4_bin").ReadOnly(false),
			dialect: dialect.MySQL,
			want:    "ALTER DATABASE db_prod CHARACTER SET utf8mb4 COLLATE utf8mb4_bin READ ONLY 0;",
		},
		{
			name:    "rename postgres",
			db:      RenameDatabase("db_prod", "new_db_prod"),
			dialect: dialect.Postgres,
			want:    "ALTER DATABASE db_prod RENAME TO new_db_prod;",
		},
		{
			name:    "rename sqlserver",
			db:      RenameDatabase("db_prod", "new_db_prod"),
			dialect: dialect.SQLServer,
			want:    "ALTER DATABASE db_prod SET SINGLE_USER WITH ROLLBACK IMMEDIATE;\nALTER DATABASE db_prod MODIFY NAME = new_db_prod;\nALTER DATABASE new_db_prod SET MULTI_USER;",
		},
		{
			name:    "drop",
			db:      DropDatabase("db_prod"),
			dialect: dialect.MySQL,
			want:    "DROP DATABASE IF EXISTS db_prod;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.db.Render(tt.dialect)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDatabase_Errors(t *testing.T) {
	for _, d := range []dialect.Dialect{dialect.MySQL, dialect.SQLite} {
		_, err := RenameDatabase("db_prod", "new_db_prod").Render(d)
		require.True(t, sqlgen.IsUnsupportedDialect(err), d)
	}
	_, err := AlterDatabase("db_prod").ReadOnly(true).Render(dialect.Postgres)
	require.True(t, sqlgen.IsUnsupportedDialect(err))

	_, err = AlterDatabase("db_prod").Render(dialect.MySQL)
	require.True(t, sqlgen.IsMissingInput(err))

	_, err = DropDatabase("").Render(dialect.MySQL)
	require.True(t, sqlgen.IsMissingInput(err))
}
