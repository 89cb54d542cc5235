package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTable(t *testing.T) {
	tbl := CreateTable("users").
		AddColumn("id", Integer{Null: False, AutoIncrement: true, PrimaryKey: True, Comment: "ID"}).
		AddColumn("user_id", Integer{Null: False, ForeignKey: NewReference("user_id"), Comment: "user_id"}).
		AddColumn("is_deleted", Boolean{Null: False, Default: True, Index: True, Comment: "软删除"}).
		AddColumn("age", Integer{Unsigned: true, Null: False, Default: ptr(int64(18)), Comment: "年龄"}).
		AddColumn("price", Float{Null: False, Default: ptr(1.0), Comment: "价格"}).
		AddColumn("rate", Double{Null: False, Default: ptr(1.0), Comment: "利率"}).
		AddColumn("longitude", Decimal{Precision: 10, Scale: 6, Null: False, Default: ptr(1.0), Comment: "经度"}).
		AddColumn("latitude", Decimal{Precision: 10, Scale: 6, Null: False, Default: ptr(1.0), Comment: "纬度"}).
		AddColumn("name", String{Length: 200}).
		AddColumn("email", String{Null: False, Index: True, Unique: True}).
		AddColumn("remark", Text{}).
		AddColumn("time_at", Time{}).
		AddColumn("date_at", Date{}).
		AddColumn("datetime_at", Datetime{}).
		AddColumn("created_at", Timestamp{}).
		AddIndex("name").
		AddUnique("username").
		AddForeignKey("order_id", nil)
	got, err := tbl.Render(dialect.MySQL)
	require.NoError(t, err)
	require.Equal(t, `CREATE TABLE IF NOT EXISTS users (
id INT NOT NULL AUTO_INCREMENT COMMENT 'ID',
user_id INT NOT NULL COMMENT 'user_id',
is_deleted BOOLEAN NOT NULL DEFAULT true COMMENT '软删除',
age INT UNSIGNED NOT NULL DEFAULT 18 COMMENT '年龄',
price FLOAT NOT NULL DEFAULT 1 COMMENT '价格',
rate DOUBLE NOT NULL DEFAULT 1 COMMENT '利率',
longitude DECIMAL(10, 6) NOT NULL DEFAULT 1 COMMENT '经度',
latitude DECIMAL(10, 6) NOT NULL DEFAULT 1 COMMENT '纬度',
name VARCHAR(200),
email VARCHAR(255) NOT NULL,
remark TEXT,
time_at TIME,
date_at DATE,
datetime_at DATETIME,
created_at TIMESTAMP,
PRIMARY KEY pk_on_id (id),
FOREIGN KEY fk_on_user_id (user_id) REFERENCES users (id),
INDEX index_on_is_deleted (is_deleted),
UNIQUE INDEX unique_index_on_email (email),
INDEX index_on_name (name),
UNIQUE unique_on_username (username),
FOREIGN KEY fk_on_order_id (order_id) REFERENCES orders (id)
);`, got)
}

func TestCreateTable_Dialects(t *testing.T) {
	tbl := CreateTable("users").
		AddColumn("id", Integer{Bytes: 8, Null: False, AutoIncrement: true, PrimaryKey: True, Comment: "ID"}).
		AddColumn("email", String{Null: False, Unique: True}).
		AddColumn("is_deleted", Boolean{Index: True})
	tests := []struct {
		dialect dialect.Dialect
		want    string
	}{
		{
			dialect: dialect.Postgres,
			want: `CREATE TABLE IF NOT EXISTS users (
id BIGINT NOT NULL GENERATED BY DEFAULT AS IDENTITY,
email VARCHAR(255) NOT NULL,
is_deleted BOOLEAN,
CONSTRAINT pk_on_id PRIMARY KEY (id),
CONSTRAINT unique_on_email UNIQUE (email)
);
CREATE INDEX index_on_is_deleted ON users (is_deleted);`,
		},
		{
			dialect: dialect.SQLServer,
			want: `IF OBJECT_ID(N'users', N'U') IS NULL
CREATE TABLE users (
id BIGINT NOT NULL IDENTITY(1,1),
email NVARCHAR(255) NOT NULL,
is_deleted BIT,
CONSTRAINT pk_on_id PRIMARY KEY (id),
CONSTRAINT unique_on_email UNIQUE (email),
INDEX index_on_is_deleted (is_deleted)
);`,
		},
		{
			dialect: dialect.SQLite,
			want: `CREATE TABLE IF NOT EXISTS users (
id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
email VARCHAR(255) NOT NULL,
is_deleted BOOLEAN,
CONSTRAINT unique_on_email UNIQUE (email)
);
CREATE INDEX index_on_is_deleted ON users (is_deleted);`,
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			got, err := tbl.Render(tt.dialect)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCreateTable_SQLiteAutoIncrement(t *testing.T) {
	got, err := CreateTable("users").
		AddColumn("id", Integer{AutoIncrement: true}).
		AddColumn("name", String{}).
		AddPrimaryKey("id").
		Render(dialect.SQLite)
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE IF NOT EXISTS users (\nid INTEGER PRIMARY KEY AUTOINCREMENT,\nname VARCHAR(255)\n);", got)

	got, err = CreateTable("tags").
		AddColumn("id", Integer{}).
		AddPrimaryKey("id").
		Render(dialect.SQLite)
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE IF NOT EXISTS tags (\nid INTEGER,\nCONSTRAINT pk_on_id PRIMARY KEY (id)\n);", got)
}

func TestCreateTable_Options(t *testing.T) {
	tbl := CreateTable("t").
		AddColumn("id", Integer{}).
		Engine("InnoDB").
		Charset("utf8mb4").
		Collation("utf8mb4_bin").
		Comment("it's")
	got, err := tbl.Render(dialect.MySQL)
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE IF NOT EXISTS t (\nid INT\n) ENGINE = InnoDB CHARACTER SET utf8mb4 COLLATE utf8mb4_bin COMMENT = 'it''s';", got)

	got, err = tbl.Render(dialect.Postgres)
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE IF NOT EXISTS t (\nid INTEGER\n);", got)
}

func TestCreateTable_ForeignKeyDefaults(t *testing.T) {
	tbl := CreateTable("posts").
		ForeignKeyDefaults(Cascade, Restrict).
		AddColumn("user_id", Integer{ForeignKey: NewReference("user_id")}).
		AddForeignKey("editor_id", &Reference{Table: "users", OnDelete: SetNull})
	got, err := tbl.Render(dialect.MySQL)
	require.NoError(t, err)
	require.Equal(t, `CREATE TABLE IF NOT EXISTS posts (
user_id INT,
FOREIGN KEY fk_on_user_id (user_id) REFERENCES users (id) ON UPDATE CASCADE ON DELETE RESTRICT,
FOREIGN KEY fk_on_editor_id (editor_id) REFERENCES users (id) ON DELETE SET NULL
);`, got)
}

func TestAlterTable(t *testing.T) {
	tbl := AlterTable("users").
		AddColumn("name", String{Null: False}).
		ModifyColumn("is_deleted", Boolean{Default: False}).
		ModifyColumn("age", Integer{Unsigned: true}).
		ModifyColumn("price", Float{Default: ptr(0.0)}).
		ModifyColumn("rate", Double{Default: ptr(0.0)}).
		ModifyColumn("rate", Decimal{Precision: 10, Scale: 6}).
		ModifyColumn("phone", String{Length: 20, Unique: True}).
		ChangeColumn("desc", "description", Text{Null: False}).
		RenameColumn("addr", "address").
		DropColumn("email").
		AddUniqueIndex("name", "phone").
		DropIndex("index_on_username").
		DropUnique("unique_on_username").
		DropPrimaryKey("id").
		DropForeignKey("order_id").
		RenameIndex("index_on_uid", "idx_on_uid")
	got, err := tbl.Render(dialect.MySQL)
	require.NoError(t, err)
	require.Equal(t, "ALTER TABLE users\n"+
		"ADD COLUMN name VARCHAR(255) NOT NULL,\n"+
		"MODIFY COLUMN is_deleted BOOLEAN DEFAULT false,\n"+
		"MODIFY COLUMN age INT UNSIGNED,\n"+
		"MODIFY COLUMN price FLOAT DEFAULT 0,\n"+
		"MODIFY COLUMN rate DOUBLE DEFAULT 0,\n"+
		"MODIFY COLUMN rate DECIMAL(10, 6),\n"+
		"MODIFY COLUMN phone VARCHAR(20),\n"+
		"CHANGE COLUMN `desc` description TEXT NOT NULL,\n"+
		"RENAME COLUMN addr TO address,\n"+
		"DROP COLUMN email,\n"+
		"ADD CONSTRAINT UNIQUE INDEX unique_index_on_name_and_phone (name,phone),\n"+
		"DROP INDEX index_on_username,\n"+
		"DROP INDEX unique_on_username,\n"+
		"DROP PRIMARY KEY,\n"+
		"DROP FOREIGN KEY fk_on_order_id,\n"+
		"RENAME INDEX index_on_uid TO idx_on_uid;", got)
}

func TestAlterTable_Constraints(t *testing.T) {
	tests := []struct {
		name string
		tbl  *Table
		want string
	}{
		{
			name: "foreign key",
			tbl:  AlterTable("users").AddForeignKey("user_id", nil),
			want: "ALTER TABLE users\nADD CONSTRAINT FOREIGN KEY fk_on_user_id (user_id) REFERENCES users (id);",
		},
		{
			name: "primary key",
			tbl:  AlterTable("users").AddPrimaryKey("id"),
			want: "ALTER TABLE users\nADD CONSTRAINT PRIMARY KEY pk_on_id (id);",
		},
		{
			name: "plain index",
			tbl:  AlterTable("users").AddIndex("name"),
			want: "ALTER TABLE users\nADD INDEX index_on_name (name);",
		},
		{
			name: "position",
			tbl:  AlterTable("users").AddColumnAt("nickname", "AFTER name", String{Length: 50}),
			want: "ALTER TABLE users\nADD COLUMN nickname VARCHAR(50) AFTER name;",
		},
		{
			name: "options",
			tbl:  AlterTable("users").Engine("InnoDB"),
			want: "ALTER TABLE users\nENGINE = InnoDB;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tbl.Render(dialect.MySQL)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAlterTable_Postgres(t *testing.T) {
	tbl := AlterTable("users").
		ModifyColumn("age", Integer{Null: False, Default: ptr(int64(0))}).
		RenameColumn("addr", "address").
		AddIndex("name").
		DropUnique("unique_on_email").
		RenameIndex("index_on_uid", "idx_on_uid")
	got, err := tbl.Render(dialect.Postgres)
	require.NoError(t, err)
	require.Equal(t, "ALTER TABLE users\n"+
		"ALTER COLUMN age TYPE INTEGER,\n"+
		"ALTER COLUMN age SET NOT NULL,\n"+
		"ALTER COLUMN age SET DEFAULT 0,\n"+
		"DROP CONSTRAINT unique_on_email;\n"+
		"ALTER TABLE users RENAME COLUMN addr TO address;\n"+
		"CREATE INDEX index_on_name ON users (name);\n"+
		"ALTER INDEX index_on_uid RENAME TO idx_on_uid;", got)

	_, err = AlterTable("users").ChangeColumn("a", "b", Text{}).Render(dialect.Postgres)
	require.True(t, sqlgen.IsUnsupportedDialect(err))
}

func TestAlterTable_SQLite(t *testing.T) {
	got, err := AlterTable("users").
		AddColumn("name", String{}).
		DropColumn("email").
		DropIndex("index_on_age").
		Render(dialect.SQLite)
	require.NoError(t, err)
	require.Equal(t, "ALTER TABLE users\nADD COLUMN name VARCHAR(255);\nALTER TABLE users\nDROP COLUMN email;\nDROP INDEX index_on_age;", got)

	for name, tbl := range map[string]*Table{
		"modify":       AlterTable("users").ModifyColumn("age", Integer{}),
		"foreign key":  AlterTable("users").AddForeignKey("user_id", nil),
		"rename index": AlterTable("users").RenameIndex("a", "b"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tbl.Render(dialect.SQLite)
			require.Error(t, err)
			require.True(t, sqlgen.IsUnsupportedDialect(err))
		})
	}
}

func TestAlterTable_SQLServer(t *testing.T) {
	got, err := AlterTable("users").
		AddColumn("name", String{Null: False}).
		ModifyColumn("age", Integer{Bytes: 2, Null: True}).
		RenameColumn("addr", "address").
		DropIndex("index_on_age").
		Render(dialect.SQLServer)
	require.NoError(t, err)
	require.Equal(t, "ALTER TABLE users\nADD name NVARCHAR(255) NOT NULL;\n"+
		"ALTER TABLE users\nALTER COLUMN age SMALLINT NULL;\n"+
		"EXEC sp_rename 'users.addr', 'address', 'COLUMN';\n"+
		"DROP INDEX index_on_age ON users;", got)
}

func TestTable_Lifecycle(t *testing.T) {
	tests := []struct {
		name    string
		tbl     *Table
		dialect dialect.Dialect
		want    string
	}{
		{name: "rename", tbl: RenameTable("users", "new_users"), dialect: dialect.MySQL, want: "ALTER TABLE users RENAME TO new_users;"},
		{name: "rename sqlserver", tbl: RenameTable("users", "new_users"), dialect: dialect.SQLServer, want: "EXEC sp_rename 'users', 'new_users';"},
		{name: "drop", tbl: DropTable("users"), dialect: dialect.MySQL, want: "DROP TABLE IF EXISTS users;"},
		{name: "drop quoted", tbl: DropTable("order"), dialect: dialect.Postgres, want: `DROP TABLE IF EXISTS "order";`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tbl.Render(tt.dialect)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTable_Errors(t *testing.T) {
	_, err := CreateTable("users").Render(dialect.MySQL)
	require.True(t, sqlgen.IsMissingInput(err))

	_, err = CreateTable("users").AddIndex("name").Render(dialect.MySQL)
	require.True(t, sqlgen.IsMissingInput(err))

	_, err = AlterTable("users").Render(dialect.MySQL)
	require.True(t, sqlgen.IsMissingInput(err))

	_, err = CreateTable("").AddColumn("id", Integer{}).Render(dialect.MySQL)
	require.True(t, sqlgen.IsMissingInput(err))

	_, err = CreateTable("users").DropColumn("id").Render(dialect.MySQL)
	require.True(t, sqlgen.IsUnsupportedValue(err))

	_, err = DropTable("users").Render(dialect.Dialect("oracle"))
	require.True(t, sqlgen.IsUnsupportedDialect(err))

	_, err = RenameTable("users", "").Render(dialect.MySQL)
	require.True(t, sqlgen.IsMissingInput(err))
}
