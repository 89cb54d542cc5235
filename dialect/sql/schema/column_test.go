package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlgen/dialect"
)

func TestColumn_Definition(t *testing.T) {
	tests := []struct {
		name    string
		column  Column
		dialect dialect.Dialect
		want    string
	}{
		{
			name:    "change",
			column:  Column{Names: []string{"is_a"}, Action: ChangeColumnTo("is_b", ""), Type: Integer{Comment: "rename to is_b"}},
			dialect: dialect.MySQL,
			want:    "is_a is_b INT COMMENT 'rename to is_b'",
		},
		{
			name:    "modify bigint",
			column:  Column{Names: []string{"integer_c"}, Action: Action{Kind: ModifyColumn}, Type: Integer{Bytes: 8, Unsigned: true, Null: False}},
			dialect: dialect.MySQL,
			want:    "integer_c BIGINT UNSIGNED NOT NULL",
		},
		{
			name:    "binary",
			column:  Column{Names: []string{"is_a"}, Action: ChangeColumnTo("is_b", "FIRST"), Type: Binary{Length: 200, Fixed: true}},
			dialect: dialect.MySQL,
			want:    "is_a is_b BINARY(200) FIRST",
		},
		{
			name:    "position ignored",
			column:  Column{Names: []string{"x"}, Action: AddColumnAt("AFTER id"), Type: Integer{}},
			dialect: dialect.Postgres,
			want:    "x INTEGER",
		},
		{
			name:    "rename",
			column:  Column{Names: []string{"addr"}, Action: RenameColumnTo("address", "")},
			dialect: dialect.MySQL,
			want:    "addr TO address",
		},
		{
			name:    "drop quoted",
			column:  Column{Names: []string{"key"}, Action: Action{Kind: DropColumn}},
			dialect: dialect.SQLServer,
			want:    "[key]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.column.Definition(tt.dialect)
			require.NotNil(t, f)
			require.Equal(t, tt.want, f.Text())
		})
	}
}

func TestColumn_DefinitionNil(t *testing.T) {
	for _, c := range []Column{
		{Names: []string{"id"}, Action: Action{Kind: AddColumn}, Type: PrimaryKey{}},
		{Names: []string{"id"}, Action: Action{Kind: AddConstraint}, Type: Integer{}},
		{Names: []string{"a"}, Action: RenameIndexTo("b"), Type: Index{}},
		{Action: Action{Kind: DropColumn}},
	} {
		assert.Nil(t, c.Definition(dialect.MySQL))
	}
}

func TestColumn_Constraint(t *testing.T) {
	ref := &Reference{Table: "people", OnUpdate: Cascade, OnDelete: SetNull}
	tests := []struct {
		name    string
		column  Column
		dialect dialect.Dialect
		want    string
	}{
		{
			name:    "foreign key options",
			column:  Column{Names: []string{"author_id"}, Action: Action{Kind: AddConstraint}, Type: ForeignKey{Reference: ref}},
			dialect: dialect.MySQL,
			want:    "FOREIGN KEY fk_on_author_id (author_id) REFERENCES people (id) ON UPDATE CASCADE ON DELETE SET NULL",
		},
		{
			name:    "foreign key postgres",
			column:  Column{Names: []string{"author_id"}, Action: Action{Kind: AddConstraint}, Type: ForeignKey{Reference: ref}},
			dialect: dialect.Postgres,
			want:    "CONSTRAINT fk_on_author_id FOREIGN KEY (author_id) REFERENCES people (id) ON UPDATE CASCADE ON DELETE SET NULL",
		},
		{
			name:    "fixed order",
			column:  Column{Names: []string{"user_id"}, Action: Action{Kind: AddColumn}, Type: Integer{PrimaryKey: True, Unique: True, ForeignKey: NewReference("user_id")}},
			dialect: dialect.MySQL,
			want:    "PRIMARY KEY pk_on_user_id (user_id),\nUNIQUE unique_on_user_id (user_id),\nFOREIGN KEY fk_on_user_id (user_id) REFERENCES users (id)",
		},
		{
			name:    "drop primary key postgres",
			column:  Column{Names: []string{"id"}, Action: Action{Kind: DropConstraint}, Type: PrimaryKey{}},
			dialect: dialect.Postgres,
			want:    "DROP CONSTRAINT pk_on_id",
		},
		{
			name:    "drop foreign key sqlserver",
			column:  Column{Names: []string{"order_id"}, Action: Action{Kind: DropConstraint}, Type: ForeignKey{}},
			dialect: dialect.SQLServer,
			want:    "DROP CONSTRAINT fk_on_order_id",
		},
		{
			name:    "quoted columns",
			column:  Column{Names: []string{"group", "order"}, Action: Action{Kind: AddConstraint}, Type: Unique{}},
			dialect: dialect.MySQL,
			want:    "UNIQUE unique_on_group_and_order (`group`,`order`)",
		},
		{
			name:    "unique pair",
			column:  Column{Names: []string{"user_id", "order_id"}, Action: Action{Kind: AddConstraint}, Type: Unique{}},
			dialect: dialect.MySQL,
			want:    "UNIQUE unique_on_user_id_and_order_id (user_id,order_id)",
		},
		{
			name:    "plain index sqlserver",
			column:  Column{Names: []string{"name"}, Action: Action{Kind: AddConstraint}, Type: Index{}},
			dialect: dialect.SQLServer,
			want:    "INDEX index_on_name (name)",
		},
		{
			name:    "quoted constraint names",
			column:  Column{Names: []string{"user-id"}, Action: Action{Kind: AddColumn}, Type: Integer{PrimaryKey: True, Index: True}},
			dialect: dialect.MySQL,
			want:    "PRIMARY KEY `pk_on_user-id` (`user-id`),\nINDEX `index_on_user-id` (`user-id`)",
		},
		{
			name:    "quoted constraint names postgres",
			column:  Column{Names: []string{"author-id"}, Action: Action{Kind: AddColumn}, Type: Integer{PrimaryKey: True, ForeignKey: &Reference{Table: "people"}}},
			dialect: dialect.Postgres,
			want:    "CONSTRAINT \"pk_on_author-id\" PRIMARY KEY (\"author-id\"),\nCONSTRAINT \"fk_on_author-id\" FOREIGN KEY (\"author-id\") REFERENCES people (id)",
		},
		{
			name:    "sqlite auto increment keeps unique",
			column:  Column{Names: []string{"id"}, Action: Action{Kind: AddColumn}, Type: Integer{PrimaryKey: True, AutoIncrement: true, Unique: True}},
			dialect: dialect.SQLite,
			want:    "CONSTRAINT unique_on_id UNIQUE (id)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.column.Constraint(tt.dialect)
			require.NotNil(t, f)
			require.Equal(t, tt.want, f.Text())
		})
	}
}

func TestColumn_ConstraintNil(t *testing.T) {
	tests := []struct {
		name    string
		column  Column
		dialect dialect.Dialect
	}{
		{"modify", Column{Names: []string{"phone"}, Action: Action{Kind: ModifyColumn}, Type: String{Unique: True}}, dialect.MySQL},
		{"change", Column{Names: []string{"a"}, Action: ChangeColumnTo("b", ""), Type: Integer{PrimaryKey: True}}, dialect.MySQL},
		{"plain index postgres", Column{Names: []string{"name"}, Action: Action{Kind: AddConstraint}, Type: Index{}}, dialect.Postgres},
		{"no flags", Column{Names: []string{"name"}, Action: Action{Kind: AddColumn}, Type: String{}}, dialect.MySQL},
		{"no type", Column{Names: []string{"name"}, Action: Action{Kind: DropColumn}}, dialect.MySQL},
		{"sqlite auto increment key", Column{Names: []string{"id"}, Action: Action{Kind: AddColumn}, Type: Integer{PrimaryKey: True, AutoIncrement: true}}, dialect.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, tt.column.Constraint(tt.dialect))
		})
	}
}

func TestColumn_AutoIncrementPrimaryKey(t *testing.T) {
	id := Column{Names: []string{"id"}, Action: Action{Kind: AddColumn}, Type: Integer{Null: False, AutoIncrement: true, PrimaryKey: True}}
	tests := []struct {
		dialect    dialect.Dialect
		definition string
		constraint string
	}{
		{dialect.MySQL, "id INT NOT NULL AUTO_INCREMENT", "PRIMARY KEY pk_on_id (id)"},
		{dialect.Postgres, "id INTEGER NOT NULL GENERATED BY DEFAULT AS IDENTITY", "CONSTRAINT pk_on_id PRIMARY KEY (id)"},
		{dialect.SQLite, "id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT", ""},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			def := id.Definition(tt.dialect)
			require.NotNil(t, def)
			assert.Equal(t, tt.definition, def.Text())
			c := id.Constraint(tt.dialect)
			if tt.constraint == "" {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.constraint, c.Text())
		})
	}
}

func TestColumn_Idempotent(t *testing.T) {
	c := Column{
		Names:  []string{"user_id"},
		Action: Action{Kind: AddColumn},
		Type:   Integer{Null: False, Unique: True, ForeignKey: NewReference("user_id")},
	}
	for _, d := range []dialect.Dialect{dialect.MySQL, dialect.Postgres, dialect.SQLite, dialect.SQLServer} {
		t.Run(d.String(), func(t *testing.T) {
			assert.Equal(t, c.Definition(d).Text(), c.Definition(d).Text())
			assert.Equal(t, c.Constraint(d).Text(), c.Constraint(d).Text())
		})
	}
}
