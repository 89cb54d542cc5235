package codegen

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlgen/dialect/sql/schema"
)

func TestGoName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"id", "ID"},
		{"user_id", "UserID"},
		{"avatar_url", "AvatarURL"},
		{"created_at", "CreatedAt"},
		{"user_profiles", "UserProfiles"},
		{"_leading", "Leading"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GoName(tt.in))
		})
	}
	assert.Equal(t, "UserProfile", modelName("user_profiles"))
	assert.Equal(t, "Category", modelName("categories"))
}

func TestGenerate(t *testing.T) {
	users := schema.CreateTable("users").
		AddColumn("id", schema.Integer{Bytes: 8, AutoIncrement: true}).
		AddColumn("email", schema.String{Null: schema.False, Comment: "login"}).
		AddColumn("nickname", schema.String{}).
		AddColumn("age", schema.Integer{Bytes: 1, Unsigned: true, Null: schema.False}).
		AddColumn("score", schema.Double{}).
		AddColumn("avatar", schema.Blob{}).
		AddColumn("created_at", schema.Timestamp{Null: schema.False, OnCreate: true}).
		AddColumn("deleted_at", schema.Datetime{}).
		AddIndex("email").
		AddPrimaryKey("id")
	tables := []*schema.Table{
		users,
		schema.AlterTable("users").AddColumn("bio", schema.Text{}),
		schema.CreateTable("user_profiles").AddColumn("user_id", schema.Integer{Null: schema.False, PrimaryKey: schema.True}),
	}
	src, err := Generate("models", "models.go", tables)
	require.NoError(t, err)
	code := string(src)

	_, err = parser.ParseFile(token.NewFileSet(), "models.go", src, parser.ParseComments)
	require.NoError(t, err, code)

	for _, want := range []string{
		"// Code generated by sqlgen. DO NOT EDIT.",
		"package models",
		`"database/sql"`,
		`"time"`,
		"type User struct",
		"// login",
		"func (User) TableName() string",
		"return UsersTable",
		"type UserProfile struct",
		"UserProfilesColumnUserID",
	} {
		assert.Contains(t, code, want)
	}
	for _, pattern := range []string{
		`ID\s+int64\s+` + "`db:\"id\"`",
		`Nickname\s+sql\.NullString\s+` + "`db:\"nickname\"`",
		`Score\s+sql\.NullFloat64\s+` + "`db:\"score\"`",
		`DeletedAt\s+sql\.NullTime\s+` + "`db:\"deleted_at\"`",
		`CreatedAt\s+time\.Time\s+` + "`db:\"created_at\"`",
		`Avatar\s+\[\]byte\s+` + "`db:\"avatar\"`",
		`Age\s+uint8\s+` + "`db:\"age\"`",
		`UsersColumnEmail\s+= "email"`,
		`UsersColumns\s+= \[\]string\{UsersColumnID, UsersColumnEmail,`,
	} {
		assert.Regexp(t, pattern, code)
	}
	assert.NotContains(t, code, "bio", "alter statements are skipped")
}

func TestGenerate_DuplicateTable(t *testing.T) {
	_, err := Generate("models", "models.go", []*schema.Table{
		schema.CreateTable("users").AddColumn("id", schema.Integer{}),
		schema.CreateTable("users").AddColumn("id", schema.Integer{}),
	})
	require.ErrorContains(t, err, `duplicate table "users"`)
}
