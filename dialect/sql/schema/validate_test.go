package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Alter(t *testing.T) {
	tbl := AlterTable("users").
		AddColumn("name", String{Null: False}).
		AddColumn("age", Integer{Null: False, Default: ptr(int64(0))}).
		ModifyColumn("email", String{Null: False}).
		RenameColumn("addr", "address").
		DropColumn("phone").
		DropIndex("index_on_name")

	result := Validate(tbl)
	require.True(t, result.HasErrors())
	require.True(t, result.HasBreakingChanges())
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "email", result.Errors[0].Column)
	assert.Equal(t, "phone", result.Errors[1].Column)
	assert.Equal(t, `users: constraint "index_on_name" will be dropped`, result.Errors[2].Error())
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "name", result.Warnings[0].Column)
	assert.Equal(t, "addr", result.Warnings[1].Column)

	result = Validate(tbl, AllowNullToNotNull(), AllowDropColumn(), AllowDropIndex())
	assert.False(t, result.HasErrors())
	assert.True(t, result.HasBreakingChanges())
	assert.Len(t, result.Warnings, 5)
}

func TestValidate_Constraints(t *testing.T) {
	result := Validate(AlterTable("users").DropPrimaryKey("id").DropForeignKey("order_id").AddUnique("email"))
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Message, "pk_on_id")
	assert.Contains(t, result.Errors[1].Message, "fk_on_order_id")
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "email", result.Warnings[0].Column)
}

func TestValidate_Create(t *testing.T) {
	result := Validate(CreateTable("users").
		AddColumn("id", Integer{PrimaryKey: True}).
		AddColumn("name", String{}).
		AddColumn("name", Text{}))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "users.name: duplicate column name", result.Errors[0].Error())
	assert.False(t, result.HasWarnings())

	result = Validate(CreateTable("logs").AddColumn("", Text{}))
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "empty column name")
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "logs: table has no primary key", result.Warnings[0].Error())
}

func TestValidate_Lifecycle(t *testing.T) {
	result := Validate(DropTable("users"))
	require.Len(t, result.Errors, 1)
	assert.True(t, result.Errors[0].Breaking)

	result = Validate(DropTable("users"), AllowDropTable())
	assert.False(t, result.HasErrors())
	assert.Len(t, result.Warnings, 1)

	result = Validate(RenameTable("users", "accounts"))
	assert.False(t, result.HasErrors())
	assert.Len(t, result.Warnings, 1)
	assert.False(t, result.HasBreakingChanges())
}

func TestValidateAll(t *testing.T) {
	result := ValidateAll([]*Table{
		CreateTable("users").AddColumn("id", Integer{PrimaryKey: True}),
		CreateTable("users").AddColumn("id", Integer{PrimaryKey: True}),
		AlterTable("users").AddColumn("bio", Text{}),
	})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "users: duplicate table name", result.Errors[0].Error())
	assert.Equal(t, "No issues found", ValidateAll(nil).String())
}

func TestValidationResult_String(t *testing.T) {
	result := Validate(AlterTable("users").DropColumn("phone").RenameColumn("a", "b"))
	assert.Equal(t, "Errors:\n  - users.phone: column will be dropped [BREAKING]\nWarnings:\n  - users.a: column renamed to \"b\"; queries using the old name will fail\n", result.String())
}
