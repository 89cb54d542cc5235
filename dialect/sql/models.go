package sql

import "github.com/syssam/sqlgen"

// SelectFrom returns a Selector on the table of model. See sqlgen.TableName.
func SelectFrom(model any) *Selector { return Select(sqlgen.TableName(model)) }

// InsertInto returns an InsertBuilder on the table of model.
func InsertInto(model any) *InsertBuilder { return Insert(sqlgen.TableName(model)) }

// UpdateOf returns an UpdateBuilder on the table of model.
func UpdateOf(model any) *UpdateBuilder { return Update(sqlgen.TableName(model)) }

// DeleteFrom returns a DeleteBuilder on the table of model.
func DeleteFrom(model any) *DeleteBuilder { return Delete(sqlgen.TableName(model)) }
