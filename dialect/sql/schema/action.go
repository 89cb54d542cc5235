package schema

// ActionKind is the operation a Column performs.
type ActionKind uint8

// Action kinds.
const (
	AddColumn ActionKind = iota
	ModifyColumn
	ChangeColumn
	RenameColumn
	DropColumn
	AddConstraint
	DropConstraint
	RenameIndex
)

var actionNames = [...]string{
	AddColumn:      "add column",
	ModifyColumn:   "modify column",
	ChangeColumn:   "change column",
	RenameColumn:   "rename column",
	DropColumn:     "drop column",
	AddConstraint:  "add constraint",
	DropConstraint: "drop constraint",
	RenameIndex:    "rename index",
}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Action is the action state of a Column. NewName is used by ChangeColumn,
// RenameColumn and RenameIndex. Position is a MySQL placement such as
// "FIRST" or "AFTER id".
type Action struct {
	Kind     ActionKind
	NewName  string
	Position string
}

// AddColumnAt returns an AddColumn action placed at pos.
func AddColumnAt(pos string) Action {
	return Action{Kind: AddColumn, Position: pos}
}

// ModifyColumnAt returns a ModifyColumn action placed at pos.
func ModifyColumnAt(pos string) Action {
	return Action{Kind: ModifyColumn, Position: pos}
}

// ChangeColumnTo returns a ChangeColumn action renaming the column to name.
func ChangeColumnTo(name, pos string) Action {
	return Action{Kind: ChangeColumn, NewName: name, Position: pos}
}

// RenameColumnTo returns a RenameColumn action.
func RenameColumnTo(name, pos string) Action {
	return Action{Kind: RenameColumn, NewName: name, Position: pos}
}

// RenameIndexTo returns a RenameIndex action.
func RenameIndexTo(name string) Action {
	return Action{Kind: RenameIndex, NewName: name}
}

// adds reports whether the action creates the constraints of its type.
func (a Action) adds() bool {
	return a.Kind == AddColumn || a.Kind == AddConstraint
}
