// The builtin functions of Minnow. The table is closed: the parser turns a
// call to one of these names into a builtin-call node, the typechecker checks
// it against the row here, and the evaluator keeps a parallel table of actions
// indexed the same way, so nothing ever dispatches on a builtin's name at
// run time.
package builtins

// A BuiltinId is an index into Table.
type BuiltinId int

type Builtin struct {
	Name    string
	Arity   int
	Returns string // a type name; the typechecker resolves it
}

var Table = []Builtin{
	{Name: "print", Arity: 1, Returns: "void"},
}

// FromName says whether a name belongs to a builtin. The table is small
// enough that scanning it beats keeping a map in sync with it.
func FromName(name string) (BuiltinId, bool) {
	for id, b := range Table {
		if b.Name == name {
			return BuiltinId(id), true
		}
	}
	return 0, false
}
