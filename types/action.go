package types

import "strings"

// Action is a class of operations performed on entities.
// Actions are power of twos to achieve efficient set operations, like union, intersection, complement.
// An action is also a union of actions
type Action uint32

// the action set is fixed: it mirrors the method classes of the transport layer
const (
	Read Action = 1 << iota
	Create
	Update
	Delete

	None  Action = 0
	Write        = Create | Update | Delete
	All          = Read | Write
)

var actionNames = map[Action]string{
	Read:   "read",
	Create: "create",
	Update: "update",
	Delete: "delete",
}

// IsSafe tells if the action only reads, as safe HTTP methods do
func (a Action) IsSafe() bool {
	return a.IsIn(Read)
}

// IsIn tells if all actions in a are members of b: a is subset of b
func (a Action) IsIn(b Action) bool {
	return a|b == b
}

// Includes tells if all actions in b are members of a: a is superset of b
func (a Action) Includes(b Action) bool {
	return b.IsIn(a)
}

// Difference returns set of actions belong to a but not b: complement of b in a
func (a Action) Difference(b Action) Action {
	return a &^ b
}

// Split a union of actions to slice of single actions
func (a Action) Split() []Action {
	out := make([]Action, 0)
	op := Action(1)
	for op <= a {
		if op&a > 0 {
			out = append(out, op)
		}
		op <<= 1
	}
	return out
}

func (a Action) String() string {
	as := a.Split()
	ns := make([]string, 0, len(as))
	for _, a := range as {
		n, ok := actionNames[a]
		if !ok {
			n = "unknown"
		}
		ns = append(ns, n)
	}
	return strings.Join(ns, "|")
}
