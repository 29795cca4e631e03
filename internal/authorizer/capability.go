package authorizer

import "github.com/supremind/courseauth/types"

// capabilities lists the actions the enforced API accepts per entity kind,
// checked before any permission predicate runs.
// Direct creation of submissions and grades is blocked: those records are
// only minted through SubmitHomework and GradeSubmission, which stamp the
// author themselves.
var capabilities = map[types.Kind]types.Action{
	types.KindCourse:     types.All,
	types.KindLecture:    types.All,
	types.KindHomework:   types.All,
	types.KindSubmission: types.Read | types.Update | types.Delete,
	types.KindGrade:      types.Read | types.Update | types.Delete,
	types.KindComment:    types.All,
}

// capable tells if the action is accepted at all for the entity kind
func capable(kind types.Kind, act types.Action) bool {
	return act.IsIn(capabilities[kind])
}
