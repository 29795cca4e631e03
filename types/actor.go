package types

// Role tells what an actor does in courses: teaches them, or studies them.
// Every authenticated actor holds exactly one role.
type Role string

// the two roles known to the authorizer
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// UserID identifies a user account.
type UserID string

func (u UserID) String() string {
	return "user:" + string(u)
}

// Actor is the identity a request is performed as.
// The zero value is the anonymous actor: it is not authenticated,
// holds no role, and is denied everywhere.
type Actor struct {
	ID   UserID
	Role Role

	// Admin marks staff accounts, used for profile self-service only
	Admin bool
}

// Anonymous marks an unauthenticated request.
var Anonymous = Actor{}

// Authenticated tells if the actor carries an identity
func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// IsTeacher is true iff the actor is authenticated and holds the teacher role
func (a Actor) IsTeacher() bool {
	return a.Authenticated() && a.Role == RoleTeacher
}

// IsStudent is true iff the actor is authenticated and holds the student role
func (a Actor) IsStudent() bool {
	return a.Authenticated() && a.Role == RoleStudent
}

func (a Actor) String() string {
	if !a.Authenticated() {
		return "anonymous"
	}
	return a.ID.String() + "(" + string(a.Role) + ")"
}
