package access

// Pure per-request decision functions. Handlers translate a false here into
// 401 for anonymous actors and 403 for authenticated ones.

// CanManageUsers covers the /users collection and admin-only user records.
func CanManageUsers(actor *Actor) bool {
	return actor.IsAdmin()
}

// CanWriteCatalog covers unsafe methods on categories, genres and titles.
// Safe methods on those collections are open to anyone, anonymous included.
func CanWriteCatalog(actor *Actor) bool {
	return actor.IsAdmin()
}

// CanPublish covers creating reviews and comments.
func CanPublish(actor *Actor) bool {
	return actor.Authenticated()
}

// CanModifyAuthored decides object-level mutation of a review or comment:
// the author, a moderator or an admin may update or delete it.
func CanModifyAuthored(actor *Actor, authorID string) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.ID == authorID || actor.IsAdmin() || actor.IsModerator()
}
