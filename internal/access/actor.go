package access

import "reviewhub/internal/http-api/models"

// Actor is the identity behind a request. A nil *Actor means anonymous.
type Actor struct {
	ID        string
	Username  string
	Role      models.Role
	Superuser bool
}

func FromUser(u *models.User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Superuser: u.Superuser,
	}
}

func (a *Actor) Authenticated() bool {
	return a != nil
}

func (a *Actor) IsAdmin() bool {
	return a != nil && (a.Role == models.RoleAdmin || a.Superuser)
}

func (a *Actor) IsModerator() bool {
	return a != nil && a.Role == models.RoleModerator
}
