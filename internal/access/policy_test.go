package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewhub/internal/http-api/models"
)

func actorWithRole(role models.Role) *Actor {
	return &Actor{ID: "actor-id", Username: "actor", Role: role}
}

func TestCanManageUsers(t *testing.T) {
	assert.False(t, CanManageUsers(nil))
	assert.False(t, CanManageUsers(actorWithRole(models.RoleUser)))
	assert.False(t, CanManageUsers(actorWithRole(models.RoleModerator)))
	assert.True(t, CanManageUsers(actorWithRole(models.RoleAdmin)))
}

func TestCanManageUsers_Superuser(t *testing.T) {
	// superuser counts as admin whatever the stored role says
	su := &Actor{ID: "su", Role: models.RoleUser, Superuser: true}
	assert.True(t, CanManageUsers(su))
	assert.True(t, CanWriteCatalog(su))
}

func TestCanWriteCatalog(t *testing.T) {
	assert.False(t, CanWriteCatalog(nil))
	assert.False(t, CanWriteCatalog(actorWithRole(models.RoleUser)))
	assert.False(t, CanWriteCatalog(actorWithRole(models.RoleModerator)))
	assert.True(t, CanWriteCatalog(actorWithRole(models.RoleAdmin)))
}

func TestCanPublish(t *testing.T) {
	assert.False(t, CanPublish(nil))
	assert.True(t, CanPublish(actorWithRole(models.RoleUser)))
}

func TestCanModifyAuthored(t *testing.T) {
	const authorID = "author-1"

	tests := []struct {
		name  string
		actor *Actor
		want  bool
	}{
		{"anonymous", nil, false},
		{"author", &Actor{ID: authorID, Role: models.RoleUser}, true},
		{"other user", &Actor{ID: "someone-else", Role: models.RoleUser}, false},
		{"moderator not author", &Actor{ID: "mod", Role: models.RoleModerator}, true},
		{"admin not author", &Actor{ID: "adm", Role: models.RoleAdmin}, true},
		{"superuser not author", &Actor{ID: "su", Role: models.RoleUser, Superuser: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyAuthored(tt.actor, authorID))
		})
	}
}

func TestFromUser(t *testing.T) {
	assert.Nil(t, FromUser(nil))

	u := &models.User{ID: "u1", Username: "alice", Role: models.RoleModerator}
	a := FromUser(u)
	assert.Equal(t, "u1", a.ID)
	assert.Equal(t, "alice", a.Username)
	assert.True(t, a.IsModerator())
	assert.False(t, a.IsAdmin())
}
