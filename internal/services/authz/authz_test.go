package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/mining-portal/internal/models"
)

var (
	admin = &models.User{UUID: "uid-admin", Username: "admin", Role: "admin"}
	owner = &models.User{UUID: "uid-owner", Username: "owner", Role: "user"}
	other = &models.User{UUID: "uid-other", Username: "other", Role: "user"}
)

func TestCanRead(t *testing.T) {
	req := &models.Request{ID: "1", UserUID: "uid-owner", Username: "owner"}

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"owner reads own request", owner, true},
		{"admin reads any request", admin, true},
		{"stranger denied", other, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRead(tt.actor, req))
		})
	}
}

func TestCanReadAllOwnedBy(t *testing.T) {
	tests := []struct {
		name     string
		actor    *models.User
		username string
		want     bool
	}{
		{"owner lists own requests", owner, "owner", true},
		{"admin lists anyone's requests", admin, "owner", true},
		{"stranger denied", other, "owner", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanReadAllOwnedBy(tt.actor, tt.username))
		})
	}
}

func TestCanRespond(t *testing.T) {
	assert.True(t, CanRespond(admin))
	assert.False(t, CanRespond(owner))
}

func TestCanListAll(t *testing.T) {
	assert.True(t, CanListAll(admin))
	assert.False(t, CanListAll(other))
}

func TestCanUpdateProfile(t *testing.T) {
	tests := []struct {
		name   string
		actor  *models.User
		target string
		want   bool
	}{
		{"owner updates own profile", owner, "owner", true},
		{"stranger denied", other, "owner", false},
		// Администратор не редактирует чужие профили.
		{"admin denied on foreign profile", admin, "owner", false},
		{"admin updates own profile", admin, "admin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUpdateProfile(tt.actor, tt.target))
		})
	}
}
