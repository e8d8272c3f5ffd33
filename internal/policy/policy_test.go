package policy

import (
	"fmt"
	"testing"

	"github.com/MKhiriev/go-yamdb/models"
	"github.com/stretchr/testify/assert"
)

var (
	anonymous = models.Anonymous()
	user      = models.Caller{UserID: 1, Username: "user", Role: models.RoleUser}
	moderator = models.Caller{UserID: 2, Username: "moderator", Role: models.RoleModerator}
	admin     = models.Caller{UserID: 3, Username: "admin", Role: models.RoleAdmin}
	superuser = models.Caller{UserID: 4, Username: "root", Role: models.RoleUser, IsSuperuser: true}
)

const otherID = int64(100)

// TestAuthorize_Matrix walks the full permission table: every caller class
// against every action on every resource kind, owned and not owned.
func TestAuthorize_Matrix(t *testing.T) {
	type row struct {
		caller models.Caller
		req    Request
		want   error
	}

	var rows []row
	add := func(caller models.Caller, action Action, resource Resource, owner int64, want error) {
		rows = append(rows, row{
			caller: caller,
			req:    Request{Caller: caller, Action: action, Resource: resource, OwnerID: owner},
			want:   want,
		})
	}

	writes := []Action{ActionCreate, ActionUpdate, ActionDelete}

	// Reads of public resources are open to everyone.
	for _, c := range []models.Caller{anonymous, user, moderator, admin, superuser} {
		add(c, ActionRead, ResourceCatalog, 0, nil)
		add(c, ActionRead, ResourceContent, otherID, nil)
	}

	// Anonymous callers must authenticate for everything else.
	for _, a := range writes {
		add(anonymous, a, ResourceCatalog, 0, ErrAuthenticationRequired)
		add(anonymous, a, ResourceContent, otherID, ErrAuthenticationRequired)
		add(anonymous, a, ResourceAccount, otherID, ErrAuthenticationRequired)
	}
	add(anonymous, ActionRead, ResourceAccount, otherID, ErrAuthenticationRequired)
	add(anonymous, ActionRead, ResourceAccount, 0, ErrAuthenticationRequired)

	for _, c := range []models.Caller{user, moderator} {
		for _, a := range writes {
			add(c, a, ResourceCatalog, 0, ErrForbidden)
		}
		add(c, ActionCreate, ResourceContent, 0, nil)
		add(c, ActionUpdate, ResourceContent, c.UserID, nil)
		add(c, ActionDelete, ResourceContent, c.UserID, nil)

		add(c, ActionRead, ResourceAccount, c.UserID, nil)
		add(c, ActionUpdate, ResourceAccount, c.UserID, nil)
		add(c, ActionRead, ResourceAccount, otherID, ErrForbidden)
		add(c, ActionUpdate, ResourceAccount, otherID, ErrForbidden)
		add(c, ActionDelete, ResourceAccount, otherID, ErrForbidden)
		add(c, ActionRead, ResourceAccount, 0, ErrForbidden)
		add(c, ActionCreate, ResourceAccount, 0, ErrForbidden)
	}

	add(user, ActionUpdate, ResourceContent, otherID, ErrForbidden)
	add(user, ActionDelete, ResourceContent, otherID, ErrForbidden)
	add(moderator, ActionUpdate, ResourceContent, otherID, nil)
	add(moderator, ActionDelete, ResourceContent, otherID, nil)

	for _, c := range []models.Caller{admin, superuser} {
		for _, a := range writes {
			add(c, a, ResourceCatalog, 0, nil)
			add(c, a, ResourceContent, otherID, nil)
			add(c, a, ResourceAccount, otherID, nil)
		}
		add(c, ActionRead, ResourceAccount, otherID, nil)
		add(c, ActionRead, ResourceAccount, 0, nil)
		add(c, ActionCreate, ResourceAccount, 0, nil)
	}

	for _, r := range rows {
		name := fmt.Sprintf("%s/%s/%s/owner=%d", r.caller.Username, r.req.Action, r.req.Resource, r.req.OwnerID)
		t.Run(name, func(t *testing.T) {
			err := Authorize(r.req)
			if r.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, r.want)
		})
	}
}

// TestAuthorize_SuperuserIgnoresRole verifies that the superuser flag grants
// admin capabilities even when the stored role is the lowest one.
func TestAuthorize_SuperuserIgnoresRole(t *testing.T) {
	err := Authorize(Request{Caller: superuser, Action: ActionDelete, Resource: ResourceCatalog})
	assert.NoError(t, err)
}

// TestAuthorize_RoleGrantsNothingWithoutIdentity verifies that a role on an
// anonymous caller is ignored.
func TestAuthorize_RoleGrantsNothingWithoutIdentity(t *testing.T) {
	fake := models.Caller{Role: models.RoleAdmin, IsSuperuser: true}

	err := Authorize(Request{Caller: fake, Action: ActionCreate, Resource: ResourceCatalog})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestActionAndResourceString(t *testing.T) {
	assert.Equal(t, "update", ActionUpdate.String())
	assert.Equal(t, "unknown", Action(42).String())
	assert.Equal(t, "content", ResourceContent.String())
	assert.Equal(t, "unknown", Resource(42).String())
}

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(models.Anonymous()), ErrAuthenticationRequired)
	assert.NoError(t, RequireAuthenticated(models.Caller{UserID: 1, Role: models.RoleUser}))
}
