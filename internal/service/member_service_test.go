package service

import (
	"context"
	"net/http"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

func ptr[T any](v T) *T { return &v }

func TestMemberService(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	admin := apiconnect.NewMemberServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.admin))
	cfo := apiconnect.NewMemberServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.cfo))
	member := apiconnect.NewMemberServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.member))

	t.Run("list", func(t *testing.T) {
		_, err := member.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{}))
		assertCode(t, err, connect.CodePermissionDenied, "")

		resp, err := cfo.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{Role: models.RoleMember}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Members, 1)
		assert.Equal(t, ts.member.ID, resp.Msg.Members[0].ID)
		assert.Empty(t, resp.Msg.Members[0].PasswordHash)
	})

	t.Run("add with temporary password", func(t *testing.T) {
		_, err := cfo.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{
			Name: "Rui", Email: "rui@example.com", Faculty: models.FacultyESRI, Role: models.RoleMember,
		}))
		assertCode(t, err, connect.CodePermissionDenied, "")

		resp, err := admin.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{
			Name: "Rui", Email: "rui@example.com", Faculty: models.FacultyESRI, Role: models.RoleMember,
		}))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Msg.TemporaryPassword)
		assert.True(t, resp.Msg.Member.MustChangePassword)

		authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, ts.url)
		login, err := authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "rui@example.com", Password: resp.Msg.TemporaryPassword}))
		require.NoError(t, err)
		assert.True(t, login.Msg.MustChangePassword)

		_, err = admin.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{
			Name: "Rui 2", Email: "RUI@example.com", Faculty: models.FacultyESRI, Role: models.RoleMember,
		}))
		assertCode(t, err, connect.CodeAlreadyExists, "EMAIL_EXISTS")
	})

	t.Run("update own profile", func(t *testing.T) {
		resp, err := member.UpdateMember(ctx, connect.NewRequest(&api.UpdateMemberRequest{ID: ts.member.ID, Phone: ptr("+258 84 000 0000")}))
		require.NoError(t, err)
		assert.Equal(t, "+258 84 000 0000", resp.Msg.Member.Phone)

		_, err = member.UpdateMember(ctx, connect.NewRequest(&api.UpdateMemberRequest{ID: ts.member.ID, Role: ptr(models.RoleAdmin)}))
		assertCode(t, err, connect.CodePermissionDenied, "")

		_, err = member.UpdateMember(ctx, connect.NewRequest(&api.UpdateMemberRequest{ID: ts.cfo.ID, Name: ptr("X")}))
		assertCode(t, err, connect.CodePermissionDenied, "")
	})

	t.Run("status", func(t *testing.T) {
		_, err := admin.SetMemberStatus(ctx, connect.NewRequest(&api.SetMemberStatusRequest{ID: ts.admin.ID, Status: models.StatusInactive}))
		assertCode(t, err, connect.CodeFailedPrecondition, "")

		resp, err := admin.SetMemberStatus(ctx, connect.NewRequest(&api.SetMemberStatusRequest{ID: ts.member.ID, Status: models.StatusInactive}))
		require.NoError(t, err)
		assert.Equal(t, models.StatusInactive, resp.Msg.Member.Status)

		// Sessions of deactivated members stop working.
		_, err = member.UpdateMember(ctx, connect.NewRequest(&api.UpdateMemberRequest{ID: ts.member.ID, Name: ptr("Ana")}))
		assertCode(t, err, connect.CodeUnauthenticated, "")
	})
}
