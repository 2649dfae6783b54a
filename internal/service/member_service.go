package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/middleware"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/roster"
	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

// MemberService implements the MemberService RPC interface.
type MemberService struct {
	roster *roster.Roster
	hasher auth.Hasher
	logger *slog.Logger
}

var _ apiconnect.MemberServiceHandler = (*MemberService)(nil)

// NewMemberService creates a new member service.
func NewMemberService(r *roster.Roster, hasher auth.Hasher, logger *slog.Logger) *MemberService {
	return &MemberService{roster: r, hasher: hasher, logger: logger}
}

// ListMembers returns the roster. Finance staff need it to review payments.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	members, err := s.roster.List(roster.Filter{
		Search:  req.Msg.Search,
		Role:    req.Msg.Role,
		Status:  req.Msg.Status,
		Faculty: req.Msg.Faculty,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to list members", err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: sanitize(members)}), nil
}

// AddMember creates an account on behalf of a member. Without a password a
// temporary one is generated and must be changed at first login.
func (s *MemberService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	s.logger.Info("AddMember request", "email", req.Msg.Email, "role", req.Msg.Role)

	password, temporary := req.Msg.Password, ""
	if password == "" {
		password = roster.TemporaryPassword()
		temporary = password
	} else if err := auth.ValidatePassword(password); err != nil {
		return nil, toConnectError(s.logger, "Invalid password", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to hash password", err)
	}

	member, err := s.roster.Create(ctx, actor(ctx), roster.NewMember{
		Name:               req.Msg.Name,
		Email:              req.Msg.Email,
		Phone:              req.Msg.Phone,
		Faculty:            req.Msg.Faculty,
		Role:               req.Msg.Role,
		PasswordHash:       hash,
		MustChangePassword: temporary != "",
	})
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to add member", err)
	}

	s.logger.Info("Member added", "user_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: member.Sanitized(), TemporaryPassword: temporary}), nil
}

// UpdateMember edits a profile. Members may edit their own profile except
// for the role. Administrators may edit anyone.
func (s *MemberService) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	id, err := targetUser(ctx, req.Msg.ID, isAdmin)
	if err != nil {
		return nil, err
	}
	if req.Msg.Role != nil && !isAdmin(middleware.GetRole(ctx)) {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("only administrators can change roles"))
	}

	member, err := s.roster.Update(ctx, actor(ctx), id, roster.Changes{
		Name:    req.Msg.Name,
		Phone:   req.Msg.Phone,
		Faculty: req.Msg.Faculty,
		Role:    req.Msg.Role,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to update member", err)
	}
	return connect.NewResponse(&api.UpdateMemberResponse{Member: member.Sanitized()}), nil
}

// SetMemberStatus activates or deactivates a member.
func (s *MemberService) SetMemberStatus(ctx context.Context, req *connect.Request[api.SetMemberStatusRequest]) (*connect.Response[api.SetMemberStatusResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if req.Msg.ID == middleware.GetUserID(ctx) && req.Msg.Status != models.StatusActive {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("administrators cannot deactivate their own account"))
	}

	member, err := s.roster.SetStatus(ctx, actor(ctx), req.Msg.ID, req.Msg.Status)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to set member status", err)
	}
	s.logger.Info("Member status changed", "user_id", member.ID, "status", member.Status)
	return connect.NewResponse(&api.SetMemberStatusResponse{Member: member.Sanitized()}), nil
}
