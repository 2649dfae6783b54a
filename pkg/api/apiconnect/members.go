package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/pkg/api"
)

// MemberServiceName is the fully-qualified name of the MemberService.
const MemberServiceName = "mycese.v1.MemberService"

// Procedure names of the MemberService.
const (
	MemberServiceListMembersProcedure     = "/mycese.v1.MemberService/ListMembers"
	MemberServiceAddMemberProcedure       = "/mycese.v1.MemberService/AddMember"
	MemberServiceUpdateMemberProcedure    = "/mycese.v1.MemberService/UpdateMember"
	MemberServiceSetMemberStatusProcedure = "/mycese.v1.MemberService/SetMemberStatus"
)

// MemberServiceHandler manages the member roster.
type MemberServiceHandler interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error)
	SetMemberStatus(context.Context, *connect.Request[api.SetMemberStatusRequest]) (*connect.Response[api.SetMemberStatusResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(MemberServiceListMembersProcedure, connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...))
	mux.Handle(MemberServiceAddMemberProcedure, connect.NewUnaryHandler(MemberServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(MemberServiceUpdateMemberProcedure, connect.NewUnaryHandler(MemberServiceUpdateMemberProcedure, svc.UpdateMember, opts...))
	mux.Handle(MemberServiceSetMemberStatusProcedure, connect.NewUnaryHandler(MemberServiceSetMemberStatusProcedure, svc.SetMemberStatus, opts...))
	return "/" + MemberServiceName + "/", mux
}

// MemberServiceClient is a client for the MemberService.
type MemberServiceClient interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error)
	SetMemberStatus(context.Context, *connect.Request[api.SetMemberStatusRequest]) (*connect.Response[api.SetMemberStatusResponse], error)
}

// NewMemberServiceClient constructs a client for the MemberService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MemberServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &memberServiceClient{
		listMembers:     connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+MemberServiceListMembersProcedure, opts...),
		addMember:       connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+MemberServiceAddMemberProcedure, opts...),
		updateMember:    connect.NewClient[api.UpdateMemberRequest, api.UpdateMemberResponse](httpClient, baseURL+MemberServiceUpdateMemberProcedure, opts...),
		setMemberStatus: connect.NewClient[api.SetMemberStatusRequest, api.SetMemberStatusResponse](httpClient, baseURL+MemberServiceSetMemberStatusProcedure, opts...),
	}
}

type memberServiceClient struct {
	listMembers     *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	addMember       *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	updateMember    *connect.Client[api.UpdateMemberRequest, api.UpdateMemberResponse]
	setMemberStatus *connect.Client[api.SetMemberStatusRequest, api.SetMemberStatusResponse]
}

func (c *memberServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	return c.updateMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) SetMemberStatus(ctx context.Context, req *connect.Request[api.SetMemberStatusRequest]) (*connect.Response[api.SetMemberStatusResponse], error) {
	return c.setMemberStatus.CallUnary(ctx, req)
}
