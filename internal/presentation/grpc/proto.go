package grpc

// proto.go is the hand-written equivalent of generated code for
// credit.v1.CreditService. Messages are the application DTOs carried by the
// JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
)

const serviceName = "credit.v1.CreditService"

// Full method names, as seen by interceptors.
const (
	MethodRegisterCustomer = "/" + serviceName + "/RegisterCustomer"
	MethodCheckEligibility = "/" + serviceName + "/CheckEligibility"
	MethodCreateLoan       = "/" + serviceName + "/CreateLoan"
	MethodViewLoan         = "/" + serviceName + "/ViewLoan"
	MethodViewLoans        = "/" + serviceName + "/ViewLoans"
	MethodScoreCustomer    = "/" + serviceName + "/ScoreCustomer"
)

// ViewLoansResponse wraps a customer's loan list.
type ViewLoansResponse struct {
	Loans []dto.LoanItemResponse `json:"loans"`
}

// CreditServiceServer is the server API for credit.v1.CreditService.
type CreditServiceServer interface {
	RegisterCustomer(context.Context, *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error)
	CheckEligibility(context.Context, *dto.LoanRequest) (*dto.EligibilityResponse, error)
	CreateLoan(context.Context, *dto.LoanRequest) (*dto.CreateLoanResponse, error)
	ViewLoan(context.Context, *dto.ViewLoanRequest) (*dto.LoanDetailResponse, error)
	ViewLoans(context.Context, *dto.ViewLoansRequest) (*ViewLoansResponse, error)
	ScoreCustomer(context.Context, *dto.ScoreRequest) (*dto.ScoreResponse, error)
	mustEmbedUnimplementedCreditServiceServer()
}

// UnimplementedCreditServiceServer provides forward-compatible default implementations.
type UnimplementedCreditServiceServer struct{}

func (UnimplementedCreditServiceServer) RegisterCustomer(context.Context, *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterCustomer not implemented")
}
func (UnimplementedCreditServiceServer) CheckEligibility(context.Context, *dto.LoanRequest) (*dto.EligibilityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckEligibility not implemented")
}
func (UnimplementedCreditServiceServer) CreateLoan(context.Context, *dto.LoanRequest) (*dto.CreateLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateLoan not implemented")
}
func (UnimplementedCreditServiceServer) ViewLoan(context.Context, *dto.ViewLoanRequest) (*dto.LoanDetailResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ViewLoan not implemented")
}
func (UnimplementedCreditServiceServer) ViewLoans(context.Context, *dto.ViewLoansRequest) (*ViewLoansResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ViewLoans not implemented")
}
func (UnimplementedCreditServiceServer) ScoreCustomer(context.Context, *dto.ScoreRequest) (*dto.ScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreCustomer not implemented")
}
func (UnimplementedCreditServiceServer) mustEmbedUnimplementedCreditServiceServer() {}

// RegisterCreditServiceServer registers srv with the gRPC server.
func RegisterCreditServiceServer(s grpclib.ServiceRegistrar, srv CreditServiceServer) {
	s.RegisterService(&_CreditService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _CreditService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CreditServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "RegisterCustomer", Handler: _CreditService_RegisterCustomer_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "CheckEligibility", Handler: _CreditService_CheckEligibility_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "CreateLoan", Handler: _CreditService_CreateLoan_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "ViewLoan", Handler: _CreditService_ViewLoan_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "ViewLoans", Handler: _CreditService_ViewLoans_Handler},               //nolint:revive // gRPC handler registration
		{MethodName: "ScoreCustomer", Handler: _CreditService_ScoreCustomer_Handler},       //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

// unary adapts a typed method to the generic handler shape the service
// descriptor expects.
func unary[Req, Resp any](
	fullMethod string,
	call func(CreditServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CreditServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CreditServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

//nolint:revive // gRPC handler registration
var (
	_CreditService_RegisterCustomer_Handler = unary(MethodRegisterCustomer, CreditServiceServer.RegisterCustomer)
	_CreditService_CheckEligibility_Handler = unary(MethodCheckEligibility, CreditServiceServer.CheckEligibility)
	_CreditService_CreateLoan_Handler       = unary(MethodCreateLoan, CreditServiceServer.CreateLoan)
	_CreditService_ViewLoan_Handler         = unary(MethodViewLoan, CreditServiceServer.ViewLoan)
	_CreditService_ViewLoans_Handler        = unary(MethodViewLoans, CreditServiceServer.ViewLoans)
	_CreditService_ScoreCustomer_Handler    = unary(MethodScoreCustomer, CreditServiceServer.ScoreCustomer)
)

// CreditServiceClient is the client API for credit.v1.CreditService.
type CreditServiceClient interface {
	RegisterCustomer(ctx context.Context, in *dto.RegisterCustomerRequest, opts ...grpclib.CallOption) (*dto.CustomerResponse, error)
	CheckEligibility(ctx context.Context, in *dto.LoanRequest, opts ...grpclib.CallOption) (*dto.EligibilityResponse, error)
	CreateLoan(ctx context.Context, in *dto.LoanRequest, opts ...grpclib.CallOption) (*dto.CreateLoanResponse, error)
	ViewLoan(ctx context.Context, in *dto.ViewLoanRequest, opts ...grpclib.CallOption) (*dto.LoanDetailResponse, error)
	ViewLoans(ctx context.Context, in *dto.ViewLoansRequest, opts ...grpclib.CallOption) (*ViewLoansResponse, error)
	ScoreCustomer(ctx context.Context, in *dto.ScoreRequest, opts ...grpclib.CallOption) (*dto.ScoreResponse, error)
}

type creditServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewCreditServiceClient returns a client that speaks the JSON codec.
func NewCreditServiceClient(cc grpclib.ClientConnInterface) CreditServiceClient {
	return &creditServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpclib.ClientConnInterface, method string, in any, opts []grpclib.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *creditServiceClient) RegisterCustomer(ctx context.Context, in *dto.RegisterCustomerRequest, opts ...grpclib.CallOption) (*dto.CustomerResponse, error) {
	return invoke[dto.CustomerResponse](ctx, c.cc, MethodRegisterCustomer, in, opts)
}

func (c *creditServiceClient) CheckEligibility(ctx context.Context, in *dto.LoanRequest, opts ...grpclib.CallOption) (*dto.EligibilityResponse, error) {
	return invoke[dto.EligibilityResponse](ctx, c.cc, MethodCheckEligibility, in, opts)
}

func (c *creditServiceClient) CreateLoan(ctx context.Context, in *dto.LoanRequest, opts ...grpclib.CallOption) (*dto.CreateLoanResponse, error) {
	return invoke[dto.CreateLoanResponse](ctx, c.cc, MethodCreateLoan, in, opts)
}

func (c *creditServiceClient) ViewLoan(ctx context.Context, in *dto.ViewLoanRequest, opts ...grpclib.CallOption) (*dto.LoanDetailResponse, error) {
	return invoke[dto.LoanDetailResponse](ctx, c.cc, MethodViewLoan, in, opts)
}

func (c *creditServiceClient) ViewLoans(ctx context.Context, in *dto.ViewLoansRequest, opts ...grpclib.CallOption) (*ViewLoansResponse, error) {
	return invoke[ViewLoansResponse](ctx, c.cc, MethodViewLoans, in, opts)
}

func (c *creditServiceClient) ScoreCustomer(ctx context.Context, in *dto.ScoreRequest, opts ...grpclib.CallOption) (*dto.ScoreResponse, error) {
	return invoke[dto.ScoreResponse](ctx, c.cc, MethodScoreCustomer, in, opts)
}
