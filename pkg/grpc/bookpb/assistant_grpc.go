package bookpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Assistant_Classify_FullMethodName  = "/bookhub.v1.Assistant/Classify"
	Assistant_Recommend_FullMethodName = "/bookhub.v1.Assistant/Recommend"
	Assistant_Chat_FullMethodName      = "/bookhub.v1.Assistant/Chat"
)

// AssistantClient is the client API for the Assistant service.
type AssistantClient interface {
	Classify(ctx context.Context, in *ClassifyRequest, opts ...grpc.CallOption) (*ClassifyResponse, error)
	Recommend(ctx context.Context, in *RecommendRequest, opts ...grpc.CallOption) (*RecommendResponse, error)
	Chat(ctx context.Context, in *ChatRequest, opts ...grpc.CallOption) (*ChatResponse, error)
}

type assistantClient struct {
	cc grpc.ClientConnInterface
}

func NewAssistantClient(cc grpc.ClientConnInterface) AssistantClient {
	return &assistantClient{cc}
}

func (c *assistantClient) Classify(ctx context.Context, in *ClassifyRequest, opts ...grpc.CallOption) (*ClassifyResponse, error) {
	out := new(ClassifyResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, Assistant_Classify_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *assistantClient) Recommend(ctx context.Context, in *RecommendRequest, opts ...grpc.CallOption) (*RecommendResponse, error) {
	out := new(RecommendResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, Assistant_Recommend_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *assistantClient) Chat(ctx context.Context, in *ChatRequest, opts ...grpc.CallOption) (*ChatResponse, error) {
	out := new(ChatResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, Assistant_Chat_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AssistantServer is the server API for the Assistant service.
// Implementations must embed UnimplementedAssistantServer.
type AssistantServer interface {
	Classify(context.Context, *ClassifyRequest) (*ClassifyResponse, error)
	Recommend(context.Context, *RecommendRequest) (*RecommendResponse, error)
	Chat(context.Context, *ChatRequest) (*ChatResponse, error)
	mustEmbedUnimplementedAssistantServer()
}

type UnimplementedAssistantServer struct{}

func (UnimplementedAssistantServer) Classify(context.Context, *ClassifyRequest) (*ClassifyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Classify not implemented")
}

func (UnimplementedAssistantServer) Recommend(context.Context, *RecommendRequest) (*RecommendResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Recommend not implemented")
}

func (UnimplementedAssistantServer) Chat(context.Context, *ChatRequest) (*ChatResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Chat not implemented")
}

func (UnimplementedAssistantServer) mustEmbedUnimplementedAssistantServer() {}

func RegisterAssistantServer(s grpc.ServiceRegistrar, srv AssistantServer) {
	s.RegisterService(&Assistant_ServiceDesc, srv)
}

func _Assistant_Classify_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ClassifyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssistantServer).Classify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Assistant_Classify_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssistantServer).Classify(ctx, req.(*ClassifyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Assistant_Recommend_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RecommendRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssistantServer).Recommend(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Assistant_Recommend_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssistantServer).Recommend(ctx, req.(*RecommendRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Assistant_Chat_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ChatRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssistantServer).Chat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Assistant_Chat_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssistantServer).Chat(ctx, req.(*ChatRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Assistant_ServiceDesc must match the service block of assistant.proto.
var Assistant_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "bookhub.v1.Assistant",
	HandlerType: (*AssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Classify", Handler: _Assistant_Classify_Handler},
		{MethodName: "Recommend", Handler: _Assistant_Recommend_Handler},
		{MethodName: "Chat", Handler: _Assistant_Chat_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "assistant.proto",
}
