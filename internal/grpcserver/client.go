package grpcserver

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"bookhub/pkg/grpc/bookpb"
)

// Dial opens a plaintext connection to addr that speaks the bookpb codec.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(bookpb.CodecName)),
	}, opts...)
	return grpc.NewClient(addr, opts...)
}
