// Package grpcserver serves the assistant as the bookhub.v1.Assistant gRPC
// service defined in pkg/grpc/bookpb.
package grpcserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bookhub/internal/assistant"
	"bookhub/internal/logging"
	"bookhub/internal/metrics"
	"bookhub/internal/recommend"
	"bookhub/internal/validation"
	"bookhub/pkg/grpc/bookpb"
	"bookhub/pkg/models"
)

type Server struct {
	bookpb.UnimplementedAssistantServer
	Assistant *assistant.Assistant
	Engine    recommend.Recommender
}

func NewServer(a *assistant.Assistant, engine recommend.Recommender) *Server {
	return &Server{Assistant: a, Engine: engine}
}

type recommendQuery struct {
	Year  int `validate:"omitempty,min=0,max=3000"`
	Limit int `validate:"omitempty,min=1,max=100"`
}

func (s *Server) Classify(ctx context.Context, req *bookpb.ClassifyRequest) (*bookpb.ClassifyResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	msg := models.ChatRequest{Message: strings.TrimSpace(req.GetMessage())}
	if err := validation.Struct(msg); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	p := s.Assistant.Pipeline()
	intent := p.Process(msg.Message)
	return &bookpb.ClassifyResponse{
		Intent: &bookpb.Intent{
			Name:       intent.Name,
			Confidence: intent.Confidence,
			Entities:   intent.Entities,
		},
		ProcessingUsed: p.Settings().Mode(intent.Confidence),
	}, nil
}

func (s *Server) Recommend(ctx context.Context, req *bookpb.RecommendRequest) (*bookpb.RecommendResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	q := recommendQuery{Year: int(req.GetYear()), Limit: int(req.GetLimit())}
	if err := validation.Struct(q); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c := recommend.Criteria{
		Genre:      strings.TrimSpace(req.GetGenre()),
		Author:     strings.TrimSpace(req.GetAuthor()),
		Year:       q.Year,
		Bestseller: req.GetBestseller(),
	}
	if c.Empty() {
		return nil, status.Error(codes.InvalidArgument, "at least one criterion required")
	}
	if c.Genre != "" {
		c.Genre = s.Assistant.Pipeline().ValidateGenre(c.Genre)
	}
	return &bookpb.RecommendResponse{Books: booksToProto(s.Engine.RecommendByCriteria(c, q.Limit))}, nil
}

func (s *Server) Chat(ctx context.Context, req *bookpb.ChatRequest) (*bookpb.ChatResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	in := models.ChatRequest{
		Message: strings.TrimSpace(req.GetMessage()),
		UserID:  strings.TrimSpace(req.GetUserId()),
	}
	if err := validation.Struct(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp := s.Assistant.Respond(ctx, in)
	return &bookpb.ChatResponse{
		Response:         resp.Response,
		RecommendedBooks: booksToProto(resp.RecommendedBooks),
		Intent:           resp.Intent,
		Confidence:       resp.Confidence,
		Entities:         resp.Entities,
		ProcessingUsed:   resp.ProcessingUsed,
		Suggestions:      resp.Suggestions,
	}, nil
}

func bookToProto(b models.Book) *bookpb.Book {
	return &bookpb.Book{
		Id:          int32(b.ID),
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Year:        int32(b.Year),
		Bestseller:  b.Bestseller,
		Description: b.Description,
		Rating:      b.Rating,
	}
}

func booksToProto(books []models.Book) []*bookpb.Book {
	out := make([]*bookpb.Book, 0, len(books))
	for _, b := range books {
		out = append(out, bookToProto(b))
	}
	return out
}

// UnaryInterceptor logs each call and counts it by status code.
func UnaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
	resp, err := handler(ctx, req)

	code := status.Code(err)
	metrics.RecordGRPCRequest(info.FullMethod, code.String())
	ev := logging.Ctx(ctx).Info()
	if err != nil && !IsClientError(err) {
		ev = logging.Ctx(ctx).Error().Err(err)
	}
	ev.Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("latency", time.Since(start)).
		Msg("grpc request")
	return resp, err
}

// New returns a grpc.Server with the assistant service registered.
func New(srv bookpb.AssistantServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryInterceptor)}, opts...)
	s := grpc.NewServer(opts...)
	bookpb.RegisterAssistantServer(s, srv)
	return s
}

// IsClientError reports whether err is a gRPC status the caller caused.
func IsClientError(err error) bool {
	var se interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &se) {
		return false
	}
	switch se.GRPCStatus().Code() {
	case codes.InvalidArgument, codes.NotFound, codes.Unauthenticated, codes.PermissionDenied, codes.Unimplemented:
		return true
	}
	return false
}
