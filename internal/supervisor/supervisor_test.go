package supervisor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"bookhub/internal/logging"
)

type fakeHTTPServer struct {
	listenErr error
	started   chan struct{}
	stop      chan struct{}
	shutdowns atomic.Int32
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	f.started <- struct{}{}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	close(f.stop)
	return nil
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	srv := newFakeHTTPServer()
	svc := newHTTPServerService(srv, ":0", time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	<-srv.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
	assert.Equal(t, int32(1), srv.shutdowns.Load())
	assert.Equal(t, "http-server", svc.String())
}

func TestHTTPServerService_ListenError(t *testing.T) {
	srv := newFakeHTTPServer()
	srv.listenErr = errors.New("address in use")
	svc := newHTTPServerService(srv, ":0", 0)

	err := svc.Serve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
	assert.Equal(t, int32(0), srv.shutdowns.Load())
}

func TestGRPCServerService_ServeAndStop(t *testing.T) {
	var addr atomic.Value
	svc := NewGRPCServerService(grpc.NewServer(), "127.0.0.1:0", time.Second)
	svc.listen = func(network, a string) (net.Listener, error) {
		lis, err := net.Listen(network, a)
		if err == nil {
			addr.Store(lis.Addr().String())
		}
		return lis, err
	}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	require.Eventually(t, func() bool { return addr.Load() != nil }, 2*time.Second, 10*time.Millisecond)

	conn, err := net.Dial("tcp", addr.Load().(string))
	require.NoError(t, err)
	_ = conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("service did not stop")
	}
}

func TestGRPCServerService_ListenError(t *testing.T) {
	svc := NewGRPCServerService(grpc.NewServer(), "bad-address", time.Second)
	svc.listen = func(string, string) (net.Listener, error) {
		return nil, errors.New("no such host")
	}

	err := svc.Serve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "grpc listen failed")
}

type countingService struct {
	runs atomic.Int32
}

func (c *countingService) Serve(ctx context.Context) error {
	c.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (c *countingService) String() string { return "counting" }

func TestTree_RunsServicesUntilCanceled(t *testing.T) {
	tree := NewTree("test", logging.NewSlogLogger(), TreeConfig{ShutdownTimeout: time.Second})
	bg, api := &countingService{}, &countingService{}
	tree.AddBackground(bg)
	tree.AddAPI(api)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		_ = tree.Serve(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool {
		return bg.runs.Load() == 1 && api.runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()

	assert.Equal(t, 5.0, cfg.FailureThreshold)
	assert.Equal(t, 15*time.Second, cfg.FailureBackoff)
}
