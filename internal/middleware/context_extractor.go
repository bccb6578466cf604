// internal/middleware/context_extractor.go
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

// ContextKeys for storing request metadata
type ContextKey string

const (
	ContextKeyIPAddress ContextKey = "ip_address"
	ContextKeyUserAgent ContextKey = "user_agent"
	ContextKeyRequestID ContextKey = "request_id"
)

// RequestIDHeader is echoed back on every HTTP response.
const RequestIDHeader = "X-Request-ID"

// MetadataExtractor adds client metadata to the request context for both
// the REST API and the gRPC health endpoint.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new metadata extractor
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// Unary returns a unary server interceptor for metadata extraction
func (m *MetadataExtractor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		ctx = withValue(ctx, ContextKeyIPAddress, peerIPAddress(ctx))
		ctx = withValue(ctx, ContextKeyUserAgent, metadataUserAgent(ctx))
		ctx = withValue(ctx, ContextKeyRequestID, uuid.NewString())
		return handler(ctx, req)
	}
}

// HTTP wraps next so handlers see the caller's address, user agent and a
// request id. An incoming X-Request-ID is reused.
func (m *MetadataExtractor) HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := r.Context()
		ctx = withValue(ctx, ContextKeyIPAddress, requestIPAddress(r))
		ctx = withValue(ctx, ContextKeyUserAgent, r.UserAgent())
		ctx = withValue(ctx, ContextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func withValue(ctx context.Context, key ContextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

// peerIPAddress extracts the client IP address from gRPC peer info
func peerIPAddress(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}
	return hostOnly(p.Addr.String())
}

// requestIPAddress prefers the first X-Forwarded-For hop over RemoteAddr.
func requestIPAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return hostOnly(r.RemoteAddr)
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// metadataUserAgent extracts the user agent from gRPC metadata
func metadataUserAgent(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, header := range []string{"user-agent", "grpc-user-agent", "x-user-agent"} {
		if values := md.Get(header); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// ClientInfo is the request metadata gathered by MetadataExtractor.
type ClientInfo struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// GetClientInfoFromContext extracts all client information from context
func GetClientInfoFromContext(ctx context.Context) ClientInfo {
	return ClientInfo{
		IPAddress: stringValue(ctx, ContextKeyIPAddress),
		UserAgent: stringValue(ctx, ContextKeyUserAgent),
		RequestID: stringValue(ctx, ContextKeyRequestID),
	}
}

func stringValue(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
