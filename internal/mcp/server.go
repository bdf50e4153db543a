// Package mcp provides the MCP transport for the notes service.
package mcp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/kuitang/noteledger/internal/notes"
	"github.com/kuitang/noteledger/internal/principal"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with notes handling
type Server struct {
	mcpServer   *mcp.Server
	handler     *Handler
	httpHandler http.Handler
}

const (
	mcpDebugBodyLogLimitBytes = 8 * 1024
	maxMCPBodyBytes           = 1 << 20
)

type mcpResponseLogger struct {
	http.ResponseWriter
	statusCode int
	wrote      bool
	body       []byte
	truncated  bool
}

func newMCPResponseLogger(w http.ResponseWriter) *mcpResponseLogger {
	return &mcpResponseLogger{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           make([]byte, 0, mcpDebugBodyLogLimitBytes),
	}
}

func (w *mcpResponseLogger) WriteHeader(code int) {
	w.statusCode = code
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *mcpResponseLogger) Write(p []byte) (int, error) {
	w.wrote = true
	if len(w.body) < mcpDebugBodyLogLimitBytes {
		remaining := mcpDebugBodyLogLimitBytes - len(w.body)
		if len(p) <= remaining {
			w.body = append(w.body, p...)
		} else {
			w.body = append(w.body, p[:remaining]...)
			w.truncated = true
		}
	} else {
		w.truncated = true
	}
	return w.ResponseWriter.Write(p)
}

func (w *mcpResponseLogger) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func mcpDebugEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("DEBUG")))
	switch v {
	case "1", "true", "yes", "on", "debug":
		return true
	default:
		return false
	}
}

func formatBodyForLog(b []byte, truncated bool) string {
	if len(b) == 0 {
		return ""
	}
	textBytes := b
	if len(textBytes) > mcpDebugBodyLogLimitBytes {
		textBytes = textBytes[:mcpDebugBodyLogLimitBytes]
		truncated = true
	}
	text := string(textBytes)
	if truncated {
		return text + " [truncated]"
	}
	return text
}

var redactedHeaderPrefixes = []string{"authorization", "cookie", "set-cookie", "x-api-key", "x-openai"}

// formatMCPHeadersForLog renders request headers for debug logging with
// credential-bearing values redacted.
func formatMCPHeadersForLog(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		if headerIsSensitive(key) {
			fmt.Fprintf(&b, "%s=[REDACTED]", key)
		} else {
			fmt.Fprintf(&b, "%s=%q", key, strings.Join(headers[key], ", "))
		}
	}
	return b.String()
}

func headerIsSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, prefix := range redactedHeaderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// isASCII reports whether s is non-blank printable ASCII, safe to echo into a
// log line.
func isASCII(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

func sanitizeHeaderForLog(value string) string {
	if value == "" {
		return ""
	}
	if !isASCII(value) {
		return "[unprintable]"
	}
	return value
}

// NewServer creates a new MCP server exposing the note tools.
func NewServer(notesSvc *notes.Service) *Server {
	handler := NewHandler(notesSvc)

	// Create MCP server with metadata
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "noteledger",
			Version: "1.0.0",
		},
		nil, // Use default options
	)

	for _, tool := range ToolDefinitions() {
		toolCopy := tool // avoid closure issues
		mcp.AddTool(mcpServer, toolCopy, handler.createToolHandler(toolCopy.Name))
	}
	registerPrompts(mcpServer)

	// Create Streamable HTTP handler (MCP Spec 2025-03-26)
	// This creates a single endpoint that handles both POST and DELETE
	// requests per the Streamable HTTP transport specification
	httpHandler := mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			// Return the same server for all requests; the caller identity
			// rides in on the request context, not on the server
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			// JSONResponse: true returns application/json responses
			// This is simpler for clients that don't support SSE streaming
			JSONResponse: true,

			// Stateless: true because each request carries its own identity
			// header, so no session state needs to persist across requests.
			// With stateless mode, the initialize/initialized handshake is
			// skipped.
			Stateless: true,
		},
	)

	return &Server{
		mcpServer:   mcpServer,
		handler:     handler,
		httpHandler: httpHandler,
	}
}

// ServeHTTP implements http.Handler for Streamable HTTP transport
// Per MCP spec 2025-03-26: https://modelcontextprotocol.io/specification/2025-03-26/basic/transports
//
// POST carries client messages (JSON-RPC requests, notifications, responses)
// and DELETE terminates a session. GET would open a server-initiated SSE
// stream, which stateless JSON mode never produces, so GET is rejected with
// 405 rather than left to hang.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers for all requests
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Mcp-Session-Id, Last-Event-ID, "+principal.Header)
	w.Header().Set("Access-Control-Allow-Methods", "POST, DELETE, OPTIONS")

	// Handle CORS preflight
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method == http.MethodGet {
		w.Header().Set("Allow", "POST, DELETE, OPTIONS")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.ContentLength > maxMCPBodyBytes {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxMCPBodyBytes)
	}

	debug := mcpDebugEnabled()

	var reqBody []byte
	var reqBodyReadErr error
	if debug && r.Body != nil && r.Method == http.MethodPost {
		reqBody, reqBodyReadErr = io.ReadAll(r.Body)
		if reqBodyReadErr == nil {
			r.Body = io.NopCloser(bytes.NewReader(reqBody))
		}
	}

	reqLogPrefix := "MCP:"
	if debug {
		reqLogPrefix = "MCP[debug]:"
	}
	log.Printf("%s %s %s from %s (principal=%q ua=%q content_type=%q accept=%q mcp_session_id=%q)", reqLogPrefix, r.Method, r.URL.Path, r.RemoteAddr, sanitizeHeaderForLog(r.Header.Get(principal.Header)), r.UserAgent(), r.Header.Get("Content-Type"), r.Header.Get("Accept"), sanitizeHeaderForLog(r.Header.Get("Mcp-Session-Id")))
	if reqBodyReadErr != nil {
		var maxErr *http.MaxBytesError
		if errors.As(reqBodyReadErr, &maxErr) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Printf("[ERROR] MCP request body read failed: method=%s path=%s err=%v", r.Method, r.URL.Path, reqBodyReadErr)
	}
	if debug {
		log.Printf("MCP[debug]: request headers: %s", formatMCPHeadersForLog(r.Header))
		if len(reqBody) > 0 {
			log.Printf("MCP[debug]: request body: %s", formatBodyForLog(reqBody, false))
		}
	}

	// Delegate to the SDK's Streamable HTTP handler. A panic inside the SDK
	// or a tool handler must not take down the process, and a delegate that
	// writes nothing would leave the client hanging without a status.
	respLogger := newMCPResponseLogger(w)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ERROR] MCP handler panic: method=%s path=%s remote=%s panic=%v", r.Method, r.URL.Path, r.RemoteAddr, rec)
				if !respLogger.wrote {
					http.Error(respLogger, "Internal server error", http.StatusInternalServerError)
				}
			}
		}()
		s.httpHandler.ServeHTTP(respLogger, r)
	}()

	if !respLogger.wrote {
		log.Printf("[ERROR] MCP handler wrote no response: method=%s path=%s remote=%s", r.Method, r.URL.Path, r.RemoteAddr)
		http.Error(respLogger, "MCP handler returned without writing response", http.StatusInternalServerError)
	}

	if debug {
		log.Printf("MCP[debug]: response status=%d method=%s path=%s content_type=%q", respLogger.statusCode, r.Method, r.URL.Path, respLogger.Header().Get("Content-Type"))
		if len(respLogger.body) > 0 {
			log.Printf("MCP[debug]: response body: %s", formatBodyForLog(respLogger.body, respLogger.truncated))
		}
	}

	if respLogger.statusCode >= http.StatusBadRequest {
		responseBody := formatBodyForLog(respLogger.body, respLogger.truncated)
		if responseBody != "" {
			log.Printf("[ERROR] MCP request failed: method=%s path=%s status=%d remote=%s response=%q", r.Method, r.URL.Path, respLogger.statusCode, r.RemoteAddr, responseBody)
		} else {
			log.Printf("[ERROR] MCP request failed: method=%s path=%s status=%d remote=%s", r.Method, r.URL.Path, respLogger.statusCode, r.RemoteAddr)
		}
	}
}
