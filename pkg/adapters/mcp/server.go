// Package mcp exposes a Canopy host as an MCP server, one tool per node.
package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arvel0/canopy"
	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
)

// Server wraps a Canopy host and exposes it as an MCP Server.
type Server struct {
	host      *canopy.Host
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. Every registered node becomes
// a tool; image inputs are accepted as base64 string arguments.
func NewServer(host *canopy.Host) (*Server, error) {
	s := &Server{
		host:      host,
		mcpServer: server.NewMCPServer("canopy-mcp", strings.TrimSpace(canopy.Version)),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	s.registerResources()
	return s, nil
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ToolName derives the MCP tool name from a node's display name.
func ToolName(nodeName string) string {
	return strings.ReplaceAll(strings.ToLower(nodeName), " ", "_")
}

func (s *Server) registerTools() error {
	manifests, err := s.host.Nodes()
	if err != nil {
		return err
	}

	for _, manifest := range manifests {
		s.mcpServer.AddTool(toolFor(manifest), s.invokeHandler(manifest))
	}

	// TOOL: list_models
	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the Claude model identifiers the nodes accept."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(map[string]any{
			"models":  claude.Models,
			"default": claude.DefaultVisionModel,
		})
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	return nil
}

// toolFor maps a node manifest onto an MCP tool declaration. Image inputs
// become base64 string arguments with an optional <name>_media_type
// companion; omitted media types are sniffed from the decoded bytes.
func toolFor(manifest canopy.NodeManifest) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf("Invoke the %q node.", manifest.Name)),
	}

	for _, field := range manifest.Inputs {
		var propOpts []mcp.PropertyOption
		switch field.Type {
		case "image":
			propOpts = append(propOpts, mcp.Description("Base64-encoded image file contents."))
		default:
			if field.Description != "" {
				propOpts = append(propOpts, mcp.Description(field.Description))
			}
		}
		if field.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if field.Type == "choice" {
			propOpts = append(propOpts, mcp.Enum(field.Choices...))
		}
		opts = append(opts, mcp.WithString(field.Name, propOpts...))

		if field.Type == "image" {
			opts = append(opts, mcp.WithString(field.Name+"_media_type",
				mcp.Description("Image media type, e.g. image/png. Sniffed from the data when omitted."),
			))
		}
	}

	return mcp.NewTool(ToolName(manifest.Name), opts...)
}

func (s *Server) invokeHandler(manifest canopy.NodeManifest) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		inputs := make(map[string]any, len(args))
		for _, field := range manifest.Inputs {
			raw, ok := args[field.Name]
			if !ok {
				continue
			}
			if field.Type != "image" {
				inputs[field.Name] = raw
				continue
			}

			encoded, _ := raw.(string)
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("argument %q: invalid base64 data: %v", field.Name, err)), nil
			}
			mediaType, _ := args[field.Name+"_media_type"].(string)
			if mediaType == "" {
				mediaType = domain.SniffMediaType(data)
			}
			img, err := domain.NewImage(data, mediaType)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("argument %q: %v", field.Name, err)), nil
			}
			inputs[field.Name] = img
		}

		result, err := s.host.Invoke(ctx, manifest.Name, inputs)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invoke failed: %v", err)), nil
		}

		jsonBytes, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	}
}

func (s *Server) registerResources() {
	// EXPOSE: canopy://nodes
	s.mcpServer.AddResource(mcp.NewResource("canopy://nodes", "Node Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		manifests, err := s.host.Nodes()
		if err != nil {
			return nil, fmt.Errorf("failed to build node catalog: %w", err)
		}
		jsonBytes, _ := json.Marshal(manifests)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "canopy://nodes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
