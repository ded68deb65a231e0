// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes directory navigation and terminal launching as tools for LLM
// integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/veidt/termnav/internal/gateway"
	"github.com/veidt/termnav/internal/term"
)

// Server wraps the MCP server with termnav tools.
type Server struct {
	mcp      *server.MCPServer
	gw       gateway.Gateway
	launcher *term.Launcher
}

// New creates an MCP server with all termnav tools registered.
func New(gw gateway.Gateway, launcher *term.Launcher) *Server {
	s := &Server{gw: gw, launcher: launcher}

	s.mcp = server.NewMCPServer(
		"termnav",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_directory",
		mcp.WithDescription("List the entries of a directory, sorted case-insensitively by name."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory path; ~ is expanded")),
	), s.listDirectory)

	s.mcp.AddTool(mcp.NewTool("search_directories",
		mcp.WithDescription("Fuzzy-search directory names under a start directory."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("start", mcp.Description("Directory to search under (default ~)")),
	), s.searchDirectories)

	s.mcp.AddTool(mcp.NewTool("list_favorites",
		mcp.WithDescription("List favorite directories."),
	), s.listFavorites)

	s.mcp.AddTool(mcp.NewTool("add_favorite",
		mcp.WithDescription("Add a directory to the favorites."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory path to pin")),
	), s.addFavorite)

	s.mcp.AddTool(mcp.NewTool("detect_projects",
		mcp.WithDescription("Report project roots (version control or build manifests) among a path's ancestors."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to inspect")),
	), s.detectProjects)

	s.mcp.AddTool(mcp.NewTool("open_terminal",
		mcp.WithDescription("Open terminal windows at a directory, optionally running a command."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Working directory for the new windows")),
		mcp.WithString("command", mcp.Description("Command to run after cd (default: interactive shell)")),
		mcp.WithString("terminal", mcp.Description("Terminal app: terminal, iterm or ghostty")),
		mcp.WithNumber("windows", mcp.Description("Number of windows to open (1-5)")),
	), s.openTerminal)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer exposes the underlying server for embedding.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := s.gw.ListDirectory(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries)
}

func (s *Server) searchDirectories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start := req.GetString("start", "~")
	results, err := s.gw.Search(ctx, start, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	return jsonResult(results)
}

func (s *Server) listFavorites(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	favs, err := s.gw.ListFavorites(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(favs) == 0 {
		return mcp.NewToolResultText("no favorites"), nil
	}
	return mcp.NewToolResultText(strings.Join(favs, "\n")), nil
}

func (s *Server) addFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.gw.AddFavorite(ctx, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("favorited: %s", path)), nil
}

func (s *Server) detectProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	roots, err := s.gw.DetectProjects(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(roots) == 0 {
		return mcp.NewToolResultText("no project roots found"), nil
	}
	return jsonResult(roots)
}

func (s *Server) openTerminal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := s.gw.Normalize(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	launchReq := term.Request{
		Kind:    term.ParseKind(req.GetString("terminal", "")),
		Dir:     dir,
		Command: req.GetString("command", ""),
		Windows: req.GetInt("windows", 1),
	}
	if err := s.launcher.Launch(ctx, launchReq); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("opened: %s", dir)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
