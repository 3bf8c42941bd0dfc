package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/axlocate/axlocate/internal/apps"
	"github.com/axlocate/axlocate/internal/engine"
	"github.com/axlocate/axlocate/internal/platform"
	"github.com/axlocate/axlocate/internal/version"
)

// mcpServer wraps the MCP server with one shared desktop connection.
type mcpServer struct {
	desktop *engine.Desktop
	mcp     *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer connects to the desktop and registers all axlocate tools.
func newMCPServer() (*mcpServer, error) {
	desktop, err := engine.New()
	if err != nil {
		return nil, err
	}

	s := &mcpServer{desktop: desktop}
	s.mcp = mcpserver.NewMCPServer(
		"axlocate",
		version.Version,
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// apps
	s.mcp.AddTool(
		mcp.NewTool("apps",
			mcp.WithDescription("List the running applications visible to the accessibility layer"),
		),
		s.handleApps,
	)

	// locate
	s.mcp.AddTool(
		mcp.NewTool("locate",
			mcp.WithDescription("Locate UI elements by selector, waiting for a match. Selectors are prefix:value pairs chained with ' >> ', e.g. 'window:Calculator >> role:button'."),
			mcp.WithString("selector", mcp.Required(), mcp.Description("Selector chain to resolve")),
			mcp.WithString("app", mcp.Description("Scope the search to an application by name")),
			mcp.WithBoolean("all", mcp.Description("Return every match instead of the first")),
			mcp.WithNumber("timeout-ms", mcp.Description("Wait timeout in milliseconds")),
		),
		s.handleLocate,
	)

	// click
	s.mcp.AddTool(
		mcp.NewTool("click",
			mcp.WithDescription("Locate an element by selector and click it. Falls back to a synthesized mouse click at the bounds center when the native action is unavailable."),
			mcp.WithString("selector", mcp.Required(), mcp.Description("Selector chain to resolve")),
			mcp.WithString("app", mcp.Description("Scope the search to an application by name")),
			mcp.WithBoolean("double", mcp.Description("Double-click")),
			mcp.WithBoolean("right", mcp.Description("Right-click")),
			mcp.WithNumber("timeout-ms", mcp.Description("Wait timeout in milliseconds")),
		),
		s.handleClick,
	)

	// type
	s.mcp.AddTool(
		mcp.NewTool("type",
			mcp.WithDescription("Locate an element by selector and type text into it"),
			mcp.WithString("selector", mcp.Required(), mcp.Description("Selector chain to resolve")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
			mcp.WithString("app", mcp.Description("Scope the search to an application by name")),
			mcp.WithBoolean("clear", mcp.Description("Clear existing content first")),
			mcp.WithNumber("timeout-ms", mcp.Description("Wait timeout in milliseconds")),
		),
		s.handleType,
	)

	// press
	s.mcp.AddTool(
		mcp.NewTool("press",
			mcp.WithDescription("Locate an element by selector, focus it and press a key combination such as 'enter' or 'ctrl+s'"),
			mcp.WithString("selector", mcp.Required(), mcp.Description("Selector chain to resolve")),
			mcp.WithString("key", mcp.Required(), mcp.Description("Key combination, modifiers joined with '+'")),
			mcp.WithString("app", mcp.Description("Scope the search to an application by name")),
			mcp.WithNumber("timeout-ms", mcp.Description("Wait timeout in milliseconds")),
		),
		s.handlePress,
	)

	// text
	s.mcp.AddTool(
		mcp.NewTool("text",
			mcp.WithDescription("Locate an element by selector and read the visible text of its subtree"),
			mcp.WithString("selector", mcp.Required(), mcp.Description("Selector chain to resolve")),
			mcp.WithString("app", mcp.Description("Scope the search to an application by name")),
			mcp.WithNumber("depth", mcp.Description("Max depth of text aggregation")),
			mcp.WithNumber("timeout-ms", mcp.Description("Wait timeout in milliseconds")),
		),
		s.handleText,
	)

	// expect
	s.mcp.AddTool(
		mcp.NewTool("expect",
			mcp.WithDescription("Wait until an element is visible, enabled, or shows an exact text"),
			mcp.WithString("selector", mcp.Required(), mcp.Description("Selector chain to resolve")),
			mcp.WithString("condition", mcp.Required(), mcp.Description("One of: visible, enabled, text")),
			mcp.WithString("text", mcp.Description("Expected text for the 'text' condition")),
			mcp.WithString("app", mcp.Description("Scope the search to an application by name")),
			mcp.WithNumber("timeout-ms", mcp.Description("Wait timeout in milliseconds")),
		),
		s.handleExpect,
	)

	// open
	s.mcp.AddTool(
		mcp.NewTool("open",
			mcp.WithDescription("Launch an application by name, or open a URL in a browser"),
			mcp.WithString("name", mcp.Description("Application name to launch")),
			mcp.WithString("url", mcp.Description("URL to open instead of an application")),
			mcp.WithString("browser", mcp.Description("Browser for the URL (default system browser)")),
		),
		s.handleOpen,
	)
}

// toolLocator compiles the selector from a tool request, honoring the
// optional app scope and timeout override.
func (s *mcpServer) toolLocator(req mcp.CallToolRequest) (*engine.Locator, error) {
	sel, err := req.RequireString("selector")
	if err != nil {
		return nil, err
	}
	loc, err := s.desktop.Locator(sel)
	if err != nil {
		return nil, err
	}
	if app := req.GetString("app", ""); app != "" {
		scope, err := s.desktop.Application(app)
		if err != nil {
			return nil, err
		}
		loc = loc.Within(scope)
	}
	loc = loc.WithTimeout(cfg.Timeout).WithPollInterval(cfg.Poll).WithMaxDepth(cfg.MaxDepth)
	if ms := req.GetInt("timeout-ms", 0); ms > 0 {
		loc = loc.WithTimeout(time.Duration(ms) * time.Millisecond)
	}
	return loc, nil
}

// toolResult renders v as YAML into a text tool result.
func toolResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *mcpServer) handleApps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.desktop.Applications()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	views := make([]elementView, 0, len(list))
	for _, app := range list {
		attrs, err := app.Attributes()
		if err != nil {
			continue
		}
		views = append(views, viewOf(attrs))
	}
	return toolResult(views)
}

func (s *mcpServer) handleLocate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := s.toolLocator(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetBool("all", false) {
		elements, err := loc.All()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		views := make([]elementView, 0, len(elements))
		for _, el := range elements {
			attrs, err := el.Attributes()
			if err != nil {
				continue
			}
			views = append(views, viewOf(attrs))
		}
		return toolResult(views)
	}

	attrs, err := loc.Attributes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(viewOf(attrs))
}

func (s *mcpServer) handleClick(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := s.toolLocator(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var res platform.InvokeResult
	switch {
	case req.GetBool("double", false):
		res, err = loc.DoubleClick()
	case req.GetBool("right", false):
		res, err = loc.RightClick()
	default:
		res, err = loc.Click()
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(viewOfResult(res))
}

func (s *mcpServer) handleType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc, err := s.toolLocator(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := loc.TypeText(text, req.GetBool("clear", false)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *mcpServer) handlePress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc, err := s.toolLocator(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := loc.PressKey(key); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *mcpServer) handleText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := s.toolLocator(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := loc.Text(req.GetInt("depth", platform.DefaultTextDepth))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *mcpServer) handleExpect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	condition, err := req.RequireString("condition")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc, err := s.toolLocator(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var el *engine.Element
	switch condition {
	case "visible":
		el, err = loc.ExpectVisible()
	case "enabled":
		el, err = loc.ExpectEnabled()
	case "text":
		el, err = loc.ExpectTextEquals(req.GetString("text", ""), platform.DefaultTextDepth)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown condition: %s (use visible, enabled or text)", condition)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	attrs, err := el.Attributes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(viewOf(attrs))
}

func (s *mcpServer) handleOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if url := req.GetString("url", ""); url != "" {
		if err := apps.OpenURL(url, req.GetString("browser", "")); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("ok"), nil
	}

	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("an application name or url is required"), nil
	}
	app, err := s.desktop.OpenApplication(name, cfg.Timeout)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attrs, err := app.Attributes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(viewOf(attrs))
}
