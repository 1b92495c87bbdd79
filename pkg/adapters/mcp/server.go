package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/qtext"
	"github.com/aretw0/qtext/internal/logging"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/ports"
	"github.com/aretw0/qtext/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const catalogURI = "qtext://catalog"

// ToolbarResponse is the structured result of the toolbar tools.
type ToolbarResponse struct {
	SessionID string              `json:"session_id" jsonschema_description:"The session the toolbar was resolved for"`
	Text      string              `json:"text" jsonschema_description:"Plain text of the document, one line per block"`
	Selection domain.Selection    `json:"selection" jsonschema_description:"Current selection"`
	Toolbar   []domain.Resolution `json:"toolbar" jsonschema_description:"Toolbar entries in display order"`
}

// DispatchResponse is the structured result of dispatch_action.
type DispatchResponse struct {
	ToolbarResponse
	Kind    domain.ActionKind `json:"kind" jsonschema_description:"Classification of the dispatched action"`
	Changed bool              `json:"changed" jsonschema_description:"Whether the document changed"`
	Value   string            `json:"value,omitempty" jsonschema_description:"Resolved style key or history operation"`
}

// Engine is the toolbar surface the MCP server drives.
type Engine interface {
	ports.ToolbarEngine
	Editor() ports.DocumentEditor
}

// Server exposes the toolbar engine as an MCP server.
// Documents live in the session manager and are created on first use.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("qtext-mcp", strings.TrimSpace(qtext.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_catalog",
		mcp.WithDescription("Get the style catalog: inline styles, block types, style groups and the toolbar vocabulary."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.engine.Catalog())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode catalog: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("resolve_toolbar",
		mcp.WithDescription("Resolve the toolbar of a document session. The session is created empty on first use."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Document session ID")),
		mcp.WithString("action", mcp.Description("Resolve only this toolbar action (optional)")),
		mcp.WithOutputSchema[ToolbarResponse](),
	), mcp.NewStructuredToolHandler(s.handleResolve))

	s.mcpServer.AddTool(mcp.NewTool("dispatch_action",
		mcp.WithDescription("Dispatch a toolbar action (bold, color, heading, undoandredo, ...) against a document session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Document session ID")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Toolbar action name")),
		mcp.WithString("value", mcp.Description("Style key for dropdown actions, Undo or Redo for undoandredo")),
		mcp.WithString("group", mcp.Description("Group the value belongs to (optional)")),
		mcp.WithOutputSchema[DispatchResponse](),
	), mcp.NewStructuredToolHandler(s.handleDispatch))

	s.mcpServer.AddTool(mcp.NewTool("select_text",
		mcp.WithDescription("Move the selection of a document session. Equal offsets place a caret."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Document session ID")),
		mcp.WithString("block", mcp.Description("Block key of the anchor (defaults to the first block)")),
		mcp.WithNumber("anchor", mcp.Required(), mcp.Description("Anchor offset")),
		mcp.WithNumber("focus", mcp.Description("Focus offset (defaults to anchor)")),
		mcp.WithString("focus_block", mcp.Description("Block key of the focus (defaults to block)")),
		mcp.WithOutputSchema[ToolbarResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelect))

	s.mcpServer.AddTool(mcp.NewTool("insert_text",
		mcp.WithDescription("Replace the selection of a document session with text."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Document session ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to insert, without line breaks")),
		mcp.WithOutputSchema[ToolbarResponse](),
	), mcp.NewStructuredToolHandler(s.handleInsert))
}

type resolveArgs struct {
	SessionID string `mapstructure:"session_id"`
	Action    string `mapstructure:"action"`
}

type dispatchArgs struct {
	SessionID string `mapstructure:"session_id"`
	Action    string `mapstructure:"action"`
	Value     string `mapstructure:"value"`
	Group     string `mapstructure:"group"`
}

type selectArgs struct {
	SessionID  string `mapstructure:"session_id"`
	Block      string `mapstructure:"block"`
	Anchor     int    `mapstructure:"anchor"`
	Focus      *int   `mapstructure:"focus"`
	FocusBlock string `mapstructure:"focus_block"`
}

type insertArgs struct {
	SessionID string `mapstructure:"session_id"`
	Text      string `mapstructure:"text"`
}

// decodeArgs maps loosely typed tool arguments onto out.
// JSON numbers arrive as float64, so weak typing is on.
func decodeArgs(args map[string]interface{}, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolbarResponse, error) {
	var in resolveArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToolbarResponse{}, err
	}
	if in.SessionID == "" {
		return ToolbarResponse{}, errors.New("session_id is required")
	}

	doc, err := s.sessions.LoadOrCreate(ctx, in.SessionID, s.newDocument)
	if err != nil {
		return ToolbarResponse{}, fmt.Errorf("load session: %w", err)
	}
	resp := s.toolbarResponse(doc)
	if in.Action != "" {
		resp.Toolbar = []domain.Resolution{s.engine.Resolve(doc, in.Action)}
	}
	return resp, nil
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DispatchResponse, error) {
	var in dispatchArgs
	if err := decodeArgs(args, &in); err != nil {
		return DispatchResponse{}, err
	}
	if in.SessionID == "" || in.Action == "" {
		return DispatchResponse{}, errors.New("session_id and action are required")
	}
	var outcome *domain.Outcome
	doc, err := s.update(ctx, in.SessionID, func(doc *domain.Document) (*domain.Document, error) {
		out, err := s.engine.Dispatch(doc, domain.Command{Action: in.Action, Value: in.Value, Group: in.Group})
		if err != nil {
			return nil, err
		}
		outcome = out
		return out.Document, nil
	})
	if err != nil {
		s.logger.Warn("MCP dispatch rejected", "session_id", in.SessionID, "action", in.Action, "error", err)
		return DispatchResponse{}, err
	}

	return DispatchResponse{
		ToolbarResponse: s.toolbarResponse(doc),
		Kind:            outcome.Kind,
		Changed:         outcome.Changed,
		Value:           outcome.Value,
	}, nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolbarResponse, error) {
	var in selectArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToolbarResponse{}, err
	}
	if in.SessionID == "" {
		return ToolbarResponse{}, errors.New("session_id is required")
	}
	doc, err := s.update(ctx, in.SessionID, func(doc *domain.Document) (*domain.Document, error) {
		block := in.Block
		if block == "" && len(doc.Content.Blocks) > 0 {
			block = doc.Content.Blocks[0].Key
		}
		focusBlock := in.FocusBlock
		if focusBlock == "" {
			focusBlock = block
		}
		focus := in.Anchor
		if in.Focus != nil {
			focus = *in.Focus
		}
		return s.engine.Editor().Select(doc, domain.Selection{
			Anchor: domain.Position{BlockKey: block, Offset: in.Anchor},
			Focus:  domain.Position{BlockKey: focusBlock, Offset: focus},
		})
	})
	if err != nil {
		return ToolbarResponse{}, err
	}
	return s.toolbarResponse(doc), nil
}

func (s *Server) handleInsert(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolbarResponse, error) {
	var in insertArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToolbarResponse{}, err
	}
	if in.SessionID == "" {
		return ToolbarResponse{}, errors.New("session_id is required")
	}
	doc, err := s.update(ctx, in.SessionID, func(doc *domain.Document) (*domain.Document, error) {
		return s.engine.Editor().InsertText(doc, in.Text)
	})
	if err != nil {
		return ToolbarResponse{}, err
	}
	return s.toolbarResponse(doc), nil
}

// update applies fn to the session document, creating the session first when needed.
func (s *Server) update(ctx context.Context, id string, fn func(*domain.Document) (*domain.Document, error)) (*domain.Document, error) {
	if _, err := s.sessions.LoadOrCreate(ctx, id, s.newDocument); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.sessions.Update(ctx, id, fn)
}

func (s *Server) newDocument(id string) *domain.Document {
	s.logger.Info("MCP session created", "session_id", id)
	return s.engine.Editor().NewDocument(id)
}

func (s *Server) toolbarResponse(doc *domain.Document) ToolbarResponse {
	return ToolbarResponse{
		SessionID: doc.ID,
		Text:      doc.PlainText(),
		Selection: doc.Selection,
		Toolbar:   s.engine.Toolbar(doc),
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(catalogURI, "Style Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      catalogURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
