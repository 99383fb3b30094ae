package workspace

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/phpcst/php/parser"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "phpcst"

var lspLog = commonlog.GetLogger("phpcst.lsp")

// LSPServer publishes syntax diagnostics and document outlines over the
// language server protocol. Columns are reported in bytes.
type LSPServer struct {
	ws      *Workspace
	opts    []Option
	handler protocol.Handler
	server  *server.Server
	version string
}

func NewLSPServer(version string, opts ...Option) *LSPServer {
	ls := &LSPServer{
		version: version,
		opts:    opts,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := getRootDir()
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.ws = New(rootDir, ls.opts...)
	lspLog.Infof("workspace root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	go func() {
		// Buffers opened before the scan reaches them stay as sent.
		if err := ls.ws.ScanMissing(context.Background()); err != nil {
			lspLog.Warningf("initial scan: %s", err)
		}
	}()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, []byte(textChange.Text))
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.ws.ScanFile(context.Background(), path); err != nil {
		return nil
	}
	ls.publish(ctx, params.TextDocument.URI, ls.ws.File(path))
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.ws.File(path)
	if file == nil {
		return nil, nil
	}
	return toDocumentSymbols(file.Symbols), nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri string, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		return
	}
	file, err := ls.ws.UpdateFile(context.Background(), path, content)
	if err != nil {
		return
	}
	ls.publish(ctx, uri, file)
}

func (ls *LSPServer) publish(ctx *glsp.Context, uri string, file *File) {
	if file == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(file.Diagnostics),
	})
}

func toProtocolDiagnostics(diags []Diagnostic) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range:    toRange(d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func toDocumentSymbols(syms []Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(syms))
	for _, s := range syms {
		ds := protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           toSymbolKind(s.Kind),
			Range:          toRange(s.Span),
			SelectionRange: toRange(s.Selection),
		}
		if detail := s.Kind.String(); detail != "" {
			ds.Detail = &detail
		}
		if len(s.Children) > 0 {
			ds.Children = toDocumentSymbols(s.Children)
		}
		out = append(out, ds)
	}
	return out
}

func toSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolNamespace:
		return protocol.SymbolKindNamespace
	case SymbolClass, SymbolTrait:
		return protocol.SymbolKindClass
	case SymbolInterface:
		return protocol.SymbolKindInterface
	case SymbolFunction:
		return protocol.SymbolKindFunction
	case SymbolMethod:
		return protocol.SymbolKindMethod
	case SymbolProperty:
		return protocol.SymbolKindProperty
	default:
		return protocol.SymbolKindConstant
	}
}

// toRange converts 1-based positions to the protocol's 0-based ones.
func toRange(span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toPosition(span.Start),
		End:   toPosition(span.End),
	}
}

func toPosition(pos parser.Position) protocol.Position {
	line, col := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(col),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
