// Package filesystem implements the filesystem tool executor (C2):
// read_file, write_file, list_directory, create_directory, delete,
// file_info, and send_file, all confined to a configured workspace
// root (spec.md §4.2).
//
// Grounded on the teacher's file-tool idiom (one Tool per concern,
// workspace-relative path handling) generalized onto this spec's
// agentstate.ToolResult/tooling.Tool contracts rather than the
// teacher's own tool interface.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/tools/workspace"
)

// mimeTable is the extension->mime lookup spec.md §4.2 specifies for
// send_file attachment classification.
var mimeTable = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".csv":  "text/csv",
	".zip":  "application/zip",
	".txt":  "text/plain",
	".json": "application/json",
	".yml":  "text/yaml",
	".yaml": "text/yaml",
	".py":   "text/x-python",
	".java": "text/x-java",
	".js":   "text/javascript",
	".ts":   "text/typescript",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
}

const defaultMime = "application/octet-stream"

// Tool implements the "filesystem" tool executor.
type Tool struct {
	Runtime *config.Runtime
}

// New builds the filesystem tool bound to a config Runtime (the
// source of the enable gate and workspace root).
func New(rt *config.Runtime) *Tool { return &Tool{Runtime: rt} }

func (t *Tool) Name() string        { return "filesystem" }
func (t *Tool) Description() string { return "Read, write, list, and manage files within the agent's workspace." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"operation": {"type": "string", "enum": ["read_file", "write_file", "list_directory", "create_directory", "delete", "file_info", "send_file"]},
			"path": {"type": "string"},
			"content": {"type": "string"},
			"append": {"type": "boolean"}
		},
		"required": ["operation", "path"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsFilesystemEnabled()
}

type params struct {
	Operation string `json:"operation"`
	Path      string `json:"path"`
	Content   string `json:"content"`
	Append    bool   `json:"append"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}

	root := t.Runtime.Snapshot().Workspace()
	resolved, err := workspace.Resolve(root, p.Path)
	if err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error()), nil
	}

	switch p.Operation {
	case "read_file":
		return t.readFile(resolved)
	case "write_file":
		return t.writeFile(resolved, p.Content, p.Append)
	case "list_directory":
		return t.listDirectory(resolved)
	case "create_directory":
		return t.createDirectory(resolved)
	case "delete":
		return t.delete(resolved)
	case "file_info":
		return t.fileInfo(resolved)
	case "send_file":
		return t.sendFile(actx, resolved)
	default:
		return agentstate.Fail(agentstate.FailureValidation, "unknown operation: "+p.Operation), nil
	}
}

func (t *Tool) readFile(path string) (*agentstate.ToolResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return agentstate.Fail(agentstate.FailureNotFound, "file not found: "+err.Error()), nil
		}
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok(string(data), nil), nil
}

func (t *Tool) writeFile(path, content string, append_ bool) (*agentstate.ToolResult, error) {
	if content == "" {
		return agentstate.Fail(agentstate.FailureValidation, "content is required for write_file"), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	if append_ {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok(fmt.Sprintf("wrote %d bytes to %s", len(content), path), nil), nil
}

func (t *Tool) listDirectory(path string) (*agentstate.ToolResult, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return agentstate.Fail(agentstate.FailureNotFound, "directory not found: "+err.Error()), nil
		}
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	var sb strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			sb.WriteString(e.Name() + "/\n")
		} else {
			sb.WriteString(e.Name() + "\n")
		}
	}
	return agentstate.Ok(sb.String(), map[string]any{"count": len(entries)}), nil
}

func (t *Tool) createDirectory(path string) (*agentstate.ToolResult, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return agentstate.Ok("already exists", nil), nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok("created "+path, nil), nil
}

func (t *Tool) delete(path string) (*agentstate.ToolResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return agentstate.Fail(agentstate.FailureNotFound, "path not found: "+path), nil
	}
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok("deleted "+path, nil), nil
}

func (t *Tool) fileInfo(path string) (*agentstate.ToolResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return agentstate.Fail(agentstate.FailureNotFound, "path not found: "+path), nil
	}
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	data := map[string]any{
		"size":     info.Size(),
		"isDir":    info.IsDir(),
		"modified": info.ModTime().Format(time.RFC3339),
	}
	return agentstate.Ok(fmt.Sprintf("%s: %d bytes, dir=%v", path, info.Size(), info.IsDir()), data), nil
}

func (t *Tool) sendFile(actx *agentstate.Context, path string) (*agentstate.ToolResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return agentstate.Fail(agentstate.FailureNotFound, "file not found: "+err.Error()), nil
		}
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := mimeTable[ext]
	if !ok {
		mime = defaultMime
	}
	attType := agentstate.AttachmentDocument
	if strings.HasPrefix(mime, "image/") {
		attType = agentstate.AttachmentImage
	}

	attachment := agentstate.Attachment{
		Type:     attType,
		Filename: filepath.Base(path),
		MimeType: mime,
		Bytes:    data,
	}
	actx.AddAttachment(attachment)
	return agentstate.Ok("sent "+attachment.Filename, map[string]any{"mime_type": mime}), nil
}
