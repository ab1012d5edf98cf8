// Package mcpadapter exposes the classifier as a Model Context Protocol tool.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

const ToolClassifyResume = "classify_resume"

type Tools struct {
	classifier ports.ResumeClassifier
	maxBytes   int64
}

func NewTools(classifier ports.ResumeClassifier, maxBytes int64) *Tools {
	return &Tools{classifier: classifier, maxBytes: maxBytes}
}

func (t *Tools) Register(s *server.MCPServer) {
	tool := mcp.NewTool(ToolClassifyResume,
		mcp.WithDescription("Classify a résumé file (pdf, docx or txt) into a job category"),
	)
	tool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"path":         map[string]interface{}{"type": "string", "description": "Path to the résumé file"},
			"include_text": map[string]interface{}{"type": "boolean", "description": "Also return the extracted text"},
		},
		Required: []string{"path"},
	}
	s.AddTool(tool, t.classifyResume)
}

func (t *Tools) classifyResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, _ := args["path"].(string)
	path = strings.TrimSpace(path)
	if path == "" {
		return mcp.NewToolResultError("missing required field: path"), nil
	}
	includeText := false
	if v, ok := args["include_text"].(bool); ok {
		includeText = v
	}

	file, err := os.Open(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to open file: %v", err)), nil
	}
	defer file.Close()

	if t.maxBytes > 0 {
		info, err := file.Stat()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to stat file: %v", err)), nil
		}
		if info.Size() > t.maxBytes {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %d bytes exceeds limit of %d", domain.ErrDocumentTooLarge, info.Size(), t.maxBytes)), nil
		}
	}

	prediction, err := t.classifier.Submit(ctx, domain.Upload{
		Filename: filepath.Base(path),
		Body:     file,
	}, includeText)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !includeText {
		return mcp.NewToolResultText(prediction.Category), nil
	}
	payload, err := json.Marshal(prediction)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
