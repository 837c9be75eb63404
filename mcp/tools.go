package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/rhinodoc"
	"github.com/mark3labs/mcp-go/mcp"
)

type searchResponse struct {
	Query     string               `json:"query"`
	Namespace *string              `json:"namespace"`
	Results   []rhinodoc.SearchHit `json:"results"`
	Count     int                  `json:"count"`
}

type notFoundResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion"`
}

type examplesResponse struct {
	Class    string             `json:"class"`
	Examples []rhinodoc.Example `json:"examples"`
	Message  string             `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Tool  string `json:"tool"`
}

// handleSearch handles the search_rhinocommon tool.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	query, err := requireString(args, "query")
	if err != nil {
		return s.toolError(ToolSearch, err), nil
	}
	namespace := getString(args, "namespace")

	hits, err := s.svc.Search(ctx, query, namespace)
	if err != nil {
		return s.toolError(ToolSearch, err), nil
	}

	resp := searchResponse{Query: query, Results: hits, Count: len(hits)}
	if namespace != "" {
		resp.Namespace = &namespace
	}
	return s.toolJSON(ToolSearch, resp), nil
}

// handleClassDetails handles the get_class_details tool.
func (s *Server) handleClassDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	className, err := requireString(args, "class_name")
	if err != nil {
		return s.toolError(ToolClassDetails, err), nil
	}

	class, err := s.svc.ClassDetails(ctx, className, getString(args, "namespace"))
	if rhinodoc.ErrorCode(err) == rhinodoc.ENOTFOUND {
		return s.toolJSON(ToolClassDetails, notFoundResponse{
			Error:      fmt.Sprintf("Class '%s' not found", className),
			Suggestion: "Try searching first with " + ToolSearch,
		}), nil
	} else if err != nil {
		return s.toolError(ToolClassDetails, err), nil
	}
	return s.toolJSON(ToolClassDetails, class), nil
}

// handleExamples handles the get_code_examples tool.
func (s *Server) handleExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	className, err := requireString(args, "class_name")
	if err != nil {
		return s.toolError(ToolExamples, err), nil
	}

	examples, err := s.svc.Examples(ctx, className)
	if err != nil {
		return s.toolError(ToolExamples, err), nil
	}

	resp := examplesResponse{Class: className, Examples: examples}
	if len(examples) == 0 {
		resp.Examples = []rhinodoc.Example{}
		resp.Message = "No examples available for this class"
	}
	return s.toolJSON(ToolExamples, resp), nil
}

// handleNamespaceResource serves rhino://<namespace> as the shard JSON.
func (s *Server) handleNamespaceResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	ns, ok := strings.CutPrefix(uri, URIScheme)
	if !ok || ns == "" {
		return nil, fmt.Errorf("invalid URI scheme: %s", uri)
	}

	shard, err := s.svc.NamespaceShard(ctx, ns)
	if err != nil {
		s.logger.Warn("resource read failed", "uri", uri, "err", err)
		return nil, fmt.Errorf("namespace not found: %s", ns)
	}
	data, err := rhinodoc.MarshalDocument(shard)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) toolJSON(tool string, v any) *mcp.CallToolResult {
	data, err := rhinodoc.MarshalDocument(v)
	if err != nil {
		return s.toolError(tool, err)
	}
	return mcp.NewToolResultText(strings.TrimSuffix(string(data), "\n"))
}

// toolError reports err as an {error, tool} payload flagged as a tool
// error, leaving the session usable.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Error("tool execution error", "tool", tool, "op", rhinodoc.ErrorOp(err), "err", err)
	data, _ := rhinodoc.MarshalDocument(errorResponse{Error: errorText(err), Tool: tool})
	result := mcp.NewToolResultText(strings.TrimSuffix(string(data), "\n"))
	result.IsError = true
	return result
}

func errorText(err error) string {
	if op := rhinodoc.ErrorOp(err); op != "" {
		return op + ": " + rhinodoc.ErrorMessage(err)
	}
	return rhinodoc.ErrorMessage(err)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func requireString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok {
		return "", rhinodoc.Errorf(rhinodoc.EINVALID, "%s is required", key)
	}
	return v, nil
}

func getString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}
