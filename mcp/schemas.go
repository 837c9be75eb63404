package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names.
const (
	ToolSearch       = "search_rhinocommon"
	ToolClassDetails = "get_class_details"
	ToolExamples     = "get_code_examples"
)

// URIScheme prefixes namespace resource URIs.
const URIScheme = "rhino://"

func searchTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolSearch,
		Description: "Search RhinoCommon API by class or method name. Returns matching classes and methods with documentation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search term (class name, method name, or keyword)",
				},
				"namespace": map[string]interface{}{
					"type":        "string",
					"description": "Optional: limit search to specific namespace (e.g., 'rhino.geometry')",
				},
			},
			Required: []string{"query"},
		},
	}
}

func classDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolClassDetails,
		Description: "Get complete information about a specific RhinoCommon class including all methods, properties, and fields.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"class_name": map[string]interface{}{
					"type":        "string",
					"description": "The class name (e.g., 'NurbsSurface', 'Brep')",
				},
				"namespace": map[string]interface{}{
					"type":        "string",
					"description": "Optional: namespace to look in first",
				},
			},
			Required: []string{"class_name"},
		},
	}
}

func examplesTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolExamples,
		Description: "Get practical code examples for a RhinoCommon class showing common usage patterns.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"class_name": map[string]interface{}{
					"type":        "string",
					"description": "The class name to get examples for",
				},
			},
			Required: []string{"class_name"},
		},
	}
}

func namespaceResource(ns string) mcp.Resource {
	return mcp.NewResource(
		URIScheme+ns,
		ns+" Documentation",
		mcp.WithResourceDescription("RhinoCommon "+ns+" API reference"),
		mcp.WithMIMEType("application/json"),
	)
}

func namespaceTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		URIScheme+"{namespace}",
		"Namespace Documentation",
		mcp.WithTemplateDescription("RhinoCommon API reference for one namespace"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}
