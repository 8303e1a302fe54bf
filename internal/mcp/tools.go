package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listPagesTool defines the list_pages MCP tool.
var listPagesTool = mcp.NewTool("list_pages",
	mcp.WithDescription("List every page of the manual with its id, title and summary."),
)

// getPageTool defines the get_page MCP tool.
var getPageTool = mcp.NewTool("get_page",
	mcp.WithDescription("Get the markdown source of a manual page."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Page id as returned by list_pages, e.g. \"getting-started\""),
	),
)

// getTOCTool defines the get_toc MCP tool.
var getTOCTool = mcp.NewTool("get_toc",
	mcp.WithDescription("Get the table of contents of a manual page: its h2 to h4 headings with their anchors."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Page id as returned by list_pages"),
	),
)
