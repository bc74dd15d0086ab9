package mcp

import "github.com/mark3labs/mcp-go/mcp"

// findProductsTool defines the find_products MCP tool.
var findProductsTool = mcp.NewTool("find_products",
	mcp.WithDescription("Recommend up to three products from the store catalog for a category, budget and primary usage."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Description("Product category"),
		mcp.Enum("laptop", "phone"),
	),
	mcp.WithString("budget",
		mcp.Description("Price bucket"),
		mcp.Enum("under-500", "500-1000", "1000-1500", "over-1500"),
	),
	mcp.WithString("usage",
		mcp.Description("What the shopper will mainly use the product for"),
		mcp.Enum("student", "office", "gaming", "daily"),
	),
)

// getProductTool defines the get_product MCP tool.
var getProductTool = mcp.NewTool("get_product",
	mcp.WithDescription("Get full details for one product: price, rating, specs, availability and warranty."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Product id as returned by find_products"),
	),
)

// trackOrderTool defines the track_order MCP tool.
var trackOrderTool = mcp.NewTool("track_order",
	mcp.WithDescription("Look up the shipping status of an order."),
	mcp.WithString("order_id",
		mcp.Required(),
		mcp.Description("Order id, e.g. ORD-12345 (case-insensitive)"),
	),
)

// draftSupportEmailTool defines the draft_support_email MCP tool.
var draftSupportEmailTool = mcp.NewTool("draft_support_email",
	mcp.WithDescription("Classify a customer complaint and draft the support email the shop would send on their behalf."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The customer's description of the problem"),
	),
	mcp.WithString("order_id",
		mcp.Description("Related order id, if any"),
	),
	mcp.WithString("product_name",
		mcp.Description("Related product name, if any"),
	),
)
