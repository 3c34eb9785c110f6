// Package server exposes the asset store and the letterform pipeline as MCP
// tools over stdio.
//
// The server speaks JSON-RPC 2.0, one request per line on stdin and one
// response per line on stdout. Logging goes to stderr.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Tools:
//   - board_asset_list, board_asset_add, board_asset_delete, board_asset_get
//   - board_filter: run the pipeline on an asset or on a path and quad
//   - image_dimensions
//
// Tool failures are JSON-RPC errors with code -32000. Their data carries the
// error type (invalid_argument, io_failure, not_found, cancelled) and the
// error text.
//
// Decoded photos are cached by path for the lifetime of the server; deleting
// an asset evicts its photo.
package server
