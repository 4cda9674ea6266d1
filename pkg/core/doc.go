// Package core provides a small, stable facade over secretscope's
// internal scanning engine for external integrations. It deliberately
// re-exports a narrow API surface so third-party tools can depend on a
// stable import path without reaching into internal packages.
//
// Example:
//
//	res, err := core.Scan(ctx, ".", core.Options{Recursive: true})
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, res.Findings)
package core
