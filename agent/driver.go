package agent

import "context"

// PageDriver is the execution environment the engine requires: it runs
// a snippet against the live page and decodes the resolved value into
// out. Script-internal failures are encoded in the decoded result; an
// error return means transport-level failure (page destroyed,
// navigation in progress, timeout) and is recoverable per call.
type PageDriver interface {
	Eval(ctx context.Context, js string, out any) error
}
