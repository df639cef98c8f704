package utils

import (
	"context"

	"github.com/teivah/onecontext"
)

// CombinedContexts returns a context that is done as soon as any of the
// supplied contexts is done, carrying the merged values of all of them.
func CombinedContexts(ctxs ...context.Context) context.Context {
	switch len(ctxs) {
	case 0:
		return context.Background()
	case 1:
		return ctxs[0]
	}

	ctx, _ := onecontext.Merge(ctxs[0], ctxs[1:]...)
	return ctx
}
