package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/log"
)

// programCache maps a source hash to the *entry that parsed it.
//
//nolint:gochecknoglobals
var programCache sync.Map

// entry parses one source at most once.
type entry struct {
	once sync.Once
	prog *ast.Program
	err  error
}

// parseCached parses src with default options, sharing the result with
// every other caller that parses the same text.
func parseCached(ctx context.Context, src string) (*ast.Program, error) {
	hash := xxh3.HashString(src)
	key := strconv.FormatUint(hash, 36)

	v, hit := programCache.LoadOrStore(key, new(entry))

	e, ok := v.(*entry)
	if !ok {
		programCache.Delete(key)

		return parse(ctx, src, makeOptions())
	}

	log.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.prog, e.err = parse(ctx, src, makeOptions())
	})

	return e.prog, e.err
}

// ClearCache drops every cached program.
func ClearCache() {
	programCache.Range(func(key, _ any) bool {
		programCache.Delete(key)

		return true
	})
}
