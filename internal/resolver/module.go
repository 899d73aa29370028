package resolver

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vk/tfresolve/internal/ctxlog"
	"github.com/vk/tfresolve/internal/extract"
	"github.com/vk/tfresolve/internal/ref"
)

// ModuleCall is one `module "name" { source = ...; k = v }` block as
// declared in a directory. Read-only once parsed.
type ModuleCall struct {
	// Name is the module instance name.
	Name string
	// Source is the source path expression with surrounding quotes removed.
	Source string
	// Inputs maps input-parameter names to the argument expression text
	// assigned at the call site.
	Inputs map[string]string
	// Dir is the directory declaring the call.
	Dir string
}

// moduleCalls parses every module block declared in the .tf files of dir.
func (e *Engine) moduleCalls(ctx context.Context, dir string) []ModuleCall {
	var calls []ModuleCall
	for _, file := range e.configFiles(ctx, dir) {
		text, ok := e.readFile(ctx, file)
		if !ok {
			continue
		}
		for _, block := range extract.Blocks(text, "module") {
			source, _ := extract.AssignedValue(block.Body, "source")
			calls = append(calls, ModuleCall{
				Name:   block.Name,
				Source: unquote(source),
				Inputs: extract.ModuleInputs(block.Body),
				Dir:    dir,
			})
		}
	}
	return calls
}

// resolveSource maps a module source expression to a physical directory.
// Results, including failures, are remembered for the lifetime of the engine
// rather than the cache TTL: directory structure changes far less often than
// values do.
func (e *Engine) resolveSource(ctx context.Context, baseDir, source string) (string, bool) {
	cacheKey := baseDir + "\x00" + source

	e.sourceMu.RLock()
	resolved, ok := e.sources[cacheKey]
	e.sourceMu.RUnlock()
	if ok {
		return resolved, resolved != ""
	}

	target, ok := e.ws.Resolve(baseDir, source)
	if ok && !e.fs.IsDirectory(target) {
		ctxlog.FromContext(ctx).Debug("module source does not resolve to a directory",
			"source", source, "dir", baseDir, "target", target)
		ok = false
	}
	if !ok {
		target = ""
	}

	e.sourceMu.Lock()
	e.sources[cacheKey] = target
	e.sourceMu.Unlock()

	return target, ok
}

// resolveModuleOutput chases a module.<name>.<output> reference: it finds
// the matching module call in dir, resolves its source to a directory, and
// looks the output up there. Registry and remote sources are unsupported and
// come back as not-found.
func (e *Engine) resolveModuleOutput(ctx context.Context, r *ref.Reference, dir string, rc *resolutionContext, enhanced bool) (string, bool) {
	for _, call := range e.moduleCalls(ctx, dir) {
		if call.Name != r.Module {
			continue
		}
		target, ok := e.resolveSource(ctx, dir, call.Source)
		if !ok {
			return "", false
		}
		v, ok := e.lookupOutput(ctx, r.Name, target)
		if !ok {
			return "", false
		}
		return e.chaseOrExpand(ctx, v, target, rc, enhanced)
	}
	return "", false
}

// resolveThreadedInput models a value threaded in from a call site: it
// treats dir as a module's internal directory, searches the parent directory
// for a module call whose source resolves back to dir, and when that call
// assigns the reference's name as an input, resolves the argument expression
// in the parent's own context.
func (e *Engine) resolveThreadedInput(ctx context.Context, r *ref.Reference, dir string, rc *resolutionContext) (string, bool) {
	parent, ok := e.ws.Parent(dir)
	if !ok {
		return "", false
	}

	dir = filepath.Clean(dir)
	for _, call := range e.moduleCalls(ctx, parent) {
		target, ok := e.resolveSource(ctx, parent, call.Source)
		if !ok || target != dir {
			continue
		}
		expr, ok := call.Inputs[r.Name]
		if !ok {
			continue
		}
		return e.resolveArgument(ctx, expr, parent, rc)
	}
	return "", false
}

// resolveArgument evaluates a module-call argument expression in the
// caller's directory context. A bare reference chases that reference; any
// other expression is returned with its embedded references expanded.
func (e *Engine) resolveArgument(ctx context.Context, expr, callerDir string, rc *resolutionContext) (string, bool) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return "", false
	}

	refs := extract.References(trimmed)
	if len(refs) == 1 && refs[0].String() == trimmed {
		if v, ok := e.resolveRef(ctx, refs[0], callerDir, rc, true); ok {
			return v, true
		}
		return "", false
	}
	return e.expandNested(ctx, trimmed, callerDir, rc, true), true
}

// unquote strips one level of surrounding double quotes, if present.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
