package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/logging"
	"go.uber.org/zap"
)

// GlobalName is the single global object scripts see; qualified namespace
// entries appear as nested fields ("battery.info" -> glyph.battery.info).
const GlobalName = "glyph"

// Engine wraps one goja VM bound to a sealed namespace. A single evaluation
// is in flight at a time; capability functions run synchronously on the
// evaluating goroutine and may block.
type Engine struct {
	vm  *goja.Runtime
	ns  *capability.Namespace
	log *logging.Logger
}

// New creates an engine and injects the namespace into the VM. The namespace
// must be sealed: scripts only ever observe a read-only surface.
func New(ns *capability.Namespace, log *logging.Logger) (*Engine, error) {
	if !ns.Sealed() {
		return nil, fmt.Errorf("namespace must be sealed before script execution")
	}
	if log == nil {
		log = logging.NewNop()
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(1024)

	e := &Engine{vm: vm, ns: ns, log: log}
	if err := e.inject(); err != nil {
		return nil, err
	}
	return e, nil
}

// Run compiles and evaluates src with a wall-clock budget. Script failures of
// any kind come back as *Error and never propagate as panics: user scripts
// are adversarial input with respect to host stability.
func (e *Engine) Run(ctx context.Context, name, src string, budget time.Duration) (goja.Value, error) {
	prog, err := goja.Compile(name, src, true)
	if err != nil {
		return nil, &Error{Kind: KindLoad, Detail: err.Error()}
	}

	if budget <= 0 {
		budget = DefaultBudget
	}
	timer := time.NewTimer(budget)
	defer timer.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-timer.C:
			e.vm.Interrupt(interruptTimeout)
		case <-ctx.Done():
			e.vm.Interrupt(interruptCancelled)
		case <-done:
		}
	}()

	val, err := e.vm.RunProgram(prog)
	e.vm.ClearInterrupt()
	if err != nil {
		return nil, e.classify(name, err)
	}
	return val, nil
}

// Exports converts an object value, typically a plugin entrypoint's
// completion value, into capability functions that call back into the VM.
func (e *Engine) Exports(v goja.Value) (map[string]capability.Func, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("entrypoint did not produce a value")
	}
	obj := v.ToObject(e.vm)
	if obj == nil {
		return nil, fmt.Errorf("entrypoint value is not an object")
	}

	out := make(map[string]capability.Func)
	for _, key := range obj.Keys() {
		fn, ok := goja.AssertFunction(obj.Get(key))
		if !ok {
			continue
		}
		out[key] = func(args []interface{}) (interface{}, error) {
			jsArgs := make([]goja.Value, len(args))
			for i, a := range args {
				jsArgs[i] = e.vm.ToValue(a)
			}
			res, err := fn(goja.Undefined(), jsArgs...)
			if err != nil {
				return nil, fmt.Errorf("plugin call failed: %w", err)
			}
			return res.Export(), nil
		}
	}
	return out, nil
}

const (
	interruptTimeout   = "wall-clock budget exceeded"
	interruptCancelled = "cancelled"
)

// DefaultBudget bounds a single evaluation when the caller imposes none.
const DefaultBudget = 30 * time.Second

// inject builds the nested glyph.* object tree from the flat namespace. The
// dynamic call convention lives entirely here: goja values are exported to
// plain Go values on the way in and converted back on the way out.
func (e *Engine) inject() error {
	root := e.vm.NewObject()

	objects := make(map[string]*goja.Object)

	for _, qualified := range e.ns.Names() {
		entry, _ := e.ns.Lookup(qualified)

		segs := strings.Split(qualified, ".")
		parent := root
		prefix := ""
		for _, seg := range segs[:len(segs)-1] {
			if prefix == "" {
				prefix = seg
			} else {
				prefix = prefix + "." + seg
			}
			obj, ok := objects[prefix]
			if !ok {
				obj = e.vm.NewObject()
				objects[prefix] = obj
				if err := parent.Set(seg, obj); err != nil {
					return fmt.Errorf("inject %q: %w", qualified, err)
				}
			}
			parent = obj
		}

		leaf := segs[len(segs)-1]
		var err error
		if entry.IsFunc() {
			err = parent.Set(leaf, e.wrap(qualified, entry.Fn))
		} else {
			err = parent.Set(leaf, e.vm.ToValue(entry.Const))
		}
		if err != nil {
			return fmt.Errorf("inject %q: %w", qualified, err)
		}
	}

	return e.vm.GlobalObject().Set(GlobalName, root)
}

// wrap adapts a boundary procedure to goja's call convention. Capability
// errors surface as catchable JS exceptions, not Go panics.
func (e *Engine) wrap(qualified string, fn capability.Func) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a.Export()
		}
		res, err := fn(args)
		if err != nil {
			e.log.Debug("capability call failed",
				zap.String("function", qualified), zap.Error(err))
			panic(e.vm.NewGoError(fmt.Errorf("%s: %w", qualified, err)))
		}
		if res == nil {
			return goja.Undefined()
		}
		return e.vm.ToValue(res)
	}
}

func (e *Engine) classify(name string, err error) *Error {
	var ierr *goja.InterruptedError
	if ok := asError(err, &ierr); ok {
		if fmt.Sprint(ierr.Value()) == interruptTimeout {
			return &Error{Kind: KindTimeout, Detail: fmt.Sprintf("%s: %s", name, interruptTimeout)}
		}
		return &Error{Kind: KindTimeout, Detail: fmt.Sprintf("%s: %s", name, interruptCancelled)}
	}

	var ex *goja.Exception
	if ok := asError(err, &ex); ok {
		return &Error{Kind: KindRuntime, Detail: ex.String()}
	}
	return &Error{Kind: KindRuntime, Detail: err.Error()}
}
