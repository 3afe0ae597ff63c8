package filter

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// keepFunction is the global a filter script may define instead of
// evaluating to a function directly.
const keepFunction = "keep"

// Script compiles a JavaScript predicate into a filter. The script either
// evaluates to a function or defines a global function named "keep"; the
// predicate is called with one cookie object per record (fields domain,
// name, value, path, secure, httpOnly, sameSite, hostOnly, session and
// expirationDate) and its return value is taken as a boolean. console.log
// is available for debugging scripts.
func Script(src string) (ckzlib.FilterFunc, error) {
	prog, err := goja.Compile("filter", src, true)
	if err != nil {
		return nil, fmt.Errorf("filter: compile script: %w", err)
	}

	vm := goja.New()
	require.NewRegistry().Enable(vm)
	console.Enable(vm)

	result, err := vm.RunProgram(prog)
	if err != nil {
		return nil, fmt.Errorf("filter: evaluate script: %w", err)
	}

	predicate, ok := goja.AssertFunction(result)
	if !ok {
		predicate, ok = goja.AssertFunction(vm.Get(keepFunction))
	}
	if !ok {
		return nil, fmt.Errorf("filter: script must evaluate to a function or define %s(cookie)", keepFunction)
	}

	var mu sync.Mutex
	return func(rec ckzlib.CookieRecord) (bool, error) {
		mu.Lock()
		defer mu.Unlock()

		v, err := predicate(goja.Undefined(), recordValue(vm, rec))
		if err != nil {
			return false, fmt.Errorf("filter: script predicate: %w", err)
		}
		return v.ToBoolean(), nil
	}, nil
}

// recordValue mirrors the record's JSON shape into a script object.
func recordValue(vm *goja.Runtime, rec ckzlib.CookieRecord) goja.Value {
	obj := vm.NewObject()
	obj.Set("domain", rec.Domain)
	obj.Set("name", rec.Name)
	obj.Set("value", rec.Value)
	obj.Set("path", rec.Path)
	obj.Set("secure", rec.Secure)
	obj.Set("httpOnly", rec.HTTPOnly)
	obj.Set("sameSite", string(rec.SameSite))
	obj.Set("hostOnly", rec.HostOnly)
	obj.Set("session", rec.Session)
	if rec.ExpirationDate != nil {
		obj.Set("expirationDate", *rec.ExpirationDate)
	} else {
		obj.Set("expirationDate", goja.Null())
	}
	return obj
}
