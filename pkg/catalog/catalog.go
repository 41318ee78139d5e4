package catalog

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/security"
)

// Func is the body of a scheduled task.
type Func func(ctx context.Context) error

// Entry describes one registered function.
type Entry struct {
	Locator     core.Locator
	Description string
}

type entry struct {
	fn   Func
	desc string
}

// Catalog maps locators to task functions.
type Catalog struct {
	mu      sync.RWMutex
	entries map[core.Locator]entry
	// code pointer -> locator for top-level functions only; ambiguous pointers
	// map to the zero Locator
	byPtr map[uintptr]core.Locator
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		entries: make(map[core.Locator]entry),
		byPtr:   make(map[uintptr]core.Locator),
	}
}

// Option configures a registration.
type Option func(*entry)

// Describe attaches a human-readable description shown by listings.
func Describe(desc string) Option {
	return func(e *entry) { e.desc = desc }
}

// Register adds fn under loc.
func (c *Catalog) Register(loc core.Locator, fn Func, opts ...Option) error {
	if err := security.ValidateLocator(loc); err != nil {
		return err
	}
	if fn == nil {
		return &core.ValidationError{Field: "func", Err: core.ErrNilFunc}
	}

	e := entry{fn: fn}
	for _, opt := range opts {
		opt(&e)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[loc]; ok {
		return fmt.Errorf("%w: %s", core.ErrDuplicateLocator, loc)
	}
	c.entries[loc] = e

	ptr := funcPointer(fn)
	if !topLevel(ptr) {
		// Every instance of a closure literal or method value shares one code
		// pointer, so these are only reachable through their locator.
		return nil
	}
	if _, seen := c.byPtr[ptr]; seen {
		c.byPtr[ptr] = core.Locator{}
	} else {
		c.byPtr[ptr] = loc
	}
	return nil
}

// MustRegister is like Register but panics on error. Intended for static setup.
func (c *Catalog) MustRegister(module, symbol string, fn Func, opts ...Option) {
	loc := core.Locator{Module: module, Symbol: symbol}
	if err := c.Register(loc, fn, opts...); err != nil {
		panic(fmt.Sprintf("cinder: register %s: %v", loc, err))
	}
}

// Resolve returns the function registered under loc.
func (c *Catalog) Resolve(loc core.Locator) (Func, error) {
	c.mu.RLock()
	e, ok := c.entries[loc]
	c.mu.RUnlock()
	if !ok {
		return nil, &core.ResolutionError{Locator: loc, Err: core.ErrUnknownLocator}
	}
	return e.fn, nil
}

// LocatorOf finds the locator of a registered function by identity.
// Only top-level functions have an identity: it reports false for closures,
// method values, unregistered functions and functions registered under
// several locators.
func (c *Catalog) LocatorOf(fn Func) (core.Locator, bool) {
	if fn == nil {
		return core.Locator{}, false
	}
	c.mu.RLock()
	loc, ok := c.byPtr[funcPointer(fn)]
	c.mu.RUnlock()
	if !ok || loc.IsZero() {
		return core.Locator{}, false
	}
	return loc, true
}

// Entries lists registered functions sorted by locator.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.entries))
	for loc, e := range c.entries {
		out = append(out, Entry{Locator: loc, Description: e.desc})
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Locator.String() < out[j].Locator.String()
	})
	return out
}

// Len returns the number of registered functions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func funcPointer(fn Func) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// closureName matches compiler-generated names of function literals, e.g.
// "pkg.Outer.func1" or "pkg.glob..func2".
var closureName = regexp.MustCompile(`\.func\d+(\.|$)`)

// topLevel reports whether the code at ptr is a plain declared function.
func topLevel(ptr uintptr) bool {
	f := runtime.FuncForPC(ptr)
	if f == nil {
		return false
	}
	name := f.Name()
	if strings.HasSuffix(name, "-fm") {
		return false
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return !closureName.MatchString(name)
}
