package platform

import (
	"context"
	"slices"
	"sync"
)

// Operation names recorded by MockClient and used as metric labels.
const (
	OpListFunctions       = "ListFunctions"
	OpListVersions        = "ListVersions"
	OpListAliasedVersions = "ListAliasedVersions"
	OpDeleteVersion       = "DeleteVersion"
)

// Call is one recorded MockClient invocation.
type Call struct {
	Op       string
	Function string
	Version  string
}

// MockClient is an in-memory implementation of the Client interface for testing.
type MockClient struct {
	mu         sync.Mutex
	order      []string
	functions  map[string]*mockFunction
	calls      []Call
	listErrs   map[string][]error
	deleteErrs map[Call][]error
}

type mockFunction struct {
	versions []string
	aliased  []string
}

// NewMockClient creates a new MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		functions:  make(map[string]*mockFunction),
		listErrs:   make(map[string][]error),
		deleteErrs: make(map[Call][]error),
	}
}

// AddFunction registers a function with its published and aliased versions.
// Functions are listed in the order they were added.
func (c *MockClient) AddFunction(function string, versions, aliased []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.functions[function]; !exists {
		c.order = append(c.order, function)
	}
	c.functions[function] = &mockFunction{
		versions: slices.Clone(versions),
		aliased:  slices.Clone(aliased),
	}
}

// SetAliases replaces the aliased versions of a function.
func (c *MockClient) SetAliases(function string, aliased []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn, ok := c.functions[function]; ok {
		fn.aliased = slices.Clone(aliased)
	}
}

// RemoveFunction drops a function from the account.
func (c *MockClient) RemoveFunction(function string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.functions, function)
	c.order = slices.DeleteFunc(c.order, func(f string) bool { return f == function })
}

// FailNextList makes the next call of op (one of the listing operations)
// fail with ErrPlatformUnavailable wrapping cause. Calls queue up.
func (c *MockClient) FailNextList(op string, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listErrs[op] = append(c.listErrs[op], cause)
}

// FailNextDelete makes the next DeleteVersion of function:version fail with
// ErrDeleteFailed wrapping cause. The version is left in place.
func (c *MockClient) FailNextDelete(function, version string, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := Call{Op: OpDeleteVersion, Function: function, Version: version}
	c.deleteErrs[key] = append(c.deleteErrs[key], cause)
}

// Calls returns a copy of every recorded call in order.
func (c *MockClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// CallCount returns how many times op was invoked.
func (c *MockClient) CallCount(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if call.Op == op {
			n++
		}
	}
	return n
}

// DeleteCalls returns every attempted deletion, successful or not.
func (c *MockClient) DeleteCalls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Call
	for _, call := range c.calls {
		if call.Op == OpDeleteVersion {
			out = append(out, call)
		}
	}
	return out
}

// Versions returns the versions currently published for a function.
func (c *MockClient) Versions(function string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn, ok := c.functions[function]
	if !ok {
		return nil
	}
	return slices.Clone(fn.versions)
}

// ResetCalls clears the call log.
func (c *MockClient) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

func (c *MockClient) record(call Call) {
	c.calls = append(c.calls, call)
}

func (c *MockClient) takeListErr(op, function string) error {
	errs := c.listErrs[op]
	if len(errs) == 0 {
		return nil
	}
	c.listErrs[op] = errs[1:]
	return &CallError{Op: op, Function: function, Kind: ErrPlatformUnavailable, Err: errs[0]}
}

func (c *MockClient) ListFunctions(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record(Call{Op: OpListFunctions})
	if err := c.takeListErr(OpListFunctions, ""); err != nil {
		return nil, err
	}
	return slices.Clone(c.order), nil
}

func (c *MockClient) ListVersions(ctx context.Context, function string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record(Call{Op: OpListVersions, Function: function})
	if err := c.takeListErr(OpListVersions, function); err != nil {
		return nil, err
	}
	fn, ok := c.functions[function]
	if !ok {
		return nil, nil
	}
	return slices.DeleteFunc(slices.Clone(fn.versions), func(v string) bool { return v == LatestVersion }), nil
}

func (c *MockClient) ListAliasedVersions(ctx context.Context, function string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record(Call{Op: OpListAliasedVersions, Function: function})
	if err := c.takeListErr(OpListAliasedVersions, function); err != nil {
		return nil, err
	}
	fn, ok := c.functions[function]
	if !ok {
		return nil, nil
	}
	return slices.Clone(fn.aliased), nil
}

func (c *MockClient) DeleteVersion(ctx context.Context, function, version string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Call{Op: OpDeleteVersion, Function: function, Version: version}
	c.record(key)

	if errs := c.deleteErrs[key]; len(errs) > 0 {
		c.deleteErrs[key] = errs[1:]
		return &CallError{Op: OpDeleteVersion, Function: function, Version: version, Kind: ErrDeleteFailed, Err: errs[0]}
	}

	// Already-absent versions are not an error.
	if fn, ok := c.functions[function]; ok {
		fn.versions = slices.DeleteFunc(fn.versions, func(v string) bool { return v == version })
	}
	return nil
}
