// Package platform defines the Client interface the janitor uses to talk to
// the serverless compute platform.
//
// The janitor needs exactly four capabilities from the platform: list the
// functions in the account, list the published versions of a function, list
// the versions currently referenced by an alias, and delete a version.
//
// # Usage
//
//	client, err := lambda.New(ctx, lambda.Config{Region: "eu-west-1"})
//	if err != nil {
//	    return err
//	}
//
//	fns, err := client.ListFunctions(ctx)
//	if err != nil {
//	    if errors.Is(err, platform.ErrPlatformUnavailable) {
//	        // listing failed, retry on the next invocation
//	    }
//	    return err
//	}
//
// Implementations wrap failures in [CallError] so callers can test the kind
// of failure with errors.Is and still reach the underlying cause.
package platform

import (
	"context"
	"errors"
	"fmt"
)

// LatestVersion is the pointer to the unpublished, always-current code of a
// function. It is never a deletion candidate and Client implementations must
// leave it out of ListVersions.
const LatestVersion = "$LATEST"

// Common errors returned by Client implementations.
var (
	// ErrPlatformUnavailable is returned when a listing call fails because of
	// transport, throttling or authorization problems.
	ErrPlatformUnavailable = errors.New("platform unavailable")

	// ErrDeleteFailed is returned when the platform rejects a version deletion.
	ErrDeleteFailed = errors.New("delete failed")
)

// CallError wraps a platform failure with the operation and target it
// applied to.
type CallError struct {
	Op       string // Operation that failed (e.g., "ListVersions", "DeleteVersion")
	Function string // Function identifier, empty for ListFunctions
	Version  string // Version, set for DeleteVersion only
	Kind     error  // ErrPlatformUnavailable or ErrDeleteFailed
	Err      error  // Underlying cause
}

func (e *CallError) Error() string {
	switch {
	case e.Version != "":
		return fmt.Sprintf("platform: %s %s:%s: %v: %v", e.Op, e.Function, e.Version, e.Kind, e.Err)
	case e.Function != "":
		return fmt.Sprintf("platform: %s %s: %v: %v", e.Op, e.Function, e.Kind, e.Err)
	default:
		return fmt.Sprintf("platform: %s: %v: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap exposes both the failure kind and the underlying cause.
func (e *CallError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Client is the set of platform operations consumed by the cleanup engine.
//
// All methods accept a context for cancellation and deadline propagation.
// Every call is a blocking network round trip.
type Client interface {
	// ListFunctions returns every function identifier in the account, in the
	// order the platform lists them.
	//
	// Fails with ErrPlatformUnavailable.
	ListFunctions(ctx context.Context) ([]string, error)

	// ListVersions returns the published versions of a function, excluding
	// LatestVersion.
	//
	// Fails with ErrPlatformUnavailable.
	ListVersions(ctx context.Context, function string) ([]string, error)

	// ListAliasedVersions returns the versions referenced by at least one
	// alias of the function.
	//
	// Fails with ErrPlatformUnavailable.
	ListAliasedVersions(ctx context.Context, function string) ([]string, error)

	// DeleteVersion deletes one published version of a function.
	//
	// Deleting a version that no longer exists succeeds, so concurrent
	// janitors and retries are safe.
	//
	// Fails with ErrDeleteFailed.
	DeleteVersion(ctx context.Context, function, version string) error
}
