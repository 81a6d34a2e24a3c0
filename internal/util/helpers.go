package util

import (
	"context"
	"html/template"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// Template Compilation Helpers
// =============================================================================

// MustCompileTemplate compiles a template with the given name and content.
// Panics with a fatal error if compilation fails.
// This is used during initialization when template failures are unrecoverable.
func MustCompileTemplate(name string, funcs template.FuncMap, content string) *template.Template {
	t, err := template.New(name).Funcs(funcs).Parse(content)
	if err != nil {
		slog.Error("failed to compile template", "template", name, "error", err)
		os.Exit(1)
	}
	return t
}

// =============================================================================
// Host Validation Helpers
// =============================================================================

// IsInternalHost checks if a hostname is internal/private and should not be accessed,
// e.g. to guard against SSRF before fetching a bus-supplied URL.
func IsInternalHost(host string) bool {
	host = strings.ToLower(host)
	return strings.HasSuffix(host, ".local") ||
		strings.HasSuffix(host, ".internal") ||
		strings.HasSuffix(host, ".onion") ||
		strings.HasSuffix(host, ".localhost")
}

// IsLoopbackHost checks if a hostname resolves to localhost.
func IsLoopbackHost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		host == "127.0.0.1" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.") ||
		host == "[::1]"
}

// IsPrivateHost checks if a host should be blocked for security reasons.
// Combines internal host and loopback checks.
func IsPrivateHost(host string) bool {
	return IsInternalHost(host) || IsLoopbackHost(host)
}

// =============================================================================
// Generic Slice / Map Helpers
// =============================================================================

// MapKeys returns the keys of m in no particular order.
func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// LimitSlice returns at most the first n elements of slice.
func LimitSlice[T any](slice []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(slice) <= n {
		return slice
	}
	return slice[:n]
}

// SortedCopy returns a sorted copy of a string slice. The original slice is
// not modified. Useful for building stable comparison keys, e.g. a route's
// active-index stack when logging.
func SortedCopy(slice []string) []string {
	if len(slice) == 0 {
		return nil
	}
	sorted := make([]string, len(slice))
	copy(sorted, slice)
	sort.Strings(sorted)
	return sorted
}

// FilterSlice returns a new slice containing only elements that satisfy the
// predicate. The original slice is not modified.
func FilterSlice[T any](items []T, predicate func(T) bool) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}

// FilterSliceInPlace filters a slice in place, returning the filtered slice.
func FilterSliceInPlace[T any](items []T, predicate func(T) bool) []T {
	n := 0
	for _, item := range items {
		if predicate(item) {
			items[n] = item
			n++
		}
	}
	return items[:n]
}

// =============================================================================
// String Utilities
// =============================================================================

// TruncateString truncates a string to maxLen bytes, adding a "..." suffix
// if truncation occurs.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// TruncateStringRunes truncates a string to maxLen runes (Unicode-aware),
// adding a "..." suffix if truncation occurs. Unlike TruncateString it never
// cuts a multi-byte character in half.
func TruncateStringRunes(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// URL Helpers
// =============================================================================

func queryEscape(s string) string {
	return url.QueryEscape(s)
}

// BuildURL joins path with a query string built from params, in sorted key
// order so the result is deterministic.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	keys := MapKeys(params)
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(queryEscape(k))
		b.WriteByte('=')
		b.WriteString(queryEscape(params[k]))
	}
	return b.String()
}

// =============================================================================
// Concurrent Execution Helpers
// =============================================================================

// RunWithTimeout executes fn in a goroutine and reports whether it finished
// before timeout elapsed. fn keeps running in its goroutine after a
// timeout.
func RunWithTimeout(timeout time.Duration, fn func()) bool {
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// RunWithTimeoutCtx executes fn with a context that has a timeout. Returns
// true if completed, false if timed out.
func RunWithTimeoutCtx(timeout time.Duration, fn func(ctx context.Context)) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		fn(ctx)
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
