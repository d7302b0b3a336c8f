package sdkscout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCoveragePartitionsOperations(t *testing.T) {
	reachable := map[string][]string{
		"FooClient": {"Get", "List", "Delete"},
	}
	sites := []CallSite{
		{File: "quickstart.go", Line: 10, Receiver: "client", Method: "Get"},
		{File: "quickstart.go", Line: 14, Receiver: "fooClient", Method: "List"},
		{File: "quickstart.go", Line: 20, Receiver: "helper", Method: "format"},
	}

	index := MatchCoverage(reachable, sites, CoverageOptions{FileCount: 1})

	assert.Equal(t, 1, index.FileCount)
	require.Len(t, index.Covered, 2)
	require.Len(t, index.Uncovered, 1)
	assert.Equal(t, "FooClient", index.Uncovered[0].Type)
	assert.Equal(t, "Delete", index.Uncovered[0].Operation)
	assert.Equal(t, "Delete(...)", index.Uncovered[0].Signature)

	// Partition invariant: covered and uncovered together are exactly the
	// reachable operation set, with no overlap.
	seen := make(map[string]bool)
	for _, c := range index.Covered {
		seen[c.Type+"."+c.Operation] = true
	}
	for _, u := range index.Uncovered {
		key := u.Type + "." + u.Operation
		assert.False(t, seen[key], "operation %s in both partitions", key)
		seen[key] = true
	}
	assert.Len(t, seen, 3)
}

func TestMatchCoverageFirstOccurrenceWins(t *testing.T) {
	reachable := map[string][]string{"FooClient": {"Get"}}
	sites := []CallSite{
		{File: "a.go", Line: 5, Receiver: "client", Method: "Get"},
		{File: "b.go", Line: 9, Receiver: "client", Method: "Get"},
	}

	index := MatchCoverage(reachable, sites, CoverageOptions{FileCount: 2})

	require.Len(t, index.Covered, 1)
	assert.Equal(t, "a.go", index.Covered[0].File)
	assert.Equal(t, 5, index.Covered[0].Line)
}

func TestMatchCoverageEmptyReachableSet(t *testing.T) {
	index := MatchCoverage(nil, []CallSite{
		{File: "a.go", Line: 1, Receiver: "client", Method: "Get"},
	}, CoverageOptions{FileCount: 3})

	// Zero-valued result, not an error: file count stays zero and the
	// slices are empty but non-nil so JSON encodes [] rather than null.
	assert.Zero(t, index.FileCount)
	assert.NotNil(t, index.Covered)
	assert.Empty(t, index.Covered)
	assert.NotNil(t, index.Uncovered)
	assert.Empty(t, index.Uncovered)
	assert.NotNil(t, index.Patterns)
}

func TestDefaultClientNameMatcher(t *testing.T) {
	cases := []struct {
		receiver string
		typeName string
		want     bool
	}{
		{"client", "FooClient", true},
		{"fooClient", "FooClient", true},
		{"foo_client", "FooClient", true},
		{"myFoo", "FooClient", true},
		{"async", "FooAsyncClient", false},
		{"fooAsync", "FooAsyncClient", true},
		{"bar.client", "FooClient", true}, // whole-word "client" still matches
		{"barclient", "FooClient", false},
		{"clientele", "FooClient", false},
		{"helper", "FooClient", false},
	}
	for _, tc := range cases {
		got := DefaultClientNameMatcher(tc.receiver, tc.typeName)
		assert.Equal(t, tc.want, got, "receiver %q against %q", tc.receiver, tc.typeName)
	}
}

func TestMatchCoverageCustomMatcher(t *testing.T) {
	reachable := map[string][]string{"FooClient": {"Get"}}
	sites := []CallSite{
		{File: "a.go", Line: 1, Receiver: "svc", Method: "Get"},
	}

	// The default matcher rejects "svc"; an exact-prefix matcher accepts it.
	strict := MatchCoverage(reachable, sites, CoverageOptions{})
	assert.Empty(t, strict.Covered)

	loose := MatchCoverage(reachable, sites, CoverageOptions{
		ClientNameMatcher: func(receiver, typeName string) bool {
			return strings.HasPrefix(receiver, "svc")
		},
	})
	assert.Len(t, loose.Covered, 1)
}

func TestMatchCoveragePatternTags(t *testing.T) {
	reachable := map[string][]string{"FooClient": {"ListWidgets", "StreamLogs", "GetToken"}}
	sites := []CallSite{
		{File: "a.go", Line: 1, Receiver: "client", Method: "ListWidgets"},
		{File: "a.go", Line: 2, Receiver: "client", Method: "StreamLogs"},
		{File: "a.go", Line: 3, Receiver: "client", Method: "GetToken"},
	}

	index := MatchCoverage(reachable, sites, CoverageOptions{FileCount: 1})

	assert.Equal(t, []string{"authentication", "pagination", "streaming"}, index.Patterns)
}
