// Package sdkscout discovers the structure of SDK repositories and measures
// how much of a package's public API its sample code actually exercises.
//
// # Detection
//
// A [Detector] scans a repository root for per-language build markers
// (go.mod, pyproject.toml, pom.xml, package.json, *.csproj, ...), resolves
// the primary source folder from explicit manifest declarations or layout
// conventions, extracts the importable library name, and ranks candidate
// samples directories by convention names and by import statements
// referencing the library:
//
//	d := sdkscout.NewDetector()
//	info, err := d.Detect(ctx, "path/to/sdk-repo")
//	if err != nil { ... }
//	fmt.Println(info.Language, info.SourceDir, info.SamplesDir)
//
// Detection results are cached by canonical root path; concurrent callers
// for the same root share a single scan. The cache is invalidated only by
// [Detector.ClearCache] — the filesystem is never watched. With [WithStore],
// completed detections also persist to SQLite and warm-start later
// processes.
//
// # Reachability and coverage
//
// The analysis side consumes an externally extracted type graph (sdkscout
// does not parse SDK source itself; see [LoadAPIIndex] for the interchange
// format the per-language extractors emit). [Reachable] computes the closure
// of operation-bearing types reachable from the SDK's entry points,
// following referenced-type edges and interface-to-implementer edges.
// [MatchCoverage] then partitions the reachable operations into covered and
// uncovered using call sites found in sample files:
//
//	graph, err := sdkscout.LoadAPIIndex(data)
//	reachable := sdkscout.Reachable(graph)
//	usage := sdkscout.MatchCoverage(reachable, sites, sdkscout.CoverageOptions{})
//
// Call sites come from any per-language parser; [Detector.ScanSamples]
// produces them from sample files with tree-sitter.
package sdkscout
