package domain

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"tastmod.dev/pkg/tastmod/internal/adapter"
	"tastmod.dev/pkg/tastmod/internal/controller"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

// Action performs one semantic edit on a file, returning whether anything
// was modified.
type Action func(f *TestFile) (bool, error)

// Filter decides whether a file should be touched at all.
type Filter func(f *TestFile) (bool, error)

// Bundle locations relative to the source dir, mirroring the checkout
// layout of public and private test bundles.
const (
	publicBundlePrefix  = "platform/tast-tests/src/go.chromium.org/tast-tests/cros"
	privateBundlePrefix = "platform/tast-tests-private/src/go.chromium.org/tast-tests-private/crosint"

	writeFileMode = os.FileMode(0o644)
)

// WalkArgs bundles the inputs of a bulk run.
type WalkArgs struct {
	SrcDir     string
	PathFilter *m.PathFilter
	Filters    []Filter
	Actions    []Action
	Mode       m.OutputMode
	Threads    int
}

// Orchestrator walks test bundle directories and applies filters then
// actions to each candidate file. It is the only layer that decides
// between "skip and continue" and "abort the run": a fatal per-file error
// is recorded in the summary and the batch continues.
type Orchestrator interface {
	// WalkKnownTests processes every candidate file under the known bundle
	// roots allowed by the path filter.
	WalkKnownTests(ctx context.Context, args WalkArgs) (*m.RunSummary, error)

	// ApplyToFile runs filters and actions against a single file.
	ApplyToFile(path m.Path, filters []Filter, actions []Action, mode m.OutputMode) m.FileResult

	// ListKnownTests collects the test declarations under the known bundle
	// roots without modifying anything.
	ListKnownTests(ctx context.Context, args WalkArgs) ([]m.TestInfo, error)
}

type orchestrator struct {
	goFiles adapter.GoFileAdapter
	fs      adapter.SourceFSAdapter
	ui      controller.UI
}

// NewOrchestrator creates an Orchestrator with the provided dependencies.
func NewOrchestrator(goFiles adapter.GoFileAdapter, fs adapter.SourceFSAdapter, ui controller.UI) Orchestrator {
	return &orchestrator{goFiles: goFiles, fs: fs, ui: ui}
}

// bundleDirs resolves the bundle roots to search, honoring the path
// filter's public/private and local/remote restrictions. Roots that do not
// exist on disk are skipped silently so public-only checkouts work.
func (o *orchestrator) bundleDirs(srcDir string, pf *m.PathFilter) []string {
	prefixes := []string{}
	if !pf.SkipPublic {
		prefixes = append(prefixes, publicBundlePrefix)
	}

	if !pf.SkipPrivate {
		prefixes = append(prefixes, privateBundlePrefix)
	}

	classes := []string{}
	if !pf.SkipLocal {
		classes = append(classes, "local")
	}

	if !pf.SkipRemote {
		classes = append(classes, "remote")
	}

	dirs := []string{}

	for _, prefix := range prefixes {
		for _, class := range classes {
			dir := filepath.Join(srcDir, prefix, class, "bundles", "cros")
			if _, err := o.fs.FileInfo(m.Path(dir)); err != nil {
				slog.Debug("skipping missing bundle root", "dir", dir)
				continue
			}

			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// candidateFiles globs the Go files of the allowed packages under dir.
// Only packages one directory deep are searched.
func (o *orchestrator) candidateFiles(dir string, packages []string) ([]m.Path, error) {
	if len(packages) == 0 {
		packages = []string{"*"}
	}

	files := []m.Path{}

	for _, pkg := range packages {
		matches, err := o.fs.Glob(filepath.Join(dir, pkg, "*.go"))
		if err != nil {
			return nil, err
		}

		files = append(files, matches...)
	}

	return files, nil
}

// WalkKnownTests applies the run to every candidate file, fanning out over
// args.Threads workers. Files are independent units, so no coordination
// beyond the shared summary is needed.
func (o *orchestrator) WalkKnownTests(ctx context.Context, args WalkArgs) (*m.RunSummary, error) {
	summary := &m.RunSummary{}

	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(args.Threads, 1))

	for _, dir := range o.bundleDirs(args.SrcDir, args.PathFilter) {
		files, err := o.candidateFiles(dir, args.PathFilter.Packages)
		if err != nil {
			return nil, err
		}

		for _, path := range files {
			group.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				res := o.ApplyToFile(path, args.Filters, args.Actions, args.Mode)

				mu.Lock()
				summary.Record(res)
				mu.Unlock()

				// Per-file failures are recorded, not propagated: one bad
				// file must not abort the bulk run.
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	o.ui.Summary(summary, args.Mode)

	return summary, nil
}

// ApplyToFile applies the given actions to the given file if it matches
// all the given filters. Whether the file is actually rewritten depends on
// the output mode.
func (o *orchestrator) ApplyToFile(path m.Path, filters []Filter, actions []Action, mode m.OutputMode) m.FileResult {
	contents, err := o.fs.ReadFile(path)
	if err != nil {
		return m.FileResult{Path: path, Err: err}
	}

	before := make([]byte, len(contents))
	copy(before, contents)

	testFile, err := NewTestFile(o.goFiles, path, contents)
	if err != nil {
		slog.Debug("skipping unparsable file", "path", path, "error", err)
		return m.FileResult{Path: path}
	}

	if testFile == nil {
		// Not a test declaration file.
		return m.FileResult{Path: path}
	}

	for _, filter := range filters {
		match, err := filter(testFile)
		if err != nil {
			return m.FileResult{Path: path, Err: err}
		}

		if !match {
			return m.FileResult{Path: path}
		}
	}

	modified := false

	for _, action := range actions {
		actionModified, err := action(testFile)
		if err != nil {
			return m.FileResult{Path: path, Err: err}
		}

		modified = modified || actionModified
	}

	if !modified {
		return m.FileResult{Path: path}
	}

	if err := testFile.Format(); err != nil {
		return m.FileResult{Path: path, Err: err}
	}

	res := m.FileResult{Path: path, Modified: true}

	switch mode {
	case m.ModeDryRun:
		o.ui.FileResult(res, mode)
	case m.ModeDryRunVerbose:
		o.ui.FileResult(res, mode)
		o.ui.Preview(path, before, testFile.Contents())
	case m.ModeWrite:
		if err := o.fs.WriteFile(path, testFile.Contents(), writeFileMode); err != nil {
			return m.FileResult{Path: path, Err: err}
		}

		o.ui.FileResult(res, mode)
	}

	return res
}

// ListKnownTests walks the same roots as WalkKnownTests and reports every
// test declaration found, sorted by path.
func (o *orchestrator) ListKnownTests(ctx context.Context, args WalkArgs) ([]m.TestInfo, error) {
	infos := []m.TestInfo{}

	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(args.Threads, 1))

	for _, dir := range o.bundleDirs(args.SrcDir, args.PathFilter) {
		files, err := o.candidateFiles(dir, args.PathFilter.Packages)
		if err != nil {
			return nil, err
		}

		for _, path := range files {
			group.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				info, ok, err := o.describeFile(path)
				if err != nil {
					slog.Warn("could not describe test file", "path", path, "error", err)
					return nil
				}

				if !ok {
					return nil
				}

				mu.Lock()
				infos = append(infos, info)
				mu.Unlock()

				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })

	o.ui.DisplayList(infos)

	return infos, nil
}

// describeFile reads one file and summarizes its test declaration, if any.
func (o *orchestrator) describeFile(path m.Path) (m.TestInfo, bool, error) {
	contents, err := o.fs.ReadFile(path)
	if err != nil {
		return m.TestInfo{}, false, err
	}

	testFile, err := NewTestFile(o.goFiles, path, contents)
	if err != nil || testFile == nil {
		return m.TestInfo{}, false, err
	}

	variants, err := testFile.ParamTestIDs()
	if err != nil {
		return m.TestInfo{}, false, err
	}

	contacts, err := testFile.Contacts()
	if err != nil {
		return m.TestInfo{}, false, err
	}

	return m.TestInfo{
		Path:     path,
		ID:       testFile.ParentTestID(),
		Variants: variants.IDs(),
		Contacts: contacts,
	}, true, nil
}
