// Package retrieve walks a printer's FSP archive tree and saves every
// document/signature file it finds through a storage.Sink.
//
// The walk is built around an Orchestrator type holding the scan
// progress, with the subtree-started flag threaded through the
// recursive walk as an explicit parameter rather than shared state.
package retrieve

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/czajorlukasz/fiskread/fspclient"
	"github.com/czajorlukasz/fiskread/fsperr"
	"github.com/czajorlukasz/fiskread/internal/xlog"
	"github.com/czajorlukasz/fiskread/medium"
	"github.com/czajorlukasz/fiskread/packet"
	"github.com/czajorlukasz/fiskread/record"
	"github.com/czajorlukasz/fiskread/storage"
)

// DefaultStartDir is the archive subtree fiskread scans when Config.StartDir
// is empty; the document tree itself lives under StartDir+"/DOC".
const DefaultStartDir = "EJ0"

// DefaultPageSize is the directory listing preferred_size hint used when
// Config.PageSize is zero.
const DefaultPageSize = 4096

var binName = regexp.MustCompile(`(?i)^[0-9]{8}\.bin$`)

// Config configures one retrieval run.
type Config struct {
	// StartDir is the archive root, e.g. "EJ0". The document tree is
	// StartDir+"/DOC".
	StartDir string
	// StartIndex, if non-nil, skips document numbers below it. Run then
	// visits only the CC directories from the start index onward, in
	// jumps of 100 (runFromStartIndex), instead of walking the whole tree.
	StartIndex *int
	// PageSize is the preferred_size hint sent with ListDirectory.
	PageSize uint16
}

func (c Config) startDir() string {
	if c.StartDir == "" {
		return DefaultStartDir
	}
	return c.StartDir
}

func (c Config) pageSize() uint16 {
	if c.PageSize == 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// Stats summarizes one Run.
type Stats struct {
	Found   int // candidate .BIN/.SIG files read (excludes Skipped)
	Skipped int // files skipped by the start-index filter
	Saved   int // files successfully written to the sink
}

// Orchestrator drives one Client against one Sink.
type Orchestrator struct {
	client *fspclient.Client
	sink   *storage.Sink
	cfg    Config
	log    *xlog.Logger
	stats  Stats
}

// New returns an Orchestrator. sink.DevicePrefix is overwritten by Run
// once medium.dat has been decoded; its LocationID and Root must already
// be set by the caller.
func New(client *fspclient.Client, sink *storage.Sink, cfg Config, log *xlog.Logger) *Orchestrator {
	if log == nil {
		log = xlog.Default()
	}
	return &Orchestrator{client: client, sink: sink, cfg: cfg, log: log}
}

// Run decodes medium.dat to confirm the device is fiscalized, then walks
// the archive tree saving every document/signature file found. It returns
// the final Stats regardless of whether the walk completed cleanly.
func (o *Orchestrator) Run(ctx context.Context) (Stats, error) {
	mediumPath := path.Join(o.cfg.startDir(), "medium.dat")
	data, err := o.readFile(ctx, mediumPath)
	if err != nil {
		return o.stats, err
	}
	info, err := medium.Decode(data)
	if err != nil {
		return o.stats, err
	}
	if info.DevicePrefix == "" {
		return o.stats, fsperr.New(fsperr.KindConfig, "retrieve.Run", mediumPath, errUnfiscalized)
	}
	o.sink.DevicePrefix = info.DevicePrefix
	o.log.V(1, "medium.dat: prefix=%s model=%s", info.DevicePrefix, info.Model())

	docRoot := path.Join(o.cfg.startDir(), "DOC")

	if o.cfg.StartIndex != nil {
		return o.stats, o.runFromStartIndex(ctx, docRoot, *o.cfg.StartIndex)
	}
	return o.stats, o.walk(ctx, docRoot, docRoot, nil, nil)
}

// ProbePublicKey reads EJ0/KEY.DER and returns its length, without
// interpreting its contents.
func (o *Orchestrator) ProbePublicKey(ctx context.Context) (int, error) {
	data, err := o.readFile(ctx, path.Join(o.cfg.startDir(), "KEY.DER"))
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

type staticError string

func (e staticError) Error() string { return string(e) }

const errUnfiscalized = staticError("device is not fiscalized: medium.dat has no device prefix")

// walk recursively lists dir, recursing into subdirectories and saving
// matching files. docRoot anchors the numeric-triple comparison used by
// the subtreeStart subtree filter; subtreeStart is nil once no subtree
// filtering applies (either no start index, or this call is past the
// boundary). startIndex, independently, is non-nil whenever a start index
// was configured at all, and gates the per-file numeric-stem filter
// within whatever directory is ultimately walked.
//
// A subdirectory that fails to list, or whose own walk otherwise fails,
// is logged and skipped — its siblings still get visited. Only the
// top-level call (from Run or runFromStartIndex) propagates an error, and
// only a context cancellation is ever returned from a recursive call.
func (o *Orchestrator) walk(ctx context.Context, dir, docRoot string, subtreeStart []int, startIndex *int) error {
	if err := ctx.Err(); err != nil {
		o.client.Farewell(ctx)
		return err
	}
	o.log.V(2, "scanning %s", dir)

	entries, err := o.listDirectoryFull(ctx, dir)
	if err != nil {
		return err
	}

	started := subtreeStart == nil
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			o.client.Farewell(ctx)
			return err
		}
		childPath := dir + "/" + e.Name

		if e.Type == packet.EntryTypeDir {
			childSubtreeStart := subtreeStart
			if !started {
				comp := numericTriple(relParts(dir, docRoot, e.Name))
				switch compareTriples(comp, subtreeStart) {
				case -1:
					continue // subtree strictly before the start index
				case 1:
					started = true
					childSubtreeStart = nil
				}
			}
			if err := o.walk(ctx, childPath, docRoot, childSubtreeStart, startIndex); err != nil {
				if ctx.Err() != nil {
					return err
				}
				o.log.V(1, "%s: %v", childPath, err)
				continue
			}
			continue
		}

		if !isCandidateFile(e.Name) {
			continue
		}
		if startIndex != nil {
			if num, ok := numericStem(e.Name); ok && num < *startIndex {
				o.stats.Skipped++
				continue
			}
		}
		if err := o.processFile(ctx, childPath); err != nil {
			return err
		}
	}
	return nil
}

// runFromStartIndex iterates the CC leaf directory for startIndex and its
// successors in jumps of 100, stopping once a directory yields no new
// files. This avoids walking every ancestor directory above the start
// index.
func (o *Orchestrator) runFromStartIndex(ctx context.Context, docRoot string, startIndex int) error {
	current := startIndex
	for {
		if err := ctx.Err(); err != nil {
			o.client.Farewell(ctx)
			return err
		}
		a, bb, cc := triple(current)
		target := fmt.Sprintf("%s/%d/%02d/%02d", docRoot, a, bb, cc)
		before := o.stats.Found
		if err := o.walk(ctx, target, docRoot, nil, &startIndex); err != nil {
			if ctx.Err() != nil {
				return err
			}
			// A CC directory that cannot be listed yields no new files,
			// which ends the loop.
			o.log.V(1, "%s: %v", target, err)
			return nil
		}
		if o.stats.Found == before {
			return nil
		}
		current += 100
	}
}

func (o *Orchestrator) processFile(ctx context.Context, remotePath string) error {
	o.stats.Found++
	data, err := o.readFile(ctx, remotePath)
	if err != nil {
		o.log.V(1, "%s: %v", remotePath, err)
		return nil
	}
	if strings.EqualFold(path.Ext(remotePath), ".bin") {
		if dt, ok := record.SniffDocType(data); ok {
			o.log.V(1, "%s: doc_type=0x%02X", remotePath, dt)
		}
	}
	meta, err := o.sink.Save(remotePath, data)
	if err != nil {
		o.log.V(1, "%s: save failed: %v", remotePath, err)
		return nil
	}
	o.stats.Saved++
	o.log.V(1, "%s -> %s (sha256:%s)", remotePath, meta.SavedPath, meta.SHA256)
	return nil
}

// listDirectoryFull pages through ListDirectory until end_reached or an
// empty page.
func (o *Orchestrator) listDirectoryFull(ctx context.Context, dir string) ([]packet.DirEntry, error) {
	var all []packet.DirEntry
	var position uint32
	for {
		entries, endReached, err := o.client.ListDirectory(ctx, dir, position, o.cfg.pageSize())
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			break
		}
		all = append(all, entries...)
		if endReached {
			break
		}
		position += uint32(len(entries))
	}
	return all, nil
}

// readFile reads the full contents of remotePath.
func (o *Orchestrator) readFile(ctx context.Context, remotePath string) ([]byte, error) {
	return o.client.ReadFile(ctx, remotePath)
}

func isCandidateFile(name string) bool {
	return binName.MatchString(name) || strings.HasSuffix(strings.ToUpper(name), ".SIG")
}

func numericStem(name string) (int, bool) {
	stem := name
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	n, err := strconv.Atoi(stem)
	if err != nil {
		return 0, false
	}
	return n, true
}

// triple computes the (A, BB, CC) archive subtree coordinates for a
// document index.
func triple(index int) (a, bb, cc int) {
	a = index / 1000000
	bb = (index / 10000) % 100
	cc = (index / 100) % 100
	return
}

// numericTriple parses parts (a prefix of the A/BB/CC path, one to three
// components deep) into integers. It does not pad to length 3: a
// not-yet-known deeper component must never be compared against, since it
// is neither before nor after the start boundary — only equal-so-far.
func numericTriple(parts []string) []int {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = -1
		}
		out[i] = n
	}
	return out
}

// relParts returns dir's path components relative to docRoot, plus child,
// as the prospective subtree-comparison vector.
func relParts(dir, docRoot, child string) []string {
	var rel []string
	if dir != docRoot {
		trimmed := strings.TrimPrefix(dir, docRoot+"/")
		if trimmed != "" {
			rel = strings.Split(trimmed, "/")
		}
	}
	return append(rel, child)
}

// compareTriples lexicographically compares a's known-depth prefix
// against b, returning -1, 0 or 1. When a is shorter than b (the walk
// hasn't descended far enough to know every component yet), only the
// components both sides have are compared; matching so far is reported
// as 0 rather than treating the unknown remainder as smaller.
func compareTriples(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
