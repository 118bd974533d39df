// Package ls implements the ls command.
package ls

import (
	"bufio"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

// Options holds ls command options.
type Options struct {
	All        bool // -a: show hidden files, . and ..
	AlmostAll  bool // -A: show hidden except . and ..
	Long       bool // -l: long format
	Human      bool // -h: human-readable sizes
	OnePerLine bool // -1: one entry per line
	Recursive  bool // -R: recursive listing
	Reverse    bool // -r: reverse sort order
	SortTime   bool // -t: sort by modification time
	SortSize   bool // -S: sort by size
	NoSort     bool // -f: do not sort
	Classify   bool // -F: append / to directories
	DirSlash   bool // -p: append / to directories
	ShowBlocks bool // -s: show allocated blocks
	Directory  bool // -d: list directories themselves
}

type entry struct {
	name string
	path vfs.Path
	meta vfs.Metadata
}

// Run lists directory contents.
//
// Supported flags:
//
//	-a    Show all entries including . and ..
//	-A    Show all except . and ..
//	-l    Use long listing format
//	-h    Human-readable sizes (with -l)
//	-1    One entry per line
//	-R    List directories recursively
//	-r    Reverse sort order
//	-t    Sort by modification time
//	-S    Sort by file size
//	-f    Do not sort (implies -a)
//	-F    Append / to directories
//	-p    Append / to directories
//	-s    Print allocated size of each file in blocks
//	-d    List directories, not their contents
func Run(p *core.Process) (core.ExitCode, error) {
	var opts Options
	paths, code := core.ParseBoolFlags(p, "ls", p.Args[1:], map[byte]*bool{
		'a': &opts.All,
		'A': &opts.AlmostAll,
		'l': &opts.Long,
		'h': &opts.Human,
		'1': &opts.OnePerLine,
		'R': &opts.Recursive,
		'r': &opts.Reverse,
		't': &opts.SortTime,
		'S': &opts.SortSize,
		'f': &opts.NoSort,
		'F': &opts.Classify,
		'p': &opts.DirSlash,
		's': &opts.ShowBlocks,
		'd': &opts.Directory,
	}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if opts.NoSort {
		opts.All = true
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	if !opts.Long && !opts.OnePerLine {
		isTerm, _ := p.Stdout.IsTerminal()
		opts.OnePerLine = !isTerm
	}

	l := &lister{p: p, opts: &opts, w: bufio.NewWriter(p.Stdout), user: p.Getenv("USER")}
	if l.user == "" {
		l.user = "root"
	}

	exitCode := core.ExitSuccess
	var files []entry
	var dirs []entry
	for _, name := range paths {
		path := p.Path(name)
		meta, err := path.Metadata()
		if err != nil {
			l.flush()
			p.Errorf("ls: cannot access '%s': %v\n", name, core.Cause(err))
			exitCode = core.ExitFailure
			continue
		}
		e := entry{name: name, path: path, meta: meta}
		if meta.IsDir() && !opts.Directory {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	l.sort(files)
	l.printEntries(files)
	l.sort(dirs)
	header := len(paths) > 1 || opts.Recursive
	for i, d := range dirs {
		if i > 0 || len(files) > 0 {
			l.w.WriteString("\n")
		}
		if err := l.listDir(d, header); err != nil {
			exitCode = core.ExitFailure
		}
	}
	if err := l.w.Flush(); err != nil {
		return core.ExitFailure, err
	}
	return exitCode, nil
}

type lister struct {
	p    *core.Process
	opts *Options
	w    *bufio.Writer
	user string
}

func (l *lister) flush() { _ = l.w.Flush() }

func (l *lister) listDir(d entry, header bool) error {
	if header {
		fmt.Fprintf(l.w, "%s:\n", d.name)
	}
	children, err := d.path.ReadDir()
	if err != nil {
		l.flush()
		l.p.Errorf("ls: cannot open directory '%s': %v\n", d.name, core.Cause(err))
		return err
	}

	var entries []entry
	if l.opts.All {
		for _, dot := range []struct {
			name string
			path vfs.Path
		}{{".", d.path}, {"..", d.path.Parent()}} {
			if meta, err := dot.path.Metadata(); err == nil {
				entries = append(entries, entry{name: dot.name, path: dot.path, meta: meta})
			}
		}
	}
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, ".") && !l.opts.All && !l.opts.AlmostAll {
			continue
		}
		meta, err := child.Metadata()
		if err != nil {
			continue
		}
		entries = append(entries, entry{name: name, path: child, meta: meta})
	}

	l.sort(entries)
	if l.opts.Long || l.opts.ShowBlocks {
		var total int64
		for _, e := range entries {
			total += blocks(e.meta)
		}
		fmt.Fprintf(l.w, "total %d\n", total)
	}
	l.printEntries(entries)

	if l.opts.Recursive {
		for _, e := range entries {
			if !e.meta.IsDir() || e.name == "." || e.name == ".." {
				continue
			}
			sub := entry{name: strings.TrimSuffix(d.name, "/") + "/" + e.name, path: e.path, meta: e.meta}
			l.w.WriteString("\n")
			if err := l.listDir(sub, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *lister) sort(entries []entry) {
	if l.opts.NoSort {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less bool
		switch {
		case l.opts.SortTime && !a.meta.ModTime.Equal(b.meta.ModTime):
			less = a.meta.ModTime.After(b.meta.ModTime)
		case l.opts.SortSize && a.meta.Len != b.meta.Len:
			less = a.meta.Len > b.meta.Len
		default:
			less = a.name < b.name
		}
		if l.opts.Reverse {
			return !less
		}
		return less
	})
}

func (l *lister) printEntries(entries []entry) {
	if len(entries) == 0 {
		return
	}
	if !l.opts.Long && !l.opts.OnePerLine {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = l.prefix(e) + e.name + l.suffix(e)
		}
		l.w.WriteString(strings.Join(names, "  ") + "\n")
		return
	}
	for _, e := range entries {
		l.w.WriteString(l.prefix(e))
		if l.opts.Long {
			size := fmt.Sprintf("%d", e.meta.Len)
			if l.opts.Human {
				size = humanSize(e.meta.Len)
			}
			fmt.Fprintf(l.w, "%s %2d %-8s %-8s %8s %s ", mode(e.meta), 1, l.user, l.user, size, formatTime(e.meta.ModTime))
		}
		l.w.WriteString(e.name + l.suffix(e) + "\n")
	}
}

func (l *lister) prefix(e entry) string {
	if l.opts.ShowBlocks {
		return fmt.Sprintf("%6d ", blocks(e.meta))
	}
	return ""
}

func (l *lister) suffix(e entry) string {
	if (l.opts.Classify || l.opts.DirSlash) && e.meta.IsDir() {
		return "/"
	}
	return ""
}

func mode(m vfs.Metadata) string {
	if m.IsDir() {
		return "drwxr-xr-x"
	}
	return "-rw-r--r--"
}

func formatTime(t time.Time) string {
	now := time.Now()
	sixMonthsAgo := now.AddDate(0, -6, 0)
	if t.Before(sixMonthsAgo) || t.After(now.AddDate(0, 0, 1)) {
		return t.Format("Jan _2  2006")
	}
	return t.Format("Jan _2 15:04")
}

// blocks estimates 1K blocks from the size in 4K allocation units.
func blocks(m vfs.Metadata) int64 {
	return (m.Len + 4095) / 4096 * 4
}

func humanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(size)/float64(div), "KMGTPE"[exp])
}
