// Package vault wraps a note vault (a directory tree of Markdown files)
// behind an afero filesystem, providing the path resolution, enumeration,
// and disambiguation policies shared by every tool.
package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Vault provides access to a note vault rooted at the filesystem root.
type Vault struct {
	fs     afero.Fs
	logger *slog.Logger
}

// New creates a vault over the given filesystem.
func New(fs afero.Fs, logger *slog.Logger) *Vault {
	if logger == nil {
		logger = slog.Default()
	}
	return &Vault{fs: fs, logger: logger}
}

// Fs exposes the underlying filesystem for direct reads and writes.
func (v *Vault) Fs() afero.Fs {
	return v.fs
}

// Entry is one enumerated vault item.
type Entry struct {
	Path  string
	IsDir bool
}

// Walk enumerates the vault in lexical order, skipping hidden entries. This
// order defines the tie-break for every fuzzy lookup.
func (v *Vault) Walk() ([]Entry, error) {
	var entries []Entry
	err := afero.Walk(v.fs, "", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		path = filepath.ToSlash(path)
		if path == "" || path == "." {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		entries = append(entries, Entry{Path: path, IsDir: info.IsDir()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Resolve finds a note (isNote true) or folder by name. An exact path match
// wins unconditionally; otherwise the first case-insensitive substring match
// in enumeration order is returned. No ranking beyond first match: callers
// must not rely on a specific result when several candidates qualify.
func (v *Vault) Resolve(name string, isNote bool) (string, bool) {
	name = Sanitize(name)
	if name == "" {
		return "", false
	}
	entries, err := v.Walk()
	if err != nil {
		v.logger.Warn("vault walk failed during resolve", "error", err)
		return "", false
	}
	for _, e := range entries {
		if e.IsDir == isNote {
			continue
		}
		if e.Path == name {
			return e.Path, true
		}
	}
	lower := strings.ToLower(name)
	for _, e := range entries {
		if e.IsDir == isNote {
			continue
		}
		if strings.Contains(strings.ToLower(e.Path), lower) {
			return e.Path, true
		}
	}
	return "", false
}

// ResolveNote resolves a note by exact path or substring match.
func (v *Vault) ResolveNote(name string) (string, bool) {
	if !strings.Contains(name, ".") {
		if path, ok := v.Resolve(name+".md", true); ok {
			return path, true
		}
	}
	return v.Resolve(name, true)
}

// ResolveFolder resolves a folder by exact path or substring match. The
// empty string resolves to the vault root.
func (v *Vault) ResolveFolder(name string) (string, bool) {
	if Sanitize(name) == "" {
		return "", true
	}
	return v.Resolve(name, false)
}

// Sanitize normalizes a vault-relative path: backslashes become slashes,
// `..` segments are stripped, duplicate slashes collapse, and leading and
// trailing slashes are trimmed.
func Sanitize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	parts := strings.Split(path, "/")
	var kept []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}

var numberSuffixRe = regexp.MustCompile(`^(.*) \((\d+)\)$`)

// UniquePath returns path unchanged when free, otherwise appends a numeric
// " (k)" suffix before the extension, trying successive k until a free slot
// is found. A name already carrying a suffix continues counting from it.
func (v *Vault) UniquePath(path string) (string, error) {
	exists, err := afero.Exists(v.fs, path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !exists {
		return path, nil
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	start := 1
	if m := numberSuffixRe.FindStringSubmatch(stem); m != nil {
		stem = m[1]
		fmt.Sscanf(m[2], "%d", &start)
		start++
	}
	for k := start; ; k++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, k, ext)
		exists, err := afero.Exists(v.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// Structure renders the vault's folder tree as indented text for the agent
// system prompt, bounded to keep the prompt small.
func (v *Vault) Structure(maxEntries int) string {
	entries, err := v.Walk()
	if err != nil {
		return "(vault unavailable)"
	}
	if maxEntries <= 0 {
		maxEntries = 200
	}
	var b strings.Builder
	count := 0
	for _, e := range entries {
		if count >= maxEntries {
			b.WriteString("...\n")
			break
		}
		depth := strings.Count(e.Path, "/")
		b.WriteString(strings.Repeat("  ", depth))
		name := filepath.Base(e.Path)
		if e.IsDir {
			b.WriteString(name + "/")
		} else {
			b.WriteString(name)
		}
		b.WriteString("\n")
		count++
	}
	if b.Len() == 0 {
		return "(empty vault)"
	}
	return b.String()
}

// Tree lists the children of dir up to maxDepth levels below it and at most
// limit entries, in enumeration order.
func (v *Vault) Tree(dir string, maxDepth, limit int) ([]Entry, error) {
	dir = Sanitize(dir)
	entries, err := v.Walk()
	if err != nil {
		return nil, err
	}
	if maxDepth <= 0 {
		maxDepth = 2
	}
	if limit <= 0 {
		limit = 100
	}
	baseDepth := 0
	prefix := ""
	if dir != "" {
		baseDepth = strings.Count(dir, "/") + 1
		prefix = dir + "/"
	}
	var out []Entry
	for _, e := range entries {
		if dir != "" && !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		if strings.Count(e.Path, "/")-baseDepth >= maxDepth {
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
