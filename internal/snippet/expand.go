// Package snippet expands RD snippets embedded in DocBook XML files.
package snippet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/clear-code/cutter-doc/internal/logging"
)

// DefaultStampName is touched next to the XML directory after a change.
const DefaultStampName = "sgml.stamp"

var snippetPattern = regexp.MustCompile(`(?s)<para>\s*<rd>\s*(.+?)\s*</rd>\s*</para>`)

// RenderFunc renders one snippet body.
type RenderFunc func(body string) (string, error)

// Expander rewrites the XML files of one directory.
type Expander struct {
	FS        billy.Filesystem
	Dir       string
	StampName string
	Render    RenderFunc
	// DryRun reports what would change without writing anything.
	DryRun bool
	Logger *slog.Logger

	now func() time.Time
}

// FileResult describes one processed file.
type FileResult struct {
	File     string `json:"file" yaml:"file"`
	Snippets int    `json:"snippets" yaml:"snippets"`
	Changed  bool   `json:"changed" yaml:"changed"`
}

// Result summarizes an expansion run.
type Result struct {
	Files   []FileResult `json:"files" yaml:"files" output:"list"`
	Changed bool         `json:"changed" yaml:"changed"`
	Stamp   string       `json:"stamp,omitempty" yaml:"stamp,omitempty"`
}

// Run expands every snippet in the *.xml files of Dir.
func (e *Expander) Run(ctx context.Context) (*Result, error) {
	if e.FS == nil {
		return nil, fmt.Errorf("no filesystem configured")
	}
	if e.Render == nil {
		return nil, fmt.Errorf("no snippet renderer configured")
	}
	logger := e.logger()

	files, err := xmlFiles(e.FS, e.Dir)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileResult, 0, len(files))}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := util.ReadFile(e.FS, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		expanded, count, err := Expand(string(data), e.Render)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", name, err)
		}

		changed := expanded != string(data)
		result.Files = append(result.Files, FileResult{File: name, Snippets: count, Changed: changed})
		logger.Debug("processed file", "file", name, "snippets", count, "changed", changed)
		if !changed {
			continue
		}
		result.Changed = true
		if e.DryRun {
			continue
		}

		perm := os.FileMode(0o644)
		if info, err := e.FS.Stat(name); err == nil {
			perm = info.Mode().Perm()
		}
		if err := util.WriteFile(e.FS, name, []byte(expanded), perm); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		logger.Info("expanded snippets", "file", name, "snippets", count)
	}

	if result.Changed {
		result.Stamp = e.stampPath()
		if !e.DryRun {
			if err := touch(e.FS, result.Stamp, e.clock()); err != nil {
				return nil, fmt.Errorf("touching %s: %w", result.Stamp, err)
			}
			logger.Debug("touched stamp", "stamp", result.Stamp)
		}
	}
	return result, nil
}

// Expand replaces every <para><rd>...</rd></para> block in content with
// its rendering and returns the number of snippets found.
func Expand(content string, render RenderFunc) (string, int, error) {
	matches := snippetPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		body := content[m[2]:m[3]]
		rendered, err := render(body)
		if err != nil {
			line := 1 + strings.Count(content[:m[0]], "\n")
			return "", 0, fmt.Errorf("snippet at line %d: %w", line, err)
		}
		b.WriteString(content[last:m[0]])
		b.WriteString(rendered)
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String(), len(matches), nil
}

func (e *Expander) stampPath() string {
	name := e.StampName
	if name == "" {
		name = DefaultStampName
	}
	return path.Join(path.Dir(path.Clean(e.Dir)), name)
}

func (e *Expander) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

func (e *Expander) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.Discard()
}

func xmlFiles(fs billy.Filesystem, dir string) ([]string, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		files = append(files, fs.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// touch creates name or bumps its modification time.
func touch(fs billy.Filesystem, name string, now time.Time) error {
	if ch, ok := fs.(billy.Change); ok {
		f, err := fs.OpenFile(name, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		return ch.Chtimes(name, now, now)
	}

	// Without billy.Change rewriting the content is the only way to move
	// the modification time.
	data, err := util.ReadFile(fs, name)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return util.WriteFile(fs, name, data, 0o644)
}
