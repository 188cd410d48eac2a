package snippet

import (
	"bytes"
	"context"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ScanEntry reports the RD snippets found in one XML file.
type ScanEntry struct {
	File     string `json:"file" yaml:"file"`
	Snippets int    `json:"snippets" yaml:"snippets"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Scan counts the para/rd elements of every *.xml file in dir. Files that
// do not parse are listed with their parse error.
func Scan(ctx context.Context, fs billy.Filesystem, dir string) ([]ScanEntry, error) {
	files, err := xmlFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	entries := make([]ScanEntry, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := util.ReadFile(fs, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		entry := ScanEntry{File: name}
		doc, err := xmlquery.Parse(bytes.NewReader(data))
		if err != nil {
			entry.Error = err.Error()
			entries = append(entries, entry)
			continue
		}
		nodes, err := xmlquery.QueryAll(doc, "//para/rd")
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", name, err)
		}
		entry.Snippets = len(nodes)
		entries = append(entries, entry)
	}
	return entries, nil
}
