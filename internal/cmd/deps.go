package cmd

import (
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/clear-code/cutter-doc/internal/config"
)

var (
	envGet        = os.Getenv
	loadDotEnv    = config.LoadEnv
	newFilesystem = func(root string) billy.Filesystem {
		return osfs.New(root)
	}
)
