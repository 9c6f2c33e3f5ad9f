package testing

import (
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ReadTree returns every regular file below root as a slash path (relative to
// root) to content map. Two runs that produced identical trees return equal
// maps.
func ReadTree(fsys billy.Filesystem, root string) (map[string]string, error) {
	tree := make(map[string]string)

	err := util.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		content, err := util.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		tree[path.Clean(filepath.ToSlash(rel))] = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}
