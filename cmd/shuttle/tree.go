package main

import (
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/xlab/treeprint"
)

// outputTree renders the files below dir as a tree, directories first.
func outputTree(dir string) (string, error) {
	tree := treeprint.NewWithRoot(dir)
	if err := addEntries(osfs.New(dir), ".", tree); err != nil {
		return "", err
	}
	return tree.String(), nil
}

func addEntries(fs billy.Filesystem, dir string, tree treeprint.Tree) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if !entry.IsDir() {
			tree.AddMetaNode(entry.Size(), entry.Name())
			continue
		}
		branch := tree.AddBranch(entry.Name())
		if err := addEntries(fs, fs.Join(dir, entry.Name()), branch); err != nil {
			return err
		}
	}
	return nil
}
