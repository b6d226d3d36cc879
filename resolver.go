package fat16

import (
	"strings"

	"github.com/aligator/fat16/checkpoint"
)

// tree is the arena holding every entry decoded so far.
// Directories are materialized at most once: dirs maps the first cluster of each
// materialized directory to the arena indices of its children. As "." and ".." entries
// point to already materialized clusters, walking them never decodes anything twice,
// which also keeps cyclic images from recursing forever.
type tree struct {
	entries []FullEntry
	dirs    map[uint16][]int
}

func newTree() *tree {
	return &tree{
		dirs: make(map[uint16][]int),
	}
}

func (t *tree) add(cluster uint16, entries []FullEntry) []int {
	children := make([]int, len(entries))
	for i, e := range entries {
		e.Parent = cluster
		children[i] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	t.dirs[cluster] = children
	return children
}

func (t *tree) collect(children []int) []FullEntry {
	entries := make([]FullEntry, len(children))
	for i, index := range children {
		entries[i] = t.entries[index]
	}
	return entries
}

// Root returns the synthetic entry of the root directory.
func (v *Volume) Root() FullEntry {
	return FullEntry{
		Name:      "/",
		ShortName: "/",
		Attr:      AttrDirectory,
		Cluster:   rootCluster,
	}
}

// Lookup resolves a slash separated path, starting at the root directory.
// Each component matches either the long name or exactly the short name of an entry, case-sensitive.
// Only directories which have to be descended into are decoded.
// An empty path or "/" returns Root().
func (v *Volume) Lookup(path string) (FullEntry, error) {
	current := v.Root()

	for _, name := range splitPath(path) {
		if !current.IsDir() {
			return FullEntry{}, checkpoint.Wrap(&pathError{path: path, name: current.Name}, ErrNotADirectory)
		}

		children, err := v.ReadDir(current)
		if err != nil {
			return FullEntry{}, checkpoint.From(err)
		}

		found := false
		for _, child := range children {
			if child.matches(name) {
				current = child
				found = true
				break
			}
		}
		if !found {
			return FullEntry{}, checkpoint.Wrap(&pathError{path: path, name: name}, ErrNotFound)
		}
	}

	return current, nil
}

// ReadDir returns all entries of the directory dir in on-disk order,
// including volume labels and the "." and ".." entries.
func (v *Volume) ReadDir(dir FullEntry) ([]FullEntry, error) {
	if !dir.IsDir() {
		return nil, checkpoint.Wrap(&pathError{name: dir.Name}, ErrNotADirectory)
	}

	v.lock.RLock()
	if children, ok := v.tree.dirs[dir.Cluster]; ok {
		defer v.lock.RUnlock()
		return v.tree.collect(children), nil
	}
	v.lock.RUnlock()

	v.lock.Lock()
	defer v.lock.Unlock()

	// Another reader may have materialized it in between.
	children, ok := v.tree.dirs[dir.Cluster]
	if !ok {
		var err error
		children, err = v.materialize(dir.Cluster)
		if err != nil {
			return nil, checkpoint.From(err)
		}
	}

	return v.tree.collect(children), nil
}

// materialize reads the whole cluster chain of a directory and decodes its entries.
// The caller has to hold the write lock.
func (v *Volume) materialize(cluster uint16) ([]int, error) {
	chain, err := v.fat.Chain(cluster)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	// raw only grows by clusters actually read, so a long chain on a small image fails early.
	var raw []byte
	buf := make([]byte, v.boot.ClusterSize())
	for _, c := range chain {
		offset, err := v.clusterOffset(c)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		if err := v.readFull(buf, offset); err != nil {
			return nil, checkpoint.From(err)
		}
		raw = append(raw, buf...)
	}

	entries, err := decodeDirectoryRun(raw)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	v.logger.Debug("materialized directory", "cluster", cluster, "clusters", len(chain), "entries", len(entries))

	return v.tree.add(cluster, entries), nil
}

// splitPath returns the non-empty components of path.
func splitPath(path string) []string {
	var components []string
	for _, c := range strings.Split(path, "/") {
		if c != "" {
			components = append(components, c)
		}
	}
	return components
}

// pathError describes which component of a path could not be resolved.
type pathError struct {
	path string
	name string
}

func (e *pathError) Error() string {
	if e.path == "" {
		return e.name
	}
	return e.name + " in " + e.path
}
