package fsx

// Visitor receives the notifications of a Walker.
//
// Methods:
//   - OnFound: Called once per visited node, directories before their children.
//   - OnError: Called when the entries of a directory could not be listed.
//   - OnCompleted: Called exactly once after the whole tree has been traversed.
type Visitor interface {
	OnFound(path string, isDir bool)
	OnError(path string, message string)
	OnCompleted()
}

// Walker performs a depth-first, pre-order traversal of a directory tree.
// Failures are isolated per directory: a directory that cannot be listed is reported
// through Visitor.OnError and the walk continues with its siblings.
type Walker struct {
	fs      FileSystem
	exclude *PathMatcher
}

// NewWalker initializes and returns a new Walker instance.
//
// Parameters:
//   - fs: The filesystem to traverse.
//   - exclude: Paths to skip, may be nil.
//
// Returns:
//   - A pointer to a new Walker instance.
func NewWalker(fs FileSystem, exclude *PathMatcher) *Walker {
	return &Walker{
		fs:      fs,
		exclude: exclude,
	}
}

// Scan traverses the tree rooted at root and notifies v for every node.
//
// Behavior:
//   - The root is always reported as found first, whether or not it can be listed.
//   - A directory reports itself, then its files, then recurses into each subdirectory.
//   - If the files of a directory cannot be listed, an error is reported for the directory
//     and none of its descendants are visited.
//   - If the subdirectories cannot be listed, an error is reported for the directory; the
//     files already reported stand.
//   - OnCompleted fires once the whole tree is exhausted.
func (w *Walker) Scan(root string, v Visitor) {
	w.walk(root, v)
	v.OnCompleted()
}

func (w *Walker) walk(dir string, v Visitor) {
	v.OnFound(dir, true)

	files, err := w.fs.ListFiles(dir)
	if err != nil {
		v.OnError(dir, err.Error())
		return
	}

	for _, f := range files {
		if w.excluded(f) {
			continue
		}
		v.OnFound(f, false)
	}

	dirs, err := w.fs.ListDirs(dir)
	if err != nil {
		v.OnError(dir, err.Error())
		return
	}

	for _, d := range dirs {
		if w.excluded(d) {
			continue
		}
		w.walk(d, v)
	}
}

func (w *Walker) excluded(path string) bool {
	return w.exclude != nil && w.exclude.Match(path)
}
