package scaffold

import (
	"errors"
	"io/fs"

	udiff "github.com/aymanbagabas/go-udiff"

	"github.com/arthur-debert/mlskel/pkg/manifest"
	"github.com/arthur-debert/mlskel/pkg/scaffold/filesystem"
)

// ChangeKind classifies how a run would affect a file.
type ChangeKind string

const (
	ChangeCreate    ChangeKind = "create"
	ChangeModify    ChangeKind = "modify"
	ChangeUnchanged ChangeKind = "unchanged"
)

// FileChange describes the effect of a run on one file.
type FileChange struct {
	Path    string
	Kind    ChangeKind
	Unified string
}

// Changes compares the normalized content of every manifest file with what
// base currently holds. Unified is empty for unchanged files.
func Changes(base filesystem.StatFS, m manifest.Manifest) ([]FileChange, error) {
	changes := make([]FileChange, 0, len(m.Files()))
	for _, f := range m.Files() {
		want := Normalize(f.Content)
		have, err := fs.ReadFile(base, f.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			changes = append(changes, FileChange{
				Path:    f.Path,
				Kind:    ChangeCreate,
				Unified: udiff.Unified("/dev/null", "b/"+f.Path, "", want),
			})
		case err != nil:
			return nil, &IOError{Op: "read", Path: f.Path, Err: err}
		case string(have) == want:
			changes = append(changes, FileChange{Path: f.Path, Kind: ChangeUnchanged})
		default:
			changes = append(changes, FileChange{
				Path:    f.Path,
				Kind:    ChangeModify,
				Unified: udiff.Unified("a/"+f.Path, "b/"+f.Path, string(have), want),
			})
		}
	}
	return changes, nil
}
