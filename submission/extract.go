package submission

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Canvas encodes nested archives as [last][first]_[id]_[id]_[original_name].ext.
// Capture 1 is the student identifier, capture 2 the original filename stem.
var submissionName = regexp.MustCompile(`^(\w+_\w*_\d+\d+)_(.+)\.`)

// ExtractOptions controls how UnpackBulk names and cleans extracted folders.
type ExtractOptions struct {
	// OriginalName keeps the student's own archive name instead of the
	// Canvas-derived identifier. Unreliable with resubmissions, which
	// Canvas renames on upload.
	OriginalName bool
	Logger       zerolog.Logger
}

// FolderName derives the extraction folder for a bulk archive member.
// Members that do not match the Canvas naming convention keep their raw name.
func FolderName(member string, originalName bool) string {
	m := submissionName.FindStringSubmatch(member)
	if m == nil {
		return member
	}
	if originalName {
		return m[2]
	}
	return m[1]
}

// UnpackBulk extracts every per-student archive inside the Canvas bulk export
// at bulkZip into its own folder under dest. Each extracted folder is swept
// for OS metadata and flattened if the student zipped a single wrapper
// directory. Returns the extracted folder paths in archive order.
func UnpackBulk(bulkZip, dest string, opts ExtractOptions) ([]string, error) {
	zr, err := zip.OpenReader(bulkZip)
	if err != nil {
		return nil, fmt.Errorf("open bulk archive: %w", err)
	}
	defer zr.Close()

	var folders []string
	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		name := FolderName(member.Name, opts.OriginalName)
		opts.Logger.Debug().
			Str("member", member.Name).
			Str("folder", name).
			Msg("Extracting submission")

		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("open member %s: %w", member.Name, err)
		}
		buf, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read member %s: %w", member.Name, err)
		}

		inner, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
		if err != nil {
			return nil, fmt.Errorf("submission %s is not a valid archive: %w", member.Name, err)
		}

		target := filepath.Join(dest, name)
		if err := extractAll(inner, target); err != nil {
			return nil, fmt.Errorf("extract %s: %w", member.Name, err)
		}
		if err := CleanupMetadata(target); err != nil {
			return nil, err
		}
		if err := FlattenSingleDir(target); err != nil {
			return nil, err
		}
		folders = append(folders, target)
	}
	return folders, nil
}

// extractAll writes every member of zr below dest, rejecting paths that would
// land outside it.
func extractAll(zr *zip.Reader, dest string) error {
	for _, f := range zr.File {
		path, err := memberPath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.Create(path)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		out.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// memberPath joins a member name onto dest and rejects zip-slip escapes.
func memberPath(dest, name string) (string, error) {
	path := filepath.Join(dest, filepath.FromSlash(name))
	if path != dest && !strings.HasPrefix(path, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return path, nil
}

// CleanupMetadata removes __MACOSX folders and .DS_Store files below root.
func CleanupMetadata(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == "__MACOSX" {
			if err := os.RemoveAll(path); err != nil {
				return err
			}
			return filepath.SkipDir
		}
		if !d.IsDir() && d.Name() == ".DS_Store" {
			return os.Remove(path)
		}
		return nil
	})
}

// FlattenSingleDir hoists the contents of dir's sole subdirectory one level
// up. Students commonly zip a wrapper folder rather than the files themselves;
// flattening keeps the per-student layout uniform for staging.
func FlattenSingleDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}
	inner := filepath.Join(dir, entries[0].Name())
	children, err := os.ReadDir(inner)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := os.Rename(filepath.Join(inner, c.Name()), filepath.Join(dir, c.Name())); err != nil {
			return err
		}
	}
	return os.Remove(inner)
}
