package submission

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LanguageExtensions maps a language name to the source extensions staged for
// it. Languages without an entry stage every non-excluded file, matching how
// MOSS itself treats unfamiliar input.
var LanguageExtensions = map[string][]string{
	"java":       {".java"},
	"cc":         {".cpp", ".cc", ".cxx", ".h", ".hpp"},
	"cpp":        {".cpp", ".cc", ".cxx", ".h", ".hpp"},
	"c":          {".c", ".h"},
	"python":     {".py"},
	"csharp":     {".cs"},
	"javascript": {".js"},
	"matlab":     {".m"},
	"haskell":    {".hs"},
	"ml":         {".ml", ".mli"},
	"pascal":     {".pas"},
	"perl":       {".pl", ".pm"},
	"prolog":     {".pl"},
	"lisp":       {".lisp", ".cl"},
	"scheme":     {".scm", ".ss"},
	"fortran":    {".f", ".f90", ".f95"},
	"vb":         {".vb"},
	"vhdl":       {".vhd", ".vhdl"},
	"ada":        {".adb", ".ads"},
	"plsql":      {".sql", ".pls"},
	"ascii":      {".txt"},
}

// Containers and rendered documents never carry comparable source text.
var excludedExtensions = map[string]bool{
	".pdf": true,
	".zip": true,
	".jar": true,
	".tar": true,
	".gz":  true,
	".tgz": true,
	".7z":  true,
	".rar": true,
}

// ListFiles walks root and returns the files MOSS should see for language.
// Zero-byte files, PDFs, and archive containers are never returned, even when
// their extension matches the language set.
func ListFiles(root, language string) ([]string, error) {
	exts := LanguageExtensions[strings.ToLower(language)]

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !matchesExtension(path, exts) || Excluded(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// Excluded reports whether a file must never be uploaded regardless of its
// extension matching the staged language.
func Excluded(path string) bool {
	return excludedExtensions[strings.ToLower(filepath.Ext(path))]
}

func matchesExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// ListSubmissionFolders returns the per-student folders directly under root.
func ListSubmissionFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, filepath.Join(root, e.Name()))
		}
	}
	return folders, nil
}
