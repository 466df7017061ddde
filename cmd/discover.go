package cmd

import (
	"io/fs"
	"path/filepath"
	"strings"

	"nestml/pipeline"
	"nestml/report"
)

// discoverUnits walks root for `.nestml` files and derives each one's
// package/artifact name relative to root, per spec §6's naming rule:
// `ROOT/a/b/c.nestml` -> package_name "a.b", artifact_name "c". A file
// outside root falls back to treating its whole stem as both, per spec
// §9's open-question resolution.
func discoverUnits(root, modName string) ([]pipeline.Unit, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".nestml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	units := make([]pipeline.Unit, 0, len(files))
	for _, f := range files {
		pkg, artifact := deriveNames(root, f)
		units = append(units, pipeline.Unit{
			FilePath: f,
			Context: &report.CompilationContext{
				ModName:      modName,
				FilePath:     f,
				ReprPath:     reprPath(root, f),
				PackageName:  pkg,
				ArtifactName: artifact,
			},
		})
	}
	return units, nil
}

// deriveNames implements spec §6's package/artifact naming rule.
func deriveNames(root, file string) (pkg, artifact string) {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		stem := strings.TrimSuffix(filepath.Base(file), ".nestml")
		return stem, stem
	}

	rel = strings.TrimSuffix(rel, ".nestml")
	parts := strings.Split(filepath.ToSlash(rel), "/")

	artifact = parts[len(parts)-1]
	pkg = strings.Join(parts[:len(parts)-1], ".")
	return pkg, artifact
}

func reprPath(root, file string) string {
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return file
}
