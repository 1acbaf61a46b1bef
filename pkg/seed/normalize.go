package seed

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
	"gopkg.in/yaml.v3"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// NormalizeFile rewrites a JSON or YAML data file in place with every skill
// normalized. It returns how many skills changed. The file is held locked
// while it is rewritten.
func NormalizeFile(path string) (int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return 0, errors.Errorf("normalize supports JSON and YAML files, got %s", path)
	}

	changed := 0
	err := lockedfile.Transform(path, func(content []byte) ([]byte, error) {
		var (
			skills []catalog.Skill
			err    error
		)
		if ext == ".json" {
			skills, err = decodeJSON(content)
		} else {
			skills, err = decodeYAML(content)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", path)
		}

		skills, changed = catalog.NormalizeAll(skills)
		if changed == 0 {
			return content, nil
		}
		if ext == ".json" {
			return encodeJSON(skills)
		}
		return encodeYAML(skills)
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func encodeJSON(skills []catalog.Skill) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(skills); err != nil {
		return nil, errors.Wrap(err, "failed to encode skills")
	}
	return buf.Bytes(), nil
}

func encodeYAML(skills []catalog.Skill) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(skills); err != nil {
		return nil, errors.Wrap(err, "failed to encode skills")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode skills")
	}
	return buf.Bytes(), nil
}

// ValidateFiles loads every file and validates its skills, including
// duplicate slugs across files. Load failures are reported alongside
// validation problems.
func ValidateFiles(paths []string) (int, error) {
	files, err := Expand(paths)
	if err != nil {
		return 0, err
	}

	var all []catalog.Skill
	var loadErrs []error
	for _, f := range files {
		skills, err := LoadFile(f)
		if err != nil {
			loadErrs = append(loadErrs, err)
			continue
		}
		all = append(all, skills...)
	}

	validationErr := catalog.ValidateAll(all)
	if len(loadErrs) == 0 {
		return len(all), validationErr
	}
	return len(all), appendErrors(validationErr, loadErrs...)
}
