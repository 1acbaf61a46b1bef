// Package seed loads skill records from data files, normalizes and validates
// them, and inserts them into the catalog store without overwriting existing
// rows.
package seed

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// DefaultPattern matches every supported data file under a directory.
const DefaultPattern = "**/*.{json,yaml,yml,md}"

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".md":
		return true
	}
	return false
}

// LoadFile reads the skills in a single data file. JSON and YAML files hold a
// list of skills; a Markdown file holds one skill in its front matter.
func LoadFile(path string) ([]catalog.Skill, error) {
	content, err := lockedfile.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var skills []catalog.Skill
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		skills, err = decodeJSON(content)
	case ".yaml", ".yml":
		skills, err = decodeYAML(content)
	case ".md":
		var s catalog.Skill
		s, err = decodeMarkdown(content)
		skills = []catalog.Skill{s}
	default:
		return nil, errors.Errorf("unsupported data file: %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return skills, nil
}

// Expand resolves paths into data files. Directories expand to every
// supported file below them; other arguments are doublestar patterns.
func Expand(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case err == nil && info.IsDir():
			matches, err := doublestar.Glob(os.DirFS(p), DefaultPattern)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to glob %s", p)
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(filepath.Join(p, filepath.FromSlash(m)))
			}
		case err == nil:
			add(p)
		default:
			matches, globErr := doublestar.FilepathGlob(p)
			if globErr != nil {
				return nil, errors.Wrapf(globErr, "invalid pattern %s", p)
			}
			if len(matches) == 0 {
				return nil, errors.Wrapf(err, "no data files match %s", p)
			}
			sort.Strings(matches)
			for _, m := range matches {
				if Supported(m) {
					add(m)
				}
			}
		}
	}
	return files, nil
}

// LoadPaths expands paths and loads every file, in order.
func LoadPaths(paths []string) ([]catalog.Skill, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}

	var all []catalog.Skill
	for _, f := range files {
		skills, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, skills...)
	}
	return all, nil
}

func decodeJSON(content []byte) ([]catalog.Skill, error) {
	var skills []catalog.Skill
	if err := json.Unmarshal(content, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func decodeYAML(content []byte) ([]catalog.Skill, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	skills := make([]catalog.Skill, 0, len(raw))
	for i, r := range raw {
		s, err := decodeRecord(r)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		skills = append(skills, s)
	}
	return skills, nil
}

func decodeMarkdown(content []byte) (catalog.Skill, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return catalog.Skill{}, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return catalog.Skill{}, errors.New("missing frontmatter")
	}

	s, err := decodeRecord(metaData)
	if err != nil {
		return catalog.Skill{}, err
	}
	if s.LongDescription == "" {
		s.LongDescription = strings.TrimSpace(bodyContent(string(content)))
	}
	return s, nil
}

// decodeRecord maps a loosely typed record, as produced by YAML parsers, onto a Skill.
func decodeRecord(input any) (catalog.Skill, error) {
	var s catalog.Skill
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &s,
	})
	if err != nil {
		return s, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(input); err != nil {
		return s, err
	}
	return s, nil
}

// bodyContent removes YAML front matter and returns the Markdown body.
func bodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}
