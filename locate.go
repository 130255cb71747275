package plots

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocateFiles resolves the configured sources into a concrete, ordered list
// of file paths:
//
//   - sources: file paths; glob syntax is supported, directories are
//     expanded with defaultGlob
//   - sourceLists: text files listing one path per line (blank lines and
//     #-comments are skipped)
//   - resumeFrom: optional glob; all files up to and including the first
//     match are skipped, processing resumes after it
//
// An empty result is an error, as a pipeline without inputs cannot do
// anything useful.
func LocateFiles(sources []string, sourceLists []string, resumeFrom string, defaultGlob string) ([]string, error) {
	var located []string

	for _, source := range sources {
		switch {
		case strings.ContainsAny(source, "*?["):
			matches, err := filepath.Glob(source)
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", source, err)
			}
			sort.Strings(matches)
			located = append(located, matches...)
		case isDir(source):
			matches, err := filepath.Glob(filepath.Join(source, defaultGlob))
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", defaultGlob, err)
			}
			sort.Strings(matches)
			located = append(located, matches...)
		default:
			located = append(located, source)
		}
	}

	for _, sourceList := range sourceLists {
		content, err := os.ReadFile(sourceList)
		if err != nil {
			return nil, fmt.Errorf("failed to read source list %q: %w", sourceList, err)
		}
		lines := strings.Split(string(content), "\n")
		for i := range lines {
			lines[i] = strings.TrimSpace(lines[i])
		}
		lines = Filter(lines, func(line string) bool {
			return len(line) > 0 && !strings.HasPrefix(line, "#")
		})
		located = append(located, lines...)
	}

	if resumeFrom != "" {
		resumeIndex := -1
		for i, path := range located {
			if matchesGlob(resumeFrom, path) {
				resumeIndex = i
				break
			}
		}
		if resumeIndex < 0 {
			return nil, fmt.Errorf("resume_from %q did not match any located file", resumeFrom)
		}
		located = located[resumeIndex+1:]
	}

	if len(located) == 0 {
		return nil, fmt.Errorf("no input files found")
	}

	return located, nil
}

// Matches the pattern against the full path as well as just the file name,
// so both '*/012345.csv' and '012345.csv' work as resume markers. A leading
// '*/' matches any directory depth.
func matchesGlob(pattern string, path string) bool {
	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}
	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	if strings.HasPrefix(pattern, "*/") {
		matched, _ := filepath.Match(pattern[2:], filepath.Base(path))
		return matched
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
