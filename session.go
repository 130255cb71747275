package plots

import (
	"os"
	"path/filepath"
	"strings"
)

// Session carries the per-run state shared between reader and writers, most
// importantly the input file currently being processed. Writers use it to
// expand placeholders in their output paths.
type Session struct {
	CurrentInput string
}

func NewSession() *Session {
	return &Session{}
}

// ExpandPlaceholders substitutes the supported placeholders in a path:
//
//	{HOME}         the user's home directory
//	{CWD}          the current working directory
//	{TMP}          the temp directory
//	{INPUT_PATH}   the full path of the current input file
//	{INPUT_DIR}    the directory of the current input file
//	{INPUT_NAME}   the name of the current input file
//	{INPUT_NOEXT}  the name of the current input file, extension stripped
//
// Unknown placeholders are left untouched.
func (s *Session) ExpandPlaceholders(path string) string {
	if !strings.Contains(path, "{") {
		return path
	}

	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()

	name := filepath.Base(s.CurrentInput)
	noExt := strings.TrimSuffix(name, filepath.Ext(name))

	replacer := strings.NewReplacer(
		"{HOME}", home,
		"{CWD}", cwd,
		"{TMP}", os.TempDir(),
		"{INPUT_PATH}", s.CurrentInput,
		"{INPUT_DIR}", filepath.Dir(s.CurrentInput),
		"{INPUT_NAME}", name,
		"{INPUT_NOEXT}", noExt,
	)
	return replacer.Replace(path)
}
