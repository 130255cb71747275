package plots

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPlaceholders(t *testing.T) {
	session := NewSession()
	session.CurrentInput = "/data/plots/a.csv"

	t.Run("no placeholders", func(t *testing.T) {
		if got := session.ExpandPlaceholders("/tmp/out.csv"); got != "/tmp/out.csv" {
			t.Fatalf("unexpected expansion: %q", got)
		}
	})

	t.Run("input placeholders", func(t *testing.T) {
		cases := map[string]string{
			"{INPUT_PATH}":           "/data/plots/a.csv",
			"{INPUT_DIR}/out.csv":    "/data/plots/out.csv",
			"{INPUT_NAME}":           "a.csv",
			"/out/{INPUT_NOEXT}.png": "/out/a.png",
		}
		for input, want := range cases {
			if got := session.ExpandPlaceholders(input); got != want {
				t.Fatalf("ExpandPlaceholders(%q) = %q, want %q", input, got, want)
			}
		}
	})

	t.Run("environment placeholders", func(t *testing.T) {
		if got := session.ExpandPlaceholders("{TMP}/out.csv"); got != filepath.Join(os.TempDir(), "out.csv") {
			t.Fatalf("unexpected expansion: %q", got)
		}

		cwd, _ := os.Getwd()
		if got := session.ExpandPlaceholders("{CWD}/out.csv"); got != cwd+"/out.csv" {
			t.Fatalf("unexpected expansion: %q", got)
		}
	})

	t.Run("unknown placeholders are left alone", func(t *testing.T) {
		if got := session.ExpandPlaceholders("{NOPE}/out.csv"); got != "{NOPE}/out.csv" {
			t.Fatalf("unexpected expansion: %q", got)
		}
	})
}
