package plots

import (
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func Filter[T any](slice []T, predicate func(T) bool) []T {
	filtered := make([]T, 0, len(slice))
	for _, elem := range slice {
		if predicate(elem) {
			filtered = append(filtered, elem)
		}
	}
	return filtered
}

func Min[T Number](a T, b T) T {
	if a > b {
		return b
	}

	return a
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Opens a file or URL with the platform's default application. When wait is
// true, blocks until the spawned viewer exits.
func openExternal(target string, wait bool, logger logrus.FieldLogger) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
		if wait {
			args = append(args, "/wait")
		}
	case "darwin":
		cmd = "open"
		if wait {
			args = append(args, "-W")
		}
	default: // "linux", "freebsd", "openbsd", "netbsd"
		cmd = "xdg-open"
	}
	args = append(args, target)

	command := exec.Command(cmd, args...)
	var err error
	if wait {
		err = command.Run()
	} else {
		err = command.Start()
	}
	if err != nil {
		logger.WithError(err).Warn("failed to open external viewer")
	}
}
