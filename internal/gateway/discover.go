package gateway

import (
	"os"
	"path/filepath"

	"github.com/veidt/termnav/internal/apperr"
)

// CoreBinaryName is the executable name of the external core process.
const CoreBinaryName = "termnav-core"

// EnvCoreBinary names the environment variable that may carry a path to the
// core binary. The composition point reads it and passes the value in;
// discovery itself never touches the environment.
const EnvCoreBinary = "TERMNAV_CORE_BIN"

// DiscoverCoreBinary resolves the core binary path, trying candidates in
// strict priority order:
//
//  1. the explicitly supplied path
//  2. the environment-supplied override
//  3. the bundled copy at <exedir>/../libexec
//  4. the development-tree debug build
//  5. the development-tree release build
//  6. the directory of the running executable
//  7. that directory's parent
//
// The first candidate that exists with an executable bit wins. When none
// resolve the error is apperr.ErrBinaryNotFound and the caller is expected
// to fall back to the in-process gateway rather than retry.
func DiscoverCoreBinary(explicit, envOverride string) (string, error) {
	var candidates []string
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	if envOverride != "" {
		candidates = append(candidates, envOverride)
	}

	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	if exeDir != "" {
		candidates = append(candidates, filepath.Join(exeDir, "..", "libexec", CoreBinaryName))
	}
	candidates = append(candidates,
		filepath.Join("build", "debug", CoreBinaryName),
		filepath.Join("build", "release", CoreBinaryName),
	)
	if exeDir != "" {
		candidates = append(candidates,
			filepath.Join(exeDir, CoreBinaryName),
			filepath.Join(exeDir, "..", CoreBinaryName),
		)
	}

	for _, c := range candidates {
		if isExecutable(c) {
			return c, nil
		}
	}
	return "", apperr.ErrBinaryNotFound
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
