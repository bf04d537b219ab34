package source

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/oxhq/hypo/internal/herr"
)

// SystemRoot locates and opens the archive backing the running
// platform's standard class library, per spec.md §4.4. Modern JDKs
// (9+) store it as a jrt-fs image rather than a zip, which
// archive/zip cannot read; SystemRoot only succeeds where a classic
// zip-format archive exists (JDK 8's rt.jar, or a "legacy image" build
// produced by jlink --compress none with a retained classes.jar).
type SystemRoot struct {
	*ArchiveRoot
	archivePath string
}

// NewSystemRoot locates the platform class library, preferring
// $JAVA_HOME, then a `java` found on PATH, in that order.
func NewSystemRoot() (*SystemRoot, error) {
	home := javaHome()
	if home == "" {
		return nil, fmt.Errorf("hypo: locate system root: %w: no JAVA_HOME and no java on PATH", herr.ErrClasspathIncomplete)
	}

	path, err := findClassLibraryArchive(home)
	if err != nil {
		return nil, err
	}

	ar, err := NewArchiveRoot(path)
	if err != nil {
		return nil, err
	}
	return &SystemRoot{ArchiveRoot: ar, archivePath: path}, nil
}

// javaHome resolves a JDK install directory from $JAVA_HOME, falling
// back to resolving `java` on PATH and walking up from its location
// (bin/java -> JAVA_HOME).
func javaHome() string {
	if h := os.Getenv("JAVA_HOME"); h != "" {
		return h
	}
	bin, err := exec.LookPath("java")
	if err != nil {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(bin)
	if err != nil {
		resolved = bin
	}
	// resolved is .../bin/java; JAVA_HOME is two levels up.
	return filepath.Dir(filepath.Dir(resolved))
}

// classLibraryCandidates lists, in preference order, the zip-format
// archive locations a JDK install has historically used. jmods/jrt-fs
// images are deliberately excluded — see SystemRoot's doc comment.
func classLibraryCandidates(home string) []string {
	return []string{
		filepath.Join(home, "jre", "lib", "rt.jar"), // JDK 8 and earlier, JRE layout
		filepath.Join(home, "lib", "rt.jar"),         // JDK 8 and earlier, JDK-only layout
		filepath.Join(home, "lib", "classes.jar"),    // some jlink --compress none outputs
	}
}

func findClassLibraryArchive(home string) (string, error) {
	for _, cand := range classLibraryCandidates(home) {
		if info, err := os.Stat(cand); err == nil && !info.IsDir() {
			return cand, nil
		}
	}
	return "", fmt.Errorf(
		"hypo: locate system root: %w: no rt.jar-style archive under %q (platform %s; JDK 9+'s jrt-fs image is not a zip archive)",
		herr.ErrClasspathIncomplete, home, runtime.GOOS,
	)
}
