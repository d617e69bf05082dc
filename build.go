// build.go - Simple build helper that verifies the native SQLCipher
// library is visible to pkg-config before building.
// Usage: go run build.go

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

func main() {
	projectRoot, err := findProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding project root: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🚀 Building cipherlite-go...")

	fmt.Println("📦 Checking for SQLCipher via pkg-config...")
	cmd := exec.Command("pkg-config", "--exists", "--print-errors", "sqlcipher")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "SQLCipher development files not found.")
		fmt.Fprintln(os.Stderr, "Install them first, e.g.:")
		fmt.Fprintln(os.Stderr, "  apt-get install libsqlcipher-dev   (Debian/Ubuntu)")
		fmt.Fprintln(os.Stderr, "  brew install sqlcipher             (macOS)")
		os.Exit(1)
	}

	fmt.Println("🔨 Building Go project...")
	cmd = exec.Command("go", "build", "./...")
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error building project: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Build completed successfully!")
}

// findProjectRoot walks up the directory tree to find go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find go.mod in current directory or any parent directory")
}
