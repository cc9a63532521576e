//go:build ignore

// build.go - volcanotrends build system
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	binaryName     = "volcanotrends"
	mainPackage    = "./cmd/volcanotrends"
	contractsPkg   = "volcanotrends/pkg/contracts"
	versionFileRel = "pkg/contracts/version.go"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	GOOS    string
	GOARCH  string
}

var (
	rootDir string
	distDir string

	// Platforms built by the release target
	releasePlatforms = []BuildContext{
		{GOOS: "linux", GOARCH: "amd64"},
		{GOOS: "linux", GOARCH: "arm64"},
		{GOOS: "darwin", GOARCH: "arm64"},
		{GOOS: "windows", GOARCH: "amd64"},
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, versionFileRel)); os.IsNotExist(err) {
		panic(fmt.Sprintf("%s not found; run build.go from the module root", versionFileRel))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{Verbose: *verbose, GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}

	switch *target {
	case "all":
		runTests(ctx.Verbose)
		buildBinary(ctx)
	case "build":
		buildBinary(ctx)
	case "test":
		runTests(ctx.Verbose)
	case "clean":
		clean(ctx.Verbose)
	case "release":
		buildRelease(ctx.Verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "      volcanotrends - Build System         " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

// buildBinary compiles the CLI for ctx's platform into dist/
func buildBinary(ctx *BuildContext) {
	exeName := binaryName
	if ctx.GOOS != runtime.GOOS || ctx.GOARCH != runtime.GOARCH {
		exeName = fmt.Sprintf("%s-%s-%s", binaryName, ctx.GOOS, ctx.GOARCH)
	}
	if ctx.GOOS == "windows" {
		exeName += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s for %s/%s...", exeName, ctx.GOOS, ctx.GOARCH))

	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
		os.Exit(1)
	}

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X %s.BuildTime=%s -X %s.GitCommit=%s",
		contractsPkg, time.Now().UTC().Format(time.RFC3339),
		contractsPkg, gitCommit())

	args := []string{"build"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "-trimpath", "-ldflags", ldflags, "-o", outputPath, mainPackage)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+ctx.GOOS, "GOARCH="+ctx.GOARCH)
	cmd.Stderr = os.Stderr
	if ctx.Verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", exeName, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, sizeMB))
	}
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

// buildRelease cross-compiles every release platform into a clean dist/
func buildRelease(verbose bool) {
	printInfo("Building release binaries...")
	clean(verbose)

	for _, platform := range releasePlatforms {
		ctx := platform
		ctx.Verbose = verbose
		buildBinary(&ctx)
	}

	versionFile := filepath.Join(distDir, "VERSION.txt")
	content := fmt.Sprintf("%s (%s)\nBuilt: %s\n", binaryName, gitCommit(), time.Now().Format("2006-01-02 15:04:05"))
	if err := os.WriteFile(versionFile, []byte(content), 0644); err != nil {
		printWarning(fmt.Sprintf("Failed to write %s: %v", versionFile, err))
	}

	printSuccess("Release build completed")
}

func clean(verbose bool) {
	printInfo("Cleaning build artifacts and logs...")

	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean dist directory: %v", err))
	}

	logs, _ := filepath.Glob(filepath.Join(rootDir, "logs", "*.log"))
	for _, logFile := range logs {
		if verbose {
			fmt.Printf("  Removing: %s\n", logFile)
		}
		os.Remove(logFile)
	}

	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all               Run tests, then build for this platform (default)")
	fmt.Println("  build             Build for this platform")
	fmt.Println("  test              Run all tests with the race detector")
	fmt.Println("  clean             Remove dist/ and log files")
	fmt.Println("  release           Cross-compile release binaries into dist/")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v                Verbose output")
}
