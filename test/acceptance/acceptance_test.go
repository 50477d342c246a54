package acceptance

import (
	"flag"
	"io"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// Path to the vampire executable as built
var vampireExecutable string

func TestMain(m *testing.M) {
	// Enable acceptance tests with a flag
	acceptanceEnabled := flag.Bool("vampire.acceptance", false, "Enable acceptance tests for vampire.")
	flag.Parse()
	if acceptanceEnabled == nil || !*acceptanceEnabled {
		log.Println("Acceptance tests disabled")
		return
	}

	buildDir, err := ioutil.TempDir("", "vampireTest")
	if err != nil {
		log.Fatal(err)
	}

	vampireExecutable = path.Join(buildDir, "vampire")

	cmd := exec.Command("go", "build", "-o", vampireExecutable, "github.com/yext/vampire")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		os.RemoveAll(buildDir)
		log.Fatal(err)
	}

	code := m.Run()
	os.RemoveAll(buildDir)
	os.Exit(code)
}

var client = &http.Client{
	Timeout:   5 * time.Second,
	Transport: &http.Transport{DisableKeepAlives: true},
}

// freePort finds a port that nothing is listening on
func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func urlFor(port int) string {
	return "http://127.0.0.1:" + strconv.Itoa(port) + "/"
}

// vampireArgs returns the arguments to run a vampire command against port,
// with an isolated home directory and logs on the console.
func vampireArgs(homeDir string, port int, arg ...string) []string {
	return append(arg,
		"--port", strconv.Itoa(port),
		"--vampire_home", homeDir,
		"--redirect_logs",
	)
}

// startChain launches the first generation. The returned command exits once
// it has handed off to its successor.
func startChain(t *testing.T, workingDir string, homeDir string, port int, extra ...string) *exec.Cmd {
	t.Helper()
	return startChainWithConsole(t, nil, workingDir, homeDir, port, extra...)
}

// startChainWithConsole launches the first generation with its console output
// written to console. Successors inherit the same file.
func startChainWithConsole(t *testing.T, console *os.File, workingDir string, homeDir string, port int, extra ...string) *exec.Cmd {
	t.Helper()

	args := vampireArgs(homeDir, port, append([]string{"serve"}, extra...)...)
	cmd := exec.Command(vampireExecutable, args...)
	cmd.Dir = workingDir
	if console != nil {
		cmd.Stdout = console
	}
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	return cmd
}

// stopChain stops whatever generation holds port
func stopChain(t *testing.T, workingDir string, homeDir string, port int) {
	t.Helper()
	executeCommand(t, workingDir, vampireExecutable, vampireArgs(homeDir, port, "stop")...)
}

// waitForExit waits for a generation started by the test and returns its exit code
func waitForExit(t *testing.T, cmd *exec.Cmd) int {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	select {
	case err := <-done:
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		if err != nil {
			t.Fatal(err)
		}
		return 0
	case <-time.After(10 * time.Second):
		cmd.Process.Kill()
		t.Fatal("timed out waiting for generation to exit")
	}
	return -1
}

func executeCommand(t *testing.T, workingDir string, command string, arg ...string) string {
	t.Helper()

	cmd := exec.Command(command, arg...)
	cmd.Dir = workingDir
	out, err := cmd.CombinedOutput()
	t.Log(string(out))
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

// successorID reads the pid that generation pid handed off to from the console output
func successorID(t *testing.T, consolePath string, pid int) int {
	t.Helper()

	console, err := ioutil.ReadFile(consolePath)
	if err != nil {
		t.Fatal(err)
	}
	handoff := regexp.MustCompile(`pid ` + strconv.Itoa(pid) + ` -> (\d+)`)
	match := handoff.FindStringSubmatch(string(console))
	if match == nil {
		t.Fatalf("no handoff from pid %d in console output:\n%s", pid, console)
	}
	successor, err := strconv.Atoi(match[1])
	if err != nil {
		t.Fatal(err)
	}
	return successor
}

// tableCell matches value as a complete cell of a rendered status table
func tableCell(value int) *regexp.Regexp {
	return regexp.MustCompile(`\|\s*` + strconv.Itoa(value) + `\s*\|`)
}

// getWithRetry requests url, retrying while no generation is listening.
func getWithRetry(url string, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		content, err := getFromURL(url)
		if err == nil || time.Now().After(deadline) {
			return content, err
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func expectErrorFromURL(t *testing.T, url string) {
	t.Helper()

	_, err := getFromURL(url)
	if err == nil {
		t.Error("expected an error when no generation is running")
	}
}

func getFromURL(url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if resp.StatusCode != http.StatusOK {
		return string(body), errors.Errorf("unexpected status: %v", resp.Status)
	}
	return string(body), nil
}

// createWorkingDir creates a directory to work in, with the contents of testDataPath.
// Returns a cleanup function.
func createWorkingDir(testName, testDataPath string) (string, func(), error) {
	workingDir, err := ioutil.TempDir("", testName)
	if err != nil {
		return "", func() {}, err
	}
	err = copyFolder(testDataPath, workingDir)
	return workingDir, func() {
		os.RemoveAll(workingDir)
	}, err
}

func copyFolder(source string, dest string) error {
	sourceinfo, err := os.Stat(source)
	if err != nil {
		return err
	}

	err = os.MkdirAll(dest, sourceinfo.Mode())
	if err != nil {
		return err
	}

	objects, err := ioutil.ReadDir(source)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		sourcePath := filepath.Join(source, obj.Name())
		destPath := filepath.Join(dest, obj.Name())
		if obj.IsDir() {
			err = copyFolder(sourcePath, destPath)
		} else {
			err = copyFile(sourcePath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(source string, dest string) error {
	sourcefile, err := os.Open(source)
	if err != nil {
		return err
	}
	defer sourcefile.Close()

	destfile, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer destfile.Close()

	_, err = io.Copy(destfile, sourcefile)
	return err
}

// processID extracts the pid from a fallback document
func processID(t *testing.T, body string) int {
	t.Helper()

	const marker = "Process ID: "
	start := strings.Index(body, marker)
	if start < 0 {
		t.Fatalf("no process id in body:\n%s", body)
	}
	rest := body[start+len(marker):]
	end := strings.Index(rest, "<")
	if end < 0 {
		t.Fatalf("malformed process id in body:\n%s", body)
	}
	pid, err := strconv.Atoi(rest[:end])
	if err != nil {
		t.Fatal(err)
	}
	return pid
}
