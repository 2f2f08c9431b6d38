package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ResultFileName is the artifact the agent writes into its output directory
// on success. Sibling files (shopping_plan.json, cart.json, validation.json)
// are audit output and not consumed here.
const ResultFileName = "agent_output.json"

// maxLineBytes bounds a single output line. The agent logs whole page dumps
// on occasion, well past bufio.Scanner's 64KB default.
const maxLineBytes = 1 << 20

// ProgressUpdate is one streamed event from a running agent. Step is the
// inferred step index, or -1 when the event does not move progress (stderr
// lines). Updates are delivered in the order each stream emitted them; there
// is no ordering guarantee between stdout and stderr.
type ProgressUpdate struct {
	Step   int
	Detail string
	Line   string
}

type ProgressFunc func(ProgressUpdate)

// Supervisor launches the external shopping agent and turns its free-text
// output into progress updates and a final Output.
type Supervisor struct {
	// Command is the agent invocation, e.g. ["python3", "-m", "agent"].
	Command []string
	// WorkDir is the agent's project root.
	WorkDir string
	// OutputDir receives the agent's JSON artifacts.
	OutputDir string
	// LogDir, when set, receives a run-<id>.log mirror of everything the
	// agent printed. Best effort: a failure to open it never fails the run.
	LogDir string
}

// Run blocks until the agent exits, invoking onProgress for every output
// line along the way. There is no built-in timeout or retry; cancelling ctx
// kills the agent process.
func (s *Supervisor) Run(ctx context.Context, req Request, onProgress ProgressFunc) (*Output, error) {
	if len(s.Command) == 0 {
		return nil, fmt.Errorf("no agent command configured")
	}
	if onProgress == nil {
		onProgress = func(ProgressUpdate) {}
	}

	cmd := exec.CommandContext(ctx, s.Command[0], s.buildArgs(req)...)
	cmd.Dir = s.WorkDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: strings.Join(s.Command, " "), Err: err}
	}

	rlog := openRunLog(s.LogDir)
	defer rlog.close()

	var (
		wg          sync.WaitGroup
		stderrLines []string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sc := bufio.NewScanner(stderr)
		sc.Buffer(make([]byte, 64*1024), maxLineBytes)
		for sc.Scan() {
			line := sc.Text()
			stderrLines = append(stderrLines, line)
			rlog.write("stderr", line)
			if looksLikeError(line) {
				onProgress(ProgressUpdate{Step: -1, Detail: line, Line: line})
			}
		}
		if sc.Err() != nil {
			// Keep draining so the child never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, stderr)
		}
	}()

	// stdout drives inference; every line is handed on independently and in
	// receipt order.
	var lines []string
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := sc.Text()
		lines = append(lines, line)
		rlog.write("stdout", line)
		onProgress(ProgressUpdate{
			Step:   InferStep(lines),
			Detail: DetailForLine(line),
			Line:   line,
		})
	}
	if err := sc.Err(); err != nil {
		// The child may be blocked writing into the full pipe; kill it so
		// the run settles instead of hanging in Wait.
		_ = cmd.Process.Kill()
		wg.Wait()
		_ = cmd.Wait()
		return nil, fmt.Errorf("read agent stdout: %w", err)
	}
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, &ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(strings.Join(stderrLines, "\n")),
			}
		}
		return nil, fmt.Errorf("wait for agent: %w", err)
	}

	return s.readResult()
}

func (s *Supervisor) buildArgs(req Request) []string {
	args := append([]string{}, s.Command[1:]...)
	args = append(args, "-r", MergeBudget(req.Requirements, req.Budget), "-o", s.OutputDir)
	if req.Headless {
		args = append(args, "--headless")
	}
	if req.Domain != "" {
		args = append(args, "--domain", req.Domain)
	}
	if req.Instructions != "" {
		args = append(args, "--instructions", req.Instructions)
	}
	return args
}

// MergeBudget folds an explicit budget into the requirements text, unless
// the text already mentions one (a "budget" word or a dollar amount).
func MergeBudget(requirements, budget string) string {
	if budget == "" || mentionsBudget(requirements) {
		return requirements
	}
	return requirements + ", budget $" + budget
}

func mentionsBudget(s string) bool {
	return strings.Contains(strings.ToLower(s), "budget") || strings.Contains(s, "$")
}

func (s *Supervisor) readResult() (*Output, error) {
	path := filepath.Join(s.OutputDir, ResultFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingOutputError{Path: path}
		}
		return nil, fmt.Errorf("read agent result: %w", err)
	}
	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &MalformedOutputError{Path: path, Err: err}
	}
	return &out, nil
}

func looksLikeError(line string) bool {
	return strings.Contains(line, "ERROR") ||
		strings.Contains(line, "Traceback") ||
		strings.Contains(strings.ToLower(line), "error:")
}

// runLog mirrors agent output to disk. Both stream readers write to it, so
// writes are serialized with a mutex. All methods are nil-safe.
type runLog struct {
	mu sync.Mutex
	f  *os.File
}

func openRunLog(dir string) *runLog {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	f, err := os.Create(filepath.Join(dir, "run-"+uuid.NewString()+".log"))
	if err != nil {
		return nil
	}
	return &runLog{f: f}
}

func (l *runLog) write(stream, line string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "%s [%s] %s\n", time.Now().Format("15:04:05"), stream, line)
}

func (l *runLog) close() {
	if l == nil {
		return
	}
	_ = l.f.Close()
}
