package sources

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// checkTimeout bounds each diagnostic subprocess.
const checkTimeout = 5 * time.Second

// transcriptModule is the Python package the helper script imports.
const transcriptModule = "youtube_transcript_api"

// Diagnostics describes whether this host can run the transcript chain.
type Diagnostics struct {
	OK         bool          `json:"ok"`
	GoVersion  string        `json:"goVersion"`
	Platform   string        `json:"platform"`
	Cwd        string        `json:"cwd"`
	Path       string        `json:"path"`
	Strategies []string      `json:"strategies"`
	Checks     []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Diagnose checks the host for every configured strategy's dependencies.
// OK is true when at least one strategy looks runnable.
func Diagnose(ctx context.Context, strategies []TranscriptStrategy) Diagnostics {
	cwd, _ := os.Getwd()
	d := Diagnostics{
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Cwd:        cwd,
		Path:       os.Getenv("PATH"),
		Strategies: make([]string, 0, len(strategies)),
		Checks:     []DoctorCheck{},
	}

	scripts := make(map[string]bool)
	for _, s := range strategies {
		d.Strategies = append(d.Strategies, s.Name())
		var runnable bool
		switch st := s.(type) {
		case CommandStrategy:
			runnable = d.checkCommand(ctx, st, scripts)
		case *YtDlpStrategy:
			runnable = d.checkBinary("dependency:yt-dlp", "yt-dlp")
		default:
			// In-process strategies only need network access.
			runnable = true
		}
		d.OK = d.OK || runnable
	}
	return d
}

func (d *Diagnostics) add(name string, ok bool, msg string) {
	d.Checks = append(d.Checks, DoctorCheck{Name: name, OK: ok, Message: msg})
}

func (d *Diagnostics) checkBinary(name, bin string) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		d.add(name, false, bin+" not found on PATH")
		return false
	}
	d.add(name, true, path)
	return true
}

func (d *Diagnostics) checkCommand(ctx context.Context, s CommandStrategy, scripts map[string]bool) bool {
	label := s.Name()
	if !d.checkBinary("interpreter:"+label, s.Interpreter) {
		return false
	}

	version, err := runCheck(ctx, s.Interpreter, "--version")
	d.add("version:"+label, err == nil, firstNonEmpty(version, errString(err)))

	out, err := runCheck(ctx, s.Interpreter, "-c", "import "+transcriptModule+"; print('"+transcriptModule+" installed')")
	moduleOK := err == nil
	if !moduleOK {
		out = transcriptModule + " not installed: " + firstNonEmpty(out, errString(err))
	}
	d.add("module:"+label, moduleOK, out)

	scriptOK := true
	if len(s.Args) > 0 {
		script := s.Args[0]
		if s.Dir != "" && !filepath.IsAbs(script) {
			script = filepath.Join(s.Dir, script)
		}
		_, err := os.Stat(script)
		scriptOK = err == nil
		if !scripts[script] {
			scripts[script] = true
			if scriptOK {
				d.add("script:"+script, true, "found")
			} else {
				d.add("script:"+script, false, "script not found")
			}
		}
	}
	return moduleOK && scriptOK
}

// runCheck runs a short command and returns its trimmed combined output.
func runCheck(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = commandWaitDelay
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
