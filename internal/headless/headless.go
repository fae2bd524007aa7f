// Package headless re-runs the current invocation inside an isolated virtual
// X11 display, optionally screen-grabbing the session to a video file. The
// display server and recorder are supervised by a generated shell wrapper
// with trap-based cleanup; the wrapped process's exit status is passed
// through.
package headless

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
)

// ErrToolMissing reports absent display tooling; it maps to a configuration
// or environment exit (status 1).
var ErrToolMissing = errors.New("headless display tooling missing")

// Options configures the headless wrapper.
type Options struct {
	// Resolution of the virtual screen, e.g. "1280x1024".
	Resolution string
	// VideoFile, when non-empty, records the session with ffmpeg.
	VideoFile string
	Logger    *slog.Logger
}

const defaultResolution = "1280x1024"

// script mirrors the xvfb-run approach: start Xvfb with a fresh auth cookie,
// run the wrapped command on the new display, grab it with ffmpeg when asked,
// and clean everything up on exit.
var script = template.Must(template.New("headless").Parse(`
set -e

clean_up () {
    XAUTHORITY={{.AuthFile}} {{.Xauth}} remove :{{.Display}} >/dev/null 2>&1
    kill $(cat $XVFB_PID_FILE) >/dev/null 2>&1
}

trap clean_up EXIT

start_x11 () {
    touch {{.AuthFile}}
    XAUTHORITY={{.AuthFile}} {{.Xauth}} add :{{.Display}} . {{.Cookie}}

    trap : USR1
    (trap '' USR1;
     exec {{.Xvfb}} :{{.Display}} -nolisten tcp \
                    -auth {{.AuthFile}} \
                    -fbdir /tmp -screen 0 {{.Resolution}}x16 \
        >/dev/null 2>&1) &
    XVFB_PID=$!
    echo $XVFB_PID > $XVFB_PID_FILE
    wait || :

    if ! kill -0 $XVFB_PID 2>/dev/null; then
        echo 'ERROR: Xvfb failed to start'
        echo 1 > $RETVAL_FILE
        return 1
    fi

    set +e
    DISPLAY=:{{.Display}} XAUTHORITY={{.AuthFile}} sh -c '{{.Argv}}'
    echo $? > $RETVAL_FILE
    set -e
}

start_ffmpeg () {
    [ "{{.VideoFile}}" ] || return
    ffmpeg -y -nostats -hide_banner -loglevel fatal -r 25 \
           -f x11grab -s {{.Resolution}} -i :{{.Display}} {{.VideoFile}} </dev/null &
    echo $! > $FFMPEG_PID_FILE
}

kill_ffmpeg () {
    [ "{{.VideoFile}}" ] || return
    kill $(cat $FFMPEG_PID_FILE) 2>/dev/null
}

TMPDIR=${TMPDIR:-/tmp/}
FFMPEG_PID_FILE=$(mktemp $TMPDIR/uireplay.ffmpeg.XXXXXXX)
XVFB_PID_FILE=$(mktemp $TMPDIR/uireplay.xvfb.XXXXXXX)
RETVAL_FILE=$(mktemp $TMPDIR/uireplay.retval.XXXXXXX)

{ start_x11; kill_ffmpeg; } & start_ffmpeg ; wait

RETVAL=$(cat $RETVAL_FILE)
rm $FFMPEG_PID_FILE
exit $RETVAL
`))

type scriptParams struct {
	AuthFile   string
	Xauth      string
	Xvfb       string
	Display    int
	Cookie     string
	Resolution string
	VideoFile  string
	Argv       string
}

// Check verifies the required tooling is installed. Video capture
// additionally requires ffmpeg.
func Check(video bool) error {
	if _, err := lookTool("Xvfb", "/usr/X11/bin/Xvfb"); err != nil {
		return fmt.Errorf("%w: install package xvfb", ErrToolMissing)
	}
	if _, err := lookTool("xauth", "/usr/X11/bin/xauth"); err != nil {
		return fmt.Errorf("%w: install package xauth", ErrToolMissing)
	}
	if video {
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			return fmt.Errorf("%w: recording video requires ffmpeg", ErrToolMissing)
		}
	}
	return nil
}

func lookTool(name, fallback string) (string, error) {
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	if _, err := os.Stat(fallback); err == nil {
		return fallback, nil
	}
	return "", fmt.Errorf("%s not found", name)
}

// StripReexecFlags removes the flags that trigger headless re-execution from
// an argument vector, preventing recursion in the wrapped invocation.
func StripReexecFlags(argv []string) []string {
	out := make([]string, 0, len(argv))
	skipValue := false
	for _, a := range argv {
		if skipValue {
			skipValue = false
			continue
		}
		switch {
		case a == "--x11" || a == "--x11-video":
			continue
		case a == "--x11-video-file":
			skipValue = true
			continue
		case strings.HasPrefix(a, "--x11-video-file="):
			continue
		}
		out = append(out, a)
	}
	return out
}

// Rerun executes argv inside a fresh virtual display and returns the wrapped
// process's exit status. The wrapped command's stdout is piped to stderr so
// the video/scenario streams stay clean.
func Rerun(ctx context.Context, opts Options, argv []string) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := Check(opts.VideoFile != ""); err != nil {
		return 0, err
	}
	xvfb, _ := lookTool("Xvfb", "/usr/X11/bin/Xvfb")
	xauth, _ := lookTool("xauth", "/usr/X11/bin/xauth")

	resolution := opts.Resolution
	if resolution == "" {
		resolution = defaultResolution
	}
	display, err := freeDisplay()
	if err != nil {
		return 0, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return 0, fmt.Errorf("locate home directory: %w", err)
	}

	params := scriptParams{
		AuthFile:   filepath.Join(home, ".Xauthority"),
		Xauth:      xauth,
		Xvfb:       xvfb,
		Display:    display,
		Cookie:     mcookie(),
		Resolution: resolution,
		VideoFile:  opts.VideoFile,
		Argv:       strings.Join(argv, " "),
	}
	var sb strings.Builder
	if err := script.Execute(&sb, params); err != nil {
		return 0, fmt.Errorf("render headless script: %w", err)
	}

	logger.Info("re-running head-less in Xvfb",
		slog.Int("display", display),
		slog.String("video", opts.VideoFile),
	)
	cmd := exec.CommandContext(ctx, "sh", "-c", sb.String())
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("run headless wrapper: %w", err)
	}
	return 0, nil
}

// freeDisplay picks a display number whose X lock file does not exist yet.
func freeDisplay() (int, error) {
	for i := 0; i < 1000; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10000-111))
		if err != nil {
			return 0, err
		}
		display := int(n.Int64()) + 111
		if _, err := os.Stat(fmt.Sprintf("/tmp/.X%d-lock", display)); os.IsNotExist(err) {
			return display, nil
		}
	}
	return 0, errors.New("no free X display found")
}

// mcookie generates the xauth cookie.
func mcookie() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}
