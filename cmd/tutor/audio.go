package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/fluentloop/voice-tutor/internal/audio"
	"github.com/fluentloop/voice-tutor/internal/capture"
	"github.com/fluentloop/voice-tutor/internal/live"
)

// ffmpegMic opens the microphone through an ffmpeg subprocess that
// resamples whatever the device delivers to 16 kHz mono s16le on
// stdout.
func ffmpegMic(device string, debug bool) capture.OpenFunc {
	return func(ctx context.Context) (capture.Source, error) {
		args := []string{"-hide_banner", "-loglevel", "error"}
		switch runtime.GOOS {
		case "darwin":
			if device == "" {
				// none:0 keeps ffmpeg from opening the camera.
				device = "none:0"
			}
			args = append(args, "-f", "avfoundation", "-i", device)
		default:
			if device == "" {
				device = "default"
			}
			args = append(args, "-f", "pulse", "-i", device)
		}
		args = append(args,
			"-ac", "1",
			"-ar", fmt.Sprintf("%d", live.CaptureSampleRate),
			"-f", "s16le",
			"-")

		cmd := exec.Command("ffmpeg", args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if debug {
			cmd.Stderr = os.Stderr
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start ffmpeg: %w", err)
		}
		return &micSource{cmd: cmd, out: stdout}, nil
	}
}

type micSource struct {
	cmd     *exec.Cmd
	out     io.ReadCloser
	scratch []byte
}

func (m *micSource) Read(p []float32) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if cap(m.scratch) < len(p)*2 {
		m.scratch = make([]byte, len(p)*2)
	}
	buf := m.scratch[:len(p)*2]

	n, err := m.out.Read(buf)
	// A sample must not straddle two reads, so top up a dangling byte.
	for n%2 == 1 && err == nil {
		var extra int
		extra, err = m.out.Read(buf[n : n+1])
		n += extra
	}

	samples := audio.Int16ToFloat32(audio.PCMBytesToInt16(buf[:n-n%2]))
	copy(p, samples)
	return len(samples), err
}

// Close kills ffmpeg, which closes the pipe and unblocks any Read.
func (m *micSource) Close() error {
	if m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
		_ = m.cmd.Wait()
	}
	return m.out.Close()
}

// startSpeaker spawns ffplay reading 24 kHz mono s16le from stdin and
// returns its stdin pipe plus a stop function.
func startSpeaker(debug bool) (io.Writer, func(), error) {
	logLevel := "error"
	if debug {
		logLevel = "info"
	}
	// ffplay does not accept ffmpeg's -ac flag; channels go via -ch_layout.
	cmd := exec.Command("ffplay",
		"-hide_banner",
		"-loglevel", logLevel,
		"-nostats",
		"-nodisp",
		"-f", "s16le",
		"-ch_layout", "mono",
		"-ar", fmt.Sprintf("%d", live.PlaybackSampleRate),
		"-i", "-")
	if runtime.GOOS == "darwin" && os.Getenv("SDL_AUDIODRIVER") == "" {
		// SDL sometimes picks a silent dummy backend on macOS.
		cmd.Env = append(os.Environ(), "SDL_AUDIODRIVER=coreaudio")
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, nil, err
	}

	stop := func() {
		_ = stdin.Close()
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	}
	return stdin, stop, nil
}
