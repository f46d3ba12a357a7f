package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fluentloop/voice-tutor/internal/capture"
	"github.com/fluentloop/voice-tutor/internal/live"
	"github.com/fluentloop/voice-tutor/internal/playback"
	"github.com/fluentloop/voice-tutor/internal/token"
	"github.com/fluentloop/voice-tutor/internal/tutor"
)

const defaultModel = "models/gemini-2.0-flash-live-001"

type options struct {
	backendURL  string
	apiKey      string
	bearerToken string
	googleKey   string

	lessonID    string
	instruction string
	model       string
	voice       string
	micDevice   string

	noMic     bool
	noSpeaker bool
	noRecord  bool
	debug     bool
}

func parseOptions() options {
	var opt options
	flag.StringVar(&opt.backendURL, "url", envOr("FLUENTLOOP_URL", "http://localhost:8080"), "FluentLoop backend base URL")
	flag.StringVar(&opt.apiKey, "api-key", os.Getenv("FLUENTLOOP_API_KEY"), "FluentLoop API key")
	flag.StringVar(&opt.bearerToken, "token", os.Getenv("FLUENTLOOP_TOKEN"), "FluentLoop bearer token (from /auth/cli/token)")
	flag.StringVar(&opt.googleKey, "google-key", os.Getenv("GOOGLE_API_KEY"), "Connect with a raw Google API key, bypassing the backend")
	flag.StringVar(&opt.lessonID, "lesson", "", "Lesson to practice")
	flag.StringVar(&opt.instruction, "instruction", "", "System instruction override")
	flag.StringVar(&opt.model, "model", defaultModel, "Live model (google-key mode)")
	flag.StringVar(&opt.voice, "voice", "", "Voice name")
	flag.StringVar(&opt.micDevice, "mic-device", "", "Microphone device passed to ffmpeg")
	flag.BoolVar(&opt.noMic, "no-mic", false, "Text-only session, do not open the microphone")
	flag.BoolVar(&opt.noSpeaker, "no-speaker", false, "Do not spawn ffplay, discard model audio")
	flag.BoolVar(&opt.noRecord, "no-record", false, "Do not upload the transcript to the backend")
	flag.BoolVar(&opt.debug, "debug", false, "Verbose logging")
	flag.Parse()
	return opt
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	opt := parseOptions()

	level := slog.LevelWarn
	if opt.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var tokens token.Provider
	if opt.googleKey != "" {
		tokens = &token.Static{
			Key:               opt.googleKey,
			Model:             opt.model,
			SystemInstruction: opt.instruction,
		}
	} else {
		remote := token.NewRemote(opt.backendURL, opt.apiKey)
		remote.LessonID = opt.lessonID
		tokens = remote
	}

	var sinkWriter io.Writer = io.Discard
	var stopSpeaker func()
	if !opt.noSpeaker {
		w, stop, err := startSpeaker(opt.debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start ffplay: %v\n", err)
			fmt.Fprintln(os.Stderr, "Install ffmpeg or rerun with -no-speaker.")
			os.Exit(1)
		}
		sinkWriter = w
		stopSpeaker = stop
	}

	var mic capture.OpenFunc
	if !opt.noMic {
		mic = ffmpegMic(opt.micDevice, opt.debug)
	}

	cfg := tutor.Config{
		Live: live.Config{
			Voice:             opt.voice,
			SystemInstruction: opt.instruction,
		},
		Mic:  mic,
		Sink: playback.NewStreamSink(sinkWriter, live.PlaybackSampleRate),
		Events: tutor.Events{
			OnState: func(s live.State) {
				fmt.Fprintf(os.Stderr, "· %s\n", s)
			},
			OnTranscript: func(evt live.TranscriptEvent) {
				prefix := "you"
				if evt.Role == live.RoleAssistant {
					prefix = "tutor"
				}
				fmt.Printf("%s> %s\n", prefix, evt.Text)
			},
			OnError: func(err error) {
				fmt.Fprintf(os.Stderr, "! %v\n", err)
			},
		},
	}

	var rec *recorder
	if !opt.noRecord && opt.googleKey == "" {
		rec = newRecorder(opt.backendURL, opt.apiKey, opt.bearerToken, opt.lessonID, logger)
		cfg.Recorder = rec
	}

	sess := tutor.New(cfg, tokens, logger)
	if rec != nil {
		rec.sessionID = sess.ID()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sess.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start session: %v\n", err)
		if stopSpeaker != nil {
			stopSpeaker()
		}
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Speak, or type a message and press enter. An empty line interrupts the tutor, /quit ends the session.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			text := strings.TrimSpace(line)
			switch {
			case text == "/quit":
				break loop
			case text == "":
				sess.Interrupt()
			default:
				if err := sess.SendText(text); err != nil {
					fmt.Fprintf(os.Stderr, "! %v\n", err)
				}
			}
		}
	}

	sess.Close()
	if stopSpeaker != nil {
		stopSpeaker()
	}
}
