package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/livingtwin/cascade/cmd/demo_tui"
	"github.com/livingtwin/cascade/pkg/audio"
	"github.com/livingtwin/cascade/pkg/audio/tts"
	"github.com/livingtwin/cascade/pkg/orchestration"
	"github.com/livingtwin/cascade/pkg/script"
)

var (
	runVoiceDir   string
	runMode       string
	runLogFile    string
	runTranscript string
	runManual     bool
)

func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [demo-file]",
		Short: "Play the cascade demo in the terminal",
		Long: `Play the scripted demo. Without arguments the built-in strategic
cascade demo is used; pass a demo YAML file to play a custom script set.

Keys: space advances, r replays the current line, m switches between
pre-recorded and live-voice narration, 1-9 jump to a persona stage.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDemo,
	}
	runCmd.Flags().StringVar(&runVoiceDir, "voice-dir", "assets/voice", "Directory holding pre-recorded narration clips")
	runCmd.Flags().StringVar(&runMode, "mode", string(audio.ModePreRecorded), "Initial playback mode: prerecorded or livevoice")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Write structured logs to this file (default: discard)")
	runCmd.Flags().StringVar(&runTranscript, "transcript", "", "Append a spoken-line transcript to this file")
	runCmd.Flags().BoolVar(&runManual, "manual", false, "Wait for a keypress after every segment instead of auto-advancing")
	return runCmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the demo needs an interactive terminal; try again from a TTY")
	}

	demo, err := loadDemoArg(args)
	if err != nil {
		return err
	}

	mode := audio.Mode(runMode)
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q (want %s or %s)", runMode, audio.ModePreRecorded, audio.ModeLiveVoice)
	}

	logger, cleanupLog, err := buildLogger()
	if err != nil {
		return err
	}
	defer cleanupLog()

	player := audio.NewClipPlayer(runVoiceDir,
		audio.WithSynthesizer(tts.NewElevenLabs(os.Getenv("ELEVENLABS_API_KEY"))),
		audio.WithVoices(speakerVoices()),
	)

	opts := []orchestration.ControllerOption{
		orchestration.WithLogger(logger),
		orchestration.WithInitialMode(mode),
	}
	if runManual {
		opts = append(opts, orchestration.WithManualAdvance())
	}
	if runTranscript != "" {
		f, err := os.OpenFile(runTranscript, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening transcript file: %w", err)
		}
		defer f.Close()
		opts = append(opts, orchestration.WithTranscript(f))
	}

	controller, err := orchestration.NewController(demo, player, opts...)
	if err != nil {
		return err
	}
	defer controller.Close()

	lipgloss.SetColorProfile(termenv.ColorProfile())

	program := tea.NewProgram(demo_tui.New(controller), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running demo: %w", err)
	}
	return nil
}

// loadDemoArg resolves the demo to play: an authored file, or the built-in
// strategic cascade.
func loadDemoArg(args []string) (*script.Demo, error) {
	if len(args) == 0 {
		return script.BuiltinDemo(), nil
	}
	demo, err := script.LoadDemo(args[0])
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(args[0]), err)
	}
	return demo, nil
}

func buildLogger() (orchestration.Logger, func(), error) {
	if runLogFile == "" {
		return orchestration.NewLogger(io.Discard, logrus.InfoLevel), func() {}, nil
	}
	f, err := os.OpenFile(runLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return orchestration.NewLogger(f, logrus.DebugLevel), func() { f.Close() }, nil
}

// speakerVoices maps demo personas to speech-service voices so each role
// sounds distinct in live-voice mode.
func speakerVoices() map[script.Speaker]string {
	return map[script.Speaker]string{
		script.SpeakerTwin:          "21m00Tcm4TlvDq8ikWAM", // Rachel
		script.SpeakerCEO:           "pNInz6obpgDQGcFmaJgB", // Adam
		script.SpeakerVPSales:       "TxGEqnHWrfWFTfGW9XjX", // Josh
		script.SpeakerVPEngineering: "EXAVITQu4vr4xnSDxMaL", // Bella
	}
}
