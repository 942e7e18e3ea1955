package cmd

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	cfg     = defaultEngineConfig()
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "tonesynth",
	Short: "A real-time monophonic tone synthesizer",
	Long: `tonesynth is a monophonic synthesizer for the terminal.

It renders one note at a time as a sine, triangle, sawtooth or square wave,
transposed by up to two octaves and scaled by a velocity-derived volume.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: closeLogging,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVar(&cfg.sampleRate, "sample-rate", cfg.sampleRate, "Output sample rate in Hz")
	flags.IntVar(&cfg.channels, "channels", cfg.channels, "Output channel count (1 or 2)")
	flags.DurationVar(&cfg.bufferSize, "buffer", cfg.bufferSize, "Host buffer length, 0 for the backend default")
	flags.BoolVar(&cfg.headless, "headless", cfg.headless, "Render without a sound card")
	flags.StringVar(&cfg.logFile, "log-file", cfg.logFile, "Write debug logs to this file")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	log.SetFlags(log.Lshortfile)
	if cfg.logFile == "" {
		return nil
	}
	f, err := tea.LogToFile(cfg.logFile, "tonesynth")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f
	return nil
}

func closeLogging(cmd *cobra.Command, args []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	log.SetOutput(os.Stderr)
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
