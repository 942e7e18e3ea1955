package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/icco/tonesynth/internal/synth"
	"github.com/icco/tonesynth/internal/tui"
)

var playNotes []int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the on-screen keyboard",
	Long: `Open the interactive keyboard.

Click a key to play it; the further down the key you click, the louder the note
when velocity is enabled. The home row keys play the same notes from the
keyboard and hold them while auto-repeat keeps firing.

Example:
  tonesynth play --notes 60,62,64,65,67,69,71,72
`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntSliceVar(&playNotes, "notes", tui.DefaultNotes, "Note numbers shown on the keyboard (at most 9)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("play needs an interactive terminal, use the tone command instead")
	}
	// The alt screen owns stdout; logs only go to --log-file.
	if cfg.logFile == "" {
		log.SetOutput(io.Discard)
	}

	engine, err := cfg.newEngine(synth.NewVoice())
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("closing audio: %v", err)
		}
	}()

	p := tea.NewProgram(tui.NewModel(engine, playNotes), tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		<-c
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
