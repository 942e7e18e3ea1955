package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/icco/tonesynth/internal/audio"
	"github.com/icco/tonesynth/internal/synth"
)

const streamCheckInterval = 100 * time.Millisecond

var toneOpts struct {
	note     int
	octave   int
	waveform string
	volume   float64
	duration time.Duration
}

var toneCmd = &cobra.Command{
	Use:   "tone",
	Short: "Play a single note and exit",
	Long: `Play one note for a fixed time without the interactive keyboard.

Setting --volume enables velocity so the level is applied; otherwise the note
plays at full scale.

Example:
  tonesynth tone --note 60 --waveform triangle --duration 3s
`,
	Args: cobra.NoArgs,
	RunE: runTone,
}

func init() {
	flags := toneCmd.Flags()
	flags.IntVarP(&toneOpts.note, "note", "n", synth.ReferenceNote, "Note number (69 = A4 = 440Hz)")
	flags.IntVarP(&toneOpts.octave, "octave", "o", 0, "Octave offset from -2 to 2")
	flags.StringVarP(&toneOpts.waveform, "waveform", "w", synth.Sine.String(), "sine, triangle, sawtooth or square")
	flags.Float64Var(&toneOpts.volume, "volume", 1, "Volume level from 0 to 1")
	flags.DurationVarP(&toneOpts.duration, "duration", "d", 2*time.Second, "How long to hold the note")
	rootCmd.AddCommand(toneCmd)
}

func runTone(cmd *cobra.Command, args []string) error {
	voice := synth.NewVoice()
	w, err := synth.ParseWaveform(toneOpts.waveform)
	if err != nil {
		return err
	}
	if err := voice.SetWaveform(w); err != nil {
		return err
	}
	if err := voice.SetOctaveOffset(toneOpts.octave); err != nil {
		return err
	}
	if cmd.Flags().Changed("volume") {
		if err := voice.SetVolumeLevel(toneOpts.volume); err != nil {
			return err
		}
		voice.SetVelocityEnabled(true)
	}

	engine, err := cfg.newEngine(voice)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("closing audio: %v", err)
		}
	}()

	log.Printf("playing %v note %d octave %+d (%.2f Hz, gain %.2f) for %v",
		w, toneOpts.note, toneOpts.octave, synth.FrequencyHz(toneOpts.note, toneOpts.octave), voice.Gain(), toneOpts.duration)
	voice.SetActiveNote(toneOpts.note)

	return holdNote(ctx, engine, toneOpts.duration)
}

// holdNote keeps the voice sounding for d, or until ctx ends or the stream
// reports an error.
func holdNote(ctx context.Context, engine *audio.Engine, d time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			log.Println("tone interrupted")
		}
		engine.Voice().ClearActiveNote()
		return nil
	})
	g.Go(func() error {
		t := time.NewTicker(streamCheckInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-t.C:
				if err := engine.Err(); err != nil {
					return fmt.Errorf("audio stream: %w", err)
				}
			}
		}
	})
	return g.Wait()
}
