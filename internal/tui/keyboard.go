// Package tui provides the on-screen keyboard for the synthesizer.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gitlab.com/gomidi/midi/v2"

	"github.com/icco/tonesynth/internal/audio"
	"github.com/icco/tonesynth/internal/synth"
)

const (
	keyWidth     = 7
	keyHeight    = 6
	keyGap       = 1
	keyboardLeft = 2
	keyboardTop  = 6 // lines rendered above the keyboard, see View

	// Terminals report key repeats but not releases, so a key counts as held
	// until no repeat has arrived for holdTimeout.
	holdTimeout  = 600 * time.Millisecond
	startTimeout = 5 * time.Second
	volumeStep   = 0.1
)

// DefaultNotes is the row of notes shown on the keyboard.
var DefaultNotes = []int{60, 62, 65, 67, 69, 70, 72}

var noteKeys = []string{"a", "s", "d", "f", "g", "h", "j", "k", "l"}

// engineStartedMsg is sent once the audio engine has started or failed
type engineStartedMsg struct {
	err error
}

// releaseMsg fires holdTimeout after a key press
type releaseMsg struct {
	seq int
}

// Model is the bubbletea model for the keyboard screen
type Model struct {
	engine *audio.Engine
	voice  *synth.Voice
	notes  []int

	pressed   int // index into notes, -1 when nothing is held
	holdSeq   int
	mouseDown bool

	started bool
	output  string
	err     error
	message string
	width   int
	height  int
}

// NewModel creates the keyboard for engine. notes defaults to DefaultNotes and
// is truncated to the available key bindings.
func NewModel(engine *audio.Engine, notes []int) *Model {
	if len(notes) == 0 {
		notes = DefaultNotes
	}
	if len(notes) > len(noteKeys) {
		notes = notes[:len(noteKeys)]
	}
	return &Model{
		engine:  engine,
		voice:   engine.Voice(),
		notes:   append([]int(nil), notes...),
		pressed: -1,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.startEngine
}

func (m *Model) startEngine() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	return engineStartedMsg{err: m.engine.Start(ctx)}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case engineStartedMsg:
		if msg.err != nil {
			log.Printf("audio: %v", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.started = true
		m.output = fmt.Sprintf("Output: %v", m.engine.Format())
		return m, nil

	case releaseMsg:
		if msg.seq == m.holdSeq && !m.mouseDown {
			m.release()
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q", "esc":
		return m, m.cleanup
	case " ":
		m.release()
		return m, nil
	case "left", "z":
		m.setOctave(m.voice.OctaveOffset() - 1)
	case "right", "x":
		m.setOctave(m.voice.OctaveOffset() + 1)
	case "tab", "w":
		m.setWaveform(m.voice.Waveform().Next())
	case "1", "2", "3", "4":
		m.setWaveform(synth.Waveform(key[0] - '1'))
	case "v":
		m.voice.SetVelocityEnabled(!m.voice.VelocityEnabled())
	case "up", "+", "=":
		m.setVolume(m.voice.VolumeLevel() + volumeStep)
	case "down", "-", "_":
		m.setVolume(m.voice.VolumeLevel() - volumeStep)
	default:
		for i, k := range noteKeys[:len(m.notes)] {
			if k == key {
				m.press(i)
				m.holdSeq++
				return m, holdTick(m.holdSeq)
			}
		}
	}
	return m, nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		idx, velocity, ok := m.keyAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.mouseDown = true
		m.setVolume(velocity)
		m.press(idx)
	case tea.MouseActionRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.release()
		}
	}
	return m, nil
}

func holdTick(seq int) tea.Cmd {
	return tea.Tick(holdTimeout, func(time.Time) tea.Msg {
		return releaseMsg{seq: seq}
	})
}

func (m *Model) press(idx int) {
	m.pressed = idx
	m.voice.SetActiveNote(m.notes[idx])
}

func (m *Model) release() {
	m.pressed = -1
	m.voice.ClearActiveNote()
}

func (m *Model) setOctave(offset int) {
	if err := m.voice.SetOctaveOffset(offset); err != nil {
		m.message = fmt.Sprintf("Octave stays at %+d", m.voice.OctaveOffset())
		return
	}
	m.message = ""
}

func (m *Model) setWaveform(w synth.Waveform) {
	if err := m.voice.SetWaveform(w); err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
}

func (m *Model) setVolume(level float64) {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	if err := m.voice.SetVolumeLevel(level); err != nil {
		log.Printf("volume: %v", err)
	}
}

// keyAt maps a terminal cell to a key index and the velocity implied by how far
// down the key the press landed.
func (m *Model) keyAt(x, y int) (int, float64, bool) {
	row := y - keyboardTop
	if row < 0 || row >= keyHeight || x < keyboardLeft {
		return 0, 0, false
	}
	col := x - keyboardLeft
	idx := col / (keyWidth + keyGap)
	if idx >= len(m.notes) || col%(keyWidth+keyGap) >= keyWidth {
		return 0, 0, false
	}
	return idx, synth.VelocityFromPosition(float64(row+1), keyHeight), true
}

func (m *Model) cleanup() tea.Msg {
	if err := m.engine.Close(); err != nil {
		log.Printf("closing audio: %v", err)
	}
	return tea.Quit()
}

func (m *Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("TONESYNTH") + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
		b.WriteString(helpStyle.Render("Press q to quit"))
		return b.String()
	}

	// keyboardTop counts every line written above the keyboard
	if m.started {
		b.WriteString(statusStyle.Render("● Audio running") + "  " + subtitleStyle.Render(m.output) + "\n")
	} else {
		b.WriteString(subtitleStyle.Render("Starting audio...") + "\n")
	}

	s := m.voice.Snapshot()
	velocity := "off"
	if s.VelocityEnabled {
		velocity = "on"
	}
	b.WriteString(fmt.Sprintf("%s %-8s %s %+d  %s %-3s %s %3.0f%%\n",
		subtitleStyle.Render("Wave:"), s.Waveform,
		subtitleStyle.Render("Octave:"), s.OctaveOffset,
		subtitleStyle.Render("Velocity:"), velocity,
		subtitleStyle.Render("Volume:"), s.VolumeLevel*100))

	if s.NoteActive {
		b.WriteString(subtitleStyle.Render("Playing: ") + noteStyle.Render(fmt.Sprintf("%s  %.2f Hz  gain %.2f",
			noteName(s.Note+12*s.OctaveOffset), synth.FrequencyHz(s.Note, s.OctaveOffset), s.Gain())) + "\n")
	} else {
		b.WriteString(subtitleStyle.Render("Playing: ") + "-\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderKeyboard(s.OctaveOffset))

	if m.message != "" {
		b.WriteString("\n" + errorStyle.Render(m.message) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("a-j or click: play • space: release • ←/→: octave • tab or 1-4: wave"))
	b.WriteString("\n" + helpStyle.Render("v: velocity • ↑/↓: volume • q: quit"))

	return b.String()
}

func (m *Model) renderKeyboard(octave int) string {
	var b strings.Builder
	pad := strings.Repeat(" ", keyboardLeft)
	gap := strings.Repeat(" ", keyGap)

	for row := 0; row < keyHeight; row++ {
		b.WriteString(pad)
		for i := range m.notes {
			style := keyStyle
			if i == m.pressed {
				style = activeKeyStyle
			}
			label := ""
			if row == keyHeight-1 {
				label = noteKeys[i]
			}
			b.WriteString(style.Render(label))
			b.WriteString(gap)
		}
		b.WriteString("\n")
	}

	b.WriteString(pad)
	for _, n := range m.notes {
		b.WriteString(fmt.Sprintf("%-*s", keyWidth+keyGap, noteName(n+12*octave)))
	}
	b.WriteString("\n")
	return b.String()
}

// noteName names a note number using gomidi's note names.
func noteName(note int) string {
	if note < 0 || note > 127 {
		return fmt.Sprintf("#%d", note)
	}
	return midi.Note(uint8(note)).String()
}
