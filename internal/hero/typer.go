// Package hero animates the terminal banner: a command is typed one
// character at a time, its output appears after a short pause, it is held,
// then the next command starts.
package hero

import (
	"strings"
	"time"
)

const (
	CharDelay  = 100 * time.Millisecond
	OutputWait = 500 * time.Millisecond
	Hold       = 2 * time.Second
	Blink      = 500 * time.Millisecond
)

type Command struct {
	Command string `json:"command" yaml:"command"`
	Output  string `json:"output" yaml:"output"`
}

var DefaultCommands = []Command{
	{Command: "whoami", Output: "Full Stack Developer"},
	{Command: "ls skills/", Output: "React TypeScript Node.js Python AI/ML"},
	{Command: "cat passion.txt", Output: "Building innovative solutions with cutting-edge technology"},
	{Command: "git status", Output: "Always ready to commit to excellence"},
}

type Phase int

const (
	Typing Phase = iota
	Pausing
	Showing
)

func (p Phase) String() string {
	switch p {
	case Typing:
		return "typing"
	case Pausing:
		return "pausing"
	default:
		return "showing"
	}
}

// Typer is driven purely by elapsed time; it never reads the wall clock.
type Typer struct {
	commands []Command
	index    int
	elapsed  time.Duration // within the current command
	total    time.Duration
}

// NewTyper cycles through commands; an empty list uses DefaultCommands.
func NewTyper(commands []Command) *Typer {
	if len(commands) == 0 {
		commands = DefaultCommands
	}
	return &Typer{commands: commands}
}

func (t *Typer) typingTime(c Command) time.Duration {
	return time.Duration(len([]rune(c.Command))+1) * CharDelay
}

// Cycle is how long one command stays on screen in total.
func (t *Typer) Cycle(i int) time.Duration {
	return t.typingTime(t.commands[i]) + OutputWait + Hold
}

func (t *Typer) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	t.total += d
	t.elapsed += d
	for t.elapsed >= t.Cycle(t.index) {
		t.elapsed -= t.Cycle(t.index)
		t.index = (t.index + 1) % len(t.commands)
	}
}

func (t *Typer) Index() int { return t.index }

func (t *Typer) Phase() Phase {
	typing := t.typingTime(t.commands[t.index])
	switch {
	case t.elapsed < typing:
		return Typing
	case t.elapsed < typing+OutputWait:
		return Pausing
	default:
		return Showing
	}
}

// Text is what the terminal shows, without the cursor.
func (t *Typer) Text() string {
	c := t.commands[t.index]
	cmd := []rune(c.Command)
	switch t.Phase() {
	case Typing:
		n := int(t.elapsed / CharDelay)
		if n > len(cmd) {
			n = len(cmd)
		}
		return "$ " + string(cmd[:n])
	case Pausing:
		return "$ " + c.Command
	default:
		return "$ " + c.Command + "\n" + c.Output
	}
}

// Cursor reports whether the blinking cursor is currently visible.
func (t *Typer) Cursor() bool { return (t.total/Blink)%2 == 0 }

func (t *Typer) View() string {
	var b strings.Builder
	b.WriteString(t.Text())
	if t.Cursor() {
		b.WriteString("|")
	}
	return b.String()
}
