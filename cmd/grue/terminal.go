package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/chazu/grue/config"
	"github.com/chazu/grue/vm"
	"github.com/chazu/grue/vm/save"
)

// terminal implements vm.UI on a plain terminal: window 0 scrolls normally,
// window 1 is drawn with ANSI cursor addressing (the status line), and
// save/restore round-trip through the sqlite store as CBOR.
type terminal struct {
	cfg      config.Config
	identity save.Identity
	store    *save.Store

	in     *bufio.Reader
	out    *os.File
	window int
	isTTY  bool
}

func newTerminal(cfg config.Config, identity save.Identity, store *save.Store) *terminal {
	return &terminal{
		cfg:      cfg,
		identity: identity,
		store:    store,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		isTTY:    term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Close resets any terminal state we changed.
func (t *terminal) Close() {
	if t.isTTY {
		fmt.Fprint(t.out, "\x1b[r") // drop the scroll region
	}
}

func (t *terminal) PrintString(s string) error {
	_, err := io.WriteString(t.out, s)
	return err
}

func (t *terminal) PrintChar(c rune) error {
	_, err := fmt.Fprintf(t.out, "%c", c)
	return err
}

func (t *terminal) ReadLine(maxLen int) (string, rune, error) {
	line, err := t.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", 0, vm.ErrEndSession
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", 0, err
	}
	line = strings.TrimRight(line, "\r\n")
	if len(line) > maxLen {
		line = line[:maxLen]
	}
	return line, '\n', nil
}

func (t *terminal) ReadChar() (rune, error) {
	if t.isTTY {
		fd := int(os.Stdin.Fd())
		state, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, state)
		}
	}
	r, _, err := t.in.ReadRune()
	if errors.Is(err, io.EOF) {
		return 0, vm.ErrEndSession
	}
	if err != nil {
		return 0, err
	}
	return r, nil
}

func (t *terminal) SetCursor(x, y int) error {
	if !t.isTTY || t.window != 1 {
		return nil
	}
	_, err := fmt.Fprintf(t.out, "\x1b[%d;%dH", y, x)
	return err
}

func (t *terminal) SetWindow(n int) error {
	if !t.isTTY {
		t.window = n
		return nil
	}
	var err error
	if n == 1 && t.window != 1 {
		_, err = fmt.Fprint(t.out, "\x1b7\x1b[7m") // save cursor, reverse video
	} else if n == 0 && t.window != 0 {
		_, err = fmt.Fprint(t.out, "\x1b[0m\x1b8") // normal video, restore cursor
	}
	t.window = n
	return err
}

func (t *terminal) EraseWindow(n int) error {
	if !t.isTTY {
		return nil
	}
	_, err := fmt.Fprint(t.out, "\x1b[2J\x1b[H")
	return err
}

func (t *terminal) ScrollRegion(x, y, w, h int) error {
	if !t.isTTY {
		return nil
	}
	_, err := fmt.Fprintf(t.out, "\x1b[%d;%dr", y+1, y+h)
	return err
}

func (t *terminal) StringWidth(s string) (int, error) {
	return len([]rune(s)), nil
}

func (t *terminal) ScreenSize() (width, height int) {
	if t.isTTY {
		if w, h, err := term.GetSize(int(t.out.Fd())); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return t.cfg.Screen.Width, t.cfg.Screen.Height
}

func (t *terminal) Save(snap *vm.Snapshot) (bool, error) {
	blob, err := save.Marshal(t.identity, snap)
	if err != nil {
		return false, err
	}
	id, err := t.store.Put(t.identity, "saved game", blob)
	if err != nil {
		log.Errorf("saving: %v", err)
		return false, nil
	}
	log.Infof("saved %s", id)
	return true, nil
}

func (t *terminal) Restore() (*vm.Snapshot, error) {
	blob, err := t.store.Latest(t.identity)
	if errors.Is(err, save.ErrSaveNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	identity, snap, err := save.Unmarshal(blob)
	if err != nil {
		log.Errorf("restoring: %v", err)
		return nil, nil
	}
	if identity != t.identity {
		log.Errorf("save belongs to a different story")
		return nil, nil
	}
	return snap, nil
}
