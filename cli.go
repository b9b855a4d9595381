// ABOUTME: Replay mode: drives the profile controller from an event script without a terminal UI
// ABOUTME: Parses scroll, drag, tab, sport and follow events and prints the view state after each

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"

	"profile-viewer/logging"
	"profile-viewer/profile"
	"profile-viewer/viewport"
)

const eventColumnWidth = 24

// EventKind identifies a replay event
type EventKind string

// Replay events
const (
	EventScroll EventKind = "scroll" // scroll <offset>
	EventDrag   EventKind = "drag"   // drag <dx> <dy>
	EventTab    EventKind = "tab"    // tab <name>
	EventSport  EventKind = "sport"  // sport <name>
	EventCycle  EventKind = "cycle"  // cycle
	EventFollow EventKind = "follow" // follow
	EventGlobal EventKind = "global" // global <sport>, a sport change made on another screen
	EventClose  EventKind = "close"  // close
)

// Event is one parsed line of a replay script
type Event struct {
	Kind   EventKind
	Offset float64
	DX, DY float64
	Tab    profile.Tab
	Sport  profile.Sport
	Line   string
}

// ErrBadEvent is returned for script lines that cannot be parsed
var ErrBadEvent = errors.New("bad replay event")

// ParseEvent parses one script line. Blank lines and # comments return ok=false.
func ParseEvent(line string) (Event, bool, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Event{}, false, nil
	}

	ev := Event{Kind: EventKind(strings.ToLower(fields[0])), Line: strings.Join(fields, " ")}
	args := fields[1:]

	want := map[EventKind]int{
		EventScroll: 1, EventDrag: 2, EventTab: 1, EventSport: 1,
		EventCycle: 0, EventFollow: 0, EventGlobal: 1, EventClose: 0,
	}

	n, known := want[ev.Kind]
	if !known {
		return Event{}, false, errors.Wrapf(ErrBadEvent, "unknown event %q", fields[0])
	}

	if len(args) != n {
		return Event{}, false, errors.Wrapf(ErrBadEvent, "%s takes %d argument(s), got %d", ev.Kind, n, len(args))
	}

	var err error

	switch ev.Kind {
	case EventScroll:
		ev.Offset, err = strconv.ParseFloat(args[0], 64)
	case EventDrag:
		ev.DX, err = strconv.ParseFloat(args[0], 64)
		if err == nil {
			ev.DY, err = strconv.ParseFloat(args[1], 64)
		}
	case EventTab:
		tab, ok := profile.ParseTab(args[0])
		if !ok {
			return Event{}, false, errors.Wrapf(ErrBadEvent, "unknown tab %q", args[0])
		}
		ev.Tab = tab
	case EventSport, EventGlobal:
		ev.Sport = profile.Sport(strings.ToLower(args[0]))
	}

	if err != nil {
		return Event{}, false, errors.Wrapf(ErrBadEvent, "%s: %v", ev.Kind, err)
	}

	return ev, true, nil
}

// ParseScript parses a whole replay script
func ParseScript(r io.Reader) ([]Event, error) {
	var events []Event

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		ev, ok, err := ParseEvent(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}

		if ok {
			events = append(events, ev)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read replay script")
	}

	return events, nil
}

// Apply feeds one event to the controller and returns a short outcome
func Apply(c *viewport.Controller, store *profile.SportStore, ev Event) string {
	switch ev.Kind {
	case EventScroll:
		c.Scroll(ev.Offset)
		return ""

	case EventDrag:
		c.BeginDrag()
		c.Drag(ev.DX, ev.DY)
		if c.EndDrag(ev.DX, ev.DY) {
			return "swiped"
		}
		return "no swipe"

	case EventTab:
		if c.SelectTab(ev.Tab) {
			return "selected"
		}
		return "unchanged"

	case EventSport:
		if err := c.SetSport(ev.Sport); err != nil {
			return err.Error()
		}
		return ""

	case EventCycle:
		if _, ok := c.CycleSport(); !ok {
			return "single sport"
		}
		return ""

	case EventFollow:
		if !c.ToggleFollow() {
			return "own profile"
		}
		return ""

	case EventGlobal:
		store.Write(ev.Sport)
		return "published"

	case EventClose:
		c.Close()
		return "closed"
	}

	return ""
}

// RunReplay executes replay mode: the script's events are applied in order and
// the view state is printed as a table after each one.
func RunReplay(opts RunOptions, out io.Writer) error {
	screen, err := InitializeScreen(opts)
	if err != nil {
		return err
	}

	script, closeScript, err := openScript(opts.ReplayPath)
	if err != nil {
		return err
	}
	defer closeScript()

	events, err := ParseScript(script)
	if err != nil {
		return err
	}

	logger := logging.Default().Named("replay")

	c, err := screen.NewController(logger)
	if err != nil {
		return errors.Wrap(err, "failed to create profile controller")
	}
	defer c.Close()

	transitions := 0
	c.OnTransition(func(sticky bool) {
		transitions++
		logger.Debug("sticky transition", "sticky", sticky, "count", transitions)
	})

	return writeReplay(out, c, screen.Store, events)
}

// writeReplay prints the state table, starting with the mount state
func writeReplay(out io.Writer, c *viewport.Controller, store *profile.SportStore, events []Event) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(w, "#\tEvent\tOffset\tTranslateY\tOpacity\tSticky\tTab\tSport\tActions\tResult"); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	if _, err := fmt.Fprintln(w, "---\t-----\t------\t----------\t-------\t------\t---\t-----\t-------\t------"); err != nil {
		return errors.Wrap(err, "failed to write separator")
	}

	if err := writeState(w, 0, "mount", c.State(), ""); err != nil {
		return err
	}

	for i, ev := range events {
		result := Apply(c, store, ev)
		if err := writeState(w, i+1, ev.Line, c.State(), result); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush output")
	}

	return nil
}

// writeState writes one table row
func writeState(w io.Writer, n int, event string, st viewport.ViewState, result string) error {
	actions := make([]string, 0, 2)
	for _, a := range st.Actions() {
		actions = append(actions, string(a))
	}

	_, err := fmt.Fprintf(w, "%d\t%s\t%.1f\t%.1f\t%.3f\t%t\t%s\t%s\t%s\t%s\n",
		n,
		truncate(event, eventColumnWidth),
		st.Offset,
		st.Header.TranslateY,
		st.Header.Opacity,
		st.Sticky,
		st.ActiveTab,
		st.Sport,
		strings.Join(actions, ","),
		result,
	)
	if err != nil {
		return errors.Wrap(err, "failed to write state")
	}

	return nil
}

// openScript opens the replay script; "-" reads standard input
func openScript(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open replay script")
	}

	return f, func() {
		if err := f.Close(); err != nil {
			logging.Default().Warn("failed to close replay script", "err", err)
		}
	}, nil
}
