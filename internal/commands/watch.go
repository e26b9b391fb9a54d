package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/remote"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: an interactive list whose filters
// are toggled from stdin. Rapid toggles are coalesced into one fetch.
//
// Keys (one per line):
//
//	h  toggle hide-completed
//	t  toggle today-only
//	r  refetch
//	q  quit
type WatchCmd struct {
	hideCompleted bool
	today         bool
	long          bool
	in            io.Reader
}

// SetInput sets the key source (for testing). Defaults to os.Stdin.
func (c *WatchCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "List tasks, toggling filters from stdin" }
func (c *WatchCmd) Usage() string {
	return "taskdeck watch [--hide-completed] [--today] [--long]"
}
func (c *WatchCmd) NeedsAuth() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.hideCompleted, "hide-completed", false, "")
	fs.BoolVar(&c.today, "today", false, "")
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	sess := newSession(cfg, svc)

	// mu guards filter between the key loop and the debouncer.
	var mu sync.Mutex
	filter := service.FetchFilter{HideCompleted: c.hideCompleted, ShowTodayOnly: c.today}
	current := func() service.FetchFilter {
		mu.Lock()
		defer mu.Unlock()
		return filter
	}

	unsubscribe := sess.store.Subscribe(func(a store.Action, s store.State) {
		switch a := a.(type) {
		case store.Loaded:
			if a.Seq != s.LastFetchSeq {
				return
			}
			fmt.Fprintln(out, filterLine(a.Filter))
			if len(s.Tasks) == 0 && !cfg.Quiet {
				fmt.Fprintln(out, "no tasks found")
			}
			output.FormatTasks(out, s.Tasks, c.long)
		case store.Rejected:
			if a.Seq != 0 && a.Seq < s.LastFetchSeq {
				return
			}
			fmt.Fprintf(errOut, "error: %s\n", a.Message)
		}
	})
	defer unsubscribe()

	d := remote.NewDebouncer(ctx, sess.syncer, cfg.FetchDebounce)
	d.Request(current())

	scanner := bufio.NewScanner(in)
loop:
	for scanner.Scan() {
		key := strings.TrimSpace(scanner.Text())
		mu.Lock()
		switch key {
		case "h":
			filter.HideCompleted = !filter.HideCompleted
		case "t":
			filter.ShowTodayOnly = !filter.ShowTodayOnly
		case "r", "":
		case "q":
			mu.Unlock()
			break loop
		default:
			mu.Unlock()
			fmt.Fprintf(errOut, "error: unknown key: %q (h, t, r, q)\n", key)
			continue
		}
		mu.Unlock()
		if key != "" {
			d.Request(current())
		}
	}

	d.Flush()
	d.Wait()

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: reading input: %v\n", err)
		return exitcode.UserError
	}
	if msg := sess.store.State().Error; msg != "" {
		return exitcode.BackendError
	}
	return exitcode.Success
}

func filterLine(f service.FetchFilter) string {
	return fmt.Sprintf("-- hide-completed: %s, today: %s --", onOff(f.HideCompleted), onOff(f.ShowTodayOnly))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
