package grade

import (
	"context"

	"github.com/gogpu/grade/scheduler"
)

// Live drives an Engine from an interactive view. Every state change calls
// Invalidate; renders run on a background goroutine, one at a time and
// throttled, and each result is handed to the present callback.
type Live struct {
	sched *scheduler.Scheduler
}

// Live starts a live view that renders at full size.
// Call Close when the view goes away.
func (e *Engine) Live(present func(*ImageBuffer, error), opts ...scheduler.Option) *Live {
	return e.live(e.Render, present, opts)
}

// LivePreview starts a live view that renders a proxy fitted within
// maxWidth×maxHeight.
func (e *Engine) LivePreview(maxWidth, maxHeight int, present func(*ImageBuffer, error), opts ...scheduler.Option) *Live {
	return e.live(func() (*ImageBuffer, error) {
		return e.RenderPreview(maxWidth, maxHeight)
	}, present, opts)
}

func (e *Engine) live(render func() (*ImageBuffer, error), present func(*ImageBuffer, error), opts []scheduler.Option) *Live {
	opts = append([]scheduler.Option{scheduler.WithLogger(e.log())}, opts...)
	s := scheduler.New(func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := render()
		// A view closed mid-render no longer wants the frame.
		if ctx.Err() == nil && present != nil {
			present(out, err)
		}
		return err
	}, opts...)
	return &Live{sched: s}
}

// Invalidate requests a render of the current state. Bursts of calls
// collapse into at most one pending render.
func (l *Live) Invalidate() {
	l.sched.Request()
}

// Stats reports how many renders were started and how many requests were
// coalesced.
func (l *Live) Stats() scheduler.Stats {
	return l.sched.Stats()
}

// Close stops scheduling and waits for an in-flight render to finish.
func (l *Live) Close() {
	l.sched.Close()
}
