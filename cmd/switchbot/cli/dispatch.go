package cli

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kojiishi/switchbot-go/pkg/switchbot"
)

// defaultParallelThreshold is the selection size at which dispatch
// switches from sequential to concurrent.
const defaultParallelThreshold = 2

func (c *Cli) parallelThreshold() int {
	if c.config.ParallelThreshold > 0 {
		return c.config.ParallelThreshold
	}
	return defaultParallelThreshold
}

// forEachSelectedDevice runs fnAsync once per selected device, then
// fnPost for every device whose fnAsync succeeded, in selection order.
//
// Small selections run sequentially; at the parallel threshold the
// fnAsync calls run concurrently, one goroutine per device. Either
// way, every device is attempted. When some fail, the failures are
// logged and the last one in selection order becomes the return value,
// after the post step has run for all successes. An fnPost error stops
// the walk immediately.
func (c *Cli) forEachSelectedDevice(
	ctx context.Context,
	fnAsync func(context.Context, *switchbot.Device) error,
	fnPost func(*switchbot.Device) error,
) error {
	devices := make([]*switchbot.Device, len(c.current))
	for i, index := range c.current {
		devices[i] = c.devices().At(index)
	}

	results := make([]error, len(devices))
	if len(devices) < c.parallelThreshold() {
		slog.Debug("dispatch: sequential", "devices", len(devices))
		for i, device := range devices {
			results[i] = fnAsync(ctx, device)
		}
	} else {
		slog.Debug("dispatch: parallel", "devices", len(devices))
		var wg sync.WaitGroup
		for i, device := range devices {
			wg.Add(1)
			go func(i int, device *switchbot.Device) {
				defer wg.Done()
				results[i] = fnAsync(ctx, device)
			}(i, device)
		}
		wg.Wait()
	}

	lastErrorIndex := -1
	for i, err := range results {
		if err != nil {
			lastErrorIndex = i
		}
	}
	var lastErr error
	for i, device := range devices {
		if err := results[i]; err != nil {
			if i == lastErrorIndex {
				lastErr = err
			} else {
				slog.Error(err.Error())
			}
			continue
		}
		if err := fnPost(device); err != nil {
			return err
		}
	}
	return lastErr
}
