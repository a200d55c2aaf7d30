package circadia

import (
	"context"
	"sync"
	"time"
)

type ReloadSupervisor struct {
	View     *View
	Interval time.Duration
	Ticker   *time.Ticker
	StopChan chan struct{}
	WG       sync.WaitGroup
}

// NewReloadSupervisor is a wrapper around the View that reloads the data
// on an interval. They are strongly coupled, one knows about the other
func (v *View) NewReloadSupervisor(interval time.Duration) *ReloadSupervisor {
	rs := &ReloadSupervisor{
		View:     v,
		Interval: interval,
	}
	v.Supervisor = rs
	return rs
}

// Start the ReloadSupervisor, it also stops when ctx is done
func (p *ReloadSupervisor) Start(ctx context.Context) {
	p.StopChan = make(chan struct{})
	p.Ticker = time.NewTicker(p.Interval)

	p.WG.Add(1)
	go func() {
		defer p.WG.Done()
		defer p.Ticker.Stop()

		for {
			select {
			case <-p.Ticker.C:
				// errors are logged and counted by Reload
				_ = p.View.Reload(ctx)
			case <-p.StopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop the ReloadSupervisor
func (p *ReloadSupervisor) Stop() {
	if p.StopChan != nil {
		close(p.StopChan)
		p.WG.Wait()
		p.StopChan = nil
	}
}
