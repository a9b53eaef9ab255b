package usecase

import "fmt"

// progressStep returns the reporting interval for a run: one report per 10%
// of the workload, never further apart than 50 messages.
func progressStep(total int) int {
	step := (total + 9) / 10
	if step > 50 {
		step = 50
	}
	if step < 1 {
		step = 1
	}
	return step
}

// progressReporter emits throttled progress notifications during the
// processing stage. The final count is always reported, without duplicating
// a report already emitted at the same count.
type progressReporter struct {
	total    int
	step     int
	reported int
	notify   NotifyFunc
}

func newProgressReporter(total int, notify NotifyFunc) *progressReporter {
	return &progressReporter{total: total, step: progressStep(total), reported: -1, notify: notify}
}

func (p *progressReporter) update(processed int) {
	if processed != p.total && processed%p.step != 0 {
		return
	}
	if processed == p.reported {
		return
	}
	p.reported = processed
	p.notify(fmt.Sprintf("Processed %d/%d messages (%d%%)", processed, p.total, processed*100/p.total))
}
