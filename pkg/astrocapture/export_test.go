package astrocapture

import "time"

// SetClock overrides the dispatcher's timestamp source in tests.
func SetClock(d *Dispatcher, now func() time.Time) {
	d.now = now
}
