package msg

import (
	"fmt"
	"strconv"
	"time"
)

// Progress counts units of work and renders a `[current/total]` prefix for status lines
type Progress struct {
	Total   int
	Current int
	Start   time.Time
}

func NewProgress(total int) *Progress {
	return &Progress{
		Total: total,
		Start: time.Now(),
	}
}

// Step advances the counter and returns the prefix for the new unit
func (p *Progress) Step() string {
	p.Current++
	width := len(strconv.Itoa(max(p.Total, 1)))
	return fmt.Sprintf("[%*d/%d]", width, p.Current, p.Total)
}

// Elapsed returns the time since the progress was created, rounded for display
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.Start).Round(time.Millisecond)
}
