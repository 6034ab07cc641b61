package backup

import "sync"

// Report lists the jobs a batch operation handled. A batch always runs to
// the end, so Failed only tells the caller what was skipped.
type Report struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

type reportBuilder struct {
	mu     sync.Mutex
	report Report
}

func (b *reportBuilder) success(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Succeeded = append(b.report.Succeeded, name)
}

func (b *reportBuilder) failure(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Failed = append(b.report.Failed, name)
}
