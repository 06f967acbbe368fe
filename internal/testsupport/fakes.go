package testsupport

import (
	"context"
	"sync"

	"reclaim/internal/report"
	"reclaim/internal/services/moderation"
)

// FakeMatcher returns canned matches or an injected error.
type FakeMatcher struct {
	Matches []report.MatchResult
	Err     error
	Calls   int
}

// FindMatches implements matcher.Service.
func (f *FakeMatcher) FindMatches(_ context.Context, _ *report.Report) ([]report.MatchResult, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]report.MatchResult, len(f.Matches))
	copy(out, f.Matches)
	return out, nil
}

// FakeGate returns scripted verdicts per call, falling back to Safe.
type FakeGate struct {
	Verdicts []moderation.Verdict
	Err      error
	calls    int
}

// CheckImage implements moderation.Gate.
func (f *FakeGate) CheckImage(_ context.Context, _ []byte) (moderation.Verdict, error) {
	if f.Err != nil {
		return moderation.Indeterminate, f.Err
	}
	verdict := moderation.Safe
	if f.calls < len(f.Verdicts) {
		verdict = f.Verdicts[f.calls]
	}
	f.calls++
	return verdict, nil
}

// SentMail captures one delivery attempt.
type SentMail struct {
	To      string
	Subject string
	HTML    string
}

// FakeSender records sends and optionally fails them.
type FakeSender struct {
	Err error

	mu   sync.Mutex
	sent []SentMail
}

// Send implements mailer.Sender.
func (f *FakeSender) Send(_ context.Context, to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.sent = append(f.sent, SentMail{To: to, Subject: subject, HTML: html})
	return nil
}

// Sent returns a copy of the recorded deliveries.
func (f *FakeSender) Sent() []SentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentMail, len(f.sent))
	copy(out, f.sent)
	return out
}
