package chain

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	name       string
	configured bool
	text       string
	err        error
	calls      int
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) Invoke(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestRunFirstSuccessWins(t *testing.T) {
	t.Parallel()

	p1 := &fakeProvider{name: "one", configured: true, err: errors.New("boom")}
	p2 := &fakeProvider{name: "two", configured: true, text: "result"}
	p3 := &fakeProvider{name: "three", configured: true, text: "never"}

	out, attempts, err := Run(context.Background(), nil, []Provider[string]{p1, p2, p3}, "in")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out != "result" {
		t.Fatalf("expected output from second provider, got %q", out)
	}
	if p3.calls != 0 {
		t.Fatalf("provider after the winner must not be invoked, got %d calls", p3.calls)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].Status != StatusFailed || attempts[1].Status != StatusOK {
		t.Fatalf("unexpected attempt statuses: %v %v", attempts[0].Status, attempts[1].Status)
	}
}

func TestRunSkipsUnconfigured(t *testing.T) {
	t.Parallel()

	p1 := &fakeProvider{name: "one", configured: false}
	p2 := &fakeProvider{name: "two", configured: true, text: "ok"}

	out, attempts, err := Run(context.Background(), nil, []Provider[string]{p1, p2}, "in")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
	if p1.calls != 0 {
		t.Fatalf("unconfigured provider must never be invoked")
	}
	if attempts[0].Status != StatusSkipped {
		t.Fatalf("expected skipped status, got %v", attempts[0].Status)
	}
	if attempts[0].Err != nil {
		t.Fatalf("a skip is not a failure, got error %v", attempts[0].Err)
	}
}

func TestRunExhaustion(t *testing.T) {
	t.Parallel()

	p1 := &fakeProvider{name: "one", configured: false}
	p2 := &fakeProvider{name: "two", configured: true, err: errors.New("down")}

	out, attempts, err := Run(context.Background(), nil, []Provider[string]{p1, p2}, "in")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if out != "" {
		t.Fatalf("exhausted chain must not produce text, got %q", out)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
}

func TestRunNoProviders(t *testing.T) {
	t.Parallel()

	_, _, err := Run(context.Background(), nil, nil, "in")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("empty chain must report exhaustion, got %v", err)
	}
}
