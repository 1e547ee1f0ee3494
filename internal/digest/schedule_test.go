package digest

import (
	"context"
	"errors"
	"testing"

	"jobfinder-engine/internal/search"
)

type fakeSearcher struct {
	res search.Result
	err error
}

func (f fakeSearcher) Search(context.Context, search.Request) (search.Result, error) {
	return f.res, f.err
}

func TestSubscriptionCronSpec(t *testing.T) {
	if got, _ := (Subscription{Frequency: "Weekly", At: "07:15"}).CronSpec(); got != "15 7 * * 1" {
		t.Fatalf("got %q", got)
	}
	if got, _ := (Subscription{Spec: "@hourly", Frequency: "Weekly"}).CronSpec(); got != "@hourly" {
		t.Fatalf("got %q", got)
	}
}

func TestTaskSendsDigest(t *testing.T) {
	tr := &fakeTransport{}
	m := NewMailer(creds, nil, WithTransport(tr))
	s := fakeSearcher{res: search.Result{Request: search.Request{Keyword: "ml"}, Records: records(2)}}

	if err := m.Task(s, Subscription{To: "you@example.com"})(context.Background()); err != nil {
		t.Fatalf("task: %v", err)
	}
	if len(tr.msg) == 0 {
		t.Fatal("nothing sent")
	}
}

func TestTaskReportsFailures(t *testing.T) {
	m := NewMailer(creds, nil, WithTransport(&fakeTransport{}))
	if err := m.Task(fakeSearcher{err: errors.New("boom")}, Subscription{To: "you@example.com"})(context.Background()); err == nil {
		t.Fatal("expected search error")
	}
	m = NewMailer(Config{}, nil, WithTransport(&fakeTransport{}))
	if err := m.Task(fakeSearcher{}, Subscription{To: "you@example.com"})(context.Background()); err == nil {
		t.Fatal("expected delivery error")
	}
}
