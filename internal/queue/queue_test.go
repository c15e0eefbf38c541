package queue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// testQueue connects to FIXWORKER_TEST_REDIS_URL and skips without it.
func testQueue(t *testing.T) *Queue {
	t.Helper()
	url := os.Getenv("FIXWORKER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FIXWORKER_TEST_REDIS_URL not set")
	}
	name := "fixworker-test-" + jobs.NewID()
	q, err := Open(context.Background(), url, name, time.Second)
	if err != nil {
		t.Fatalf("open queue: %v", err)
	}
	t.Cleanup(func() {
		q.rdb.Del(context.Background(), name)
		q.Close()
	})
	return q
}

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open(context.Background(), "not-a-url", "q", time.Second); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPushPop_FIFO(t *testing.T) {
	q := testQueue(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := q.Push(ctx, &jobs.Payload{JobID: id, Question: "q"}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if n, err := q.Len(ctx); err != nil || n != 2 {
		t.Fatalf("expected 2 waiting, got %d %v", n, err)
	}
	for _, want := range []string{"a", "b"} {
		p, err := q.Pop(ctx)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if p == nil || p.JobID != want {
			t.Fatalf("expected %s, got %+v", want, p)
		}
	}
}

func TestPop_Timeout(t *testing.T) {
	q := testQueue(t)
	p, err := q.Pop(context.Background())
	if err != nil || p != nil {
		t.Fatalf("expected nil, nil on timeout, got %+v %v", p, err)
	}
}

func TestPop_Malformed(t *testing.T) {
	q := testQueue(t)
	ctx := context.Background()
	if err := q.rdb.RPush(ctx, q.Name(), `{"jobId":`).Err(); err != nil {
		t.Fatal(err)
	}
	if _, err := q.Pop(ctx); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestConnected(t *testing.T) {
	q := testQueue(t)
	if !q.Connected(context.Background()) {
		t.Error("expected connected")
	}
}
