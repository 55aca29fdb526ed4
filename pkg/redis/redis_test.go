package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Ping(_ context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) *goredis.StatusCmd {
	f.data[key] = toString(value)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(_ context.Context, key string) *goredis.StringCmd {
	val, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(val, nil)
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) *goredis.BoolCmd {
	if _, ok := f.data[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.data[key] = toString(value)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			removed++
		}
	}
	return goredis.NewIntResult(removed, nil)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	client := NewFromStore(newFakeStore())

	_, err := client.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetThenGet(t *testing.T) {
	client := NewFromStore(newFakeStore())

	if err := client.Set(context.Background(), "k", "v", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, err := client.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "v" {
		t.Fatalf("expected %q, got %q", "v", val)
	}
}

func TestSetNXOnlyFirstWrite(t *testing.T) {
	client := NewFromStore(newFakeStore())

	first, err := client.SetNX(context.Background(), "k", "v1", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatal("first SetNX should win")
	}

	second, err := client.SetNX(context.Background(), "k", "v2", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second {
		t.Fatal("second SetNX should lose")
	}

	val, _ := client.Get(context.Background(), "k")
	if val != "v1" {
		t.Fatalf("expected original value, got %q", val)
	}
}

func TestDelRemovesKeys(t *testing.T) {
	client := NewFromStore(newFakeStore())

	_ = client.Set(context.Background(), "a", "1", time.Minute)
	_ = client.Set(context.Background(), "b", "2", time.Minute)
	if err := client.Del(context.Background(), "a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.Get(context.Background(), "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSnapshotKey(t *testing.T) {
	client := NewFromStore(newFakeStore())

	withUpload := client.SnapshotKey("m1", "u1")
	if withUpload != "sp:snapshot:m1:u1" {
		t.Fatalf("unexpected key %q", withUpload)
	}
	allUploads := client.SnapshotKey("m1", "")
	if allUploads != "sp:snapshot:m1:all" {
		t.Fatalf("unexpected key %q", allUploads)
	}
}

func TestConsumerKey(t *testing.T) {
	client := NewFromStore(newFakeStore())

	key := client.ConsumerKey("insights", "evt-1")
	if key != "sp:consumer:insights:evt-1" {
		t.Fatalf("unexpected key %q", key)
	}
}
