package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestInvalidator(t *testing.T) (*RedisInvalidator, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	inv, err := NewRedisInvalidator("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create invalidator: %v", err)
	}
	return inv, s
}

func TestInvalidateTagsDeletesRegisteredKeys(t *testing.T) {
	inv, s := setupTestInvalidator(t)
	defer inv.Close()

	ctx := context.Background()
	s.Set("page:menu:m1", "cached-html")
	s.Set("page:menu:m1:compact", "cached-html")
	s.SetAdd("cache:tag:menu-m1", "page:menu:m1", "page:menu:m1:compact")

	if err := inv.InvalidateTags(ctx, MenuTag("m1")); err != nil {
		t.Fatalf("InvalidateTags failed: %v", err)
	}

	if s.Exists("page:menu:m1") || s.Exists("page:menu:m1:compact") {
		t.Error("cached keys should be deleted")
	}
	if s.Exists("cache:tag:menu-m1") {
		t.Error("tag set should be deleted")
	}
}

func TestInvalidateUnknownTagIsNoop(t *testing.T) {
	inv, _ := setupTestInvalidator(t)
	defer inv.Close()

	if err := inv.InvalidateTags(context.Background(), SubdomainTag("nobody")); err != nil {
		t.Fatalf("unknown tag should not error: %v", err)
	}
}

func TestInvalidateTagsIsIdempotent(t *testing.T) {
	inv, s := setupTestInvalidator(t)
	defer inv.Close()

	ctx := context.Background()
	s.Set("page:org:o1", "cached")
	s.SetAdd("cache:tag:menus-o1", "page:org:o1")

	for i := 0; i < 3; i++ {
		if err := inv.InvalidateTags(ctx, MenusTag("o1")); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}
}

func TestRevalidatePathPublishes(t *testing.T) {
	inv, s := setupTestInvalidator(t)
	defer inv.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, RevalidateChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := inv.RevalidatePath(ctx, "/taqueria-norte"); err != nil {
		t.Fatalf("RevalidatePath failed: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		if msg.Payload != "/taqueria-norte" {
			t.Errorf("expected path payload, got %q", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for revalidate message")
	}
}

func TestTagBuilders(t *testing.T) {
	if got := MenuTag("m1"); got != "menu-m1" {
		t.Errorf("MenuTag = %q", got)
	}
	if got := MenusTag("o1"); got != "menus-o1" {
		t.Errorf("MenusTag = %q", got)
	}
	if got := SubdomainTag("taqueria"); got != "subdomain-taqueria" {
		t.Errorf("SubdomainTag = %q", got)
	}
}
