package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionRegistrySetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewSessionRegistry(client, time.Minute)

	session := registry.GetOrCreate(sampleQuiz())
	if !mr.Exists("quiz:session:ABC123") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if again := registry.GetOrCreate(sampleQuiz()); again != session {
		t.Fatalf("expected one authoritative session per game code")
	}

	registry.Delete("ABC123")
	if mr.Exists("quiz:session:ABC123") {
		t.Fatalf("expected redis liveness key to be removed")
	}
	if _, ok := registry.Get("ABC123"); ok {
		t.Fatalf("expected session removed from local map")
	}
}
