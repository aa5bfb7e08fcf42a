package memory

import "testing"

func TestSessionRegistryLifecycle(t *testing.T) {
	registry := NewSessionRegistry()
	quiz := sampleQuiz()

	session := registry.GetOrCreate(quiz)
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := registry.GetOrCreate(quiz); again != session {
		t.Fatalf("expected one authoritative session per game code")
	}
	if _, ok := registry.Get("ABC123"); !ok {
		t.Fatalf("expected session present")
	}

	registry.Delete("ABC123")
	if _, ok := registry.Get("ABC123"); ok {
		t.Fatalf("expected session removed")
	}
}
