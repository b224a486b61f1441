package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	creds := New("")
	want := "postgres://quest@localhost:5432/lifequest?sslmode=disable"

	if err := creds.SetConnectionString(want); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := creds.ConnectionString()
	if err != nil {
		t.Fatalf("ConnectionString() failed: %v", err)
	}
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	gokeyring.MockInit()

	if err := New("default").SetConnectionString("postgres://a@host/db"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	_, err := New("staging").ConnectionString()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ConnectionString() for other profile error = %v, want %v", err, ErrNotFound)
	}

	got, err := New("").ConnectionString()
	if err != nil || got != "postgres://a@host/db" {
		t.Errorf("ConnectionString() for empty profile = %q, %v", got, err)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := New("").SetConnectionString("   "); err == nil {
		t.Error("SetConnectionString(blank) should return an error")
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	creds := New("work")
	if err := creds.DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() on empty keyring error = %v, want %v", err, ErrNotFound)
	}

	if err := creds.SetConnectionString("host=localhost dbname=lifequest"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := creds.DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := creds.ConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("ConnectionString() after delete error = %v, want %v", err, ErrNotFound)
	}
}
