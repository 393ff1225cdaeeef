package cache

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(0)

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.Set("a", []byte("hello")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("Get() = %q, want hello", got)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrNotFound", err)
	}
	if err := s.Remove("a"); err != nil {
		t.Errorf("Remove() of missing key error = %v, want nil", err)
	}
}

func TestMemoryStoreQuota(t *testing.T) {
	s := NewMemoryStore(10)

	if err := s.Set("a", []byte("12345")); err != nil {
		t.Fatalf("Set() under quota error = %v", err)
	}
	if err := s.Set("b", []byte("123456")); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set() over quota error = %v, want ErrQuotaExceeded", err)
	}

	// Replacing an existing value counts only the new size for that key.
	if err := s.Set("a", []byte("1234567890")); err != nil {
		t.Errorf("Set() replacing within quota error = %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore(0)
	v := []byte("abc")
	if err := s.Set("a", v); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v[0] = 'z'

	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte("abc")) {
		t.Errorf("stored value aliased caller slice: got %q", got)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.Set("a", []byte("one")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("a", []byte("two")); err != nil {
		t.Fatalf("Set() upsert error = %v", err)
	}

	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte("two")) {
		t.Errorf("Get() = %q, want two", got)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove error = %v, want ErrNotFound", err)
	}
}
