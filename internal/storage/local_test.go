package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T) *LocalStorageClient {
	t.Helper()
	client, err := NewLocalStorageClient(filepath.Join(t.TempDir(), "exports"))
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewLocalStorageClientCreatesBaseDir(t *testing.T) {
	client := newTestClient(t)

	info, err := os.Stat(client.BaseDir())
	if err != nil || !info.IsDir() {
		t.Errorf("Expected base directory to exist, got %v", err)
	}
}

func TestLocalStoreAndGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	path := "2024/03/01/ChartExport-2024-03-01-10-00-00/novelty.svg"
	if err := client.StoreFile(ctx, path, []byte("<svg/>")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}

	data, err := client.GetFile(ctx, path)
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("Expected <svg/>, got %q", data)
	}

	exists, err := client.FileExists(ctx, path)
	if err != nil || !exists {
		t.Errorf("Expected file to exist, got %v, %v", exists, err)
	}
	exists, _ = client.FileExists(ctx, "2024/03/01")
	if exists {
		t.Error("Directories must not count as files")
	}
}

func TestLocalGetMissing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetFile(context.Background(), "nope.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLocalRejectsEscapingPaths(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, p := range []string{"../secret", "a/../../b", "/etc/passwd"} {
		if err := client.StoreFile(ctx, p, []byte("x")); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("StoreFile(%q): expected ErrInvalidPath, got %v", p, err)
		}
		if _, err := client.GetFile(ctx, p); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("GetFile(%q): expected ErrInvalidPath, got %v", p, err)
		}
	}
}

func TestLocalListDir(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, p := range []string{"a/one.json", "a/b/two.png", "a/b/c/three.svg", "root.txt"} {
		if err := client.StoreFile(ctx, p, []byte("x")); err != nil {
			t.Fatalf("StoreFile(%s) failed: %v", p, err)
		}
	}

	tests := []struct {
		name      string
		dir       string
		recursive bool
		want      []string
	}{
		{"direct children", "a", false, []string{"a/one.json"}},
		{"recursive", "a", true, []string{"a/b/c/three.svg", "a/b/two.png", "a/one.json"}},
		{"root", "", false, []string{"root.txt"}},
		{"missing dir", "zzz", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.ListDir(ctx, tt.dir, tt.recursive)
			if err != nil {
				t.Fatalf("ListDir failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLocalCreateDir(t *testing.T) {
	client := newTestClient(t)

	if err := client.CreateDir(context.Background(), "2024/03/01"); err != nil {
		t.Fatalf("CreateDir failed: %v", err)
	}
	if info, err := os.Stat(filepath.Join(client.BaseDir(), "2024", "03", "01")); err != nil || !info.IsDir() {
		t.Errorf("Expected directory to exist, got %v", err)
	}
}
