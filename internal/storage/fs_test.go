package storage

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/assetkit/internal/apperr"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("[UIImage imageNamed:@\"bg1\"];\n")
	if err := s.Write("View.m", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("View.m")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteKeepsMode(t *testing.T) {
	s := tempRoot(t)
	p := filepath.Join(s.Root(), "script.swift")
	if err := os.WriteFile(p, []byte("old"), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("script.swift", []byte("new")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestWriteNewFileDefaultMode(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("a/b/report.txt", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(filepath.Join(s.Root(), "a", "b", "report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != defaultFileMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), defaultFileMode)
	}
}

func TestMoveDirectory(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("Home/bg1.imageset/Contents.json", []byte("{}"))
	if err := s.Move("Home/bg1.imageset", "Home/app_bg1.imageset"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := s.Read("Home/app_bg1.imageset/Contents.json"); err != nil {
		t.Fatalf("Read after move: %v", err)
	}
	if s.Exists("Home/bg1.imageset") {
		t.Error("old path should not exist")
	}
}

func TestMoveRejectsExistingTarget(t *testing.T) {
	s := tempRoot(t)
	if err := os.MkdirAll(filepath.Join(s.Root(), "Home", "bg1.imageset"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(s.Root(), "Home", "app_bg1.imageset"), 0o755); err != nil {
		t.Fatal(err)
	}
	err := s.Move("Home/bg1.imageset", "Home/app_bg1.imageset")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	if !s.Exists("Home/bg1.imageset") {
		t.Error("source should be left in place")
	}
}

func TestDirs(t *testing.T) {
	s := tempRoot(t)
	for _, d := range []string{"Home", "Common", ".hidden"} {
		if err := os.Mkdir(filepath.Join(s.Root(), d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	_ = s.Write("Contents.json", []byte("{}"))

	dirs, err := s.Dirs("")
	if err != nil {
		t.Fatalf("Dirs: %v", err)
	}
	want := []string{".hidden", "Common", "Home"}
	if len(dirs) != len(want) {
		t.Fatalf("dirs = %v, want %v", dirs, want)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("dirs[%d] = %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestDirsFollowsSymlinks(t *testing.T) {
	target := t.TempDir()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "Home"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(root, "Shared")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "Broken")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "note.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(target, "note.txt"), filepath.Join(root, "NoteLink")); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	s, err := NewFS(root, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Dirs("")
	if err != nil {
		t.Fatalf("Dirs: %v", err)
	}
	want := []string{"Home", "Shared"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Dirs = %v, want %v", got, want)
	}
	if !bytes.Contains(logs.Bytes(), []byte("Broken")) {
		t.Errorf("broken symlink not logged: %s", logs.String())
	}
}

func TestFilesLogsUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "Locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "App.m"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var logs bytes.Buffer
	s, err := NewFS(root, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Files("", []string{".m"}, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(got) != 1 || got[0] != "App.m" {
		t.Errorf("Files = %v", got)
	}
	if !bytes.Contains(logs.Bytes(), []byte("unreadable entry skipped")) || !bytes.Contains(logs.Bytes(), []byte(locked)) {
		t.Errorf("unreadable dir not logged: %s", logs.String())
	}
}

func TestFilesFiltersAndSkips(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("App/View.m", []byte("a"))
	_ = s.Write("App/View.h", []byte("h"))
	_ = s.Write("App/Sub/Cell.swift", []byte("b"))
	_ = s.Write("Pods/Lib/Lib.m", []byte("pod"))
	_ = s.Write("App/Pods/Nested.swift", []byte("pod"))
	_ = s.Write("readme.txt", []byte("not source"))

	files, err := s.Files("", []string{".m", ".swift"}, []string{"Pods"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{
		filepath.Join("App", "Sub", "Cell.swift"),
		filepath.Join("App", "View.m"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.m",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if s.Exists(p) {
			t.Errorf("Exists(%q) should be false", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("atomic.m", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.m", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.m")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".assetkit-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "assetkit-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
