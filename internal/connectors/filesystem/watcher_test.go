package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Validate(t *testing.T) {
	t.Run("accepts directory", func(t *testing.T) {
		assert.NoError(t, New(t.TempDir()).Validate(context.Background()))
	})

	t.Run("rejects missing path", func(t *testing.T) {
		err := New("/non/existent/path").Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("rejects file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "a.txt")
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
		err := New(f).Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Equal(t, context.Canceled, New(t.TempDir()).Validate(ctx))
	})
}

func TestWatcher_Scan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("%PDF-"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("text"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "c.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "d.docx"), []byte("PK"), 0o644))

	w := New(dir, WithExtensions([]string{".txt", ".PDF", ".docx"}))
	changes, err := w.Scan(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, c := range changes {
		paths = append(paths, c.Path)
		assert.Equal(t, ChangeCreated, c.Type)
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "d.docx"),
	}, paths)
	assert.Equal(t, "application/pdf", changes[1].MIMEType)
}

func TestWatcher_Watch(t *testing.T) {
	t.Run("reports new files", func(t *testing.T) {
		dir := t.TempDir()
		w := New(dir, WithSettle(0))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := w.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(dir, "new-contract.txt"), []byte("content"), 0o644)
		}()

		select {
		case c := <-changes:
			assert.Contains(t, c.Path, "new-contract.txt")
			assert.Equal(t, "text/plain", c.MIMEType)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change event")
		}
	})

	t.Run("coalesces writes within the settle period", func(t *testing.T) {
		dir := t.TempDir()
		w := New(dir, WithSettle(150*time.Millisecond))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := w.Watch(ctx)
		require.NoError(t, err)

		path := filepath.Join(dir, "draft.txt")
		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(path, []byte("one"), 0o644)
			_ = os.WriteFile(path, []byte("two"), 0o644)
		}()

		select {
		case c := <-changes:
			assert.Equal(t, path, c.Path)
			assert.Equal(t, ChangeCreated, c.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for settled change")
		}

		select {
		case c := <-changes:
			t.Fatalf("unexpected second change %+v", c)
		case <-time.After(300 * time.Millisecond):
		}
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		w := New(t.TempDir())
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		changes, err := w.Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		changes, err := New("/non/existent/path").Watch(context.Background())
		assert.Error(t, err)
		assert.Nil(t, changes)
	})

	t.Run("returns error when closed", func(t *testing.T) {
		w := New(t.TempDir())
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())

		changes, err := w.Watch(context.Background())
		assert.ErrorIs(t, err, ErrWatcherClosed)
		assert.Nil(t, changes)
	})
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		dir      bool
		create   bool
		op       fsnotify.Op
		want     bool
		wantType ChangeType
	}{
		{name: "create", file: "a.txt", create: true, op: fsnotify.Create, want: true, wantType: ChangeCreated},
		{name: "write", file: "a.txt", create: true, op: fsnotify.Write, want: true, wantType: ChangeUpdated},
		{name: "remove ignored", file: "gone.txt", op: fsnotify.Remove},
		{name: "rename ignored", file: "gone.txt", op: fsnotify.Rename},
		{name: "chmod ignored", file: "a.txt", create: true, op: fsnotify.Chmod},
		{name: "directory ignored", file: "sub", dir: true, op: fsnotify.Create},
		{name: "hidden ignored", file: ".a.txt", create: true, op: fsnotify.Create},
		{name: "extension filtered", file: "a.png", create: true, op: fsnotify.Create},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), ".clauseguard", "inbox")
			require.NoError(t, os.MkdirAll(root, 0o755))
			path := filepath.Join(root, tt.file)
			if tt.dir {
				require.NoError(t, os.Mkdir(path, 0o755))
			} else if tt.create {
				require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
			}

			w := New(root, WithExtensions([]string{".txt"}))
			got := w.handleFsEvent(fsnotify.Event{Name: path, Op: tt.op})
			if !tt.want {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, path, got.Path)
		})
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := map[string]string{
		"contract":         "text/plain",
		"contract.txt":     "text/plain",
		"notes.MD":         "text/markdown",
		"deal.pdf":         "application/pdf",
		"deal.docx":        "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"page.htm":         "text/html",
		"file.zzzzunknown": "application/octet-stream",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got := detectMIMEType(name)
			assert.Equal(t, want, got)
			assert.NotContains(t, got, ";")
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := map[string]bool{
		".hidden":             true,
		"path/to/.hidden":     true,
		"/path/.git/config":   true,
		"file.txt":            false,
		"path/to/file.txt":    false,
		".":                   false,
		"..":                  false,
		"path/../file":        false,
		"":                    false,
		"/":                   false,
		"directory.name/file": false,
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, isHidden(path))
		})
	}
}
