package assets_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"ecss/assets"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ui.css"), ".big {width: 100px;}")

	loader := assets.NewLoader(dir, zap.NewNop())
	sheet, err := loader.Load("ui.css")
	if err != nil {
		t.Fatal(err)
	}
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected one rule, got %d", len(sheet.Rules))
	}
	if sheet.Source != "ui.css" {
		t.Errorf("source must be the requested path, got %q", sheet.Source)
	}

	again, err := loader.Load("ui.css")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID == sheet.ID {
		t.Error("every load must mint a fresh sheet identity")
	}

	if _, err := loader.Load("absent.css"); err == nil {
		t.Error("missing file must be reported")
	}
}

func TestLoader_Resolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "icon.png"), "png")

	loader := assets.NewLoader(dir, zap.NewNop())
	got, err := loader.Resolve("icon.png")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "icon.png") {
		t.Errorf("resolve must return the absolute location, got %v", got)
	}
	if _, err := loader.Resolve("missing.png"); err == nil {
		t.Error("missing asset must be reported")
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ui.css"), ".big {width: 100px;}")

	loader := assets.NewLoader(dir, zap.NewNop())
	sheet, err := loader.Load("ui.css")
	if err != nil {
		t.Fatal(err)
	}

	w, err := assets.NewWatcher(loader, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Watch("ui.css", sheet); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(dir, "ui.css"), ".big {width: 200px;}")

	select {
	case ev := <-w.Events():
		if ev.Old.ID != sheet.ID {
			t.Errorf("reload must name the replaced sheet, got %v", ev.Old.ID)
		}
		if ev.Sheet.ID == sheet.ID {
			t.Error("reload must carry a fresh sheet identity")
		}
		if len(ev.Sheet.Rules) != 1 {
			t.Errorf("reloaded sheet must be parsed, got %d rules", len(ev.Sheet.Rules))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the reload event")
	}
}
