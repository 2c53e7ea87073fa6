package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vkleads/pkg/errors"
	"vkleads/pkg/models"
)

func TestNewManagerCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected reports directory to exist: %v", err)
	}
	if manager.Path("a.json") != filepath.Join(dir, "a.json") {
		t.Errorf("Unexpected path %s", manager.Path("a.json"))
	}
}

func TestWriteJSONFormatting(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	record := map[string]string{"text": "Фотограф <Новосибирск> & co"}
	if err := manager.WriteJSON("out.json", record); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(manager.Path("out.json"))
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	want := "{\n  \"text\": \"Фотограф <Новосибирск> & co\"\n}\n"
	if string(data) != want {
		t.Errorf("Unexpected snapshot content:\n%s", data)
	}

	if _, err := os.Stat(manager.Path("out.json.tmp")); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be removed")
	}
}

func TestWriteJSONOverwrites(t *testing.T) {
	manager, _ := NewManager(t.TempDir())

	if err := manager.WriteJSON("list.json", []int{1, 2, 3}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if err := manager.WriteJSON("list.json", []int{}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var got []int
	if err := manager.ReadJSON("list.json", &got); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty list after overwrite, got %v", got)
	}
}

func TestReadJSONMissing(t *testing.T) {
	manager, _ := NewManager(t.TempDir())

	var v []int
	err := manager.ReadJSON("missing.json", &v)
	if err == nil {
		t.Fatal("Expected error for missing snapshot")
	}
	if !IsNotFound(err) {
		t.Errorf("Expected IsNotFound, got %v", err)
	}
	if !errors.IsConfig(err) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	manager, _ := NewManager(t.TempDir())
	os.WriteFile(manager.Path("bad.json"), []byte("{not json"), 0644)

	var v map[string]interface{}
	err := manager.ReadJSON("bad.json", &v)
	if err == nil {
		t.Fatal("Expected error for malformed snapshot")
	}
	if IsNotFound(err) {
		t.Error("Malformed snapshot must not be reported as missing")
	}
	if !errors.IsConfig(err) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestWriteLines(t *testing.T) {
	manager, _ := NewManager(t.TempDir())

	if err := manager.WriteLines("report.txt", []string{"a", "b"}); err != nil {
		t.Fatalf("WriteLines failed: %v", err)
	}
	data, _ := os.ReadFile(manager.Path("report.txt"))
	if string(data) != "a\nb\n" {
		t.Errorf("Unexpected content %q", data)
	}

	if err := manager.WriteLines("report.txt", nil); err != nil {
		t.Fatalf("WriteLines failed: %v", err)
	}
	data, _ = os.ReadFile(manager.Path("report.txt"))
	if len(data) != 0 {
		t.Errorf("Expected empty file, got %q", data)
	}
}

func TestGroupsRoundTrip(t *testing.T) {
	manager, _ := NewManager(t.TempDir())
	groups := []models.Group{{ID: 1, ScreenName: "a", Name: "A"}, {ID: 2, ScreenName: "b", Name: "B"}}

	if err := manager.WriteGroups("groups.json", "фотограф", groups); err != nil {
		t.Fatalf("WriteGroups failed: %v", err)
	}

	env, err := manager.ReadGroups("groups.json")
	if err != nil {
		t.Fatalf("ReadGroups failed: %v", err)
	}
	if env.Query != "фотограф" || env.Found != 2 || len(env.Groups) != 2 {
		t.Errorf("Unexpected envelope %+v", env)
	}
}

func TestReadGroupsShapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		found   int
		wantErr bool
	}{
		{"envelope", `{"query":"q","found":1,"groups":[{"id":1}]}`, 1, false},
		{"bare list", `[{"gid":1},{"group_id":2}]`, 2, false},
		{"empty groups", `{"query":"q","groups":[]}`, 0, false},
		{"missing groups", `{"query":"q"}`, 0, true},
		{"groups not a list", `{"groups":{"id":1}}`, 0, true},
		{"null groups", `{"groups":null}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, _ := NewManager(t.TempDir())
			os.WriteFile(manager.Path("g.json"), []byte(tt.content), 0644)

			env, err := manager.ReadGroups("g.json")
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				if !errors.IsConfig(err) {
					t.Errorf("Expected configuration error, got %v", err)
				}
				if !strings.Contains(err.Error(), "groups") {
					t.Errorf("Expected message to name the groups field, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if env.Found != tt.found {
				t.Errorf("Expected %d groups, got %d", tt.found, env.Found)
			}
		})
	}
}
