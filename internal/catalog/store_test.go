package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	c := loadFixture(t)

	if len(c.Categories) != 1 || c.Categories[0].ID != "management" {
		t.Errorf("Categories = %+v", c.Categories)
	}
	if len(c.RequiredFeatures) != 3 {
		t.Errorf("RequiredFeatures = %v", c.RequiredFeatures)
	}
	alpha := c.Extension("alpha")
	if alpha == nil {
		t.Fatal("alpha not found")
	}
	if alpha.LatestVersion.Version != "1.1.0" {
		t.Errorf("LatestVersion = %q", alpha.LatestVersion.Version)
	}
	if got := alpha.Versions[1].RequiredFeatures; len(got) != 1 || got[0] != "API Publishing" {
		t.Errorf("RequiredFeatures = %v", got)
	}
	if c.Extension("missing") != nil {
		t.Error("expected nil for unknown extension")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(testPath("nonexistent.json")); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"extensions": [`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed catalog")
	}

	if _, err := Parse([]byte(`{"extensions": [null]}`)); err == nil {
		t.Error("expected error for null extension entry")
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	c, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	data, err := c.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"categories\": [],\n  \"tags\": [],\n  \"requiredFeatures\": [],\n  \"extensions\": []\n}"
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestMarshal_Format(t *testing.T) {
	c := loadFixture(t)
	data, err := c.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if strings.HasSuffix(out, "\n") {
		t.Error("output should not end with a newline")
	}
	if !strings.Contains(out, "Demo <b>extension</b> & friends") {
		t.Error("HTML characters should not be escaped")
	}
	if !strings.Contains(out, "\n  \"extensions\": [\n    {\n      \"name\": \"alpha\"") {
		t.Errorf("unexpected indentation:\n%s", out)
	}
	if strings.Contains(out, "\"category\": \"\"") {
		t.Error("empty category should be omitted")
	}
	if strings.Contains(out, "requiredEnvironment") {
		t.Error("absent requiredEnvironment should be omitted")
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	c := loadFixture(t)
	if err := c.AddRelease(testManifest("zeta", "0.1.0"), testRelease("zeta", "0.1.0")); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "nested", "extensions.json")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path + tmpSuffix); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if reloaded.Extension("zeta") == nil {
		t.Error("zeta missing after reload")
	}

	first, _ := c.Marshal()
	second, _ := reloaded.Marshal()
	if string(first) != string(second) {
		t.Error("catalog changed across save and reload")
	}
}

func TestSave_PreservesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.json")
	if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	c := emptyCatalog()
	if err := c.Save(path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}
