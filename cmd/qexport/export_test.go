package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := `
credentials:
  datacenter_id: test
  org_id: org
  user_id: UR_1
  api_token: tok
  username: t@example.com
base_url: ` + baseURL + `
export:
  interval: 5ms
  timeout: 2s
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func resetExportFlags(t *testing.T) {
	t.Helper()
	v := viper.GetViper()
	for k, val := range map[string]interface{}{
		"survey": "", "name": "", "out": "", "timeout": "", "interval": "",
		"keep_annotations": false, "drop_metadata_rows": false,
		"log_level": "", "log_format": "",
	} {
		v.Set(k, val)
	}
}

func TestRunExport_BySurveyID(t *testing.T) {
	srv := fakeVendorServer(t, "ResponseId,Q1 (validation: required)\nR_1,Yes\n")
	defer srv.Close()

	resetExportFlags(t)
	v := viper.GetViper()
	out := filepath.Join(t.TempDir(), "out.csv")
	v.Set("config", writeTestConfig(t, srv.URL))
	v.Set("survey", "SV_1")
	v.Set("out", out)

	if err := runExport(context.Background()); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "ResponseId,Q1\nR_1,Yes\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRunExport_ByName(t *testing.T) {
	srv := fakeVendorServer(t, "a,b\n1,2\n")
	defer srv.Close()

	resetExportFlags(t)
	v := viper.GetViper()
	out := filepath.Join(t.TempDir(), "beta.csv")
	v.Set("config", writeTestConfig(t, srv.URL))
	v.Set("name", "beta")
	v.Set("out", out)
	v.Set("keep_annotations", true)

	if err := runExport(context.Background()); err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestRunExport_RequiresSelector(t *testing.T) {
	resetExportFlags(t)
	if err := runExport(context.Background()); err == nil {
		t.Fatalf("expected error when neither --survey nor --name is given")
	}
}
