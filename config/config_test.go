package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestReadCreatesDefault(t *testing.T) {
	dir, err := ioutil.TempDir("", "netinv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "netinv.conf")
	cfg, err := Read(filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filename); err != nil {
		t.Errorf("default config file is expected to be created: %s", err)
	}
	if cfg.Output != OutputJSON {
		t.Errorf("default output is expected to be json, got %s", cfg.Output)
	}
	if cfg.LogLevel != "warning" {
		t.Errorf("default log level is expected to be warning, got %s", cfg.LogLevel)
	}
	if !cfg.NaturalSort {
		t.Error("natural sort is expected to be on by default")
	}
	if cfg.Readline.HistoryFile != ExpandPath("~/.netinv_history") {
		t.Errorf("unexpected history file %s", cfg.Readline.HistoryFile)
	}
}

func TestReadValues(t *testing.T) {
	dir, err := ioutil.TempDir("", "netinv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "netinv.conf")
	contents := `[main]
log_level = debug
output = yaml
natural_sort = false

[environ]
CC_HOST = cc.example.com
`
	if err := ioutil.WriteFile(filename, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Read(filename)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != OutputYAML || cfg.LogLevel != "debug" || cfg.NaturalSort {
		t.Errorf("config values are not read properly: %+v", cfg)
	}
	if cfg.LocalEnvironment["CC_HOST"] != "cc.example.com" {
		t.Errorf("environ section is not read properly: %v", cfg.LocalEnvironment)
	}

	os.Unsetenv("CC_HOST")
	if err := cfg.ExportEnvironment(); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv("CC_HOST")
	if os.Getenv("CC_HOST") != "cc.example.com" {
		t.Errorf("CC_HOST is expected to be exported")
	}
}

func TestInvalidOutput(t *testing.T) {
	dir, err := ioutil.TempDir("", "netinv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "netinv.conf")
	if err := ioutil.WriteFile(filename, []byte("[main]\noutput = xml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(filename); err == nil {
		t.Error("output xml is expected to be rejected")
	}
}

func TestExpandPath(t *testing.T) {
	os.Setenv("HOME", "/home/netinv")
	if p := ExpandPath("~/.netinv_history"); p != "/home/netinv/.netinv_history" {
		t.Errorf("unexpected expanded path %s", p)
	}
}
