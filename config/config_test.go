package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/theothertomelliott/must"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	if !must.BeNoError(t, err) {
		return
	}
	must.BeEqual(t, Config{
		Address:     "127.0.0.1",
		Port:        8000,
		Backlog:     5,
		ContentFile: "vampire.html",
	}, cfg)
	must.BeEqual(t, "127.0.0.1:8000", cfg.HostPort())
}

func TestLoadEnvironment(t *testing.T) {
	os.Setenv("VAMPIRE_PORT", "8123")
	os.Setenv("VAMPIRE_INHERIT_LISTENER", "true")
	defer os.Unsetenv("VAMPIRE_PORT")
	defer os.Unsetenv("VAMPIRE_INHERIT_LISTENER")

	cfg, err := Load(New())
	if !must.BeNoError(t, err) {
		return
	}
	must.BeEqual(t, 8123, cfg.Port)
	must.BeEqual(t, true, cfg.InheritListener)
}

func TestLoadFile(t *testing.T) {
	testDir, err := ioutil.TempDir("", "vampireConfig")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(testDir)

	path := filepath.Join(testDir, "vampire.yaml")
	content := "address: 0.0.0.0\nport: 9001\nbacklog: 16\ncontent_file: index.html\n"
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := New()
	if !must.BeNoError(t, ReadFile(v, path)) {
		return
	}
	cfg, err := Load(v)
	if !must.BeNoError(t, err) {
		return
	}
	must.BeEqual(t, Config{
		Address:     "0.0.0.0",
		Port:        9001,
		Backlog:     16,
		ContentFile: "index.html",
	}, cfg)
}

func TestReadFileMissing(t *testing.T) {
	err := ReadFile(New(), filepath.Join(os.TempDir(), "no-such-vampire-config.yaml"))
	if err == nil {
		t.Error("expected an error for a missing config file")
	}
	must.BeNoError(t, ReadFile(New(), ""))
}

func TestValidate(t *testing.T) {
	valid := Config{Address: "127.0.0.1", Port: 8000, Backlog: 5, ContentFile: "vampire.html"}
	var tests = []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:   "valid",
			modify: func(c *Config) {},
		},
		{
			name:    "empty address",
			modify:  func(c *Config) { c.Address = " " },
			wantErr: true,
		},
		{
			name:    "zero port",
			modify:  func(c *Config) { c.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too large",
			modify:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero backlog",
			modify:  func(c *Config) { c.Backlog = 0 },
			wantErr: true,
		},
		{
			name:    "no content file",
			modify:  func(c *Config) { c.ContentFile = "" },
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid
			test.modify(&cfg)
			err := cfg.Validate()
			if test.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !test.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	testDir, err := ioutil.TempDir("", "vampireConfigPath")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(testDir)

	testDir, err = filepath.EvalSymlinks(testDir)
	if err != nil {
		t.Fatal(err)
	}

	homeDir := filepath.Join(testDir, "home")
	nested := filepath.Join(testDir, "project", "sub")
	for _, dir := range []string{homeDir, nested} {
		if err := os.MkdirAll(dir, 0777); err != nil {
			t.Fatal(err)
		}
	}

	got, err := GetConfigPath(homeDir, nested)
	must.BeNoError(t, err)
	must.BeEqual(t, "", got)

	homeConfig := filepath.Join(homeDir, "vampire.json")
	if err := ioutil.WriteFile(homeConfig, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = GetConfigPath(homeDir, nested)
	must.BeNoError(t, err)
	must.BeEqual(t, homeConfig, got)

	projectConfig := filepath.Join(testDir, "project", "vampire.yaml")
	if err := ioutil.WriteFile(projectConfig, []byte("port: 8001\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = GetConfigPath(homeDir, nested)
	must.BeNoError(t, err)
	must.BeEqual(t, projectConfig, got)

	dotConfig := filepath.Join(nested, ".vampire.yaml")
	if err := ioutil.WriteFile(dotConfig, []byte("port: 8002\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = GetConfigPath(homeDir, nested)
	must.BeNoError(t, err)
	must.BeEqual(t, dotConfig, got)
}

func TestGetConfigPathPrefersDotFile(t *testing.T) {
	testDir, err := ioutil.TempDir("", "vampireDotConfig")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(testDir)

	testDir, err = filepath.EvalSymlinks(testDir)
	if err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		".vampire.toml": "port = 8003\n",
		"vampire.yaml":  "port: 8004\n",
	}
	for name, content := range files {
		if err := ioutil.WriteFile(filepath.Join(testDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := GetConfigPath("", testDir)
	must.BeNoError(t, err)
	must.BeEqual(t, filepath.Join(testDir, ".vampire.toml"), got)

	v := New()
	if err := ReadFile(v, got); !must.BeNoError(t, err) {
		return
	}
	cfg, err := Load(v)
	if !must.BeNoError(t, err) {
		return
	}
	must.BeEqual(t, 8003, cfg.Port)
}
