package app

import (
    "os"
    "path/filepath"
    "testing"
)

func writeFile(t *testing.T, path string, content string) {
    t.Helper()
    if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
        t.Fatalf("write %s: %v", path, err)
    }
}

// unsetEnv clears key for the duration of the test and restores it after.
func unsetEnv(t *testing.T, key string) {
    t.Helper()
    t.Setenv(key, "")
    if err := os.Unsetenv(key); err != nil {
        t.Fatalf("unsetenv %s: %v", key, err)
    }
}

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
    unsetEnv(t, "SS_FOO")
    unsetEnv(t, "SS_BAR")
    unsetEnv(t, "SS_BAZ")
    unsetEnv(t, "SS_QUX")

    dir := t.TempDir()
    envPath := filepath.Join(dir, ".env.test")
    writeFile(t, envPath, "\n# sample dotenv file\nSS_FOO=alpha\nexport SS_BAR=\"beta # kept\"\nSS_BAZ=gamma # dropped\nnot a pair\nSS_QUX='delta'\n")

    if err := LoadEnvFiles(envPath); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    want := map[string]string{
        "SS_FOO": "alpha",
        "SS_BAR": "beta # kept",
        "SS_BAZ": "gamma",
        "SS_QUX": "delta",
    }
    for k, v := range want {
        if got := os.Getenv(k); got != v {
            t.Fatalf("%s=%q, want %q", k, got, v)
        }
    }
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
    unsetEnv(t, "SS_K")
    dir := t.TempDir()
    a := filepath.Join(dir, ".env.a")
    b := filepath.Join(dir, ".env.b")
    writeFile(t, a, "SS_K=first\n")
    writeFile(t, b, "SS_K=second\n")

    if err := LoadEnvFiles(a, filepath.Join(dir, "missing"), b); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("SS_K"); got != "second" {
        t.Fatalf("override order failed: got %q, want second", got)
    }
}

func TestLoadEnvFiles_ProcessEnvWins(t *testing.T) {
    t.Setenv("SS_KEEP", "from-process")
    path := filepath.Join(t.TempDir(), ".env")
    writeFile(t, path, "SS_KEEP=from-file\n")

    if err := LoadEnvFiles(path); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("SS_KEEP"); got != "from-process" {
        t.Fatalf("process env overwritten: %q", got)
    }
}
