package app

import (
    "bufio"
    "errors"
    "fmt"
    "os"
    "strings"
)

// LoadEnvFiles loads dotenv files of KEY=VALUE pairs into the process
// environment. Later files override earlier ones, but variables already set
// in the process before the call are never replaced. Missing files are
// skipped.
func LoadEnvFiles(paths ...string) error {
    fromFiles := map[string]bool{}
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        pairs, err := readEnvFile(p)
        if err != nil {
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return fmt.Errorf("env file %s: %w", p, err)
        }
        for _, kv := range pairs {
            if _, set := os.LookupEnv(kv[0]); set && !fromFiles[kv[0]] {
                continue
            }
            if err := os.Setenv(kv[0], kv[1]); err != nil {
                return err
            }
            fromFiles[kv[0]] = true
        }
    }
    return nil
}

func readEnvFile(path string) ([][2]string, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, err
    }
    defer f.Close()

    var out [][2]string
    scanner := bufio.NewScanner(f)
    for scanner.Scan() {
        line := strings.TrimSpace(scanner.Text())
        if line == "" || strings.HasPrefix(line, "#") {
            continue
        }
        line = strings.TrimPrefix(line, "export ")
        eq := strings.IndexByte(line, '=')
        if eq <= 0 {
            continue
        }
        key := strings.TrimSpace(line[:eq])
        out = append(out, [2]string{key, envValue(line[eq+1:])})
    }
    return out, scanner.Err()
}

// envValue strips matching quotes. Unquoted values lose a trailing " #"
// comment; quoted values are kept verbatim.
func envValue(raw string) string {
    v := strings.TrimSpace(raw)
    if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
        return v[1 : len(v)-1]
    }
    if i := strings.Index(v, " #"); i >= 0 {
        v = strings.TrimSpace(v[:i])
    }
    return v
}
