package config

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// loadDotEnv applies KEY=VALUE pairs from a dotenv file to the process environment.
// A missing file is not an error. Variables already set are left alone.
func loadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	vars, err := parseDotEnv(f)
	if err != nil {
		return err
	}
	for _, kv := range vars {
		if os.Getenv(kv[0]) != "" {
			continue
		}
		_ = os.Setenv(kv[0], kv[1])
	}
	return nil
}

// parseDotEnv returns key/value pairs in file order.
//
// Rules:
// - Empty lines and lines starting with # are ignored.
// - "export KEY=VALUE" is supported.
// - Quoted values keep their content verbatim, quotes stripped.
// - Unquoted values drop a trailing " # comment".
func parseDotEnv(r io.Reader) ([][2]string, error) {
	var out [][2]string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, [2]string{k, dotEnvValue(strings.TrimSpace(v))})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func dotEnvValue(v string) string {
	if len(v) >= 2 {
		q := v[0]
		if (q == '"' || q == '\'') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}
