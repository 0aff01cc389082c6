package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/kova98/harvest/queries"
)

func queryInt(r *http.Request, name string, defaultValue int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return defaultValue, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func queryFloat(r *http.Request, name string) (*float64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &v, true
}

// queryLimit accepts 1..queries.MaxLimit.
func queryLimit(r *http.Request, defaultValue int) (int, bool) {
	limit, ok := queryInt(r, "limit", defaultValue)
	if !ok || limit < 1 || limit > queries.MaxLimit {
		return 0, false
	}
	return limit, true
}

// queryList splits a comma separated parameter, dropping blanks.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
