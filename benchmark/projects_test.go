package benchmark

import (
	"fmt"
	"net/http"
	"os"
	"testing"
)

// Benchmarks against a locally running keeper server. Set KEEPER_BENCH_TOKEN
// to a valid bearer token; the server is expected on port 8000.

func benchToken(b *testing.B) string {
	token := os.Getenv("KEEPER_BENCH_TOKEN")
	if token == "" {
		b.Skip("KEEPER_BENCH_TOKEN not set")
	}
	return token
}

func BenchmarkListProjects(b *testing.B) {
	token := benchToken(b)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r, _ := http.NewRequest("GET", "http://localhost:8000/projects", nil)
		r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
		resp, err := http.DefaultClient.Do(r)
		if err == nil {
			_ = resp.Body.Close()
		}
	}
}

func BenchmarkGetProject(b *testing.B) {
	token := benchToken(b)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r, _ := http.NewRequest("GET", "http://localhost:8000/projects/1", nil)
		r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
		resp, err := http.DefaultClient.Do(r)
		if err == nil {
			_ = resp.Body.Close()
		}
	}
}
