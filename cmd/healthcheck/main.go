package main

import (
	"net/http"
	"os"
	"time"
)

// Container healthcheck: exits non-zero when the battle server does not
// answer on its version endpoint.
func main() {
	addr := os.Getenv("POKEBATTLE_ADDR")
	if addr == "" {
		addr = "http://127.0.0.1:8080"
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(addr + "/api/version")
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
	os.Exit(0)
}
