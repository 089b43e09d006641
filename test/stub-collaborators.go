// Dev stub standing in for the expenses, analytics and notification
// services. Run while developing locally:
//
//	go run ./test
//
// Expenses answers on :8081, analytics on :8082, notifications on :8083.
// Set STUB_FAIL=1 to make every collaborator return 500s, useful for
// exercising the breaker, the fail-closed debt check and the
// consistency-alert path.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

func main() {
	failing := os.Getenv("STUB_FAIL") == "1"

	go serve(":8081", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("expenses: %s %s", r.Method, r.URL.Path)
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/debtStatus") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": {"canDelete": true}}`)
	})

	go serve(":8082", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("analytics: %s %s", r.Method, r.URL.Path)
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	log.Println("Collaborator stubs on :8081 (expenses), :8082 (analytics), :8083 (notifications)")
	serve(":8083", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("notifications: %s %s", r.Method, r.URL.Path)
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "initialized"}`)
	})
}

func serve(addr string, handler http.HandlerFunc) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handler)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
