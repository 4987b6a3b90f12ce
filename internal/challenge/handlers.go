package challenge

import (
	"encoding/json"
	"net/http"
)

// newMux builds the Challenge Controller's HTTP surface (§4.6.2). Every
// response sets Connection: close and permissive CORS; OPTIONS is
// preflight-200 regardless of path.
func newMux(s *Session) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", withCommonHeaders(s.handleIndex))
	mux.HandleFunc("/approve", withCommonHeaders(s.handleApprove))
	mux.HandleFunc("/deny", withCommonHeaders(s.handleDeny))
	mux.HandleFunc("/favicon.ico", withCommonHeaders(handleFavicon))
	return mux
}

func withCommonHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func (s *Session) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	body, err := renderPage(s)
	if err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Session) handleApprove(w http.ResponseWriter, r *http.Request) {
	if !isGetOrPost(r.Method) {
		http.NotFound(w, r)
		return
	}
	s.resolve(true, "")
	writeJSON(w, map[string]string{"status": "approved"})
}

func (s *Session) handleDeny(w http.ResponseWriter, r *http.Request) {
	if !isGetOrPost(r.Method) {
		http.NotFound(w, r)
		return
	}
	s.resolve(false, "user denial")
	writeJSON(w, map[string]string{"status": "denied"})
}

func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func isGetOrPost(method string) bool {
	return method == http.MethodGet || method == http.MethodPost
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
