package middleware

import "net/http"

// MethodOverride lets HTML forms issue PUT and DELETE: a POST carrying
// _method in the query string or body is rewritten before routing.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := r.URL.Query().Get("_method")
			if method == "" {
				method = r.PostFormValue("_method")
			}
			switch method {
			case http.MethodPut, http.MethodDelete:
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}
